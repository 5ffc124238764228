// backend/src/processors/record_processor.go
package processors

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/logger"
	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// RecordProcessor normalizes raw stored rows into canonical FinancialRecords.
// Each source kind has its own relevant date field, sign convention and status
// vocabulary; everything downstream sees only the canonical shape.
type RecordProcessor struct{}

func NewRecordProcessor() *RecordProcessor { return &RecordProcessor{} }

// Process flattens a raw snapshot into canonical records. Rows with an
// unparseable date or a non-numeric amount are dropped; a missing amount
// counts as zero and a missing business unit as the empty string. Seq records
// insertion order and is the tie-break for equal-date balance snapshots.
func (p *RecordProcessor) Process(snap *models.RawSnapshot) []models.FinancialRecord {
	if snap == nil {
		return nil
	}

	records := make([]models.FinancialRecord, 0,
		len(snap.Payables)+len(snap.Revenues)+len(snap.Transactions)+len(snap.ForecastEntries)+len(snap.Balances))
	seq := 0

	add := func(rec models.FinancialRecord) {
		rec.Seq = seq
		seq++
		records = append(records, rec)
	}

	for _, row := range snap.Payables {
		date := utils.ParseDate(row.PaymentDate)
		amount, ok := parseAmount(row.Amount)
		if date.IsZero() || !ok {
			dropRow(string(models.SourceAccountsPayable), row.PaymentDate, row.Amount)
			continue
		}
		add(models.FinancialRecord{
			SourceKind:   models.SourceAccountsPayable,
			Status:       normalizeStatus(row.Status, models.StatusForecast),
			BusinessUnit: utils.NormalizeUnitCode(row.BusinessUnit),
			Date:         date,
			Amount:       amount.Abs(),
			Category:     row.Category,
			Creditor:     row.Creditor,
		})
	}

	for _, row := range snap.Revenues {
		date := utils.ParseDate(row.IssueDate)
		amount, ok := parseAmount(row.Amount)
		if date.IsZero() || !ok {
			dropRow(string(models.SourceRevenue), row.IssueDate, row.Amount)
			continue
		}
		add(models.FinancialRecord{
			SourceKind:   models.SourceRevenue,
			Status:       normalizeStatus(row.Status, models.StatusForecast),
			BusinessUnit: utils.NormalizeUnitCode(row.BusinessUnit),
			Date:         date,
			Amount:       amount.Abs(),
			Category:     row.Category,
		})
	}

	for _, row := range snap.Transactions {
		date := utils.ParseDate(row.TransactionDate)
		amount, ok := parseAmount(row.Amount)
		if date.IsZero() || !ok {
			dropRow(string(models.SourceTransaction), row.TransactionDate, row.Amount)
			continue
		}
		// Statement lines are settled facts; the sign stays as imported.
		add(models.FinancialRecord{
			SourceKind:   models.SourceTransaction,
			Status:       models.StatusActual,
			BusinessUnit: utils.NormalizeUnitCode(row.BusinessUnit),
			Date:         date,
			Amount:       amount,
			Category:     row.Category,
			Bank:         row.Bank,
		})
	}

	for _, row := range snap.ForecastEntries {
		date := utils.ParseDate(row.DueDate)
		amount, ok := parseAmount(row.Amount)
		if date.IsZero() || !ok {
			dropRow(string(models.SourceForecastEntry), row.DueDate, row.Amount)
			continue
		}
		add(models.FinancialRecord{
			SourceKind:   models.SourceForecastEntry,
			Status:       normalizeStatus(row.Status, models.StatusForecast),
			BusinessUnit: utils.NormalizeUnitCode(row.BusinessUnit),
			Date:         date,
			Amount:       amount.Abs(),
			Category:     row.Category,
		})
	}

	for _, row := range snap.Balances {
		date := utils.ParseDate(row.BalanceDate)
		amount, ok := parseAmount(row.Balance)
		if date.IsZero() || !ok {
			dropRow(string(models.SourceBalanceSnapshot), row.BalanceDate, row.Balance)
			continue
		}
		add(models.FinancialRecord{
			SourceKind:   models.SourceBalanceSnapshot,
			Status:       models.StatusActual,
			BusinessUnit: utils.NormalizeUnitCode(row.BusinessUnit),
			Date:         date,
			Amount:       amount,
			Bank:         row.Bank,
		})
	}

	return records
}

// normalizeStatus maps the free-text status vocabularies onto the two tracks.
// "previsto"/"pendente" plan the movement; "realizado"/"paga"/"pago" settle it.
// Unknown strings fall back to the caller's default.
func normalizeStatus(raw string, fallback models.RecordStatus) models.RecordStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "previsto", "pendente":
		return models.StatusForecast
	case "realizado", "paga", "pago":
		return models.StatusActual
	default:
		return fallback
	}
}

// parseAmount parses a stored amount. Empty means zero (partially-normalized
// input stays usable); anything non-empty that fails to parse marks the row
// malformed.
func parseAmount(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, true
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func dropRow(kind, date, amount string) {
	if logger.L != nil {
		logger.L.Debug("Dropping malformed row", "sourceKind", kind, "date", date, "amount", amount)
	}
}
