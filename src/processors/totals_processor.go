package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
)

// StatusTotals carries the two parallel tracks of a monetary aggregate.
type StatusTotals struct {
	Forecast decimal.Decimal `json:"forecast"`
	Actual   decimal.Decimal `json:"actual"`
}

func (t *StatusTotals) add(status models.RecordStatus, amount decimal.Decimal) {
	if status == models.StatusActual {
		t.Actual = t.Actual.Add(amount)
	} else {
		t.Forecast = t.Forecast.Add(amount)
	}
}

// TotalsProcessor computes the period totals the KPI cards are built from.
// Every method is a pure fold over its input slice.
type TotalsProcessor struct {
	classifier *CategoryClassifier
}

func NewTotalsProcessor(classifier *CategoryClassifier) *TotalsProcessor {
	return &TotalsProcessor{classifier: classifier}
}

// SplitByStatus partitions records by track and sums magnitudes per partition.
func (p *TotalsProcessor) SplitByStatus(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		totals.add(rec.Status, rec.Amount.Abs())
	}
	return totals
}

// TotalInflows sums revenue records plus positive-amount bank transactions.
func (p *TotalsProcessor) TotalInflows(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		switch rec.SourceKind {
		case models.SourceRevenue:
			totals.add(rec.Status, rec.Amount.Abs())
		case models.SourceTransaction:
			if rec.Amount.IsPositive() {
				totals.add(rec.Status, rec.Amount)
			}
		}
	}
	return totals
}

// TotalOutflows sums accounts-payable records plus negative-amount bank
// transactions, both restricted by the non-operational exclusion list.
func (p *TotalsProcessor) TotalOutflows(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		switch rec.SourceKind {
		case models.SourceAccountsPayable:
			if !p.classifier.IsNonOperational(rec.Category) {
				totals.add(rec.Status, rec.Amount.Abs())
			}
		case models.SourceTransaction:
			if rec.Amount.IsNegative() && !p.classifier.IsNonOperational(rec.Category) {
				totals.add(rec.Status, rec.Amount.Abs())
			}
		}
	}
	return totals
}

// RevenueTotals sums revenue records plus forecasted entries redirected into
// revenue by the "movimento em dinheiro" rule.
func (p *TotalsProcessor) RevenueTotals(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		switch rec.SourceKind {
		case models.SourceRevenue:
			totals.add(rec.Status, rec.Amount.Abs())
		case models.SourceForecastEntry:
			if p.classifier.IsRevenueMovement(rec.Category) {
				totals.add(rec.Status, rec.Amount.Abs())
			}
		}
	}
	return totals
}

// CMVTotals derives cost of goods sold from accounts-payable records matching
// the CMV chart-of-accounts pattern. Magnitudes regardless of imported sign.
func (p *TotalsProcessor) CMVTotals(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		if p.classifier.IsCMV(rec) {
			totals.add(rec.Status, rec.Amount.Abs())
		}
	}
	return totals
}

// ExpenseTotals sums accounts-payable records through the Total-Expenses
// exclusion list. CMV rows are left out so the operating result
// (revenue - CMV - expenses) does not count goods purchases twice.
func (p *TotalsProcessor) ExpenseTotals(records []models.FinancialRecord) StatusTotals {
	var totals StatusTotals
	for _, rec := range records {
		if rec.SourceKind != models.SourceAccountsPayable {
			continue
		}
		if p.classifier.IsExpenseExcluded(rec.Category) || p.classifier.IsCMV(rec) {
			continue
		}
		totals.add(rec.Status, rec.Amount.Abs())
	}
	return totals
}

// LoanTotal sums settled loan/financing payments.
func (p *TotalsProcessor) LoanTotal(records []models.FinancialRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if p.classifier.IsLoan(rec) {
			total = total.Add(rec.Amount.Abs())
		}
	}
	return total
}
