package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// PeriodKind selects the month set for the year-over-year comparison.
type PeriodKind string

const (
	PeriodLast3Months  PeriodKind = "last_3_months"
	PeriodLast6Months  PeriodKind = "last_6_months"
	PeriodLast12Months PeriodKind = "last_12_months"
	PeriodCurrentYear  PeriodKind = "current_year"
	PeriodCustom       PeriodKind = "custom"
)

// PeriodSelector picks which months to compare. Start/End only apply to
// PeriodCustom.
type PeriodSelector struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// MonthYear is one included month of the comparison.
type MonthYear struct {
	Month time.Month
	Year  int
}

var monthLabels = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthSet computes the {month, year} pairs a period selector covers,
// excluding any pair in the future relative to now. Fixed-count periods walk
// backward month by month from the current calendar month, wrapping year
// boundaries; naive date-range iteration over variable-length months
// off-by-ones at period edges.
func MonthSet(now time.Time, sel PeriodSelector) []MonthYear {
	switch sel.Kind {
	case PeriodLast3Months, PeriodLast6Months, PeriodLast12Months:
		count := 3
		if sel.Kind == PeriodLast6Months {
			count = 6
		} else if sel.Kind == PeriodLast12Months {
			count = 12
		}
		month := now.Month()
		year := now.Year()
		pairs := make([]MonthYear, count)
		for i := count - 1; i >= 0; i-- {
			pairs[i] = MonthYear{Month: month, Year: year}
			month--
			if month == 0 {
				month = time.December
				year--
			}
		}
		return pairs

	case PeriodCurrentYear:
		var pairs []MonthYear
		for m := time.January; m <= now.Month(); m++ {
			pairs = append(pairs, MonthYear{Month: m, Year: now.Year()})
		}
		return pairs

	case PeriodCustom:
		if sel.Start.IsZero() || sel.End.IsZero() {
			return nil
		}
		var pairs []MonthYear
		m := sel.Start.Month()
		y := sel.Start.Year()
		for y < sel.End.Year() || (y == sel.End.Year() && m <= sel.End.Month()) {
			future := y > now.Year() || (y == now.Year() && m > now.Month())
			if !future {
				pairs = append(pairs, MonthYear{Month: m, Year: y})
			}
			m++
			if m > time.December {
				m = time.January
				y++
			}
		}
		return pairs
	}
	return nil
}

// ComparisonProcessor builds the month-over-same-month-last-year buckets.
type ComparisonProcessor struct {
	classifier *CategoryClassifier
}

func NewComparisonProcessor(classifier *CategoryClassifier) *ComparisonProcessor {
	return &ComparisonProcessor{classifier: classifier}
}

// BuildMonthlyComparison aggregates, for every included month number, the
// pair's year against the immediately prior year for the same month number —
// "this September" against "last September", never a sliding 12-report window.
func (p *ComparisonProcessor) BuildMonthlyComparison(records []models.FinancialRecord, companies []models.Company, now time.Time, sel PeriodSelector) []models.MonthlyComparisonBucket {
	nameByCode := make(map[string]string, len(companies))
	for _, company := range companies {
		nameByCode[utils.NormalizeUnitCode(company.Code)] = company.Name
	}

	pairs := MonthSet(now, sel)
	buckets := make([]models.MonthlyComparisonBucket, 0, len(pairs))
	for _, pair := range pairs {
		buckets = append(buckets, models.MonthlyComparisonBucket{
			Month:        int(pair.Month),
			MonthLabel:   monthLabels[pair.Month-1],
			CurrentYear:  p.monthSnapshot(records, nameByCode, pair.Month, pair.Year),
			PreviousYear: p.monthSnapshot(records, nameByCode, pair.Month, pair.Year-1),
		})
	}
	return buckets
}

// monthSnapshot aggregates the settled figures of one calendar month.
func (p *ComparisonProcessor) monthSnapshot(records []models.FinancialRecord, nameByCode map[string]string, month time.Month, year int) models.MonthlySnapshot {
	snap := models.MonthlySnapshot{
		Year:          year,
		RevenueByUnit: make(map[string]decimal.Decimal),
		CMVByUnit:     make(map[string]decimal.Decimal),
	}

	for _, rec := range records {
		if rec.Date.Month() != month || rec.Date.Year() != year {
			continue
		}

		switch {
		case rec.SourceKind == models.SourceRevenue && rec.Status == models.StatusActual:
			snap.Revenue = snap.Revenue.Add(rec.Amount.Abs())
			unit := unitLabel(nameByCode, rec.BusinessUnit)
			snap.RevenueByUnit[unit] = snap.RevenueByUnit[unit].Add(rec.Amount.Abs())

		case rec.SourceKind == models.SourceForecastEntry && rec.Status == models.StatusActual && p.classifier.IsRevenueMovement(rec.Category):
			// Paid cash-movement entries count as revenue, not expense.
			snap.Revenue = snap.Revenue.Add(rec.Amount.Abs())
			unit := unitLabel(nameByCode, rec.BusinessUnit)
			snap.RevenueByUnit[unit] = snap.RevenueByUnit[unit].Add(rec.Amount.Abs())

		case p.classifier.IsCMV(rec) && rec.Status == models.StatusActual:
			snap.COGS = snap.COGS.Add(rec.Amount.Abs())
			unit := unitLabel(nameByCode, rec.BusinessUnit)
			snap.CMVByUnit[unit] = snap.CMVByUnit[unit].Add(rec.Amount.Abs())
		}

		if p.classifier.IsLoan(rec) {
			snap.Loans = snap.Loans.Add(rec.Amount.Abs())
		}
	}

	snap.DebtRatio = RatioPercent(snap.Loans, snap.Revenue)
	return snap
}

func unitLabel(nameByCode map[string]string, code string) string {
	if name, ok := nameByCode[code]; ok && name != "" {
		return name
	}
	return code
}

// RatioPercent computes part/whole*100, yielding 0 when the whole is zero so
// no NaN or infinity ever reaches a consumer.
func RatioPercent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
