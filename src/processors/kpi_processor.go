package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// KPIProcessor composes the named dashboard cards from the period totals.
type KPIProcessor struct {
	totals *TotalsProcessor
}

func NewKPIProcessor(totals *TotalsProcessor) *KPIProcessor {
	return &KPIProcessor{totals: totals}
}

// BuildReport computes all dashboard cards for the closed [start, end] range.
// Flow totals only see records inside the range; the Initial Balance is the
// freshest known balance at or before end regardless of start, since banks
// report balances independently of the reporting window. Forecast and actual
// tracks are composed independently and never mixed.
func (p *KPIProcessor) BuildReport(records []models.FinancialRecord, start, end time.Time) *models.KPIReport {
	ranged := recordsInRange(records, start, end)

	initial := LatestBalancesAsOf(records, end)
	inflows := p.totals.TotalInflows(ranged)
	outflows := p.totals.TotalOutflows(ranged)
	revenue := p.totals.RevenueTotals(ranged)
	cmv := p.totals.CMVTotals(ranged)
	expenses := p.totals.ExpenseTotals(ranged)

	report := &models.KPIReport{
		// Balance snapshots carry no forecast track of their own, so both
		// tracks start from the same figure.
		InitialBalance: kpiValue(initial, initial),
		TotalInflows:   kpiValue(inflows.Forecast, inflows.Actual),
		TotalOutflows:  kpiValue(outflows.Forecast, outflows.Actual),
		FinalBalance: kpiValue(
			initial.Add(inflows.Forecast).Sub(outflows.Forecast),
			initial.Add(inflows.Actual).Sub(outflows.Actual),
		),
		DirectRevenue: kpiValue(revenue.Forecast, revenue.Actual),
		CMV:           kpiValue(cmv.Forecast, cmv.Actual),
		TotalExpenses: kpiValue(expenses.Forecast, expenses.Actual),
		OperatingResult: kpiValue(
			revenue.Forecast.Sub(cmv.Forecast).Sub(expenses.Forecast),
			revenue.Actual.Sub(cmv.Actual).Sub(expenses.Actual),
		),
	}

	report.CMVPercentOfRevenue = RatioPercent(cmv.Actual, revenue.Actual)
	report.ExpensesPercentOfRevenue = RatioPercent(expenses.Actual, revenue.Actual)
	return report
}

func kpiValue(forecasted, actual decimal.Decimal) models.KPIValue {
	return models.KPIValue{
		Forecasted: forecasted,
		Actual:     actual,
		Variance:   actual.Sub(forecasted),
	}
}

// recordsInRange keeps the records whose relevant date falls inside the
// closed interval. The input slice is never mutated.
func recordsInRange(records []models.FinancialRecord, start, end time.Time) []models.FinancialRecord {
	start = utils.DayFloor(start)
	end = utils.DayFloor(end)
	ranged := make([]models.FinancialRecord, 0, len(records))
	for _, rec := range records {
		day := utils.DayFloor(rec.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		ranged = append(ranged, rec)
	}
	return ranged
}
