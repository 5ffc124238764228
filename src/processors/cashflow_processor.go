package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// SeriesMode selects how the daily series accumulates.
type SeriesMode string

const (
	// ModeDaily: each day reflects only its own records; a day without a
	// balance snapshot has initial balance zero, not the prior day's.
	ModeDaily SeriesMode = "daily"
	// ModeAccumulated: each day carries cumulative flows since the earliest
	// record and the latest known balance per (bank, unit) as of that day.
	ModeAccumulated SeriesMode = "accumulated"
)

type flowDirection int

const (
	flowNone flowDirection = iota
	flowIn
	flowOut
)

// classifyFlow decides how a canonical record moves cash, applying the
// non-operational exclusion and the revenue-movement redirect. Balance
// snapshots carry no flow.
func classifyFlow(c *CategoryClassifier, rec models.FinancialRecord) (flowDirection, decimal.Decimal) {
	switch rec.SourceKind {
	case models.SourceRevenue:
		return flowIn, rec.Amount.Abs()
	case models.SourceTransaction:
		if rec.Amount.IsPositive() {
			return flowIn, rec.Amount
		}
		if rec.Amount.IsNegative() && !c.IsNonOperational(rec.Category) {
			return flowOut, rec.Amount.Abs()
		}
	case models.SourceAccountsPayable:
		if !c.IsNonOperational(rec.Category) {
			return flowOut, rec.Amount.Abs()
		}
	case models.SourceForecastEntry:
		if c.IsRevenueMovement(rec.Category) {
			return flowIn, rec.Amount.Abs()
		}
		if !c.IsNonOperational(rec.Category) {
			return flowOut, rec.Amount.Abs()
		}
	}
	return flowNone, decimal.Zero
}

type dayFlows struct {
	forecastIn, actualIn   decimal.Decimal
	forecastOut, actualOut decimal.Decimal
}

func (f *dayFlows) add(dir flowDirection, status models.RecordStatus, amount decimal.Decimal) {
	switch {
	case dir == flowIn && status == models.StatusActual:
		f.actualIn = f.actualIn.Add(amount)
	case dir == flowIn:
		f.forecastIn = f.forecastIn.Add(amount)
	case dir == flowOut && status == models.StatusActual:
		f.actualOut = f.actualOut.Add(amount)
	case dir == flowOut:
		f.forecastOut = f.forecastOut.Add(amount)
	}
}

type balanceKey struct {
	bank string
	unit string
}

// updateLatest keeps the best-so-far balance snapshot per (bank, unit).
// A later date wins; on an equal date the higher insertion sequence wins,
// which makes the reduction deterministic.
func updateLatest(best map[balanceKey]models.FinancialRecord, rec models.FinancialRecord) {
	key := balanceKey{bank: rec.Bank, unit: rec.BusinessUnit}
	cur, ok := best[key]
	if !ok || rec.Date.After(cur.Date) || (rec.Date.Equal(cur.Date) && rec.Seq >= cur.Seq) {
		best[key] = rec
	}
}

func sumBalances(best map[balanceKey]models.FinancialRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range best {
		total = total.Add(rec.Amount)
	}
	return total
}

// LatestBalancesAsOf reduces all balance snapshots dated at or before asOf to
// the freshest one per (bank, unit) and sums them. This is the "freshest known
// balance" rule the KPI Initial Balance uses, independent of any range start.
func LatestBalancesAsOf(records []models.FinancialRecord, asOf time.Time) decimal.Decimal {
	asOf = utils.DayFloor(asOf)
	best := make(map[balanceKey]models.FinancialRecord)
	for _, rec := range records {
		if rec.SourceKind != models.SourceBalanceSnapshot {
			continue
		}
		if utils.DayFloor(rec.Date).After(asOf) {
			continue
		}
		updateLatest(best, rec)
	}
	return sumBalances(best)
}

// CashflowProcessor builds the daily cash-flow series.
type CashflowProcessor struct {
	classifier *CategoryClassifier
}

func NewCashflowProcessor(classifier *CategoryClassifier) *CashflowProcessor {
	return &CashflowProcessor{classifier: classifier}
}

// BuildDailySeries produces one point per calendar day of the closed
// [start, end] interval. Records dated before start still feed accumulated
// mode (cumulative flows and carried balances); daily mode only ever looks at
// exact-date matches. The input slice is treated as an immutable snapshot.
func (p *CashflowProcessor) BuildDailySeries(records []models.FinancialRecord, start, end time.Time, mode SeriesMode) []models.DailyCashflowPoint {
	start = utils.DayFloor(start)
	end = utils.DayFloor(end)
	if end.Before(start) {
		return []models.DailyCashflowPoint{}
	}

	flowsByDay := make(map[string]*dayFlows)
	balancesByDay := make(map[string][]models.FinancialRecord)
	var seed dayFlows
	var priorBalances []models.FinancialRecord

	for _, rec := range records {
		day := utils.DayFloor(rec.Date)
		if day.After(end) {
			continue
		}

		if rec.SourceKind == models.SourceBalanceSnapshot {
			if day.Before(start) {
				priorBalances = append(priorBalances, rec)
			} else {
				key := utils.FormatDate(day)
				balancesByDay[key] = append(balancesByDay[key], rec)
			}
			continue
		}

		dir, amount := classifyFlow(p.classifier, rec)
		if dir == flowNone {
			continue
		}
		if day.Before(start) {
			seed.add(dir, rec.Status, amount)
			continue
		}
		key := utils.FormatDate(day)
		f, ok := flowsByDay[key]
		if !ok {
			f = &dayFlows{}
			flowsByDay[key] = f
		}
		f.add(dir, rec.Status, amount)
	}

	if mode == ModeAccumulated {
		return p.buildAccumulated(start, end, flowsByDay, balancesByDay, seed, priorBalances)
	}
	return p.buildDaily(start, end, flowsByDay, balancesByDay)
}

func (p *CashflowProcessor) buildDaily(start, end time.Time, flowsByDay map[string]*dayFlows, balancesByDay map[string][]models.FinancialRecord) []models.DailyCashflowPoint {
	var points []models.DailyCashflowPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := utils.FormatDate(day)

		// Only snapshots dated exactly on this day count; within the day the
		// latest per (bank, unit) wins.
		best := make(map[balanceKey]models.FinancialRecord)
		for _, rec := range balancesByDay[key] {
			updateLatest(best, rec)
		}
		initial := sumBalances(best)

		flows := dayFlows{}
		if f, ok := flowsByDay[key]; ok {
			flows = *f
		}

		points = append(points, models.DailyCashflowPoint{
			Date:                   key,
			InitialBalance:         initial,
			ForecastInflows:        flows.forecastIn,
			ActualInflows:          flows.actualIn,
			ForecastOutflows:       flows.forecastOut,
			ActualOutflows:         flows.actualOut,
			ForecastClosingBalance: initial.Add(flows.forecastIn).Sub(flows.forecastOut),
			ActualClosingBalance:   initial.Add(flows.actualIn).Sub(flows.actualOut),
		})
	}
	return points
}

func (p *CashflowProcessor) buildAccumulated(start, end time.Time, flowsByDay map[string]*dayFlows, balancesByDay map[string][]models.FinancialRecord, seed dayFlows, priorBalances []models.FinancialRecord) []models.DailyCashflowPoint {
	best := make(map[balanceKey]models.FinancialRecord)
	for _, rec := range priorBalances {
		updateLatest(best, rec)
	}
	cumulative := seed

	var points []models.DailyCashflowPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := utils.FormatDate(day)

		for _, rec := range balancesByDay[key] {
			updateLatest(best, rec)
		}
		if f, ok := flowsByDay[key]; ok {
			cumulative.forecastIn = cumulative.forecastIn.Add(f.forecastIn)
			cumulative.actualIn = cumulative.actualIn.Add(f.actualIn)
			cumulative.forecastOut = cumulative.forecastOut.Add(f.forecastOut)
			cumulative.actualOut = cumulative.actualOut.Add(f.actualOut)
		}

		initial := sumBalances(best)
		points = append(points, models.DailyCashflowPoint{
			Date:                   key,
			InitialBalance:         initial,
			ForecastInflows:        cumulative.forecastIn,
			ActualInflows:          cumulative.actualIn,
			ForecastOutflows:       cumulative.forecastOut,
			ActualOutflows:         cumulative.actualOut,
			ForecastClosingBalance: initial.Add(cumulative.forecastIn).Sub(cumulative.forecastOut),
			ActualClosingBalance:   initial.Add(cumulative.actualIn).Sub(cumulative.actualOut),
		})
	}
	return points
}
