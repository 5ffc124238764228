package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

const topCategoryCount = 3

// Cause messages for negative-balance alerts. Presentation heuristics; the
// negative-day detection itself is exact.
const (
	causeOutflowSpike = "saídas superam o dobro das entradas do dia"
	causeNoInflows    = "nenhuma entrada registrada contra saídas do dia"
	causeGeneric      = "saldo de fechamento negativo"
)

// InsightProcessor scans a daily-mode series for negative closing balances.
type InsightProcessor struct {
	classifier *CategoryClassifier
}

func NewInsightProcessor(classifier *CategoryClassifier) *InsightProcessor {
	return &InsightProcessor{classifier: classifier}
}

// FindNegativeBalanceDays flags every day whose closing balance is negative,
// forecast and actual tracks independently. Each alert ranks the day's top
// contributing outflow categories and classifies the likely cause.
func (p *InsightProcessor) FindNegativeBalanceDays(points []models.DailyCashflowPoint, records []models.FinancialRecord) []models.Alert {
	type trackKey struct {
		day    string
		status models.RecordStatus
	}
	byCategory := make(map[trackKey]map[string]decimal.Decimal)

	for _, rec := range records {
		dir, amount := classifyFlow(p.classifier, rec)
		if dir != flowOut {
			continue
		}
		key := trackKey{day: utils.FormatDate(utils.DayFloor(rec.Date)), status: rec.Status}
		if byCategory[key] == nil {
			byCategory[key] = make(map[string]decimal.Decimal)
		}
		byCategory[key][rec.Category] = byCategory[key][rec.Category].Add(amount)
	}

	var alerts []models.Alert
	for _, point := range points {
		if point.ForecastClosingBalance.IsNegative() {
			alerts = append(alerts, models.Alert{
				Date:           point.Date,
				Track:          models.StatusForecast,
				ClosingBalance: point.ForecastClosingBalance,
				TopCategories:  topCategories(byCategory[trackKey{day: point.Date, status: models.StatusForecast}]),
				Cause:          classifyCause(point.ForecastInflows, point.ForecastOutflows),
			})
		}
		if point.ActualClosingBalance.IsNegative() {
			alerts = append(alerts, models.Alert{
				Date:           point.Date,
				Track:          models.StatusActual,
				ClosingBalance: point.ActualClosingBalance,
				TopCategories:  topCategories(byCategory[trackKey{day: point.Date, status: models.StatusActual}]),
				Cause:          classifyCause(point.ActualInflows, point.ActualOutflows),
			})
		}
	}
	return alerts
}

// topCategories ranks a day's outflow categories by summed magnitude,
// largest first, ties broken by category name for determinism.
func topCategories(sums map[string]decimal.Decimal) []models.CategoryImpact {
	impacts := make([]models.CategoryImpact, 0, len(sums))
	for category, amount := range sums {
		impacts = append(impacts, models.CategoryImpact{Category: category, Amount: amount})
	}
	sort.Slice(impacts, func(i, j int) bool {
		if !impacts[i].Amount.Equal(impacts[j].Amount) {
			return impacts[i].Amount.GreaterThan(impacts[j].Amount)
		}
		return impacts[i].Category < impacts[j].Category
	})
	if len(impacts) > topCategoryCount {
		impacts = impacts[:topCategoryCount]
	}
	return impacts
}

func classifyCause(inflows, outflows decimal.Decimal) string {
	switch {
	case inflows.IsZero() && outflows.IsPositive():
		return causeNoInflows
	case outflows.GreaterThan(inflows.Mul(decimal.NewFromInt(2))):
		return causeOutflowSpike
	default:
		return causeGeneric
	}
}
