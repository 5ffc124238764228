package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fluxocaixa/backend/src/models"
)

func newCashflow() *CashflowProcessor {
	return NewCashflowProcessor(NewCategoryClassifier())
}

func mixedRecords() []models.FinancialRecord {
	return []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 1)),
		revenueRec(models.StatusActual, "1", "500", day(2025, 1, 2)),
		revenueRec(models.StatusForecast, "1", "300", day(2025, 1, 3)),
		payableRec(models.StatusActual, "1", "Aluguel", "200", day(2025, 1, 2)),
		payableRec(models.StatusForecast, "1", "Energia", "150", day(2025, 1, 4)),
		txnRec("1", "Tarifa bancária", "-30", day(2025, 1, 3)),
		txnRec("1", "Depósito", "90", day(2025, 1, 4)),
		forecastRec(models.StatusForecast, "1", "Movimento em Dinheiro", "60", day(2025, 1, 5)),
	}
}

func TestBuildDailySeries_BalanceIdentityHoldsEveryPointBothModes(t *testing.T) {
	processor := newCashflow()
	records := mixedRecords()

	for _, mode := range []SeriesMode{ModeDaily, ModeAccumulated} {
		points := processor.BuildDailySeries(records, day(2025, 1, 1), day(2025, 1, 7), mode)
		require.Len(t, points, 7, "mode %s", mode)
		for _, point := range points {
			wantForecast := point.InitialBalance.Add(point.ForecastInflows).Sub(point.ForecastOutflows)
			wantActual := point.InitialBalance.Add(point.ActualInflows).Sub(point.ActualOutflows)
			assert.True(t, point.ForecastClosingBalance.Equal(wantForecast), "mode %s date %s", mode, point.Date)
			assert.True(t, point.ActualClosingBalance.Equal(wantActual), "mode %s date %s", mode, point.Date)
		}
	}
}

func TestBuildDailySeries_SingleDayScenario(t *testing.T) {
	processor := newCashflow()
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 10)),
		revenueRec(models.StatusActual, "1", "500", day(2025, 1, 10)),
		payableRec(models.StatusActual, "1", "Aluguel", "200", day(2025, 1, 10)),
	}

	points := processor.BuildDailySeries(records, day(2025, 1, 10), day(2025, 1, 10), ModeDaily)
	require.Len(t, points, 1)
	assert.Equal(t, "2025-01-10", points[0].Date)
	assert.True(t, points[0].InitialBalance.Equal(dec("1000")))
	assert.True(t, points[0].ActualInflows.Equal(dec("500")))
	assert.True(t, points[0].ActualOutflows.Equal(dec("200")))
	assert.True(t, points[0].ActualClosingBalance.Equal(dec("1300")))
}

func TestBuildDailySeries_InitialBalanceCarriesOnlyInAccumulatedMode(t *testing.T) {
	processor := newCashflow()
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 1)),
	}

	daily := processor.BuildDailySeries(records, day(2025, 1, 5), day(2025, 1, 5), ModeDaily)
	require.Len(t, daily, 1)
	assert.True(t, daily[0].InitialBalance.IsZero(), "daily mode only sees exact-date snapshots")

	accumulated := processor.BuildDailySeries(records, day(2025, 1, 5), day(2025, 1, 5), ModeAccumulated)
	require.Len(t, accumulated, 1)
	assert.True(t, accumulated[0].InitialBalance.Equal(dec("1000")), "accumulated mode keeps the latest known balance")
}

func TestBuildDailySeries_AccumulatedCumulativeFlowsAreMonotonic(t *testing.T) {
	processor := newCashflow()
	points := processor.BuildDailySeries(mixedRecords(), day(2025, 1, 1), day(2025, 1, 10), ModeAccumulated)
	require.NotEmpty(t, points)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].ActualInflows.GreaterThanOrEqual(points[i-1].ActualInflows), "date %s", points[i].Date)
		assert.True(t, points[i].ForecastInflows.GreaterThanOrEqual(points[i-1].ForecastInflows), "date %s", points[i].Date)
		assert.True(t, points[i].ActualOutflows.GreaterThanOrEqual(points[i-1].ActualOutflows), "date %s", points[i].Date)
		assert.True(t, points[i].ForecastOutflows.GreaterThanOrEqual(points[i-1].ForecastOutflows), "date %s", points[i].Date)
	}
}

func TestBuildDailySeries_LatestBalancePerBankUnitGroup(t *testing.T) {
	processor := newCashflow()
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 1)),
		balanceRec("X", "1", "800", day(2025, 1, 3)), // supersedes the older X/1 snapshot
		balanceRec("Y", "1", "500", day(2025, 1, 2)),
		balanceRec("X", "2", "250", day(2025, 1, 1)),
	}

	points := processor.BuildDailySeries(records, day(2025, 1, 4), day(2025, 1, 4), ModeAccumulated)
	require.Len(t, points, 1)
	// 800 (X/1 latest) + 500 (Y/1) + 250 (X/2)
	assert.True(t, points[0].InitialBalance.Equal(dec("1550")))
}

func TestBuildDailySeries_EqualDateTieBreakIsInsertionOrder(t *testing.T) {
	processor := newCashflow()
	first := balanceRec("X", "1", "700", day(2025, 1, 2))
	second := balanceRec("X", "1", "900", day(2025, 1, 2))
	records := []models.FinancialRecord{first, second}

	points := processor.BuildDailySeries(records, day(2025, 1, 2), day(2025, 1, 2), ModeDaily)
	require.Len(t, points, 1)
	assert.True(t, points[0].InitialBalance.Equal(dec("900")), "the later insertion wins on an equal date")
}

func TestBuildDailySeries_NonOperationalRecordsCarryNoFlow(t *testing.T) {
	processor := newCashflow()
	records := []models.FinancialRecord{
		payableRec(models.StatusActual, "1", "Cartão de Crédito", "999", day(2025, 1, 2)),
		txnRec("1", "Aplicação Financeira", "-500", day(2025, 1, 2)),
	}

	points := processor.BuildDailySeries(records, day(2025, 1, 2), day(2025, 1, 2), ModeDaily)
	require.Len(t, points, 1)
	assert.True(t, points[0].ActualOutflows.IsZero())
}

func TestBuildDailySeries_Idempotent(t *testing.T) {
	processor := newCashflow()
	records := mixedRecords()
	start, end := day(2025, 1, 1), day(2025, 1, 7)

	first := processor.BuildDailySeries(records, start, end, ModeAccumulated)
	second := processor.BuildDailySeries(records, start, end, ModeAccumulated)
	require.Equal(t, first, second, "re-running on identical input must produce identical output")
}

func TestBuildDailySeries_EmptyOnInvertedRange(t *testing.T) {
	processor := newCashflow()
	points := processor.BuildDailySeries(mixedRecords(), day(2025, 1, 7), day(2025, 1, 1), ModeDaily)
	assert.Empty(t, points)
}

func TestLatestBalancesAsOf(t *testing.T) {
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 1)),
		balanceRec("X", "1", "800", day(2025, 1, 20)),
		balanceRec("Y", "1", "500", day(2025, 1, 5)),
	}

	assert.True(t, LatestBalancesAsOf(records, day(2025, 1, 10)).Equal(dec("1500")), "X/1=1000 + Y/1=500")
	assert.True(t, LatestBalancesAsOf(records, day(2025, 1, 25)).Equal(dec("1300")), "X/1=800 + Y/1=500")
	assert.True(t, LatestBalancesAsOf(records, day(2024, 12, 31)).IsZero())
}
