package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fluxocaixa/backend/src/models"
)

func newKPI() *KPIProcessor {
	return NewKPIProcessor(newTotals())
}

func TestBuildReport_FinalBalanceArithmetic(t *testing.T) {
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 1)),
		revenueRec(models.StatusActual, "1", "500", day(2025, 1, 10)),
		revenueRec(models.StatusForecast, "1", "300", day(2025, 1, 15)),
		payableRec(models.StatusActual, "1", "Aluguel", "200", day(2025, 1, 12)),
		payableRec(models.StatusForecast, "1", "Energia", "150", day(2025, 1, 20)),
	}

	report := newKPI().BuildReport(records, day(2025, 1, 1), day(2025, 1, 31))
	require.NotNil(t, report)

	assert.True(t, report.InitialBalance.Forecasted.Equal(dec("1000")))
	assert.True(t, report.InitialBalance.Actual.Equal(dec("1000")), "both tracks open from the same snapshot")

	assert.True(t, report.TotalInflows.Actual.Equal(dec("500")))
	assert.True(t, report.TotalInflows.Forecasted.Equal(dec("300")))
	assert.True(t, report.TotalOutflows.Actual.Equal(dec("200")))
	assert.True(t, report.TotalOutflows.Forecasted.Equal(dec("150")))

	assert.True(t, report.FinalBalance.Actual.Equal(dec("1300")), "1000 + 500 - 200")
	assert.True(t, report.FinalBalance.Forecasted.Equal(dec("1150")), "1000 + 300 - 150")
	assert.True(t, report.FinalBalance.Variance.Equal(dec("150")))
}

func TestBuildReport_InitialBalanceIgnoresRangeStart(t *testing.T) {
	records := []models.FinancialRecord{
		balanceRec("X", "1", "1000", day(2025, 1, 5)),
		balanceRec("X", "1", "1200", day(2025, 2, 3)), // after end, must not count
		revenueRec(models.StatusActual, "1", "500", day(2025, 1, 10)),
	}

	report := newKPI().BuildReport(records, day(2025, 1, 15), day(2025, 1, 31))

	assert.True(t, report.InitialBalance.Actual.Equal(dec("1000")), "freshest snapshot at or before end, even before start")
	assert.True(t, report.TotalInflows.Actual.IsZero(), "flow totals only see records inside the range")
}

func TestBuildReport_OperatingResultExcludesCMVFromExpenses(t *testing.T) {
	date := day(2025, 1, 10)
	records := []models.FinancialRecord{
		revenueRec(models.StatusActual, "1", "1000", date),
		payableRec(models.StatusActual, "1", "04.0 Despesas com Mercadoria", "300", date),
		payableRec(models.StatusActual, "1", "Aluguel", "200", date),
	}

	report := newKPI().BuildReport(records, day(2025, 1, 1), day(2025, 1, 31))

	assert.True(t, report.DirectRevenue.Actual.Equal(dec("1000")))
	assert.True(t, report.CMV.Actual.Equal(dec("300")))
	assert.True(t, report.TotalExpenses.Actual.Equal(dec("200")), "merchandise rows never double-count as expenses")
	assert.True(t, report.OperatingResult.Actual.Equal(dec("500")), "1000 - 300 - 200")
}

func TestBuildReport_PercentagesGuardZeroRevenue(t *testing.T) {
	date := day(2025, 1, 10)
	records := []models.FinancialRecord{
		payableRec(models.StatusActual, "1", "04.0 Despesas com Mercadoria", "500", date),
		payableRec(models.StatusActual, "1", "Aluguel", "200", date),
	}

	report := newKPI().BuildReport(records, day(2025, 1, 1), day(2025, 1, 31))

	assert.True(t, report.CMVPercentOfRevenue.IsZero(), "zero actual revenue yields zero, not a division error")
	assert.True(t, report.ExpensesPercentOfRevenue.IsZero())
}

func TestBuildReport_PercentagesUseActualTrack(t *testing.T) {
	date := day(2025, 1, 10)
	records := []models.FinancialRecord{
		revenueRec(models.StatusActual, "1", "1000", date),
		payableRec(models.StatusActual, "1", "04.0 Despesas com Mercadoria", "300", date),
		payableRec(models.StatusActual, "1", "Aluguel", "155", date),
	}

	report := newKPI().BuildReport(records, day(2025, 1, 1), day(2025, 1, 31))

	assert.True(t, report.CMVPercentOfRevenue.Equal(dec("30")))
	assert.True(t, report.ExpensesPercentOfRevenue.Equal(dec("15.5")))
}

func TestBuildReport_EmptyRangeYieldsZeroCards(t *testing.T) {
	report := newKPI().BuildReport(nil, day(2025, 1, 1), day(2025, 1, 31))
	require.NotNil(t, report)

	assert.True(t, report.InitialBalance.Actual.IsZero())
	assert.True(t, report.FinalBalance.Actual.IsZero())
	assert.True(t, report.OperatingResult.Forecasted.IsZero())
	assert.True(t, report.CMVPercentOfRevenue.IsZero())
}
