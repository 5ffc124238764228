package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fluxocaixa/backend/src/models"
)

func TestMonthSet_BackwardWalk(t *testing.T) {
	pairs := MonthSet(day(2025, 3, 15), PeriodSelector{Kind: PeriodLast3Months})
	require.Equal(t, []MonthYear{
		{Month: time.January, Year: 2025},
		{Month: time.February, Year: 2025},
		{Month: time.March, Year: 2025},
	}, pairs)
}

func TestMonthSet_BackwardWalkWrapsYearBoundary(t *testing.T) {
	pairs := MonthSet(day(2025, 2, 10), PeriodSelector{Kind: PeriodLast3Months})
	require.Equal(t, []MonthYear{
		{Month: time.December, Year: 2024},
		{Month: time.January, Year: 2025},
		{Month: time.February, Year: 2025},
	}, pairs)
}

func TestMonthSet_TwelveMonths(t *testing.T) {
	pairs := MonthSet(day(2025, 6, 1), PeriodSelector{Kind: PeriodLast12Months})
	require.Len(t, pairs, 12)
	assert.Equal(t, MonthYear{Month: time.July, Year: 2024}, pairs[0])
	assert.Equal(t, MonthYear{Month: time.June, Year: 2025}, pairs[11])
}

func TestMonthSet_CurrentYear(t *testing.T) {
	pairs := MonthSet(day(2025, 4, 20), PeriodSelector{Kind: PeriodCurrentYear})
	require.Len(t, pairs, 4)
	assert.Equal(t, MonthYear{Month: time.January, Year: 2025}, pairs[0])
	assert.Equal(t, MonthYear{Month: time.April, Year: 2025}, pairs[3])
}

func TestMonthSet_CustomExcludesFuturePairs(t *testing.T) {
	sel := PeriodSelector{Kind: PeriodCustom, Start: day(2025, 2, 1), End: day(2025, 6, 30)}
	pairs := MonthSet(day(2025, 4, 10), sel)
	require.Equal(t, []MonthYear{
		{Month: time.February, Year: 2025},
		{Month: time.March, Year: 2025},
		{Month: time.April, Year: 2025},
	}, pairs, "months after now are excluded")
}

func comparisonRecords() []models.FinancialRecord {
	return []models.FinancialRecord{
		// September 2025
		revenueRec(models.StatusActual, "1", "1000", day(2025, 9, 10)),
		revenueRec(models.StatusForecast, "1", "400", day(2025, 9, 12)), // forecast: not in comparison revenue
		forecastRec(models.StatusActual, "2", "Movimento em Dinheiro", "200", day(2025, 9, 15)),
		payableRec(models.StatusActual, "1", "04.0 Despesas com Mercadoria", "300", day(2025, 9, 20)),
		payableRec(models.StatusActual, "1", "Pagamento de Empréstimo mensal", "250", day(2025, 9, 25)),
		// September 2024
		revenueRec(models.StatusActual, "1", "800", day(2024, 9, 10)),
		payableRec(models.StatusActual, "1", "04.0 Despesas com Mercadorias", "350", day(2024, 9, 18)),
		// July 2025: a loan with no revenue at all
		payableRec(models.StatusActual, "1", "Pagamento de Empréstimo mensal", "120", day(2025, 7, 5)),
	}
}

func TestBuildMonthlyComparison_SameMonthAgainstPriorYear(t *testing.T) {
	processor := NewComparisonProcessor(NewCategoryClassifier())
	companies := []models.Company{
		{Code: "001", Name: "Loja Centro", Group: "Varejo"},
		{Code: "2", Name: "Loja Norte", Group: "Varejo"},
	}

	buckets := processor.BuildMonthlyComparison(comparisonRecords(), companies, day(2025, 9, 30), PeriodSelector{Kind: PeriodLast3Months})
	require.Len(t, buckets, 3)

	sept := buckets[2]
	assert.Equal(t, 9, sept.Month)
	assert.Equal(t, "Setembro", sept.MonthLabel)

	assert.Equal(t, 2025, sept.CurrentYear.Year)
	assert.True(t, sept.CurrentYear.Revenue.Equal(dec("1200")), "actual revenue plus paid cash-movement entries")
	assert.True(t, sept.CurrentYear.COGS.Equal(dec("300")))
	assert.True(t, sept.CurrentYear.Loans.Equal(dec("250")))

	assert.Equal(t, 2024, sept.PreviousYear.Year)
	assert.True(t, sept.PreviousYear.Revenue.Equal(dec("800")))
	assert.True(t, sept.PreviousYear.COGS.Equal(dec("350")))
}

func TestBuildMonthlyComparison_PerUnitBreakdownUsesCompanyNames(t *testing.T) {
	processor := NewComparisonProcessor(NewCategoryClassifier())
	companies := []models.Company{
		{Code: "001", Name: "Loja Centro", Group: "Varejo"},
		{Code: "2", Name: "Loja Norte", Group: "Varejo"},
	}

	buckets := processor.BuildMonthlyComparison(comparisonRecords(), companies, day(2025, 9, 30), PeriodSelector{Kind: PeriodLast3Months})
	sept := buckets[2].CurrentYear

	assert.True(t, sept.RevenueByUnit["Loja Centro"].Equal(dec("1000")), "code 001 resolves to its company name")
	assert.True(t, sept.RevenueByUnit["Loja Norte"].Equal(dec("200")))
	assert.True(t, sept.CMVByUnit["Loja Centro"].Equal(dec("300")))
}

func TestBuildMonthlyComparison_DebtRatio(t *testing.T) {
	processor := NewComparisonProcessor(NewCategoryClassifier())

	buckets := processor.BuildMonthlyComparison(comparisonRecords(), nil, day(2025, 9, 30), PeriodSelector{Kind: PeriodLast3Months})
	sept := buckets[2]

	// 250 / 1200 * 100
	assert.True(t, sept.CurrentYear.DebtRatio.Equal(dec("20.83")))
	// Prior year has revenue but no loans.
	assert.True(t, sept.PreviousYear.DebtRatio.IsZero())

	// A month with loans but zero revenue must guard the division.
	july := buckets[0]
	assert.Equal(t, 7, july.Month)
	assert.True(t, july.CurrentYear.Loans.Equal(dec("120")))
	assert.True(t, july.CurrentYear.DebtRatio.IsZero())
}
