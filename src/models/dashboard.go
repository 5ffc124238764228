package models

import "github.com/shopspring/decimal"

// DailyCashflowPoint is one day of the cash-flow series. In daily mode the
// figures reflect only that day's own records; in accumulated mode they are
// running totals since the earliest known record. Either way
// closing = initial + inflows - outflows holds per track.
type DailyCashflowPoint struct {
	Date string `json:"date"`

	InitialBalance decimal.Decimal `json:"initial_balance"`

	ForecastInflows  decimal.Decimal `json:"forecast_inflows"`
	ActualInflows    decimal.Decimal `json:"actual_inflows"`
	ForecastOutflows decimal.Decimal `json:"forecast_outflows"`
	ActualOutflows   decimal.Decimal `json:"actual_outflows"`

	ForecastClosingBalance decimal.Decimal `json:"forecast_closing_balance"`
	ActualClosingBalance   decimal.Decimal `json:"actual_closing_balance"`
}

// MonthlySnapshot is one year's slice of a monthly comparison bucket.
type MonthlySnapshot struct {
	Year          int                        `json:"year"`
	Revenue       decimal.Decimal            `json:"revenue"`
	COGS          decimal.Decimal            `json:"cogs"`
	Loans         decimal.Decimal            `json:"loans"`
	DebtRatio     decimal.Decimal            `json:"debt_ratio"` // loans / revenue * 100, 0 when revenue is 0
	RevenueByUnit map[string]decimal.Decimal `json:"revenue_by_unit"`
	CMVByUnit     map[string]decimal.Decimal `json:"cmv_by_unit"`
}

// MonthlyComparisonBucket compares one calendar month number against the same
// month of the immediately prior year.
type MonthlyComparisonBucket struct {
	Month        int             `json:"month"` // 1-12
	MonthLabel   string          `json:"month_label"`
	CurrentYear  MonthlySnapshot `json:"current_year"`
	PreviousYear MonthlySnapshot `json:"previous_year"`
}

// KPIValue is one dashboard card: the forecast and actual tracks plus their
// variance (actual - forecasted).
type KPIValue struct {
	Forecasted decimal.Decimal `json:"forecasted"`
	Actual     decimal.Decimal `json:"actual"`
	Variance   decimal.Decimal `json:"variance"`
}

// KPIReport is the full set of dashboard cards for a filter + date range.
// Percentage fields are ratios to actual revenue, guarded to 0 when actual
// revenue is 0.
type KPIReport struct {
	InitialBalance KPIValue `json:"initial_balance"`
	TotalInflows   KPIValue `json:"total_inflows"`
	TotalOutflows  KPIValue `json:"total_outflows"`
	FinalBalance   KPIValue `json:"final_balance"`

	DirectRevenue   KPIValue `json:"direct_revenue"`
	CMV             KPIValue `json:"cmv"`
	TotalExpenses   KPIValue `json:"total_expenses"`
	OperatingResult KPIValue `json:"operating_result"`

	CMVPercentOfRevenue      decimal.Decimal `json:"cmv_percent_of_revenue"`
	ExpensesPercentOfRevenue decimal.Decimal `json:"expenses_percent_of_revenue"`
}

// CategoryImpact is one outflow category's contribution to a negative day.
type CategoryImpact struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Alert flags a day whose closing balance went negative on one track.
type Alert struct {
	Date           string           `json:"date"`
	Track          RecordStatus     `json:"track"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	TopCategories  []CategoryImpact `json:"top_categories"`
	Cause          string           `json:"cause"`
}
