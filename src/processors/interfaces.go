package processors

import (
	"time"

	"github.com/username/fluxocaixa/backend/src/models"
)

// RecordNormalizer coerces a raw store snapshot into canonical records.
type RecordNormalizer interface {
	Process(snap *models.RawSnapshot) []models.FinancialRecord
}

// CashflowEngine builds the daily cash-flow series.
type CashflowEngine interface {
	BuildDailySeries(records []models.FinancialRecord, start, end time.Time, mode SeriesMode) []models.DailyCashflowPoint
}

// ComparisonEngine builds the month-over-same-month-last-year buckets.
type ComparisonEngine interface {
	BuildMonthlyComparison(records []models.FinancialRecord, companies []models.Company, now time.Time, sel PeriodSelector) []models.MonthlyComparisonBucket
}

// KPIEngine composes the dashboard cards.
type KPIEngine interface {
	BuildReport(records []models.FinancialRecord, start, end time.Time) *models.KPIReport
}

// InsightEngine scans a daily series for negative-balance days.
type InsightEngine interface {
	FindNegativeBalanceDays(points []models.DailyCashflowPoint, records []models.FinancialRecord) []models.Alert
}
