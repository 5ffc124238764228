package services

import (
	"errors"
	"time"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/processors"
)

var (
	ErrImportEmpty       = errors.New("import payload contains no rows")
	ErrImportTooLarge    = errors.New("import payload exceeds the configured row limit")
	ErrUnknownSourceKind = errors.New("unknown import source kind")
	ErrKindMismatch      = errors.New("import rows do not match the declared source kind")
	ErrImportNotFound    = errors.New("import not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// RecordStore supplies raw record collections already filtered by active
// import (soft-deleted batches excluded) and a coarse date window.
type RecordStore interface {
	// FetchSnapshot returns every active row whose relevant date is at or
	// before end, plus the company directory. Rows come back in insertion
	// order so the engine's tie-breaks stay deterministic.
	FetchSnapshot(end time.Time) (*models.RawSnapshot, error)
}

// DashboardFilter is the explicit query configuration every dashboard
// computation takes; there is no implicit filter state anywhere.
type DashboardFilter struct {
	StartDate string   `json:"start_date"` // YYYY-MM-DD, defaults to first day of the current month
	EndDate   string   `json:"end_date"`   // YYYY-MM-DD, defaults to last day of the current month
	Groups    []string `json:"groups"`
	Companies []string `json:"companies"`
}

// DashboardService exposes the derived aggregates to the HTTP layer.
type DashboardService interface {
	GetKPIReport(filter DashboardFilter) (*models.KPIReport, error)
	GetDailyCashflow(filter DashboardFilter, mode processors.SeriesMode) ([]models.DailyCashflowPoint, error)
	GetMonthlyComparison(filter DashboardFilter, sel processors.PeriodSelector) ([]models.MonthlyComparisonBucket, error)
	GetAlerts(filter DashboardFilter) ([]models.Alert, error)

	// InvalidateCache drops every cached report; the next request triggers a
	// full, correct recalculation from a fresh snapshot.
	InvalidateCache()
	// WarmDefaultDashboard recomputes the unfiltered current-month KPI report
	// in the background; a stale result is discarded when a newer
	// invalidation supersedes it (last-request-wins).
	WarmDefaultDashboard()
}

// ImportService manages import batches and the company directory.
type ImportService interface {
	CreateImport(payload *models.ImportPayload) (*models.ImportBatch, error)
	ListImports() ([]models.ImportBatch, error)
	DeleteImport(id string) error
	ReplaceCompanies(companies []models.Company) error
}
