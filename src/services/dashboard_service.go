package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/fluxocaixa/backend/src/logger"
	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/processors"
	"github.com/username/fluxocaixa/backend/src/utils"
)

const (
	ckKPIReport   = "res_kpi_%d_%s"
	ckDailySeries = "res_daily_%d_%s"
	ckComparison  = "res_comparison_%d_%s"
	ckAlerts      = "res_alerts_%d_%s"
)

type dashboardServiceImpl struct {
	store      RecordStore
	normalizer processors.RecordNormalizer
	cashflow   processors.CashflowEngine
	comparison processors.ComparisonEngine
	kpi        processors.KPIEngine
	insight    processors.InsightEngine

	reportCache *cache.Cache
	// generation is bumped on every invalidation; a background warm that
	// started under an older generation discards its result instead of
	// caching stale data (last-request-wins).
	generation atomic.Uint64

	now func() time.Time
}

func NewDashboardService(
	store RecordStore,
	normalizer processors.RecordNormalizer,
	cashflow processors.CashflowEngine,
	comparison processors.ComparisonEngine,
	kpi processors.KPIEngine,
	insight processors.InsightEngine,
	reportCache *cache.Cache,
) DashboardService {
	return &dashboardServiceImpl{
		store:       store,
		normalizer:  normalizer,
		cashflow:    cashflow,
		comparison:  comparison,
		kpi:         kpi,
		insight:     insight,
		reportCache: reportCache,
		now:         time.Now,
	}
}

// queryContext is one resolved dashboard query: an immutable record snapshot
// already restricted by the business-unit allow list, plus the parsed range.
type queryContext struct {
	records   []models.FinancialRecord
	companies []models.Company
	start     time.Time
	end       time.Time
}

func (s *dashboardServiceImpl) resolveQuery(filter DashboardFilter) (*queryContext, error) {
	start, end, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.FetchSnapshot(end)
	if err != nil {
		return nil, fmt.Errorf("error fetching record snapshot: %w", err)
	}

	records := s.normalizer.Process(snap)
	allow := processors.ResolveAllowList(snap.Companies, filter.Groups, filter.Companies)
	if allow != nil && allow.Size() == 0 {
		// The filter matched no company. This must aggregate to zero totals,
		// never fall back to "show everything".
		logger.L.Debug("Business-unit filter matched no company", "groups", filter.Groups, "companies", filter.Companies)
	}

	return &queryContext{
		records:   processors.FilterRecords(records, allow),
		companies: snap.Companies,
		start:     start,
		end:       end,
	}, nil
}

func (s *dashboardServiceImpl) parseRange(filter DashboardFilter) (time.Time, time.Time, error) {
	now := utils.DayFloor(s.now())
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if filter.StartDate != "" {
		start = utils.ParseDate(filter.StartDate)
		if start.IsZero() {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, filter.StartDate)
		}
	}
	if filter.EndDate != "" {
		end = utils.ParseDate(filter.EndDate)
		if end.IsZero() {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, filter.EndDate)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidDateRange, utils.FormatDate(end), utils.FormatDate(start))
	}
	return start, end, nil
}

func (s *dashboardServiceImpl) cacheKey(format string, parts ...interface{}) string {
	hash, err := utils.GenerateETag(parts)
	if err != nil {
		hash = fmt.Sprintf("%v", parts)
	}
	return fmt.Sprintf(format, s.generation.Load(), hash)
}

func (s *dashboardServiceImpl) GetKPIReport(filter DashboardFilter) (*models.KPIReport, error) {
	key := s.cacheKey(ckKPIReport, filter)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(*models.KPIReport), nil
	}

	startTime := time.Now()
	q, err := s.resolveQuery(filter)
	if err != nil {
		return nil, err
	}
	report := s.kpi.BuildReport(q.records, q.start, q.end)
	s.reportCache.Set(key, report, cache.DefaultExpiration)
	logger.L.Debug("KPI report computed", "duration", time.Since(startTime))
	return report, nil
}

func (s *dashboardServiceImpl) GetDailyCashflow(filter DashboardFilter, mode processors.SeriesMode) ([]models.DailyCashflowPoint, error) {
	if mode != processors.ModeAccumulated {
		mode = processors.ModeDaily
	}
	key := s.cacheKey(ckDailySeries, filter, string(mode))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]models.DailyCashflowPoint), nil
	}

	startTime := time.Now()
	q, err := s.resolveQuery(filter)
	if err != nil {
		return nil, err
	}
	points := s.cashflow.BuildDailySeries(q.records, q.start, q.end, mode)
	s.reportCache.Set(key, points, cache.DefaultExpiration)
	logger.L.Debug("Daily cashflow series computed", "mode", mode, "points", len(points), "duration", time.Since(startTime))
	return points, nil
}

func (s *dashboardServiceImpl) GetMonthlyComparison(filter DashboardFilter, sel processors.PeriodSelector) ([]models.MonthlyComparisonBucket, error) {
	key := s.cacheKey(ckComparison, filter, string(sel.Kind), utils.FormatDate(sel.Start), utils.FormatDate(sel.End))
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]models.MonthlyComparisonBucket), nil
	}

	startTime := time.Now()
	now := s.now()
	snap, err := s.store.FetchSnapshot(utils.DayFloor(now))
	if err != nil {
		return nil, fmt.Errorf("error fetching record snapshot: %w", err)
	}
	records := s.normalizer.Process(snap)
	allow := processors.ResolveAllowList(snap.Companies, filter.Groups, filter.Companies)
	records = processors.FilterRecords(records, allow)

	buckets := s.comparison.BuildMonthlyComparison(records, snap.Companies, now, sel)
	s.reportCache.Set(key, buckets, cache.DefaultExpiration)
	logger.L.Debug("Monthly comparison computed", "buckets", len(buckets), "duration", time.Since(startTime))
	return buckets, nil
}

func (s *dashboardServiceImpl) GetAlerts(filter DashboardFilter) ([]models.Alert, error) {
	key := s.cacheKey(ckAlerts, filter)
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]models.Alert), nil
	}

	q, err := s.resolveQuery(filter)
	if err != nil {
		return nil, err
	}
	// Alerts always scan the daily-mode series; accumulated closings going
	// negative is a different (and rarer) signal than a single bad day.
	points := s.cashflow.BuildDailySeries(q.records, q.start, q.end, processors.ModeDaily)
	alerts := s.insight.FindNegativeBalanceDays(points, recordsInAlertRange(q))
	if alerts == nil {
		alerts = []models.Alert{}
	}
	s.reportCache.Set(key, alerts, cache.DefaultExpiration)
	return alerts, nil
}

// recordsInAlertRange narrows the snapshot to the queried interval so the
// category ranking only sees same-day records.
func recordsInAlertRange(q *queryContext) []models.FinancialRecord {
	ranged := make([]models.FinancialRecord, 0, len(q.records))
	for _, rec := range q.records {
		day := utils.DayFloor(rec.Date)
		if day.Before(q.start) || day.After(q.end) {
			continue
		}
		ranged = append(ranged, rec)
	}
	return ranged
}

func (s *dashboardServiceImpl) InvalidateCache() {
	s.generation.Add(1)
	s.reportCache.Flush()
	logger.L.Debug("Report cache invalidated", "generation", s.generation.Load())
}

func (s *dashboardServiceImpl) WarmDefaultDashboard() {
	gen := s.generation.Load()
	go func() {
		startTime := time.Now()
		q, err := s.resolveQuery(DashboardFilter{})
		if err != nil {
			logger.L.Warn("Dashboard warm failed", "error", err)
			return
		}
		report := s.kpi.BuildReport(q.records, q.start, q.end)
		if s.generation.Load() != gen {
			logger.L.Debug("Discarding stale dashboard warm result", "generation", gen)
			return
		}
		s.reportCache.Set(s.cacheKey(ckKPIReport, DashboardFilter{}), report, cache.DefaultExpiration)
		logger.L.Info("Default dashboard warmed", "duration", time.Since(startTime))
	}()
}
