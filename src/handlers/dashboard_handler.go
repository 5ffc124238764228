package handlers

import (
	"errors"
	"net/http"

	"github.com/username/fluxocaixa/backend/src/processors"
	"github.com/username/fluxocaixa/backend/src/services"
	"github.com/username/fluxocaixa/backend/src/utils"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// filterFromQuery builds the explicit dashboard filter from query parameters.
// Repeated "group"/"company" parameters OR together within each dimension.
func filterFromQuery(r *http.Request) services.DashboardFilter {
	query := r.URL.Query()
	return services.DashboardFilter{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Groups:    query["group"],
		Companies: query["company"],
	}
}

func (h *DashboardHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboardService.GetKPIReport(filterFromQuery(r))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSONWithETag(w, r, report)
}

func (h *DashboardHandler) HandleGetDailyCashflow(w http.ResponseWriter, r *http.Request) {
	mode := processors.SeriesMode(r.URL.Query().Get("mode"))
	if mode != processors.ModeDaily && mode != processors.ModeAccumulated && mode != "" {
		utils.SendJSONError(w, "mode must be 'daily' or 'accumulated'", http.StatusBadRequest)
		return
	}

	points, err := h.dashboardService.GetDailyCashflow(filterFromQuery(r), mode)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSONWithETag(w, r, points)
}

func (h *DashboardHandler) HandleGetMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sel := processors.PeriodSelector{Kind: processors.PeriodKind(query.Get("period"))}
	switch sel.Kind {
	case "":
		sel.Kind = processors.PeriodLast12Months
	case processors.PeriodLast3Months, processors.PeriodLast6Months, processors.PeriodLast12Months, processors.PeriodCurrentYear:
	case processors.PeriodCustom:
		sel.Start = utils.ParseDate(query.Get("start_date"))
		sel.End = utils.ParseDate(query.Get("end_date"))
		if sel.Start.IsZero() || sel.End.IsZero() {
			utils.SendJSONError(w, "custom period requires valid start_date and end_date", http.StatusBadRequest)
			return
		}
	default:
		utils.SendJSONError(w, "unknown period selector", http.StatusBadRequest)
		return
	}

	buckets, err := h.dashboardService.GetMonthlyComparison(filterFromQuery(r), sel)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSONWithETag(w, r, buckets)
}

func (h *DashboardHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.dashboardService.GetAlerts(filterFromQuery(r))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSONWithETag(w, r, alerts)
}

func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
