package handler

import (
	"net/http"

	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
)

// ReportServicer is satisfied by *service.ReportService.
type ReportServicer interface {
	Dashboard(actor state.User) (service.DashboardStats, error)
	Profile(actor state.User) (service.ProfileStats, error)
}

// ReportsHandler serves the admin dashboard and customer profile figures.
type ReportsHandler struct {
	reports ReportServicer
}

func NewReportsHandler(reports ReportServicer) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Dashboard handles GET /admin/dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	stats, err := h.reports.Dashboard(actor)
	if err != nil {
		writeServiceError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Profile handles GET /profile.
func (h *ReportsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	stats, err := h.reports.Profile(actor)
	if err != nil {
		writeServiceError(w, r, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
