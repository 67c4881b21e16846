package handler

import (
	"net/http"

	"github.com/iho/cashflow/internal/adapter/http/dto"
)

type DashboardHandler struct {
	dashboard DashboardService
}

func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get returns the dashboard for ?month=YYYY-MM, the current month by default.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.GetDashboard(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeDomainError(w, r, "failed to build dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromDomain(d))
}
