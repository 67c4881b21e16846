package handler

import (
	"net/http"

	"github.com/iho/cashflow/internal/adapter/http/dto"
)

type InsightHandler struct {
	insights InsightService
}

func NewInsightHandler(insights InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Generate asks the advisor for a report. It always answers 200; failures are
// reported inside the report text.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.InsightResponse{Report: h.insights.GenerateInsights(r.Context())})
}
