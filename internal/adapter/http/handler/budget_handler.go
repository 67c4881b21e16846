package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashflow/internal/adapter/http/dto"
)

// BudgetHandler handles monthly plans. Routes carry the month as {month}
// in YYYY-MM form.
type BudgetHandler struct {
	budgets BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgets BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// List lists every saved budget.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.budgets.ListBudgets(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list budgets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetsFromDomain(budgets))
}

// Get returns the saved budget for a month.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgets.GetBudget(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		writeDomainError(w, r, "failed to get budget", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// Save replaces the budget for a month. The caller's role decides whether
// it is stored as a draft or approved.
func (h *BudgetHandler) Save(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.SaveBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	budget, err := h.budgets.SaveBudget(r.Context(), actor, req.ToUseCaseInput(chi.URLParam(r, "month")))
	if err != nil {
		writeDomainError(w, r, "failed to save budget", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// Draft returns the editing template for a month: the saved budget, or
// default lines at zero.
func (h *BudgetHandler) Draft(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgets.DraftBudget(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		writeDomainError(w, r, "failed to build draft", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// CopyForward returns a draft for a month cloned from the previous month.
// Nothing is saved.
func (h *BudgetHandler) CopyForward(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgets.CopyFromPreviousMonth(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		writeDomainError(w, r, "failed to copy previous month", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}
