package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
)

// PartnerHandler serves the customer and vendor registries. Routes carry the
// registry as {kind}: "customers" or "vendors".
type PartnerHandler struct {
	partners PartnerService
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partners PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

func partnerKind(r *http.Request) (domain.PartnerKind, bool) {
	switch chi.URLParam(r, "kind") {
	case "customers":
		return domain.PartnerCustomer, true
	case "vendors":
		return domain.PartnerVendor, true
	default:
		return "", false
	}
}

// List lists partners, filtered by ?q= on name or tax code.
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := partnerKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown partner registry", "")
		return
	}

	partners, err := h.partners.ListPartners(r.Context(), kind, r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, r, "failed to list partners", err)
		return
	}

	writeJSON(w, http.StatusOK, partners)
}

// Add adds a partner.
func (h *PartnerHandler) Add(w http.ResponseWriter, r *http.Request) {
	kind, ok := partnerKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown partner registry", "")
		return
	}

	var req dto.AddPartnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	partner, err := h.partners.AddPartner(r.Context(), kind, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to add partner", err)
		return
	}

	writeJSON(w, http.StatusCreated, partner)
}

// Delete removes a partner by id.
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := partnerKind(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown partner registry", "")
		return
	}

	if err := h.partners.DeletePartner(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, "failed to delete partner", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
