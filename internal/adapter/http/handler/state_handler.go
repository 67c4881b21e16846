package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/export"
)

// StateHandler exposes the opening balance and whole-data-set operations.
type StateHandler struct {
	state StateService
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(state StateService) *StateHandler {
	return &StateHandler{state: state}
}

// GetOpeningBalance returns the opening balance.
func (h *StateHandler) GetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	amount, err := h.state.OpeningBalance(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to load opening balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(amount))
}

// SetOpeningBalance replaces the opening balance.
func (h *StateHandler) SetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.OpeningBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount := req.Value()
	if err := h.state.SetOpeningBalance(r.Context(), actor, amount); err != nil {
		writeDomainError(w, r, "failed to set opening balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewBalanceResponse(amount))
}

// ExportBackup downloads the full data set as a JSON attachment.
func (h *StateHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	backup, err := h.state.ExportBackup(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, "failed to export backup", err)
		return
	}

	attachment(w, "application/json", export.BackupFilename(backup.ExportDate))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteBackup(w, *backup); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("backup download interrupted")
	}
}

// ImportBackup replaces every collection present in the uploaded backup.
func (h *StateHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	payload, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	keys, err := h.state.ImportBackup(r.Context(), actor, payload)
	if err != nil {
		writeDomainError(w, r, "failed to import backup", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportResponse{Imported: keys})
}

// Reset clears all data.
func (h *StateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.state.Reset(r.Context(), actor); err != nil {
		writeDomainError(w, r, "failed to reset data", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
