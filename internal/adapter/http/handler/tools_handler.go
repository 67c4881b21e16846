package handler

import (
	"net/http"

	"github.com/iho/cashflow/internal/adapter/http/dto"
)

// Amount parses ?input= and returns the amount in đồng, formatted and in
// words.
func Amount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewAmountResponse(r.URL.Query().Get("input")))
}
