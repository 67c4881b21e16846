package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/export"
	"github.com/iho/cashflow/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactions TransactionService
	now          func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, now: time.Now}
}

// Record records a new transaction.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.RecordTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.transactions.RecordTransaction(r.Context(), actor, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// List lists transactions, newest first. Query parameters: q, month, type,
// limit, offset.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var txType domain.TransactionType
	if v := q.Get("type"); v != "" {
		txType.UnmarshalText([]byte(v))
	}

	txs, err := h.transactions.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		Query:  q.Get("q"),
		Month:  q.Get("month"),
		Type:   txType,
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Recent returns the newest transactions.
func (h *TransactionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.RecentTransactions(r.Context(), parseIntQuery(r, "n", usecase.DefaultRecentLimit))
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// ExportCSV downloads every transaction as a spreadsheet-friendly CSV.
func (h *TransactionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.AllTransactions(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to export transactions", err)
		return
	}

	attachment(w, "text/csv; charset=utf-8", export.CSVFilename(h.now()))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, txs); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("csv export interrupted")
	}
}
