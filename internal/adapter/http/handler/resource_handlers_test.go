package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/domain"
)

func TestPartnerHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/partners/vendors", map[string]any{
		"name":    "Dệt may Phong Phú",
		"taxCode": "0301234567",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	vendor := decode[domain.Partner](t, rr)
	assert.True(t, strings.HasPrefix(vendor.ID, "VEN-"))

	list := decode[[]domain.Partner](t, env.do(t, http.MethodGet, "/partners/vendors?q=phong", nil))
	require.Len(t, list, 1)

	list = decode[[]domain.Partner](t, env.do(t, http.MethodGet, "/partners/customers", nil))
	assert.Empty(t, list)

	rr = env.do(t, http.MethodDelete, "/partners/vendors/"+vendor.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, http.MethodDelete, "/partners/vendors/"+vendor.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPartnerHandler_UnknownRegistry(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/partners/suppliers", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBudgetHandler_SaveAndRead(t *testing.T) {
	env := newTestEnv(t)
	env.actor = testAccountant

	rr := env.do(t, http.MethodPut, "/budgets/2024-05", map[string]any{
		"revenueItems": []map[string]any{{"label": "Doanh thu may mặc", "amountText": "100tr"}},
		"expenseItems": []map[string]any{{"label": "Vải", "amount": 40_000_000}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	saved := decode[dto.BudgetResponse](t, rr)
	assert.Equal(t, domain.BudgetDraft, saved.Status)
	assert.Equal(t, int64(100_000_000), saved.TotalRevenue)
	assert.Equal(t, int64(60_000_000), saved.NetGoal)

	rr = env.do(t, http.MethodGet, "/budgets/2024-05", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	all := decode[[]dto.BudgetResponse](t, env.do(t, http.MethodGet, "/budgets", nil))
	assert.Len(t, all, 1)

	rr = env.do(t, http.MethodPost, "/budgets/2024-06/copy-previous", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	copied := decode[dto.BudgetResponse](t, rr)
	assert.Equal(t, "2024-06", copied.Month)
	assert.Equal(t, int64(100_000_000), copied.TotalRevenue)

	rr = env.do(t, http.MethodGet, "/budgets/2024-06", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBudgetHandler_CFOApproves(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/budgets/2024-05", map[string]any{
		"revenueItems": []map[string]any{{"label": "Doanh thu", "amount": 1_000_000}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, domain.BudgetApproved, decode[dto.BudgetResponse](t, rr).Status)
}

func TestBudgetHandler_DraftAndBadMonth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/budgets/2024-07/draft", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	draft := decode[dto.BudgetResponse](t, rr)
	assert.Len(t, draft.RevenueItems, 1)
	assert.Len(t, draft.ExpenseItems, 1)

	rr = env.do(t, http.MethodGet, "/budgets/May-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDashboardHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/state/opening-balance", map[string]any{"amountText": "1 tỷ"}).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/transactions", map[string]any{"amount": 5_500_000}).Code)

	rr := env.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	d := decode[dto.DashboardResponse](t, rr)
	assert.Equal(t, "2024-05", d.Month)
	assert.Equal(t, int64(1_005_500_000), d.ClosingBalance)
	assert.Equal(t, "1.005.500.000 VNĐ", d.Formatted.ClosingBalance)

	rr = env.do(t, http.MethodGet, "/dashboard?month=2024-13", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStateHandler_BackupImportReset(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/transactions", map[string]any{"amount": 2_000_000}).Code)

	rr := env.do(t, http.MethodGet, "/state/backup", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "TTG_DATABASE_BACKUP_2024-05-15.json")
	backup := rr.Body.String()

	rr = env.do(t, http.MethodPost, "/state/reset", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	list := decode[dto.TransactionListResponse](t, env.do(t, http.MethodGet, "/transactions", nil))
	assert.Zero(t, list.Count)

	rr = env.do(t, http.MethodPost, "/state/import", backup)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, decode[dto.ImportResponse](t, rr).Imported, "transactions")

	list = decode[dto.TransactionListResponse](t, env.do(t, http.MethodGet, "/transactions", nil))
	assert.Equal(t, 1, list.Count)
}

func TestStateHandler_ImportMalformed(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/state/import", "not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStateHandler_AccountantForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.actor = testAccountant

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/state/backup"},
		{http.MethodPost, "/state/reset"},
		{http.MethodPut, "/state/opening-balance"},
	} {
		rr := env.do(t, tc.method, tc.path, map[string]any{"amount": 1})
		assert.Equal(t, http.StatusForbidden, rr.Code, tc.path)
	}

	rr := env.do(t, http.MethodGet, "/state/opening-balance", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInsightAndAmountTools(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/insights", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "## Báo cáo", decode[dto.InsightResponse](t, rr).Report)

	rr = env.do(t, http.MethodGet, "/tools/amount?input=1.5tr", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	amount := decode[dto.AmountResponse](t, rr)
	assert.Equal(t, int64(1_500_000), amount.Amount)
	assert.Equal(t, "1.500.000 VNĐ", amount.Formatted)
	assert.Equal(t, "1.50 Triệu VNĐ", amount.Words)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})

	rr := httptest.NewRecorder()
	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready","redis":"ok"}`, rr.Body.String())

	h = NewHealthHandler(map[string]HealthCheck{
		"postgres": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	rr = httptest.NewRecorder()
	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "postgres unhealthy")
}
