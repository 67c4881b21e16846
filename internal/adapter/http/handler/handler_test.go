package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/internal/usecase/mocks"
)

var (
	testCFO        = domain.Actor{UserID: "u-1", FullName: "Nguyễn Văn A", Role: domain.RoleCFO}
	testAccountant = domain.Actor{UserID: "u-2", FullName: "Trần Thị B", Role: domain.RoleAccountant}
	testManager    = domain.Actor{UserID: "u-3", FullName: "Lê Văn C", Role: domain.RoleManager}
)

func testClock() time.Time {
	return time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)
}

type stubInsights struct{ report string }

func (s stubInsights) GenerateInsights(context.Context) string { return s.report }

// testEnv mounts every handler on a chi router backed by the in-memory fake
// store. Requests run as actor.
type testEnv struct {
	store  *mocks.FakeStore
	pub    *mocks.FakePublisher
	router chi.Router
	actor  domain.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mocks.NewFakeStore()
	pub := &mocks.FakePublisher{}
	idGen := mocks.NewFakeIDGenerator()
	logger := zerolog.Nop()

	txUC := usecase.NewTransactionUseCase(store.Transactions(), store.Partners(), store.Budgets(), idGen, pub, nil, logger, testClock)
	partnerUC := usecase.NewPartnerUseCase(store.Partners(), idGen, pub, logger, testClock)
	budgetUC := usecase.NewBudgetUseCase(store.Budgets(), idGen, pub, nil, logger, testClock)
	dashUC := usecase.NewDashboardUseCase(store.Transactions(), store.Budgets(), store, testClock)
	stateUC := usecase.NewStateUseCase(usecase.StateRepositories{
		Transactions: store.Transactions(),
		Partners:     store.Partners(),
		Budgets:      store.Budgets(),
		Balance:      store,
		State:        store,
	}, idGen, pub, logger, testClock)

	txH := NewTransactionHandler(txUC)
	txH.now = testClock
	partnerH := NewPartnerHandler(partnerUC)
	budgetH := NewBudgetHandler(budgetUC)
	dashH := NewDashboardHandler(dashUC)
	stateH := NewStateHandler(stateUC)
	insightH := NewInsightHandler(stubInsights{report: "## Báo cáo"})

	env := &testEnv{store: store, pub: pub, actor: testCFO}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), env.actor)))
		})
	})
	r.Post("/transactions", txH.Record)
	r.Get("/transactions", txH.List)
	r.Get("/transactions/recent", txH.Recent)
	r.Get("/transactions/export.csv", txH.ExportCSV)
	r.Get("/transactions/{id}", txH.Get)
	r.Get("/partners/{kind}", partnerH.List)
	r.Post("/partners/{kind}", partnerH.Add)
	r.Delete("/partners/{kind}/{id}", partnerH.Delete)
	r.Get("/budgets", budgetH.List)
	r.Get("/budgets/{month}", budgetH.Get)
	r.Put("/budgets/{month}", budgetH.Save)
	r.Get("/budgets/{month}/draft", budgetH.Draft)
	r.Post("/budgets/{month}/copy-previous", budgetH.CopyForward)
	r.Get("/dashboard", dashH.Get)
	r.Get("/state/opening-balance", stateH.GetOpeningBalance)
	r.Put("/state/opening-balance", stateH.SetOpeningBalance)
	r.Get("/state/backup", stateH.ExportBackup)
	r.Post("/state/import", stateH.ImportBackup)
	r.Post("/state/reset", stateH.Reset)
	r.Post("/insights", insightH.Generate)
	r.Get("/tools/amount", Amount)
	env.router = r

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}
