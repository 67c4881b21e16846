package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/adapter/http/handler"
	apimiddleware "github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/adapter/repository/kv"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/infrastructure/idgen"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
	"github.com/iho/cashflow/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t, false))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	limited := 0
	rl := apimiddleware.NewRateLimiter(1, 1, func() { limited++ })
	cfg := newRouterConfig(t, false)
	cfg.RateLimiter = rl
	router := NewRouter(cfg)

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
	if limited != 1 {
		t.Fatalf("expected one limited callback, got %d", limited)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t, false))

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/auth/login",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"GET /api/v1/partners/{kind}/",
		"PUT /api/v1/budgets/{month}",
		"GET /api/v1/dashboard",
		"GET /api/v1/state/backup",
		"GET /api/v1/tools/amount",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_AuthenticatedFlow(t *testing.T) {
	router := NewRouter(newRouterConfig(t, true))

	rec := call(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "ketoan",
		"password": "secret123",
		"fullName": "Trần Thị B",
		"role":     "ACCOUNTANT",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ketoan",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ketoan",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleAccountant, login.User.Role)

	rec = call(t, router, http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, router, http.MethodPost, "/api/v1/transactions/", login.Token, map[string]any{"amountText": "10tr"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodGet, "/api/v1/dashboard", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash dto.DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dash))
	assert.Equal(t, int64(10_000_000), dash.AllTime.TotalIn)

	rec = call(t, router, http.MethodGet, "/api/v1/auth/users", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, router, http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, router, http.MethodGet, "/api/v1/dashboard", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRouter_IdempotentTransactionRecord(t *testing.T) {
	router := NewRouter(newRouterConfig(t, false))

	body := map[string]any{"amount": 1_000_000}
	first := call(t, router, http.MethodPost, "/api/v1/transactions/", "", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := call(t, router, http.MethodPost, "/api/v1/transactions/", "", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := call(t, router, http.MethodGet, "/api/v1/transactions/", "", nil)
	var list dto.TransactionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(t, false))

	call(t, router, http.MethodPost, "/api/v1/transactions/", "", map[string]any{"amount": 500_000})

	rec := call(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "cashflow_transactions_recorded_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "cashflow_http_requests_total"))
}

func call(t *testing.T, router http.Handler, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newRouterConfig(t *testing.T, authEnabled bool) RouterConfig {
	t.Helper()

	store := kv.NewMemoryStore()
	repos := kv.NewRepositories(store)
	ids := idgen.New()
	logger := zerolog.Nop()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	userUC := usecase.NewUserUseCase(repos.Users(), repos.Sessions(), ids, nil, logger, 0, nil)
	txUC := usecase.NewTransactionUseCase(repos.Transactions(), repos.Partners(), repos.Budgets(), ids, nil, m, logger, nil)
	partnerUC := usecase.NewPartnerUseCase(repos.Partners(), ids, nil, logger, nil)
	budgetUC := usecase.NewBudgetUseCase(repos.Budgets(), ids, nil, m, logger, nil)
	dashUC := usecase.NewDashboardUseCase(repos.Transactions(), repos.Budgets(), repos.Balance(), nil)
	stateUC := usecase.NewStateUseCase(usecase.StateRepositories{
		Transactions: repos.Transactions(),
		Partners:     repos.Partners(),
		Budgets:      repos.Budgets(),
		Balance:      repos.Balance(),
		State:        repos.State(),
	}, ids, nil, logger, nil)
	insightUC := usecase.NewInsightUseCase(repos.Transactions(), nil, m, logger)

	jwtManager := auth.NewJWTManager("test-secret")
	defaultActor := domain.Actor{UserID: "default", FullName: "Admin", Role: domain.RoleCFO}

	return RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, m),
		TransactionHandler: handler.NewTransactionHandler(txUC),
		PartnerHandler:     handler.NewPartnerHandler(partnerUC),
		BudgetHandler:      handler.NewBudgetHandler(budgetUC),
		DashboardHandler:   handler.NewDashboardHandler(dashUC),
		StateHandler:       handler.NewStateHandler(stateUC),
		InsightHandler:     handler.NewInsightHandler(insightUC),
		HealthHandler:      handler.NewHealthHandler(nil),
		Authenticator:      apimiddleware.NewAuthenticator(jwtManager, userUC, authEnabled, defaultActor),
		IdempotencyStore:   kv.NewIdempotencyStore(store),
		Metrics:            m,
		Gatherer:           registry,
		Logger:             logger,
	}
}
