package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/cashflow/internal/adapter/http"
	"github.com/iho/cashflow/internal/adapter/http/handler"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/adapter/repository/kv"
	postgresRepo "github.com/iho/cashflow/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashflow/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/cashflow/internal/adapter/repository/sqlite"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
	"github.com/iho/cashflow/internal/infrastructure/config"
	"github.com/iho/cashflow/internal/infrastructure/eventpublisher"
	"github.com/iho/cashflow/internal/infrastructure/idgen"
	"github.com/iho/cashflow/internal/infrastructure/insight"
	"github.com/iho/cashflow/internal/infrastructure/logger"
	"github.com/iho/cashflow/internal/infrastructure/metrics"
	"github.com/iho/cashflow/internal/infrastructure/postgres"
	"github.com/iho/cashflow/internal/infrastructure/redis"
	"github.com/iho/cashflow/internal/infrastructure/scheduler"
	"github.com/iho/cashflow/internal/infrastructure/sqlite"
	"github.com/iho/cashflow/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "cashflow"})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

// backend is an opened KV store plus its readiness checks and cleanup.
type backend struct {
	store  kv.Store
	checks map[string]handler.HealthCheck
	close  func()
}

// openBackend connects the store selected by STORE_BACKEND.
func openBackend(ctx context.Context, cfg *config.Config, l zerolog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		l.Warn().Msg("using in-memory store; data is lost on restart")
		return &backend{store: kv.NewMemoryStore(), close: func() {}}, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL, l)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return &backend{
			store: redisRepo.NewStore(client, cfg.StorePrefix),
			checks: map[string]handler.HealthCheck{
				"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
			},
			close: func() { client.Close() },
		}, nil

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, l); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL:     cfg.DatabaseURL,
			MaxConns:        cfg.DatabaseMaxConns,
			MinConns:        cfg.DatabaseMinConns,
			ApplicationName: "cashflow",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		l.Info().Msg("connected to postgres")
		return &backend{
			store:  postgresRepo.NewStore(pool, postgresRepo.NewRetrier(l)),
			checks: map[string]handler.HealthCheck{"postgres": pool.Ping},
			close:  pool.Close,
		}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, l)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		l.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")
		return &backend{
			store:  sqliteRepo.NewStore(db),
			checks: map[string]handler.HealthCheck{"sqlite": db.PingContext},
			close:  func() { db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// defaultActor is the caller used for every request when auth is disabled.
func defaultActor(cfg *config.Config) domain.Actor {
	var role domain.Role
	role.UnmarshalText([]byte(strings.TrimSpace(cfg.DefaultRole)))
	if !role.IsValid() {
		role = domain.RoleManager
	}
	return domain.Actor{UserID: "default", FullName: cfg.DefaultFullName, Role: role}
}

// newEventSink returns the AMQP sink when AMQP_URL is set, else a log sink.
func newEventSink(cfg *config.Config, l zerolog.Logger) (eventpublisher.Sink, func(), error) {
	if cfg.AMQPURL == "" {
		return eventpublisher.NewLogPublisher(l), func() {}, nil
	}

	pub, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, l)
	if err != nil {
		return nil, nil, err
	}
	l.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing events to AMQP")
	return pub, func() { pub.Close() }, nil
}

// newInsightGenerator returns nil when no API key is configured.
func newInsightGenerator(ctx context.Context, cfg *config.Config, l zerolog.Logger) usecase.InsightGenerator {
	if cfg.GeminiAPIKey == "" {
		l.Info().Msg("GEMINI_API_KEY not set; AI insights disabled")
		return nil
	}

	gen, err := insight.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, l)
	if err != nil {
		l.Error().Err(err).Msg("failed to create Gemini client; AI insights disabled")
		return nil
	}
	return gen
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	b, err := openBackend(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer b.close()

	m := metrics.New(prometheus.DefaultRegisterer)

	sink, closeSink, err := newEventSink(cfg, l)
	if err != nil {
		return err
	}
	defer closeSink()

	events := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Sink:   sink,
		Logger: l.With().Str("component", "events").Logger(),
		OnDrop: m.EventsDropped.Inc,
	})

	// Initialize repositories
	repos := kv.NewRepositories(b.store)
	idGen := idgen.New()

	// Initialize use cases
	userUC := usecase.NewUserUseCase(repos.Users(), repos.Sessions(), idGen, events, l, cfg.JWTExpiration, nil)
	txUC := usecase.NewTransactionUseCase(repos.Transactions(), repos.Partners(), repos.Budgets(), idGen, events, m, l, nil)
	partnerUC := usecase.NewPartnerUseCase(repos.Partners(), idGen, events, l, nil)
	budgetUC := usecase.NewBudgetUseCase(repos.Budgets(), idGen, events, m, l, nil)
	dashboardUC := usecase.NewDashboardUseCase(repos.Transactions(), repos.Budgets(), repos.Balance(), nil)
	stateUC := usecase.NewStateUseCase(usecase.StateRepositories{
		Transactions: repos.Transactions(),
		Partners:     repos.Partners(),
		Budgets:      repos.Budgets(),
		Balance:      repos.Balance(),
		State:        repos.State(),
	}, idGen, events, l, nil)
	insightUC := usecase.NewInsightUseCase(repos.Transactions(), newInsightGenerator(ctx, cfg, l), m, l)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	if !cfg.AuthEnabled {
		l.Warn().Str("role", cfg.DefaultRole).Msg("authentication disabled; requests run as the default actor")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits.Inc)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, m),
		TransactionHandler: handler.NewTransactionHandler(txUC),
		PartnerHandler:     handler.NewPartnerHandler(partnerUC),
		BudgetHandler:      handler.NewBudgetHandler(budgetUC),
		DashboardHandler:   handler.NewDashboardHandler(dashboardUC),
		StateHandler:       handler.NewStateHandler(stateUC),
		InsightHandler:     handler.NewInsightHandler(insightUC),
		HealthHandler:      handler.NewHealthHandler(b.checks),
		Authenticator:      middleware.NewAuthenticator(jwtManager, userUC, cfg.AuthEnabled, defaultActor(cfg)),
		IdempotencyStore:   kv.NewIdempotencyStore(b.store),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		Gatherer:           prometheus.DefaultGatherer,
		CORSOrigins:        cfg.CORSAllowedOrigins,
		Logger:             l,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return events.Start(gctx) })
	g.Go(func() error { return rateLimiter.Run(gctx, time.Minute) })

	if cfg.BackupSchedule != "" {
		job := scheduler.NewBackupJob(stateUC, cfg.BackupDir, l, m.RecordBackup)
		sched, err := scheduler.New(cfg.BackupSchedule, job, l.With().Str("component", "backup").Logger())
		if err != nil {
			return err
		}
		g.Go(func() error { return sched.Start(gctx) })
	}

	g.Go(func() error {
		l.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
