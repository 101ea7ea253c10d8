package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/config"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/remote"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/repository/memory"
	pgrepo "github.com/utafrali/storefront/internal/repository/postgres"
	redisrepo "github.com/utafrali/storefront/internal/repository/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/view"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	remoteClient   *httpclient.CircuitBreakerClient
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize tracing.
	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.Enabled = cfg.OTELEnabled
	tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	tracingCfg.SampleRate = cfg.OTELSampleRate
	shutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler()

	reviewRepo, err := a.newReviewRepository(ctx, healthHandler)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	productRepo, err := a.newProductRepository(ctx, healthHandler)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	// Remote review source behind a circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.RemoteTimeout
	clientCfg.MaxRetries = cfg.RemoteMaxRetries
	a.remoteClient = httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("remote-reviews"),
		logger,
	)
	source := remote.NewSource(cfg.RemoteURL, a.remoteClient, logger)
	logger.Info("remote review source configured",
		slog.String("url", cfg.RemoteURL),
		slog.Duration("timeout", cfg.RemoteTimeout),
		slog.Duration("render_wait", cfg.RemoteRenderWait),
	)

	// Build the dependency graph.
	productService := service.NewProductService(productRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, logger)
	panels := handler.NewPanelLoader(source, reviewService, cfg.RemoteRenderWait, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		a.closeResources()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		a.closeResources()
		return nil, err
	}
	submitLimit := middleware.RateLimitConfig{RPS: cfg.SubmitRateLimit, Burst: cfg.SubmitRateBurst, TrustedProxies: trusted}
	router := handler.NewRouter(productService, reviewService, panels, renderer, healthHandler, submitLimit, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

func (a *App) newReviewRepository(ctx context.Context, h *health.Handler) (repository.ReviewRepository, error) {
	if a.cfg.LocalStore == config.LocalStoreMemory {
		a.logger.Warn("using in-memory local review store; reviews are lost on restart")
		return memory.NewReviewRepository(a.logger), nil
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPass,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.rdb = rdb
	a.logger.Info("connected to Redis",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Int("db", a.cfg.RedisDB),
	)

	h.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	return redisrepo.NewReviewRepository(rdb, a.logger), nil
}

func (a *App) newProductRepository(ctx context.Context, h *health.Handler) (repository.ProductRepository, error) {
	if a.cfg.ProductSource == config.ProductSourceMemory {
		repo, err := memory.LoadCatalogFile(a.cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		a.logger.Info("product catalog loaded", slog.String("file", a.cfg.CatalogFile))
		return repo, nil
	}

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:            a.cfg.PostgresHost,
		Port:            a.cfg.PostgresPort,
		User:            a.cfg.PostgresUser,
		Password:        a.cfg.PostgresPass,
		DBName:          a.cfg.PostgresDB,
		SSLMode:         a.cfg.PostgresSSL,
		MaxConns:        a.cfg.DBMaxConns,
		MinConns:        a.cfg.DBMinConns,
		MaxConnLifetime: time.Duration(a.cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(a.cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.logger.Info("connected to PostgreSQL", slog.String("host", a.cfg.PostgresHost))

	if err := database.RunMigrations(ctx, pool, pgrepo.Migrations(), a.logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	h.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	return pgrepo.NewProductRepository(pool), nil
}

// Handler returns the HTTP handler serving all routes.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeResources()

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeResources() {
	if a.remoteClient != nil {
		a.remoteClient.Close()
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
