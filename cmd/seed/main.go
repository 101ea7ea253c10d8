// Command seed loads a YAML product catalog into the PostgreSQL products
// table, creating the schema first. Re-running it updates existing rows.
//
// Run: CATALOG_FILE=catalog.yaml go run ./cmd/seed
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/repository/memory"
	pgrepo "github.com/utafrali/storefront/internal/repository/postgres"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("storefront-seed", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	catalog, err := memory.LoadCatalogFile(cfg.CatalogFile)
	if err != nil {
		return err
	}
	products, err := catalog.List(ctx)
	if err != nil {
		return err
	}

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		MaxConns: 2,
	}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, pgrepo.Migrations(), log); err != nil {
		return err
	}

	start := time.Now()
	n, err := pgrepo.NewProductRepository(pool).Upsert(ctx, products)
	if err != nil {
		return err
	}

	log.Info("catalog seeded",
		slog.Int("products", len(products)),
		slog.Int("rows_written", n),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
