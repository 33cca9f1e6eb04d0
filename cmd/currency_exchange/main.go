package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mskrzypek/currency_exchange_app/internal/adapters/database/pgsql"
	"github.com/mskrzypek/currency_exchange_app/internal/adapters/nbp"
	portssvc "github.com/mskrzypek/currency_exchange_app/internal/core/ports/services"
	"github.com/mskrzypek/currency_exchange_app/internal/core/services"
	"github.com/mskrzypek/currency_exchange_app/internal/handlers"
	"github.com/mskrzypek/currency_exchange_app/internal/middleware"
	"github.com/mskrzypek/currency_exchange_app/pkg/config"
	"github.com/mskrzypek/currency_exchange_app/pkg/database"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Currency Exchange API
// @version 1.0
// @description Ingests NBP table-A exchange rates and serves range/filter queries over them.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ingest throttling: each accepted ingest fans out to the NBP API.
	ingestRate, err := limiter.NewRateFromFormatted(cfg.IngestRateLimit)
	if err != nil {
		logger.Error("Invalid INGEST_RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ingestLimit := middleware.RateLimit(limiter.New(memory.NewStore(), ingestRate))

	// Wire adapters and services
	source := nbp.NewClient(cfg.NBPBaseURL, cfg.NBPFetchTimeout)
	tableRepo := pgsql.NewRateTableRepository(dbPool)
	rateRepo := pgsql.NewRateRepository(dbPool)

	container := &portssvc.ServiceContainer{
		Ingestion: services.NewIngestionService(source, tableRepo, rateRepo, logger),
		Rates:     services.NewRateService(rateRepo),
	}

	handlers.RegisterRoutes(r, cfg, container, ingestLimit)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations before the server starts
// serving, using a temporary database/sql connection compatible with the pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
