package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"usage-telemetry-service/internal/config"
	feedbackEventStore "usage-telemetry-service/internal/feedback/adapters/eventstore"
	feedbackHttp "usage-telemetry-service/internal/feedback/adapters/http/fiber"
	feedbackPg "usage-telemetry-service/internal/feedback/adapters/postgres"
	feedbackPorts "usage-telemetry-service/internal/feedback/core/ports"
	feedbackUsecase "usage-telemetry-service/internal/feedback/core/usecase"
	"usage-telemetry-service/internal/observability/logging"
	"usage-telemetry-service/internal/observability/metrics"
	"usage-telemetry-service/internal/platform/clock"
	"usage-telemetry-service/internal/platform/httpclient"
	trackingHttp "usage-telemetry-service/internal/tracking/adapters/http/fiber"
	"usage-telemetry-service/internal/tracking/adapters/logclient"
	"usage-telemetry-service/internal/tracking/adapters/sentrylog"
	trackingUsecase "usage-telemetry-service/internal/tracking/core/usecase"
	"usage-telemetry-service/internal/tracking/session"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "usage-telemetry-service/docs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flagSet := pflag.NewFlagSet("usage-telemetry", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (default: $"+config.EnvConfigPath+")")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, logCloser := logging.New(cfg.Log, os.Stdout)
	defer logCloser.Close()
	slog.SetDefault(logger)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			logger.Warn("sentry initialization failed", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	metrics.Init()

	ctx := context.Background()

	// DB connection
	var db *sql.DB
	if cfg.NeedsPostgres() {
		db, err = openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	// Experiment bucket store
	bucketStore, storeCloser, err := openBucketStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	// Feedback transports
	client := httpclient.New(cfg.Feedback.Timeout)

	var transports []feedbackPorts.Transport
	if cfg.Feedback.EventStoreEnabled {
		transports = append(transports, feedbackEventStore.NewTransport(client, cfg.Feedback.EventStoreURL))
	}

	var summaryUC *feedbackUsecase.GetSummaryUseCase
	if cfg.Feedback.Journal {
		feedbackDB := feedbackPg.NewSQLDB(db)
		journal := feedbackPg.NewJournal(feedbackDB)
		if err := journal.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate feedback journal: %w", err)
		}
		transports = append(transports, journal)
		summaryUC = feedbackUsecase.NewGetSummaryUseCase(feedbackPg.NewSummaryRepository(feedbackDB))
	}

	feedbackUC := feedbackUsecase.NewFeedbackUseCase(transports, logger,
		feedbackUsecase.WithDeliveryTimeout(cfg.Feedback.Timeout),
	)

	// Client error sinks
	clientLogs := logclient.Multi{logclient.NewSlog(logger)}
	var remoteLog *logclient.Sink
	if cfg.ClientLog.BaseURL != "" {
		remoteLog = logclient.New(client, cfg.ClientLog.BaseURL, cfg.ClientLog.Timeout, logger)
		clientLogs = append(clientLogs, remoteLog)
	}
	if cfg.Sentry.DSN != "" {
		clientLogs = append(clientLogs, sentrylog.New(nil))
	}

	// Usecases
	assigner := trackingUsecase.NewExperimentAssigner(bucketStore, logger)
	pageSetup := trackingUsecase.NewPageSetupUseCase(
		feedbackUC,
		clientLogs,
		assigner,
		clock.Real(),
		trackingUsecase.PageConfig{
			Window:        cfg.Scroll.Window,
			LatestOrigin:  cfg.Scroll.LatestOrigin,
			DeveloperMode: cfg.Page.DeveloperMode,
		},
		logger,
	)

	registry, err := session.NewRegistry(pageSetup, cfg.Sessions.Size, logger)
	if err != nil {
		return err
	}

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		AppName:               "usage-telemetry-service",
		DisableStartupMessage: true,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			sentry.CurrentHub().Recover(e)
			logger.Error("handler panic", "path", c.Path(), "panic", fmt.Sprint(e))
		},
	}))
	app.Use(logging.Middleware(logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": registry.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// session endpoints
	trackingHttp.NewSessionHandler(registry).Register(app)

	// feedback endpoints
	if summaryUC != nil {
		summaryHandler := feedbackHttp.NewSummaryHandler(summaryUC)
		app.Get("/feedback/summary", summaryHandler.GetSummary)
	}

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			logger.Error("fiber stopped", "error", err)
		}
	}()

	logger.Info("server started",
		"addr", cfg.HTTP.Addr,
		"experiment_store", cfg.Experiment.Store,
		"transports", len(transports),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("fiber shutdown error", "error", err)
	}
	if err := registry.Drain(shutdownCtx); err != nil {
		logger.Warn("scroll windows still pending", "error", err)
	}
	if err := feedbackUC.Close(shutdownCtx); err != nil {
		logger.Warn("feedback deliveries still in flight", "error", err)
	}
	if remoteLog != nil {
		if err := remoteLog.Close(shutdownCtx); err != nil {
			logger.Warn("client log posts still in flight", "error", err)
		}
	}

	logger.Info("server exiting")
	return nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}
