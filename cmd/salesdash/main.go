package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"salesdash/internal/cache"
	"salesdash/internal/config"
	"salesdash/internal/database"
	"salesdash/internal/handler"
	"salesdash/internal/ingest"
	"salesdash/internal/metrics"
	"salesdash/internal/mw"
	"salesdash/internal/notify"
	"salesdash/internal/report"
	"salesdash/internal/service"
	"salesdash/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	db, err := database.NewDB(context.Background(), cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	reg := metrics.NewRegistry()

	var reportCache report.Cache
	if cfg.CacheDir != "" {
		pc, err := cache.NewPebbleCache(cfg.CacheDir)
		if err != nil {
			slog.Error("failed to open report cache", "dir", cfg.CacheDir, "error", err)
			os.Exit(1)
		}
		defer pc.Close()
		if n, err := pc.Len(); err == nil {
			slog.Info("report cache opened", "dir", cfg.CacheDir, "entries", n)
		}
		reportCache = pc
	}

	var publisher notify.Publisher = notify.Nop{}
	if cfg.KafkaBrokers != "" {
		publisher = notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("publishing report events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	// Services
	authSvc := service.NewAuthService(db)
	reportSvc := service.NewReportService(db)

	opts := report.DefaultOptions()
	opts.Margin = cfg.ProfitMargin
	opts.Ingest = ingest.Options{RequireHeader: cfg.RequireHeader}
	generator := report.NewGenerator(opts, reportCache, reg)

	// Worker
	retentionWorker := worker.NewRetentionWorker(reportSvc, reg, cfg.ReportRetention)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", reg.Handler())

	// Public routes
	r.Post("/api/user/register", handler.RegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/user/login", handler.LoginHandler(authSvc, cfg.JWTSecret))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/api/reports", handler.UploadReportHandler(generator, reportSvc, publisher, cfg.MaxUploadBytes))
		r.Get("/api/reports", handler.ListReportsHandler(reportSvc))
		r.Get("/api/reports/{id}", handler.GetReportHandler(reportSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go retentionWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
