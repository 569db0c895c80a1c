// Package main is the entry point for the docpress API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docpress/internal/config"
	core "docpress/internal/core/sequence"
	"docpress/internal/domain/document"
	v1 "docpress/internal/infrastructure/http/v1"
	infraseq "docpress/internal/infrastructure/sequence"
	"docpress/internal/infrastructure/storage/postgres"
	"docpress/internal/render"
	"docpress/pkg/logger"
	"docpress/pkg/sequence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting docpress server")

	// --- Storage backends ---
	var (
		pool  *pgxpool.Pool
		repo  document.Repository
		store core.CounterStore
	)

	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatalw("failed to ping database", "error", err)
		}
		log.Info("database connection established")

		pgRepo, err := postgres.NewDocumentRepo(pool)
		if err != nil {
			log.Fatalw("failed to create document repository", "error", err)
		}
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatalw("failed to ensure documents schema", "error", err)
		}

		pgStore := infraseq.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalw("failed to ensure counters schema", "error", err)
		}

		repo = pgRepo
		store = pgStore
	} else {
		log.Info("DATABASE_URL not set, using in-memory storage")
		repo = document.NewMemoryRepository()
		store = sequence.NewFileStore(filepath.Clean(cfg.CountersFile))
	}

	// --- Services ---
	allocator := sequence.New(store)
	docService := document.NewService(repo, allocator)

	taxRate, err := cfg.ParsedTaxRate()
	if err != nil {
		log.Fatalw("invalid tax configuration", "error", err)
	}
	policy := document.TaxPolicy{Rate: taxRate, Include: cfg.IncludeTax}

	settings, err := cfg.RenderSettings()
	if err != nil {
		log.Fatalw("invalid render configuration", "error", err)
	}
	renderer := render.New(settings, cfg.RenderCompany())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		Pool:            pool,
		DocumentService: docService,
		Renderer:        renderer,
		TaxPolicy:       policy,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
