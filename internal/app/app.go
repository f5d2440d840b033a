package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/classify"
	"newsletter-digest-go/internal/config"
	"newsletter-digest-go/internal/db"
	"newsletter-digest-go/internal/handlers"
	"newsletter-digest-go/internal/ingest"
	"newsletter-digest-go/internal/llm"
	"newsletter-digest-go/internal/mailsource"
	"newsletter-digest-go/internal/metrics"
	"newsletter-digest-go/internal/repository"
	"newsletter-digest-go/internal/retention"
	"newsletter-digest-go/internal/scheduler"
	"newsletter-digest-go/internal/server"
	"newsletter-digest-go/internal/summarize"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Newsletter Digest Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()
	repo := repository.New(dbConn)

	var source mailsource.Source
	if cfg.Gmail.UseIMAP {
		source, err = mailsource.NewIMAPSource(&cfg.Gmail)
		if err != nil {
			return fmt.Errorf("failed to create IMAP source: %w", err)
		}
		logrus.Info("Using IMAP for newsletter fetching")
	} else {
		source, err = mailsource.NewGmailSource(&cfg.Gmail)
		if err != nil {
			return fmt.Errorf("failed to create Gmail source: %w", err)
		}
		logrus.Info("Using Gmail API for newsletter fetching")
	}

	classifier := classify.New()
	if cfg.Ingestion.CategoriesFile != "" {
		classifier, err = classify.LoadFromFile(cfg.Ingestion.CategoriesFile)
		if err != nil {
			return fmt.Errorf("failed to load categories file: %w", err)
		}
		logrus.Infof("Loaded categories from %s", cfg.Ingestion.CategoriesFile)
	}

	client, err := llm.NewClient(&cfg.Anthropic)
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}

	orchestrator := summarize.NewOrchestrator(client,
		summarize.WithPacing(cfg.Summarizer.NewsletterDelay, cfg.Summarizer.CategoryDelay),
		summarize.WithLabels(classifier.Label),
	)

	coordinator := ingest.NewCoordinator(source, repo, classifier, cfg.Gmail.Label)
	sweeper := retention.NewSweeper(repo)

	// Sweep once at startup so a long-stopped instance catches up
	// before the first scheduled cycle.
	if _, err := sweeper.Sweep(cfg.Retention.Days); err != nil {
		logrus.Errorf("Startup retention sweep failed: %v", err)
	}

	sched := scheduler.NewScheduler(cfg, coordinator, sweeper, repo, m)

	h := handlers.NewHandlers(dbConn, repo, classifier, orchestrator, sched, m)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if err := source.Close(); err != nil {
		logrus.Errorf("Failed to close mail source: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
