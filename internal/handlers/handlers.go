package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"newsletter-digest-go/internal/classify"
	"newsletter-digest-go/internal/metrics"
	"newsletter-digest-go/internal/repository"
	"newsletter-digest-go/internal/scheduler"
	"newsletter-digest-go/internal/summarize"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db           *gorm.DB
	repo         *repository.Repository
	classifier   *classify.Classifier
	orchestrator *summarize.Orchestrator
	scheduler    *scheduler.Scheduler
	metrics      *metrics.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, repo *repository.Repository, classifier *classify.Classifier, orchestrator *summarize.Orchestrator, s *scheduler.Scheduler, m *metrics.Metrics) *Handlers {
	return &Handlers{
		db:           db,
		repo:         repo,
		classifier:   classifier,
		orchestrator: orchestrator,
		scheduler:    s,
		metrics:      m,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	// Health check
	router.GET("/healthz", h.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		// Stored newsletters
		api.GET("/newsletters", h.ListNewsletters)
		api.GET("/newsletters/:id", h.GetNewsletter)
		api.GET("/categories", h.GetCategories)
		api.GET("/stats", h.GetStats)

		// On-demand processing
		api.POST("/extract", h.ExtractHTML)
		api.POST("/summarize", h.Summarize)

		// Scheduler control
		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.POST("/scheduler/run-once", h.RunOnce)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}
}
