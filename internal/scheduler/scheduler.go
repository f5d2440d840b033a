package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/config"
	"newsletter-digest-go/internal/ingest"
	"newsletter-digest-go/internal/metrics"
	"newsletter-digest-go/internal/repository"
	"newsletter-digest-go/internal/retention"
)

// Scheduler manages the periodic ingestion and retention cycle
type Scheduler struct {
	cron        *cron.Cron
	entryID     cron.EntryID
	config      *config.Config
	coordinator *ingest.Coordinator
	sweeper     *retention.Sweeper
	repo        *repository.Repository
	metrics     *metrics.Metrics
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   bool
	mu          sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg *config.Config, coordinator *ingest.Coordinator, sweeper *retention.Sweeper, repo *repository.Repository, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		config:      cfg,
		coordinator: coordinator,
		sweeper:     sweeper,
		repo:        repo,
		metrics:     m,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	// Schedule the job to run every N minutes
	schedule := fmt.Sprintf("0 */%d * * * *", s.config.Scheduler.IntervalMinutes)

	entryID, err := s.cron.AddFunc(schedule, s.runCycle)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with interval: %d minutes", s.config.Scheduler.IntervalMinutes)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	// Cancel context to stop any running operations
	s.cancel()

	// Stop the cron scheduler
	ctx := s.cron.Stop()

	// Wait for all jobs to complete
	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// runCycle is the main processing function that runs periodically
func (s *Scheduler) runCycle() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Info("Scheduler not running, skipping cycle")
		return
	}
	s.mu.RUnlock()

	logrus.Info("Starting ingestion cycle")
	startTime := time.Now()
	s.metrics.IngestRuns.Inc()

	owner := s.config.Gmail.UserEmail
	stats, err := s.coordinator.Ingest(s.ctx, owner, ingest.Options{
		LookbackDays: s.config.Ingestion.LookbackDays,
		MaxResults:   s.config.Ingestion.MaxResults,
	})
	if err != nil {
		logrus.Errorf("Ingestion cycle failed: %v", err)
		s.metrics.ParseErrors.Inc()
		return
	}

	s.metrics.MessagesFetched.Add(float64(stats.TotalFetched))
	s.metrics.NewlyParsed.Add(float64(stats.NewlyParsed))
	s.metrics.DedupSkips.Add(float64(stats.AlreadyExists))
	s.metrics.ParseErrors.Add(float64(stats.ParseErrors))

	if _, err := s.sweeper.Sweep(s.config.Retention.Days); err != nil {
		logrus.Errorf("Retention sweep failed: %v", err)
	}

	s.refreshGauges()
	s.metrics.IngestDuration.Observe(time.Since(startTime).Seconds())
	logrus.Infof("Ingestion cycle completed in %v", time.Since(startTime))
}

// refreshGauges updates the stored-record gauges from the database
func (s *Scheduler) refreshGauges() {
	total, err := s.repo.CountTotal()
	if err != nil {
		logrus.Errorf("Failed to count stored newsletters: %v", err)
		return
	}
	s.metrics.StoredNewsletters.Set(float64(total))

	review, err := s.repo.CountNeedsReview()
	if err != nil {
		logrus.Errorf("Failed to count newsletters needing review: %v", err)
		return
	}
	s.metrics.NeedsReview.Set(float64(review))
}

// RunOnce runs the ingestion cycle once (for manual triggering)
func (s *Scheduler) RunOnce() error {
	logrus.Info("Running ingestion cycle once")
	s.runCycle()
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	if !s.isRunning {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// GetLastRun returns the time of the last run
func (s *Scheduler) GetLastRun() time.Time {
	if !s.isRunning {
		return time.Time{}
	}

	entry := s.cron.Entry(s.entryID)
	return entry.Prev
}

// Wait waits for the scheduler to stop
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
