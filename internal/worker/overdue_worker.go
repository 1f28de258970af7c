package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueMarker flags open tasks whose due date has passed
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueWorkerConfig holds configuration for the overdue sweep
type OverdueWorkerConfig struct {
	// Schedule is a standard five-field cron expression
	Schedule string
	// RunTimeout bounds one sweep
	RunTimeout time.Duration
}

// DefaultOverdueWorkerConfig returns default configuration
func DefaultOverdueWorkerConfig() *OverdueWorkerConfig {
	return &OverdueWorkerConfig{
		Schedule:   "*/15 * * * *",
		RunTimeout: time.Minute,
	}
}

// OverdueWorker periodically marks tasks overdue
type OverdueWorker struct {
	marker OverdueMarker
	config *OverdueWorkerConfig
	log    *logger.Logger
	now    func() time.Time

	cron    *cron.Cron
	ctx     context.Context
	running bool
	mu      sync.Mutex

	totalMarked     int64
	totalRuns       int64
	lastRunTime     time.Time
	lastMarkedCount int
	lastError       string
}

// NewOverdueWorker creates a new OverdueWorker
func NewOverdueWorker(marker OverdueMarker, config *OverdueWorkerConfig) *OverdueWorker {
	if config == nil {
		config = DefaultOverdueWorkerConfig()
	}
	if config.Schedule == "" {
		config.Schedule = DefaultOverdueWorkerConfig().Schedule
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = time.Minute
	}

	return &OverdueWorker{
		marker: marker,
		config: config,
		log:    logger.Get(),
		now:    time.Now,
	}
}

// Start schedules the sweep. It returns an error for an invalid schedule.
func (w *OverdueWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.config.Schedule, func() { w.RunOnce(w.ctx) }); err != nil {
		return err
	}

	w.ctx = ctx
	w.cron = c
	w.running = true
	c.Start()

	w.log.Info("Overdue worker started", zap.String("schedule", w.config.Schedule))
	return nil
}

// Stop stops scheduling and waits for a sweep in progress
func (w *OverdueWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.mu.Unlock()

	<-c.Stop().Done()
	w.log.Info("Overdue worker stopped")
}

// RunOnce performs a single sweep and returns the number of tasks marked
func (w *OverdueWorker) RunOnce(ctx context.Context) int {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, w.config.RunTimeout)
	defer cancel()

	started := w.now()
	marked, err := w.marker.MarkOverdue(ctx, started)

	w.mu.Lock()
	w.totalRuns++
	w.totalMarked += int64(marked)
	w.lastRunTime = started
	w.lastMarkedCount = marked
	w.lastError = ""
	if err != nil {
		w.lastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("Overdue sweep failed", zap.Int("marked", marked), zap.Error(err))
		return marked
	}
	if marked > 0 {
		w.log.Info("Marked tasks overdue",
			zap.Int("count", marked),
			zap.Duration("duration", w.now().Sub(started)),
		)
	}
	return marked
}

// OverdueWorkerStats represents the statistics of the overdue worker
type OverdueWorkerStats struct {
	IsRunning       bool      `json:"isRunning"`
	TotalRuns       int64     `json:"totalRuns"`
	TotalMarked     int64     `json:"totalMarked"`
	LastRunTime     time.Time `json:"lastRunTime"`
	LastMarkedCount int       `json:"lastMarkedCount"`
	LastError       string    `json:"lastError,omitempty"`
}

// GetStats returns the current worker statistics
func (w *OverdueWorker) GetStats() OverdueWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return OverdueWorkerStats{
		IsRunning:       w.running,
		TotalRuns:       w.totalRuns,
		TotalMarked:     w.totalMarked,
		LastRunTime:     w.lastRunTime,
		LastMarkedCount: w.lastMarkedCount,
		LastError:       w.lastError,
	}
}
