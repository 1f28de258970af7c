package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls int
	count int
	err   error
}

func (m *fakeMarker) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.count, m.err
}

func TestDefaultOverdueWorkerConfig(t *testing.T) {
	config := DefaultOverdueWorkerConfig()

	if config.Schedule != "*/15 * * * *" {
		t.Errorf("Schedule = %q, want %q", config.Schedule, "*/15 * * * *")
	}

	if config.RunTimeout != time.Minute {
		t.Errorf("RunTimeout = %v, want %v", config.RunTimeout, time.Minute)
	}
}

func TestNewOverdueWorker_FillsDefaults(t *testing.T) {
	worker := NewOverdueWorker(&fakeMarker{}, &OverdueWorkerConfig{})

	if worker.config.Schedule != "*/15 * * * *" {
		t.Errorf("Schedule = %q", worker.config.Schedule)
	}

	if worker.running {
		t.Error("Worker should not be running initially")
	}
}

func TestOverdueWorker_RunOnce(t *testing.T) {
	marker := &fakeMarker{count: 3}
	worker := NewOverdueWorker(marker, nil)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	worker.now = func() time.Time { return fixed }

	if got := worker.RunOnce(context.Background()); got != 3 {
		t.Errorf("RunOnce() = %d, want 3", got)
	}
	worker.RunOnce(context.Background())

	stats := worker.GetStats()
	if stats.TotalRuns != 2 {
		t.Errorf("TotalRuns = %d, want 2", stats.TotalRuns)
	}
	if stats.TotalMarked != 6 {
		t.Errorf("TotalMarked = %d, want 6", stats.TotalMarked)
	}
	if stats.LastMarkedCount != 3 {
		t.Errorf("LastMarkedCount = %d, want 3", stats.LastMarkedCount)
	}
	if !stats.LastRunTime.Equal(fixed) {
		t.Errorf("LastRunTime = %v, want %v", stats.LastRunTime, fixed)
	}
	if stats.LastError != "" {
		t.Errorf("LastError = %q, want empty", stats.LastError)
	}
}

func TestOverdueWorker_RunOnceFailure(t *testing.T) {
	worker := NewOverdueWorker(&fakeMarker{err: errors.New("db down")}, nil)

	worker.RunOnce(context.Background())

	if stats := worker.GetStats(); stats.LastError != "db down" {
		t.Errorf("LastError = %q, want %q", stats.LastError, "db down")
	}
}

func TestOverdueWorker_StartStop(t *testing.T) {
	worker := NewOverdueWorker(&fakeMarker{}, &OverdueWorkerConfig{Schedule: "@every 1h"})

	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !worker.GetStats().IsRunning {
		t.Error("Worker should be running after Start()")
	}

	worker.Stop()
	if worker.GetStats().IsRunning {
		t.Error("Worker should not be running after Stop()")
	}
	worker.Stop()
}

func TestOverdueWorker_InvalidSchedule(t *testing.T) {
	worker := NewOverdueWorker(&fakeMarker{}, &OverdueWorkerConfig{Schedule: "every tuesday"})

	if err := worker.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
	if worker.GetStats().IsRunning {
		t.Error("Worker should not be running after a failed Start()")
	}
}
