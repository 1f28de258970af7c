package service

import (
	"context"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DashboardService exposes the firm rollups and the activity feed.
// Nothing is cached; every call recomputes from the store.
type DashboardService interface {
	Stats(ctx context.Context, firmID string) (domain.DashboardStats, error)
	FinancialSummary(ctx context.Context, firmID string) (domain.FinancialSummary, error)
	RecentActivity(ctx context.Context, firmID string, limit int) ([]*domain.ActivityWithUser, error)
}

type dashboardService struct {
	store   repository.Store
	now     func() time.Time
	latency *telemetry.Histogram
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store repository.Store) DashboardService {
	// a nil histogram records nothing
	latency, _ := telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "dashboard_rollup_duration_ms",
		Description: "Time spent computing a firm rollup",
		Unit:        "ms",
	})
	return &dashboardService{store: store, now: time.Now, latency: latency}
}

func (s *dashboardService) observe(ctx context.Context, rollup string, start time.Time) {
	s.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000,
		attribute.String("dashboard.rollup", rollup))
}

func (s *dashboardService) Stats(ctx context.Context, firmID string) (domain.DashboardStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "dashboard.stats")
	defer span.End()
	span.SetAttributes(telemetry.FirmIDAttr(firmID))
	defer s.observe(ctx, "stats", time.Now())

	counts, err := s.store.Stats().DashboardCounts(ctx, firmID, domain.NewStatsWindow(s.now()))
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return domain.DashboardStats{}, storageErr("dashboard stats", err)
	}
	return counts.Stats(), nil
}

func (s *dashboardService) FinancialSummary(ctx context.Context, firmID string) (domain.FinancialSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "dashboard.financial_summary")
	defer span.End()
	span.SetAttributes(telemetry.FirmIDAttr(firmID))
	defer s.observe(ctx, "financial_summary", time.Now())

	summary, err := s.store.Stats().FinancialSummary(ctx, firmID)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return domain.FinancialSummary{}, storageErr("financial summary", err)
	}
	return summary, nil
}

func (s *dashboardService) RecentActivity(ctx context.Context, firmID string, limit int) ([]*domain.ActivityWithUser, error) {
	entries, err := s.store.Activity().ListByFirm(ctx, firmID, domain.ClampActivityLimit(limit))
	if err != nil {
		return nil, storageErr("list activity", err)
	}
	return entries, nil
}
