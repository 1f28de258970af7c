package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// PostgresStatsRepository computes the firm rollups.
// Each table is aggregated in its own CTE so joining them cannot multiply rows.
type PostgresStatsRepository struct {
	q querier
}

const dashboardQuery = `
	WITH pay AS (
		SELECT COALESCE(SUM(amount), 0) AS total,
		       COALESCE(SUM(amount) FILTER (WHERE payment_date >= $2), 0) AS this_month,
		       COALESCE(SUM(amount) FILTER (WHERE payment_date >= $3 AND payment_date < $2), 0) AS last_month
		FROM payments WHERE firm_id = $1
	), ev AS (
		SELECT COUNT(*) FILTER (WHERE status NOT IN ('completed', 'delivered')) AS active,
		       COUNT(*) FILTER (WHERE event_date >= $4 AND event_date < $5) AS weekly
		FROM events WHERE firm_id = $1
	), tk AS (
		SELECT COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		       COUNT(*) FILTER (WHERE status IN ('pending', 'in_progress') AND due_date >= $6 AND due_date < $7) AS today
		FROM tasks WHERE firm_id = $1
	), us AS (
		SELECT COUNT(*) AS members,
		       COUNT(*) FILTER (WHERE is_active) AS active
		FROM users WHERE firm_id = $1
	)
	SELECT pay.total, pay.this_month, pay.last_month,
	       ev.active, ev.weekly,
	       tk.pending, tk.today,
	       us.members, us.active
	FROM pay, ev, tk, us
`

// DashboardCounts runs the dashboard rollup in one statement
func (r *PostgresStatsRepository) DashboardCounts(ctx context.Context, firmID string, w domain.StatsWindow) (domain.DashboardCounts, error) {
	var c domain.DashboardCounts
	err := r.q.QueryRow(ctx, dashboardQuery,
		firmID,
		w.MonthStart,
		w.LastMonthStart,
		w.Now,
		w.WeekEnd,
		w.DayStart,
		w.DayEnd,
	).Scan(
		&c.TotalRevenue, &c.ThisMonthRevenue, &c.LastMonthRevenue,
		&c.ActiveEvents, &c.WeeklyEvents,
		&c.PendingTasks, &c.TasksToday,
		&c.TeamMembers, &c.ActiveTeamMembers,
	)
	return c, err
}

const financialQuery = `
	WITH ev AS (
		SELECT COALESCE(SUM(total_amount), 0) AS booked FROM events WHERE firm_id = $1
	), pay AS (
		SELECT COALESCE(SUM(amount), 0) AS received FROM payments WHERE firm_id = $1
	), ex AS (
		SELECT COALESCE(SUM(amount), 0) AS spent FROM expenses WHERE firm_id = $1
	)
	SELECT ev.booked, pay.received, ex.spent FROM ev, pay, ex
`

// FinancialSummary runs the financial rollup in one statement
func (r *PostgresStatsRepository) FinancialSummary(ctx context.Context, firmID string) (domain.FinancialSummary, error) {
	var booked, received, spent decimal.Decimal
	if err := r.q.QueryRow(ctx, financialQuery, firmID).Scan(&booked, &received, &spent); err != nil {
		return domain.FinancialSummary{}, err
	}
	return domain.NewFinancialSummary(booked, received, spent), nil
}
