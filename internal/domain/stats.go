package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the firm overview rollup
type DashboardStats struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	ActiveEvents      int             `json:"activeEvents"`
	PendingTasks      int             `json:"pendingTasks"`
	TeamMembers       int             `json:"teamMembers"`
	MonthlyGrowth     float64         `json:"monthlyGrowth"`
	WeeklyEvents      int             `json:"weeklyEvents"`
	TasksToday        int             `json:"tasksToday"`
	ActiveTeamMembers int             `json:"activeTeamMembers"`
}

// DashboardCounts is the raw output of the dashboard aggregation
type DashboardCounts struct {
	TotalRevenue      decimal.Decimal
	ThisMonthRevenue  decimal.Decimal
	LastMonthRevenue  decimal.Decimal
	ActiveEvents      int
	WeeklyEvents      int
	PendingTasks      int
	TasksToday        int
	TeamMembers       int
	ActiveTeamMembers int
}

// Stats derives the dashboard view from the raw counts
func (c DashboardCounts) Stats() DashboardStats {
	return DashboardStats{
		TotalRevenue:      c.TotalRevenue,
		ActiveEvents:      c.ActiveEvents,
		PendingTasks:      c.PendingTasks,
		TeamMembers:       c.TeamMembers,
		MonthlyGrowth:     GrowthPercent(c.ThisMonthRevenue, c.LastMonthRevenue),
		WeeklyEvents:      c.WeeklyEvents,
		TasksToday:        c.TasksToday,
		ActiveTeamMembers: c.ActiveTeamMembers,
	}
}

// GrowthPercent is the change from previous to current in percent, rounded to one decimal.
// It is 0 when both are zero and 100 when only previous is zero.
func GrowthPercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	f, _ := pct.Float64()
	return f
}

// StatsWindow holds the time boundaries used by the dashboard aggregation, all in UTC
type StatsWindow struct {
	Now            time.Time
	MonthStart     time.Time
	LastMonthStart time.Time
	WeekEnd        time.Time
	DayStart       time.Time
	DayEnd         time.Time
}

// NewStatsWindow computes the boundaries relative to now
func NewStatsWindow(now time.Time) StatsWindow {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return StatsWindow{
		Now:            now,
		MonthStart:     month,
		LastMonthStart: month.AddDate(0, -1, 0),
		WeekEnd:        now.Add(7 * 24 * time.Hour),
		DayStart:       day,
		DayEnd:         day.AddDate(0, 0, 1),
	}
}

// FinancialSummary is the booked versus collected money rollup
type FinancialSummary struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	PendingAmount  decimal.Decimal `json:"pendingAmount"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	NetProfit      decimal.Decimal `json:"netProfit"`
}

// NewFinancialSummary derives pending and net profit from the three sums
func NewFinancialSummary(totalRevenue, received, expenses decimal.Decimal) FinancialSummary {
	return FinancialSummary{
		TotalRevenue:   totalRevenue,
		ReceivedAmount: received,
		PendingAmount:  totalRevenue.Sub(received),
		TotalExpenses:  expenses,
		NetProfit:      received.Sub(expenses),
	}
}

// Owned is implemented by every firm-scoped record
type Owned interface {
	OwnerFirmID() string
}
