package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns today's stats and the current month's trend
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetDailyStats returns stats for a YYYY-MM-DD date, today when empty
	GetDailyStats(ctx context.Context, date string) (*DailyStatsResponse, error)

	// GetMonthlyTrend returns per-day percentages for a YYYY-MM month, current when empty
	GetMonthlyTrend(ctx context.Context, month string) (*MonthlyTrendResponse, error)
}
