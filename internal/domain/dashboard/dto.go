package dashboard

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	DailyStats   DailyStatsResponse   `json:"daily_stats"`
	MonthlyTrend MonthlyTrendResponse `json:"monthly_trend"`
}

// ========== DAILY STATS ==========

// DailyStatsResponse counts today's ledger rows against the staff roster.
// ActiveStaff is everyone who checked in; OnTimeCount folds in legacy "present" rows.
type DailyStatsResponse struct {
	Date        string `json:"date"`
	TotalStaff  int64  `json:"total_staff"`
	ActiveStaff int64  `json:"active_staff"`
	AbsentStaff int64  `json:"absent_staff"`
	OnTimeCount int64  `json:"on_time_count"`
	LateCount   int64  `json:"late_count"`
}

// ========== MONTHLY TREND ==========

type TrendPoint struct {
	Date             string  `json:"date"`
	OnTimePercentage float64 `json:"on_time_percentage"`
	LatePercentage   float64 `json:"late_percentage"`
	AbsentPercentage float64 `json:"absent_percentage"`
	TotalStaff       int64   `json:"total_staff"`
}

type MonthlyTrendResponse struct {
	Month  string       `json:"month"` // Format: "YYYY-MM"
	Points []TrendPoint `json:"points"`
}
