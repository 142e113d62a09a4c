package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns today's stats and the current month's trend
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetDailyStats returns stats for a day
	GetDailyStats(w http.ResponseWriter, r *http.Request)
	// GetMonthlyTrend returns per-day percentages for a month
	GetMonthlyTrend(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyStats handles GET /dashboard/daily-stats
func (h *dashboardHandlerImpl) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date") // format: YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetDailyStats(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyTrend handles GET /dashboard/monthly-trend
func (h *dashboardHandlerImpl) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month") // format: YYYY-MM, default: current month

	result, err := h.dashboardService.GetMonthlyTrend(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
