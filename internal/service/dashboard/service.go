package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/shiftclock"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	clock *shiftclock.Policy
}

func NewDashboardService(repo dashboard.DashboardRepository, clock *shiftclock.Policy) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		clock:               clock,
	}
}

// parseDate parses YYYY-MM-DD in the organizational zone, defaults to today
func (s *DashboardServiceImpl) parseDate(date string) (time.Time, error) {
	if date == "" {
		return s.clock.DateOf(s.clock.Now()), nil
	}
	d, err := s.clock.ParseDate(date)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return d, nil
}

func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

func dailyStats(date time.Time, totalStaff int64, counts dashboard.StatusCounts) dashboard.DailyStatsResponse {
	return dashboard.DailyStatsResponse{
		Date:        date.Format("2006-01-02"),
		TotalStaff:  totalStaff,
		ActiveStaff: counts.OnTime + counts.Late + counts.Present,
		AbsentStaff: counts.Absent,
		OnTimeCount: counts.OnTime + counts.Present,
		LateCount:   counts.Late,
	}
}

func monthlyTrend(from time.Time, totalStaff int64, days []dashboard.DayStatusCounts) dashboard.MonthlyTrendResponse {
	points := make([]dashboard.TrendPoint, 0, len(days))
	for _, day := range days {
		// The roster can be smaller than a past day's ledger when staff left since
		denominator := totalStaff
		if day.Total() > denominator {
			denominator = day.Total()
		}
		points = append(points, dashboard.TrendPoint{
			Date:             day.Date.Format("2006-01-02"),
			OnTimePercentage: percentage(day.OnTime+day.Present, denominator),
			LatePercentage:   percentage(day.Late, denominator),
			AbsentPercentage: percentage(day.Absent, denominator),
			TotalStaff:       denominator,
		})
	}
	return dashboard.MonthlyTrendResponse{
		Month:  from.Format("2006-01"),
		Points: points,
	}
}

// GetDashboard returns today's stats and the current month's trend using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	today := s.clock.DateOf(s.clock.Now())
	from, to, err := s.clock.MonthRange("")
	if err != nil {
		return nil, err
	}

	var (
		totalStaff int64
		todayStats dashboard.StatusCounts
		days       []dashboard.DayStatusCounts
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.CountStaff(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count staff: %w", err)
		}
		totalStaff = n
		return nil
	})

	g.Go(func() error {
		counts, err := s.CountByStatusOnDate(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to count today's attendance: %w", err)
		}
		todayStats = counts
		return nil
	})

	g.Go(func() error {
		perDay, err := s.CountByStatusPerDay(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("failed to count monthly attendance: %w", err)
		}
		days = perDay
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		DailyStats:   dailyStats(today, totalStaff, todayStats),
		MonthlyTrend: monthlyTrend(from, totalStaff, days),
	}, nil
}

// GetDailyStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDailyStats(ctx context.Context, date string) (*dashboard.DailyStatsResponse, error) {
	d, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	totalStaff, err := s.CountStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}

	counts, err := s.CountByStatusOnDate(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}

	stats := dailyStats(d, totalStaff, counts)
	return &stats, nil
}

// GetMonthlyTrend implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetMonthlyTrend(ctx context.Context, month string) (*dashboard.MonthlyTrendResponse, error) {
	from, to, err := s.clock.MonthRange(month)
	if err != nil {
		return nil, err
	}

	totalStaff, err := s.CountStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}

	days, err := s.CountByStatusPerDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly attendance: %w", err)
	}

	trend := monthlyTrend(from, totalStaff, days)
	return &trend, nil
}
