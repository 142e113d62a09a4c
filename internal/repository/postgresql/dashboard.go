package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountStaff returns the number of staff profiles in the directory
func (r *dashboardRepositoryImpl) CountStaff(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(DISTINCT user_id) FROM staff_info`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return total, nil
}

// CountByStatusOnDate returns on_time/late/absent/present counts for one day in single query
func (r *dashboardRepositoryImpl) CountByStatusOnDate(ctx context.Context, date time.Time) (dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'on_time' THEN 1 ELSE 0 END), 0) as on_time,
			COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0) as late,
			COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) as absent,
			COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) as present
		FROM attendances
		WHERE log_date = $1::date
	`

	var stats dashboard.StatusCounts
	err := q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(
		&stats.OnTime, &stats.Late, &stats.Absent, &stats.Present,
	)
	if err != nil {
		return dashboard.StatusCounts{}, fmt.Errorf("failed to get daily attendance stats: %w", err)
	}
	return stats, nil
}

// CountByStatusPerDay returns status counts grouped by log_date within [from, to)
func (r *dashboardRepositoryImpl) CountByStatusPerDay(ctx context.Context, from, to time.Time) ([]dashboard.DayStatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			log_date,
			COALESCE(SUM(CASE WHEN status = 'on_time' THEN 1 ELSE 0 END), 0) as on_time,
			COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0) as late,
			COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) as absent,
			COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) as present
		FROM attendances
		WHERE log_date >= $1::date AND log_date < $2::date
		GROUP BY log_date
		ORDER BY log_date ASC
	`

	rows, err := q.Query(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly attendance trend: %w", err)
	}
	defer rows.Close()

	var days []dashboard.DayStatusCounts
	for rows.Next() {
		var d dashboard.DayStatusCounts
		if err := rows.Scan(&d.Date, &d.OnTime, &d.Late, &d.Absent, &d.Present); err != nil {
			return nil, fmt.Errorf("failed to scan attendance trend row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance trend: %w", err)
	}

	return days, nil
}
