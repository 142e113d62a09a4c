package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

const historyFrom = `
	FROM attendances a
	LEFT JOIN offices o ON o.id = a.office_id
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN LATERAL (
		SELECT full_name FROM staff_info WHERE staff_info.user_id = a.user_id ORDER BY id LIMIT 1
	) s ON TRUE
`

func historyWhere(query report.HistoryQuery) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if query.Name != nil && strings.TrimSpace(*query.Name) != "" {
		args = append(args, strings.TrimSpace(*query.Name))
		conditions = append(conditions, fmt.Sprintf("s.full_name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if query.Status != nil {
		args = append(args, *query.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if query.From != nil {
		args = append(args, query.From.Format("2006-01-02"))
		conditions = append(conditions, fmt.Sprintf("a.log_date >= $%d::date", len(args)))
	}
	if query.To != nil {
		args = append(args, query.To.Format("2006-01-02"))
		conditions = append(conditions, fmt.Sprintf("a.log_date < $%d::date", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// FilteredHistory implements report.ReportRepository.
func (r *reportRepositoryImpl) FilteredHistory(ctx context.Context, query report.HistoryQuery) ([]report.HistoryRow, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := historyWhere(query)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+historyFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance history: %w", err)
	}

	pagination := ""
	if query.Limit > 0 {
		args = append(args, query.Limit, query.Offset)
		pagination = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	// stop_count spans the user's whole history, not the filtered range
	sql := `
		SELECT ` + attendanceColumns + `,
			s.full_name, u.username, u.email,
			(SELECT COUNT(*) FROM attendances c WHERE c.user_id = a.user_id AND c.check_out IS NOT NULL) AS stop_count
		` + historyFrom + where + `
		ORDER BY a.log_date DESC, a.created_at DESC, a.id DESC
		` + pagination

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance history: %w", err)
	}
	defer rows.Close()

	var items []report.HistoryRow
	for rows.Next() {
		var row report.HistoryRow
		att := &row.Attendance
		if err := rows.Scan(
			&att.ID, &att.UserID, &att.OfficeID, &att.LogDate,
			&att.CheckIn, &att.CheckOut,
			&att.Status, &att.MinutesLate, &att.WorkHours,
			&att.CreatedAt, &att.UpdatedAt, &att.OfficeName,
			&row.StaffName, &row.Username, &row.Email, &row.StopCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance history: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance history: %w", err)
	}

	return items, total, nil
}

// ReasonsFor implements report.ReportRepository.
func (r *reportRepositoryImpl) ReasonsFor(ctx context.Context, attendanceIDs []int64) (map[int64][]attendance.AttendanceReason, error) {
	result := make(map[int64][]attendance.AttendanceReason, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, reason_type, reason, created_at
		FROM attendance_reasons
		WHERE attendance_id = ANY($1)
		ORDER BY attendance_id, id ASC
	`

	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance reasons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ar attendance.AttendanceReason
		if err := rows.Scan(&ar.ID, &ar.AttendanceID, &ar.ReasonType, &ar.Reason, &ar.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance reason: %w", err)
		}
		result[ar.AttendanceID] = append(result[ar.AttendanceID], ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance reasons: %w", err)
	}

	return result, nil
}

// CountByStatus implements report.ReportRepository.
func (r *reportRepositoryImpl) CountByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE log_date >= $1::date AND log_date < $2::date
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}
