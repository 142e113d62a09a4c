package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// TIME columns travel as "HH24:MI:SS" text; work_hours as float8.
const attendanceColumns = `
	a.id, a.user_id, a.office_id, a.log_date,
	to_char(a.check_in, 'HH24:MI:SS'), to_char(a.check_out, 'HH24:MI:SS'),
	a.status, a.minutes_late, a.work_hours::float8,
	a.created_at, a.updated_at, o.name
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.OfficeID, &att.LogDate,
		&att.CheckIn, &att.CheckOut,
		&att.Status, &att.MinutesLate, &att.WorkHours,
		&att.CreatedAt, &att.UpdatedAt, &att.OfficeName,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO attendances (user_id, office_id, log_date, check_in, status, minutes_late)
			VALUES ($1, $2, $3::date, $4::time, $5, $6)
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM inserted a
		LEFT JOIN offices o ON o.id = a.office_id
	`

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.OfficeID,
		newAttendance.LogDate.Format("2006-01-02"),
		newAttendance.CheckIn,
		newAttendance.Status,
		newAttendance.MinutesLate,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN offices o ON o.id = a.office_id
		WHERE a.user_id = $1
		  AND a.log_date = $2::date
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// CloseCheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseCheckIn(ctx context.Context, id int64, checkOut string, workHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE attendances
			SET check_out = $2::time, work_hours = $3, updated_at = NOW()
			WHERE id = $1
			  AND check_in IS NOT NULL
			  AND check_out IS NULL
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM updated a
		LEFT JOIN offices o ON o.id = a.office_id
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, checkOut, workHours))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close check-in: %w", err)
	}

	return att, nil
}

type reasonRepository struct {
	db *database.DB
}

func NewReasonRepository(db *database.DB) attendance.ReasonRepository {
	return &reasonRepository{db: db}
}

// Append implements attendance.ReasonRepository.
func (r *reasonRepository) Append(ctx context.Context, attendanceID int64, reasonType, reason string) (attendance.AttendanceReason, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_reasons (attendance_id, reason_type, reason)
		VALUES ($1, $2, $3)
		RETURNING id, attendance_id, reason_type, reason, created_at
	`

	var ar attendance.AttendanceReason
	err := q.QueryRow(ctx, query, attendanceID, reasonType, reason).Scan(
		&ar.ID, &ar.AttendanceID, &ar.ReasonType, &ar.Reason, &ar.CreatedAt,
	)
	if err != nil {
		return attendance.AttendanceReason{}, fmt.Errorf("failed to append attendance reason: %w", err)
	}

	return ar, nil
}

// ListFor implements attendance.ReasonRepository.
func (r *reasonRepository) ListFor(ctx context.Context, attendanceID int64) ([]attendance.AttendanceReason, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, reason_type, reason, created_at
		FROM attendance_reasons
		WHERE attendance_id = $1
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance reasons: %w", err)
	}
	defer rows.Close()

	reasons := []attendance.AttendanceReason{}
	for rows.Next() {
		var ar attendance.AttendanceReason
		if err := rows.Scan(&ar.ID, &ar.AttendanceID, &ar.ReasonType, &ar.Reason, &ar.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance reason: %w", err)
		}
		reasons = append(reasons, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance reasons: %w", err)
	}

	return reasons, nil
}
