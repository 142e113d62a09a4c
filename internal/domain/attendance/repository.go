package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the ledger store. Rows are never deleted.
type AttendanceRepository interface {
	// Create returns ErrDuplicateAttendance when the user already has a row for LogDate
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no row for the date
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*Attendance, error)

	// CloseCheckIn sets check_out and work_hours on a row still open.
	// Returns ErrNoOpenCheckIn when the row was already closed.
	CloseCheckIn(ctx context.Context, id int64, checkOut string, workHours float64) (Attendance, error)
}

// ReasonRepository is append-only.
type ReasonRepository interface {
	Append(ctx context.Context, attendanceID int64, reasonType, reason string) (AttendanceReason, error)

	// ListFor returns reasons in insertion order
	ListFor(ctx context.Context, attendanceID int64) ([]AttendanceReason, error)
}

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
