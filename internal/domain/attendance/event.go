package attendance

import "time"

const (
	EventCheckedIn        = "attendance.checked_in"
	EventCheckedOut       = "attendance.checked_out"
	EventAbsenceSubmitted = "attendance.absence_submitted"
)

type Event struct {
	Type         string    `json:"type"`
	AttendanceID int64     `json:"attendance_id"`
	UserID       int64     `json:"user_id"`
	OfficeID     *int64    `json:"office_id"`
	LogDate      string    `json:"log_date"`
	Status       string    `json:"status"`
	MinutesLate  int       `json:"minutes_late"`
	WorkHours    *float64  `json:"work_hours,omitempty"`
	IsEarlyLeave bool      `json:"is_early_leave,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
