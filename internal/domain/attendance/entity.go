package attendance

import "time"

const (
	StatusOnTime  = "on_time"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusPresent = "present" // legacy rows, counted as on time
)

const (
	ReasonTypeEarlyLeave   = "early_leave"
	ReasonTypeCheckOutNote = "check_out_note"
)

// Attendance is the ledger entry for one user on one calendar day.
// MinutesLate and Status are fixed at check-in and never recomputed.
type Attendance struct {
	ID          int64
	UserID      int64
	OfficeID    *int64
	LogDate     time.Time
	CheckIn     *string // "HH:MM:SS"
	CheckOut    *string
	Status      string
	MinutesLate int
	WorkHours   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	OfficeName *string
	Reasons    []AttendanceReason
}

func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// AttendanceReason is an append-only note on a ledger entry.
type AttendanceReason struct {
	ID           int64
	AttendanceID int64
	ReasonType   string
	Reason       string
	CreatedAt    time.Time
}
