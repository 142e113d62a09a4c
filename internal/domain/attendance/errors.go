package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidQR               = errors.New("invalid QR code")
	ErrAlreadyCheckedIn        = errors.New("you have already checked in today")
	ErrNoOpenCheckIn           = errors.New("no open check-in found for today")
	ErrAlreadyHasRecordForDate = errors.New("an attendance record already exists for this date")
	ErrAttendanceNotFound      = errors.New("attendance record not found")

	// ErrDuplicateAttendance is returned by the repository when (user_id, log_date) already exists
	ErrDuplicateAttendance = errors.New("attendance already exists for user and date")
)
