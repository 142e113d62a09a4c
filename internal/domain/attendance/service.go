package attendance

import (
	"context"
)

// AttendanceService drives the daily check-in/check-out state machine
type AttendanceService interface {
	// ValidateQR checks a token and the caller's network without changing state
	ValidateQR(ctx context.Context, req ValidateQRRequest) (ValidateQRResponse, error)

	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// SubmitAbsencePermission records an absence without QR or network checks
	SubmitAbsencePermission(ctx context.Context, req PermissionRequest) (PermissionResponse, error)

	// GetToday returns nil when the user has no record today
	GetToday(ctx context.Context, userID int64) (*AttendanceResponse, error)
}
