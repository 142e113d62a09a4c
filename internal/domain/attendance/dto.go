package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
)

// ========================================
// QR VALIDATION / CHECK-IN DTOs
// ========================================

type ValidateQRRequest struct {
	QRToken  string `json:"qr_token"`
	ClientIP string `json:"client_ip,omitempty"`
}

func (r *ValidateQRRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.QRToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "qr_token",
			Message: "qr_token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ValidateQRResponse struct {
	Valid   bool                   `json:"valid"`
	Message string                 `json:"message"`
	Office  *office.OfficeResponse `json:"office,omitempty"`
}

type CheckInRequest struct {
	UserID   int64  `json:"-"`
	QRToken  string `json:"qr_token"`
	ClientIP string `json:"client_ip,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.QRToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "qr_token",
			Message: "qr_token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInResponse struct {
	Attendance  AttendanceResponse `json:"attendance"`
	IsLate      bool               `json:"is_late"`
	MinutesLate int                `json:"minutes_late"`
}

// ========================================
// CHECK-OUT DTOs
// ========================================

type CheckOutRequest struct {
	UserID     int64   `json:"-"`
	QRToken    *string `json:"qr_token,omitempty"`
	ReasonType *string `json:"reason_type,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.ReasonType != nil && !validator.MaxLength(*r.ReasonType, 50) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_type",
			Message: "reason_type must not exceed 50 characters",
		})
	}

	if r.Reason != nil && !validator.MaxLength(*r.Reason, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasReason reports whether a non-blank reason text was supplied
func (r *CheckOutRequest) HasReason() bool {
	return r.Reason != nil && !validator.IsEmpty(*r.Reason)
}

type CheckOutResponse struct {
	Attendance   AttendanceResponse `json:"attendance"`
	WorkHours    float64            `json:"work_hours"`
	IsEarlyLeave bool               `json:"is_early_leave"`
}

// ========================================
// ABSENCE PERMISSION DTOs
// ========================================

type PermissionRequest struct {
	UserID     int64  `json:"-"`
	Date       string `json:"date"`
	ReasonType string `json:"reason_type"`
	Reason     string `json:"reason"`
}

func (r *PermissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.ReasonType) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_type",
			Message: "reason_type is required",
		})
	} else if !validator.MaxLength(r.ReasonType, 50) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_type",
			Message: "reason_type must not exceed 50 characters",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if !validator.MaxLength(r.Reason, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PermissionResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Reason     ReasonResponse     `json:"reason"`
}

// ========================================
// SHARED RESPONSES
// ========================================

type ReasonResponse struct {
	ID         int64  `json:"id"`
	ReasonType string `json:"reason_type"`
	Reason     string `json:"reason"`
	CreatedAt  string `json:"created_at"`
}

type AttendanceResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	OfficeID    *int64           `json:"office_id"`
	OfficeName  *string          `json:"office_name,omitempty"`
	LogDate     string           `json:"log_date"`
	CheckIn     *string          `json:"check_in"`
	CheckOut    *string          `json:"check_out"`
	Status      string           `json:"status"`
	MinutesLate int              `json:"minutes_late"`
	WorkHours   *float64         `json:"work_hours"`
	Reasons     []ReasonResponse `json:"reasons"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

func ToReasonResponse(r AttendanceReason) ReasonResponse {
	return ReasonResponse{
		ID:         r.ID,
		ReasonType: r.ReasonType,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func ToResponse(a Attendance) AttendanceResponse {
	reasons := make([]ReasonResponse, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		reasons = append(reasons, ToReasonResponse(r))
	}
	return AttendanceResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		OfficeID:    a.OfficeID,
		OfficeName:  a.OfficeName,
		LogDate:     a.LogDate.Format("2006-01-02"),
		CheckIn:     a.CheckIn,
		CheckOut:    a.CheckOut,
		Status:      a.Status,
		MinutesLate: a.MinutesLate,
		WorkHours:   a.WorkHours,
		Reasons:     reasons,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// DisplayStatus renders a status for people: "on_time" becomes "On time".
func DisplayStatus(status string) string {
	s := strings.ReplaceAll(status, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
