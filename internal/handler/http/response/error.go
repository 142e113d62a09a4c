package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order. ErrInvalidQR takes its message from the wrapped reason.
var errorMappings = []errorMapping{
	{attendance.ErrInvalidQR, http.StatusForbidden, "INVALID_QR", ""},
	{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "ALREADY_CHECKED_IN", "You have already checked in today"},
	{attendance.ErrNoOpenCheckIn, http.StatusConflict, "NO_OPEN_CHECK_IN", "No open check-in found for today"},
	{attendance.ErrAlreadyHasRecordForDate, http.StatusConflict, "ALREADY_HAS_RECORD_FOR_DATE", "An attendance record already exists for this date"},
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, "NOT_FOUND", "Attendance record not found"},
	{qrcode.ErrQRCodeNotFound, http.StatusNotFound, "NOT_FOUND", "QR code not found"},
	{office.ErrOfficeNotFound, http.StatusNotFound, "NOT_FOUND", "Office not found"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		FailWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if m.target == attendance.ErrInvalidQR {
			message = invalidQRMessage(err)
		}
		Fail(w, m.status, m.code, message)
		return
	}

	slog.Error("unexpected error", "error", err)
	Fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
}

// invalidQRMessage returns the reason wrapped after ErrInvalidQR, if any
func invalidQRMessage(err error) string {
	prefix := attendance.ErrInvalidQR.Error() + ": "
	msg := err.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return "Invalid QR code"
}
