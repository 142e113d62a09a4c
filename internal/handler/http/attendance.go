package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ValidateQR(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	PermissionRequest(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// callerIP prefers the address supplied in the body, then the resolved connection address
func callerIP(r *http.Request, fromBody string) string {
	if ip := strings.TrimSpace(fromBody); ip != "" {
		return ip
	}
	return middleware.ClientIPFromContext(r.Context())
}

// ValidateQR implements AttendanceHandler.
func (h *attendanceHandlerImpl) ValidateQR(w http.ResponseWriter, r *http.Request) {
	var req attendance.ValidateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ClientIP = callerIP(r, req.ClientIP)

	result, err := h.attendanceService.ValidateQR(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = principal.UserID
	req.ClientIP = callerIP(r, req.ClientIP)

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidQR) {
			slog.Info("check-in rejected", "user_id", req.UserID, "client_ip", req.ClientIP, "error", err)
		}
		response.HandleError(w, err)
		return
	}

	message := "Check-in successful"
	if result.IsLate {
		message = fmt.Sprintf("Checked in %d minutes late", result.MinutesLate)
	}
	response.Created(w, message, result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req attendance.CheckOutRequest
	// An empty body is a plain check-out
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}
	req.UserID = principal.UserID

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Check-out successful"
	if result.IsEarlyLeave {
		message = fmt.Sprintf("Early check-out recorded. Work hours: %.2f", result.WorkHours)
	}
	response.SuccessWithMessage(w, message, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "No attendance recorded today", nil)
		return
	}
	response.Success(w, result)
}

// PermissionRequest implements AttendanceHandler.
func (h *attendanceHandlerImpl) PermissionRequest(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req attendance.PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = principal.UserID

	result, err := h.attendanceService.SubmitAbsencePermission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence permission submitted", result)
}
