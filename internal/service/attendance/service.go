package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/netverify"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/shiftclock"
)

const msgInvalidToken = "Invalid or inactive QR code"

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	attendance.ReasonRepository
	office.OfficeRepository
	qrService qrcode.QRCodeService
	verifier  *netverify.Verifier
	clock     *shiftclock.Policy
	publisher attendance.EventPublisher
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	reasonRepo attendance.ReasonRepository,
	officeRepo office.OfficeRepository,
	qrService qrcode.QRCodeService,
	verifier *netverify.Verifier,
	clock *shiftclock.Policy,
	publisher attendance.EventPublisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		ReasonRepository:     reasonRepo,
		OfficeRepository:     officeRepo,
		qrService:            qrService,
		verifier:             verifier,
		clock:                clock,
		publisher:            publisher,
	}
}

// scan resolves a token to its office and checks the caller's network.
// A failure reason is returned alongside a nil error for expected rejections.
func (s *AttendanceServiceImpl) scan(ctx context.Context, token, callerIP string) (office.Office, string, error) {
	qr, err := s.qrService.ResolveActive(ctx, token)
	if err != nil {
		if errors.Is(err, qrcode.ErrQRCodeNotFound) {
			return office.Office{}, msgInvalidToken, nil
		}
		return office.Office{}, "", fmt.Errorf("failed to resolve qr code: %w", err)
	}

	off, err := s.OfficeRepository.GetByID(ctx, qr.OfficeID)
	if err != nil {
		if errors.Is(err, office.ErrOfficeNotFound) {
			return office.Office{}, msgInvalidToken, nil
		}
		return office.Office{}, "", fmt.Errorf("failed to get office: %w", err)
	}

	result := s.verifier.Verify(off.PublicIP, callerIP)
	if !result.Valid {
		return off, result.Reason, nil
	}
	return off, "", nil
}

// ValidateQR implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ValidateQR(ctx context.Context, req attendance.ValidateQRRequest) (attendance.ValidateQRResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ValidateQRResponse{}, err
	}

	off, reason, err := s.scan(ctx, req.QRToken, req.ClientIP)
	if err != nil {
		return attendance.ValidateQRResponse{}, err
	}
	// Office details are only disclosed once both checks pass.
	if reason != "" {
		return attendance.ValidateQRResponse{Valid: false, Message: reason}, nil
	}

	officeResp := office.ToResponse(off)
	return attendance.ValidateQRResponse{Valid: true, Message: "QR code is valid", Office: &officeResp}, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	off, reason, err := s.scan(ctx, req.QRToken, req.ClientIP)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if reason != "" {
		return attendance.CheckInResponse{}, fmt.Errorf("%w: %s", attendance.ErrInvalidQR, reason)
	}

	now := s.clock.Now()
	observed := shiftclock.FromTime(now)

	minutesLate, isLate := 0, false
	if off.ShiftStart != nil {
		shiftStart, err := shiftclock.ParseTimeOfDay(*off.ShiftStart)
		if err != nil {
			return attendance.CheckInResponse{}, fmt.Errorf("failed to parse shift start for office %d: %w", off.ID, err)
		}
		minutesLate, isLate = shiftclock.Lateness(shiftStart, observed)
	}

	status := attendance.StatusOnTime
	if isLate {
		status = attendance.StatusLate
	}

	checkIn := observed.String()
	officeID := off.ID
	var created attendance.Attendance

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, req.UserID, s.clock.DateOf(now))
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		created, err = s.AttendanceRepository.Create(txCtx, attendance.Attendance{
			UserID:      req.UserID,
			OfficeID:    &officeID,
			LogDate:     s.clock.DateOf(now),
			CheckIn:     &checkIn,
			Status:      status,
			MinutesLate: minutesLate,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateAttendance) {
				return attendance.ErrAlreadyCheckedIn
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	slog.Info("attendance checked in",
		"attendance_id", created.ID,
		"user_id", created.UserID,
		"office_id", officeID,
		"status", created.Status,
		"minutes_late", created.MinutesLate,
	)
	s.publish(ctx, attendance.EventCheckedIn, created, now, false)

	return attendance.CheckInResponse{
		Attendance:  attendance.ToResponse(created),
		IsLate:      isLate,
		MinutesLate: minutesLate,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := s.clock.Now()
	observed := shiftclock.FromTime(now)

	var (
		updated    attendance.Attendance
		workHours  float64
		earlyLeave bool
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, req.UserID, s.clock.DateOf(now))
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing == nil || !existing.IsOpen() {
			return attendance.ErrNoOpenCheckIn
		}

		if req.QRToken != nil && strings.TrimSpace(*req.QRToken) != "" {
			qr, err := s.qrService.ResolveActive(txCtx, *req.QRToken)
			if err != nil {
				if errors.Is(err, qrcode.ErrQRCodeNotFound) {
					return fmt.Errorf("%w: %s", attendance.ErrInvalidQR, msgInvalidToken)
				}
				return fmt.Errorf("failed to resolve qr code: %w", err)
			}
			if existing.OfficeID == nil || *existing.OfficeID != qr.OfficeID {
				return fmt.Errorf("%w: %s", attendance.ErrInvalidQR, "QR code belongs to a different office")
			}
		}

		checkIn, err := shiftclock.ParseTimeOfDay(*existing.CheckIn)
		if err != nil {
			return fmt.Errorf("failed to parse check-in time: %w", err)
		}
		workHours, err = shiftclock.WorkHours(checkIn, observed)
		if err != nil {
			return err
		}

		if existing.OfficeID != nil {
			off, err := s.OfficeRepository.GetByID(txCtx, *existing.OfficeID)
			if err != nil && !errors.Is(err, office.ErrOfficeNotFound) {
				return fmt.Errorf("failed to get office: %w", err)
			}
			if err == nil && off.ShiftEnd != nil {
				shiftEnd, err := shiftclock.ParseTimeOfDay(*off.ShiftEnd)
				if err != nil {
					return fmt.Errorf("failed to parse shift end for office %d: %w", off.ID, err)
				}
				earlyLeave = shiftclock.IsEarlyLeave(shiftEnd, observed)
			}
		}

		updated, err = s.AttendanceRepository.CloseCheckIn(txCtx, existing.ID, observed.String(), workHours)
		if err != nil {
			return err
		}

		if req.HasReason() {
			reasonType := attendance.ReasonTypeCheckOutNote
			if earlyLeave {
				reasonType = attendance.ReasonTypeEarlyLeave
			}
			if req.ReasonType != nil && strings.TrimSpace(*req.ReasonType) != "" {
				reasonType = strings.TrimSpace(*req.ReasonType)
			}
			if _, err := s.ReasonRepository.Append(txCtx, updated.ID, reasonType, strings.TrimSpace(*req.Reason)); err != nil {
				return fmt.Errorf("failed to record check-out reason: %w", err)
			}
		}

		updated.Reasons, err = s.ReasonRepository.ListFor(txCtx, updated.ID)
		if err != nil {
			return fmt.Errorf("failed to list attendance reasons: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	slog.Info("attendance checked out",
		"attendance_id", updated.ID,
		"user_id", updated.UserID,
		"work_hours", workHours,
		"early_leave", earlyLeave,
	)
	s.publish(ctx, attendance.EventCheckedOut, updated, now, earlyLeave)

	return attendance.CheckOutResponse{
		Attendance:   attendance.ToResponse(updated),
		WorkHours:    workHours,
		IsEarlyLeave: earlyLeave,
	}, nil
}

// SubmitAbsencePermission implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitAbsencePermission(ctx context.Context, req attendance.PermissionRequest) (attendance.PermissionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PermissionResponse{}, err
	}

	date, err := s.clock.ParseDate(req.Date)
	if err != nil {
		return attendance.PermissionResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	var (
		created attendance.Attendance
		reason  attendance.AttendanceReason
	)

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, req.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance for date: %w", err)
		}
		if existing != nil {
			return attendance.ErrAlreadyHasRecordForDate
		}

		created, err = s.AttendanceRepository.Create(txCtx, attendance.Attendance{
			UserID:  req.UserID,
			LogDate: date,
			Status:  attendance.StatusAbsent,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateAttendance) {
				return attendance.ErrAlreadyHasRecordForDate
			}
			return fmt.Errorf("failed to create absence record: %w", err)
		}

		reason, err = s.ReasonRepository.Append(txCtx, created.ID, strings.TrimSpace(req.ReasonType), strings.TrimSpace(req.Reason))
		if err != nil {
			return fmt.Errorf("failed to record absence reason: %w", err)
		}
		created.Reasons = []attendance.AttendanceReason{reason}
		return nil
	})
	if err != nil {
		return attendance.PermissionResponse{}, err
	}

	slog.Info("absence permission submitted",
		"attendance_id", created.ID,
		"user_id", created.UserID,
		"log_date", req.Date,
		"reason_type", reason.ReasonType,
	)
	s.publish(ctx, attendance.EventAbsenceSubmitted, created, s.clock.Now(), false)

	return attendance.PermissionResponse{
		Attendance: attendance.ToResponse(created),
		Reason:     attendance.ToReasonResponse(reason),
	}, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID int64) (*attendance.AttendanceResponse, error) {
	today := s.clock.DateOf(s.clock.Now())

	att, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	att.Reasons, err = s.ReasonRepository.ListFor(ctx, att.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance reasons: %w", err)
	}

	resp := attendance.ToResponse(*att)
	return &resp, nil
}

// publish runs after commit. Broker failures never undo a ledger change.
func (s *AttendanceServiceImpl) publish(ctx context.Context, routingKey string, att attendance.Attendance, at time.Time, earlyLeave bool) {
	event := attendance.Event{
		Type:         routingKey,
		AttendanceID: att.ID,
		UserID:       att.UserID,
		OfficeID:     att.OfficeID,
		LogDate:      att.LogDate.Format("2006-01-02"),
		Status:       att.Status,
		MinutesLate:  att.MinutesLate,
		WorkHours:    att.WorkHours,
		IsEarlyLeave: earlyLeave,
		OccurredAt:   at,
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		slog.Warn("failed to publish attendance event", "event", routingKey, "attendance_id", att.ID, "error", err)
	}
}
