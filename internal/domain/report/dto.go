package report

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
)

var filterStatuses = []string{
	attendance.StatusOnTime,
	attendance.StatusLate,
	attendance.StatusAbsent,
	attendance.StatusPresent,
}

// ========================================
// ATTENDANCE HISTORY
// ========================================

type HistoryFilter struct {
	Name    *string `json:"name,omitempty"`
	Status  *string `json:"status,omitempty"`
	Month   *string `json:"month,omitempty"` // YYYY-MM
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.PerPage < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "per_page",
			Message: "per_page must be a positive number",
		})
	}
	if f.PerPage == 0 {
		f.PerPage = 15
	}
	if f.PerPage > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "per_page",
			Message: "per_page must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, filterStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: on_time, late, absent, present",
		})
	}

	if f.Month != nil {
		if _, ok := validator.IsValidMonth(*f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	if f.Name != nil && !validator.MaxLength(*f.Name, 255) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HistoryRow is a ledger row joined with the staff directory
type HistoryRow struct {
	attendance.Attendance
	StaffName *string
	Username  *string
	Email     *string
	StopCount int64
}

type HistoryItem struct {
	attendance.AttendanceResponse
	StaffName *string `json:"staff_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	StopCount int64   `json:"stop_count"`
}

type HistoryResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	Showing    string        `json:"showing"`
	Items      []HistoryItem `json:"items"`
}

// Showing renders "from-to of total" for a page
func Showing(page, perPage, count int, total int64) string {
	if count == 0 {
		return fmt.Sprintf("0-0 of %d", total)
	}
	from := (page-1)*perPage + 1
	return fmt.Sprintf("%d-%d of %d", from, from+count-1, total)
}

// ========================================
// MONTHLY STATISTICS
// ========================================

type StatisticsFilter struct {
	Month *string `json:"month,omitempty"`
}

func (f *StatisticsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil {
		if _, ok := validator.IsValidMonth(*f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyStatistics struct {
	Month        string `json:"month"`
	OnTimeCount  int64  `json:"on_time_count"`
	LateCount    int64  `json:"late_count"`
	AbsentCount  int64  `json:"absent_count"`
	TotalRecords int64  `json:"total_records"`
}

// ========================================
// EXPORT
// ========================================

var ExportHeadings = []string{
	"ID", "Staff Name", "Username", "Email", "Office", "Date",
	"Check In", "Check Out", "Status", "Minutes Late", "Work Hours",
	"Reason Type", "Reason",
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
