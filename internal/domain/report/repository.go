package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
)

// HistoryQuery is a validated HistoryFilter with the month resolved to a range
type HistoryQuery struct {
	Name   *string
	Status *string
	From   *time.Time
	To     *time.Time
	Limit  int // 0 means no limit
	Offset int
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// FilteredHistory returns rows ordered by log_date DESC, created_at DESC and the unpaged total
	FilteredHistory(ctx context.Context, query HistoryQuery) ([]HistoryRow, int64, error)

	// ReasonsFor loads reasons for many rows at once, in insertion order
	ReasonsFor(ctx context.Context, attendanceIDs []int64) (map[int64][]attendance.AttendanceReason, error)

	// CountByStatus groups rows with log_date in [from, to)
	CountByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error)
}
