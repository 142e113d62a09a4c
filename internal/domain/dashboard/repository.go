package dashboard

import (
	"context"
	"time"
)

// StatusCounts groups ledger rows by status
type StatusCounts struct {
	OnTime  int64
	Late    int64
	Absent  int64
	Present int64
}

// Total is the number of rows counted
func (s StatusCounts) Total() int64 {
	return s.OnTime + s.Late + s.Absent + s.Present
}

// DayStatusCounts is one calendar day of StatusCounts
type DayStatusCounts struct {
	Date time.Time
	StatusCounts
}

type DashboardRepository interface {
	// CountStaff returns the current roster size
	CountStaff(ctx context.Context) (int64, error)

	// CountByStatusOnDate groups the rows of one day
	CountByStatusOnDate(ctx context.Context, date time.Time) (StatusCounts, error)

	// CountByStatusPerDay groups rows in [from, to) per day, ordered by date.
	// Days without rows are omitted.
	CountByStatusPerDay(ctx context.Context, from, to time.Time) ([]DayStatusCounts, error)
}
