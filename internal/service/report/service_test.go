package report

import (
	"bytes"
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/shiftclock"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubReportRepo struct {
	rows      []report.HistoryRow
	total     int64
	reasons   map[int64][]attendance.AttendanceReason
	counts    map[string]int64
	lastQuery report.HistoryQuery
	countFrom time.Time
	countTo   time.Time
}

func (r *stubReportRepo) FilteredHistory(_ context.Context, query report.HistoryQuery) ([]report.HistoryRow, int64, error) {
	r.lastQuery = query
	rows := make([]report.HistoryRow, len(r.rows))
	copy(rows, r.rows)
	return rows, r.total, nil
}

func (r *stubReportRepo) ReasonsFor(_ context.Context, ids []int64) (map[int64][]attendance.AttendanceReason, error) {
	out := map[int64][]attendance.AttendanceReason{}
	for _, id := range ids {
		if rs, ok := r.reasons[id]; ok {
			out[id] = rs
		}
	}
	return out, nil
}

func (r *stubReportRepo) CountByStatus(_ context.Context, from, to time.Time) (map[string]int64, error) {
	r.countFrom, r.countTo = from, to
	return r.counts, nil
}

func strPtr(s string) *string { return &s }

func newPolicy(t *testing.T) *shiftclock.Policy {
	t.Helper()
	policy, err := shiftclock.NewPolicy("Asia/Phnom_Penh")
	require.NoError(t, err)
	loc := policy.Location()
	return policy.WithClock(func() time.Time { return time.Date(2026, 1, 20, 9, 0, 0, 0, loc) })
}

func sampleRows() []report.HistoryRow {
	officeID := int64(1)
	hours := 8.5
	return []report.HistoryRow{
		{
			Attendance: attendance.Attendance{
				ID: 7, UserID: 42, OfficeID: &officeID,
				LogDate:  time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
				CheckIn:  strPtr("08:00:00"),
				CheckOut: strPtr("16:30:00"),
				Status:   attendance.StatusOnTime, WorkHours: &hours,
				OfficeName: strPtr("Phnom Penh HQ"),
			},
			StaffName: strPtr("Sokha Chan"), Username: strPtr("sokha"), Email: strPtr("sokha@example.com"),
			StopCount: 12,
		},
		{
			Attendance: attendance.Attendance{
				ID: 6, UserID: 43,
				LogDate: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
				Status:  attendance.StatusAbsent,
			},
			StaffName: strPtr("Dara Lim"),
		},
	}
}

func TestFilteredHistory(t *testing.T) {
	repo := &stubReportRepo{
		rows:  sampleRows(),
		total: 32,
		reasons: map[int64][]attendance.AttendanceReason{
			7: {{ID: 1, AttendanceID: 7, ReasonType: attendance.ReasonTypeEarlyLeave, Reason: "dentist"}},
		},
	}
	svc := NewReportService(repo, newPolicy(t))

	resp, err := svc.FilteredHistory(context.Background(), report.HistoryFilter{
		Name:    strPtr("so"),
		Month:   strPtr("2026-01"),
		Page:    3,
		PerPage: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, repo.lastQuery.Limit)
	assert.Equal(t, 30, repo.lastQuery.Offset)
	require.NotNil(t, repo.lastQuery.From)
	require.NotNil(t, repo.lastQuery.To)
	assert.Equal(t, "2026-01-01", repo.lastQuery.From.Format("2006-01-02"))
	assert.Equal(t, "2026-02-01", repo.lastQuery.To.Format("2006-01-02"))

	assert.Equal(t, int64(32), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, "31-32 of 32", resp.Showing)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(12), resp.Items[0].StopCount)
	require.Len(t, resp.Items[0].Reasons, 1)
	assert.Equal(t, "dentist", resp.Items[0].Reasons[0].Reason)
	assert.Empty(t, resp.Items[1].Reasons)
}

func TestFilteredHistoryDefaultsAndValidation(t *testing.T) {
	repo := &stubReportRepo{}
	svc := NewReportService(repo, newPolicy(t))

	resp, err := svc.FilteredHistory(context.Background(), report.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 15, resp.PerPage)
	assert.Equal(t, "0-0 of 0", resp.Showing)
	assert.Nil(t, repo.lastQuery.From)

	tests := []struct {
		name   string
		filter report.HistoryFilter
		field  string
	}{
		{name: "bad status", filter: report.HistoryFilter{Status: strPtr("sleeping")}, field: "status"},
		{name: "bad month", filter: report.HistoryFilter{Month: strPtr("January")}, field: "month"},
		{name: "page size too large", filter: report.HistoryFilter{PerPage: 101}, field: "per_page"},
		{name: "negative page", filter: report.HistoryFilter{Page: -1}, field: "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FilteredHistory(context.Background(), tt.filter)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestMonthlyStatistics(t *testing.T) {
	repo := &stubReportRepo{counts: map[string]int64{
		attendance.StatusOnTime:  40,
		attendance.StatusPresent: 2,
		attendance.StatusLate:    7,
		attendance.StatusAbsent:  3,
	}}
	svc := NewReportService(repo, newPolicy(t))

	stats, err := svc.MonthlyStatistics(context.Background(), report.StatisticsFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-01", stats.Month)
	assert.Equal(t, "2026-01-01", repo.countFrom.Format("2006-01-02"))
	assert.Equal(t, "2026-02-01", repo.countTo.Format("2006-01-02"))
	assert.Equal(t, int64(42), stats.OnTimeCount)
	assert.Equal(t, int64(7), stats.LateCount)
	assert.Equal(t, int64(3), stats.AbsentCount)
	assert.Equal(t, int64(52), stats.TotalRecords)

	stats, err = svc.MonthlyStatistics(context.Background(), report.StatisticsFilter{Month: strPtr("2025-02")})
	require.NoError(t, err)
	assert.Equal(t, "2025-02", stats.Month)
	assert.Equal(t, "2025-03-01", repo.countTo.Format("2006-01-02"))
}

func TestExport(t *testing.T) {
	repo := &stubReportRepo{
		rows:  sampleRows(),
		total: 2,
		reasons: map[int64][]attendance.AttendanceReason{
			7: {
				{ID: 1, AttendanceID: 7, ReasonType: attendance.ReasonTypeEarlyLeave, Reason: "dentist"},
				{ID: 2, AttendanceID: 7, ReasonType: attendance.ReasonTypeCheckOutNote, Reason: "second"},
			},
		},
	}
	svc := NewReportService(repo, newPolicy(t))

	file, err := svc.Export(context.Background(), report.HistoryFilter{Status: strPtr(attendance.StatusOnTime)})
	require.NoError(t, err)

	assert.Equal(t, "attendance-records-20260120.xlsx", file.Filename)
	assert.Equal(t, export.ContentTypeXLSX, file.ContentType)
	assert.Zero(t, repo.lastQuery.Limit)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.ExportHeadings, rows[0])

	assert.Equal(t, []string{
		"7", "Sokha Chan", "sokha", "sokha@example.com", "Phnom Penh HQ", "2026-01-09",
		"08:00:00", "16:30:00", "On time", "0", "8.5", "early_leave", "dentist",
	}, rows[1])
	assert.Equal(t, "Absent", rows[2][8])
}
