package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/shiftclock"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	clock      *shiftclock.Policy
}

func NewReportService(reportRepo report.ReportRepository, clock *shiftclock.Policy) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		clock:      clock,
	}
}

// toQuery resolves the month filter to a date range
func (s *ReportServiceImpl) toQuery(filter report.HistoryFilter) (report.HistoryQuery, error) {
	query := report.HistoryQuery{
		Name:   filter.Name,
		Status: filter.Status,
	}
	if filter.Month != nil && *filter.Month != "" {
		from, to, err := s.clock.MonthRange(*filter.Month)
		if err != nil {
			return report.HistoryQuery{}, err
		}
		query.From, query.To = &from, &to
	}
	return query, nil
}

// loadRows fetches history rows and attaches their reasons
func (s *ReportServiceImpl) loadRows(ctx context.Context, query report.HistoryQuery) ([]report.HistoryRow, int64, error) {
	rows, total, err := s.reportRepo.FilteredHistory(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attendance history: %w", err)
	}
	if len(rows) == 0 {
		return rows, total, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	reasons, err := s.reportRepo.ReasonsFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attendance reasons: %w", err)
	}
	for i := range rows {
		rows[i].Reasons = reasons[rows[i].ID]
	}
	return rows, total, nil
}

// FilteredHistory implements report.ReportService.
func (s *ReportServiceImpl) FilteredHistory(ctx context.Context, filter report.HistoryFilter) (*report.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query, err := s.toQuery(filter)
	if err != nil {
		return nil, err
	}
	query.Limit = filter.PerPage
	query.Offset = (filter.Page - 1) * filter.PerPage

	rows, total, err := s.loadRows(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]report.HistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, report.HistoryItem{
			AttendanceResponse: attendance.ToResponse(row.Attendance),
			StaffName:          row.StaffName,
			Username:           row.Username,
			Email:              row.Email,
			StopCount:          row.StopCount,
		})
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))

	return &report.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
		Showing:    report.Showing(filter.Page, filter.PerPage, len(items), total),
		Items:      items,
	}, nil
}

// MonthlyStatistics implements report.ReportService.
func (s *ReportServiceImpl) MonthlyStatistics(ctx context.Context, filter report.StatisticsFilter) (*report.MonthlyStatistics, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	month := ""
	if filter.Month != nil {
		month = *filter.Month
	}
	from, to, err := s.clock.MonthRange(month)
	if err != nil {
		return nil, err
	}

	counts, err := s.reportRepo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}

	stats := &report.MonthlyStatistics{
		Month:       from.Format("2006-01"),
		OnTimeCount: counts[attendance.StatusOnTime] + counts[attendance.StatusPresent],
		LateCount:   counts[attendance.StatusLate],
		AbsentCount: counts[attendance.StatusAbsent],
	}
	for _, n := range counts {
		stats.TotalRecords += n
	}
	return stats, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, filter report.HistoryFilter) (*report.ExportFile, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query, err := s.toQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, _, err := s.loadRows(ctx, query)
	if err != nil {
		return nil, err
	}

	table := make([][]any, 0, len(rows))
	for _, row := range rows {
		table = append(table, exportRow(row))
	}

	var buf bytes.Buffer
	if err := export.WriteSheet(&buf, "Attendance", report.ExportHeadings, table); err != nil {
		return nil, fmt.Errorf("failed to build export: %w", err)
	}

	return &report.ExportFile{
		Filename:    fmt.Sprintf("attendance-records-%s.xlsx", s.clock.Now().Format("20060102")),
		ContentType: export.ContentTypeXLSX,
		Body:        buf.Bytes(),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func exportRow(row report.HistoryRow) []any {
	var reasonType, reason string
	if len(row.Reasons) > 0 {
		reasonType = row.Reasons[0].ReasonType
		reason = row.Reasons[0].Reason
	}

	var workHours any = ""
	if row.WorkHours != nil {
		workHours = *row.WorkHours
	}

	return []any{
		row.ID,
		deref(row.StaffName),
		deref(row.Username),
		deref(row.Email),
		deref(row.OfficeName),
		row.LogDate.Format("2006-01-02"),
		deref(row.CheckIn),
		deref(row.CheckOut),
		attendance.DisplayStatus(row.Status),
		row.MinutesLate,
		workHours,
		reasonType,
		reason,
	}
}
