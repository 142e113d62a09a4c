package report

import "context"

// ReportService defines read-side queries over the attendance ledger
type ReportService interface {
	FilteredHistory(ctx context.Context, filter HistoryFilter) (*HistoryResponse, error)

	// MonthlyStatistics defaults to the current month
	MonthlyStatistics(ctx context.Context, filter StatisticsFilter) (*MonthlyStatistics, error)

	// Export writes every row matching the filter, ignoring pagination
	Export(ctx context.Context, filter HistoryFilter) (*ExportFile, error)
}
