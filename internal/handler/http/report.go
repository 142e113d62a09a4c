package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
)

type ReportHandler interface {
	// History handles GET /attendance-records
	History(w http.ResponseWriter, r *http.Request)

	// Statistics handles GET /attendance-records/statistics
	Statistics(w http.ResponseWriter, r *http.Request)

	// Export handles GET /attendance-records/export
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// parseHistoryFilter reads name, status, month, page and per_page
func parseHistoryFilter(r *http.Request) (report.HistoryFilter, bool) {
	filter := report.HistoryFilter{
		Name:   optionalQuery(r, "name"),
		Status: optionalQuery(r, "status"),
		Month:  optionalQuery(r, "month"),
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return filter, false
		}
		filter.Page = page
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		perPage, err := strconv.Atoi(perPageStr)
		if err != nil {
			return filter, false
		}
		filter.PerPage = perPage
	}

	return filter, true
}

// History implements ReportHandler.
func (h *reportHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseHistoryFilter(r)
	if !ok {
		response.BadRequest(w, "invalid pagination parameter", nil)
		return
	}

	result, err := h.reportService.FilteredHistory(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		PerPage:    result.PerPage,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Statistics implements ReportHandler.
func (h *reportHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	filter := report.StatisticsFilter{Month: optionalQuery(r, "month")}

	result, err := h.reportService.MonthlyStatistics(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseHistoryFilter(r)
	if !ok {
		response.BadRequest(w, "invalid pagination parameter", nil)
		return
	}

	file, err := h.reportService.Export(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Body)
}
