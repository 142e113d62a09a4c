package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type QRCodeHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Regenerate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByToken(w http.ResponseWriter, r *http.Request)
	Image(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type qrCodeHandlerImpl struct {
	qrCodeService qrcode.QRCodeService
}

func NewQRCodeHandler(qrCodeService qrcode.QRCodeService) QRCodeHandler {
	return &qrCodeHandlerImpl{qrCodeService: qrCodeService}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Generate handles POST /generate-code
func (h *qrCodeHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req qrcode.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.qrCodeService.Issue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "QR code generated", result)
}

// Regenerate handles POST /generate-code/{id}/regenerate
func (h *qrCodeHandlerImpl) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "invalid qr code id", nil)
		return
	}

	result, err := h.qrCodeService.Regenerate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "QR code regenerated", result)
}

// List handles GET /generate-code?office_id&is_active&skip&limit
func (h *qrCodeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter qrcode.ListFilter
	query := r.URL.Query()

	if v := query.Get("office_id"); v != "" {
		officeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "invalid office_id parameter", nil)
			return
		}
		filter.OfficeID = &officeID
	}
	if v := query.Get("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "invalid is_active parameter", nil)
			return
		}
		filter.IsActive = &active
	}
	if v := query.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "invalid skip parameter", nil)
			return
		}
		filter.Skip = skip
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		filter.Limit = limit
	}

	result, err := h.qrCodeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /generate-code/{id}
func (h *qrCodeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "invalid qr code id", nil)
		return
	}

	result, err := h.qrCodeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByToken handles GET /generate-code/token/{token}
func (h *qrCodeHandlerImpl) GetByToken(w http.ResponseWriter, r *http.Request) {
	result, err := h.qrCodeService.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Image handles GET /generate-code/{id}/image
func (h *qrCodeHandlerImpl) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "invalid qr code id", nil)
		return
	}

	result, err := h.qrCodeService.Image(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Deactivate handles DELETE /generate-code/{id}
func (h *qrCodeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "invalid qr code id", nil)
		return
	}

	if err := h.qrCodeService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "QR code deactivated", nil)
}
