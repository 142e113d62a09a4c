package qrcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/google/uuid"
)

type QRCodeServiceImpl struct {
	tx database.Transactor
	qrcode.QRCodeRepository
	office.OfficeRepository
	cache    qrcode.TokenCache
	cacheTTL time.Duration
	renderer qrcode.ImageRenderer
}

func NewQRCodeService(
	tx database.Transactor,
	qrRepo qrcode.QRCodeRepository,
	officeRepo office.OfficeRepository,
	cache qrcode.TokenCache,
	cacheTTL time.Duration,
	renderer qrcode.ImageRenderer,
) qrcode.QRCodeService {
	return &QRCodeServiceImpl{
		tx:               tx,
		QRCodeRepository: qrRepo,
		OfficeRepository: officeRepo,
		cache:            cache,
		cacheTTL:         cacheTTL,
		renderer:         renderer,
	}
}

// newToken returns 32 random hex characters
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Issue implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) Issue(ctx context.Context, req qrcode.GenerateRequest) (qrcode.QRCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return qrcode.QRCodeResponse{}, err
	}

	off, err := s.OfficeRepository.GetByID(ctx, req.OfficeID)
	if err != nil {
		return qrcode.QRCodeResponse{}, fmt.Errorf("failed to get office: %w", err)
	}

	qr, err := s.QRCodeRepository.Create(ctx, off.ID, newToken())
	if err != nil {
		return qrcode.QRCodeResponse{}, fmt.Errorf("failed to issue qr code: %w", err)
	}

	slog.Info("qr code issued", "qr_code_id", qr.ID, "office_id", off.ID)
	return s.renderResponse(qr, off)
}

// Regenerate implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) Regenerate(ctx context.Context, id int64) (qrcode.QRCodeResponse, error) {
	var (
		previous qrcode.QRCode
		created  qrcode.QRCode
		off      office.Office
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		retired, err := s.QRCodeRepository.Retire(txCtx, id)
		if err != nil {
			return err
		}
		previous = retired

		off, err = s.OfficeRepository.GetByID(txCtx, retired.OfficeID)
		if err != nil {
			return fmt.Errorf("failed to get office: %w", err)
		}

		created, err = s.QRCodeRepository.Create(txCtx, retired.OfficeID, newToken())
		if err != nil {
			return fmt.Errorf("failed to issue qr code: %w", err)
		}
		return nil
	})
	if err != nil {
		return qrcode.QRCodeResponse{}, err
	}

	s.cache.Invalidate(ctx, previous.Token)
	slog.Info("qr code regenerated", "previous_id", previous.ID, "qr_code_id", created.ID, "office_id", created.OfficeID)
	return s.renderResponse(created, off)
}

// ResolveActive implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) ResolveActive(ctx context.Context, token string) (qrcode.QRCode, error) {
	if strings.TrimSpace(token) == "" {
		return qrcode.QRCode{}, qrcode.ErrQRCodeNotFound
	}

	if qr, ok := s.cache.Get(ctx, token); ok {
		return qr, nil
	}

	qr, err := s.QRCodeRepository.GetActiveByToken(ctx, token)
	if err != nil {
		return qrcode.QRCode{}, err
	}

	s.cache.Set(ctx, qr, s.cacheTTL)
	return qr, nil
}

// ResolveForOffice implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) ResolveForOffice(ctx context.Context, officeID int64) (*qrcode.QRCode, error) {
	return s.QRCodeRepository.GetActiveByOffice(ctx, officeID)
}

// Deactivate implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) Deactivate(ctx context.Context, id int64) error {
	existing, err := s.QRCodeRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.QRCodeRepository.Deactivate(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, existing.Token)
	if existing.IsActive {
		slog.Info("qr code deactivated", "qr_code_id", id, "office_id", existing.OfficeID)
	}
	return nil
}

// List implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) List(ctx context.Context, filter qrcode.ListFilter) (qrcode.ListQRCodeResponse, error) {
	if err := filter.Validate(); err != nil {
		return qrcode.ListQRCodeResponse{}, err
	}

	items, total, err := s.QRCodeRepository.List(ctx, filter)
	if err != nil {
		return qrcode.ListQRCodeResponse{}, fmt.Errorf("failed to list qr codes: %w", err)
	}

	resp := qrcode.ListQRCodeResponse{
		TotalCount: total,
		Skip:       filter.Skip,
		Limit:      filter.Limit,
		Items:      make([]qrcode.QRCodeResponse, 0, len(items)),
	}
	for _, qr := range items {
		resp.Items = append(resp.Items, toResponse(qr))
	}
	return resp, nil
}

// Get implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) Get(ctx context.Context, id int64) (qrcode.QRCodeResponse, error) {
	qr, err := s.QRCodeRepository.GetByID(ctx, id)
	if err != nil {
		return qrcode.QRCodeResponse{}, err
	}
	return toResponse(qr), nil
}

// GetByToken implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) GetByToken(ctx context.Context, token string) (qrcode.QRCodeResponse, error) {
	qr, err := s.QRCodeRepository.GetByToken(ctx, token)
	if err != nil {
		return qrcode.QRCodeResponse{}, err
	}
	return toResponse(qr), nil
}

// Image implements qrcode.QRCodeService.
func (s *QRCodeServiceImpl) Image(ctx context.Context, id int64) (qrcode.ImageResponse, error) {
	qr, err := s.QRCodeRepository.GetByID(ctx, id)
	if err != nil {
		return qrcode.ImageResponse{}, err
	}

	off, err := s.OfficeRepository.GetByID(ctx, qr.OfficeID)
	if err != nil && !errors.Is(err, office.ErrOfficeNotFound) {
		return qrcode.ImageResponse{}, fmt.Errorf("failed to get office: %w", err)
	}

	_, image, err := s.render(qr, off)
	if err != nil {
		return qrcode.ImageResponse{}, err
	}
	return qrcode.ImageResponse{ID: qr.ID, Token: qr.Token, Image: image}, nil
}

func (s *QRCodeServiceImpl) render(qr qrcode.QRCode, off office.Office) (qrcode.Payload, string, error) {
	payload := qrcode.Payload{
		Token:      qr.Token,
		OfficeID:   qr.OfficeID,
		OfficeName: off.Name,
		PublicIP:   off.PublicIP,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return qrcode.Payload{}, "", fmt.Errorf("failed to encode qr payload: %w", err)
	}
	image, err := s.renderer.Render(body)
	if err != nil {
		return qrcode.Payload{}, "", err
	}
	return payload, image, nil
}

func (s *QRCodeServiceImpl) renderResponse(qr qrcode.QRCode, off office.Office) (qrcode.QRCodeResponse, error) {
	payload, image, err := s.render(qr, off)
	if err != nil {
		return qrcode.QRCodeResponse{}, err
	}
	resp := toResponse(qr)
	resp.Payload = &payload
	resp.Image = image
	if resp.OfficeName == nil {
		resp.OfficeName = &off.Name
	}
	return resp, nil
}

func toResponse(qr qrcode.QRCode) qrcode.QRCodeResponse {
	return qrcode.QRCodeResponse{
		ID:         qr.ID,
		OfficeID:   qr.OfficeID,
		OfficeName: qr.OfficeName,
		Token:      qr.Token,
		IsActive:   qr.IsActive,
		CreatedAt:  qr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  qr.UpdatedAt.Format(time.RFC3339),
	}
}
