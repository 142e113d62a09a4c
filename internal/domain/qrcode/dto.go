package qrcode

import (
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
)

type GenerateRequest struct {
	OfficeID int64 `json:"office_id"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OfficeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "office_id",
			Message: "office_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	OfficeID *int64
	IsActive *bool
	Skip     int
	Limit    int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Skip < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "skip",
			Message: "skip must not be negative",
		})
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 100
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Payload is the JSON encoded inside the rendered QR image.
type Payload struct {
	Token      string  `json:"token"`
	OfficeID   int64   `json:"office_id"`
	OfficeName string  `json:"office_name"`
	PublicIP   *string `json:"public_ip"`
}

type QRCodeResponse struct {
	ID         int64    `json:"id"`
	OfficeID   int64    `json:"office_id"`
	OfficeName *string  `json:"office_name,omitempty"`
	Token      string   `json:"qr_token"`
	IsActive   bool     `json:"is_active"`
	Payload    *Payload `json:"payload,omitempty"`
	Image      string   `json:"qr_image,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type ListQRCodeResponse struct {
	TotalCount int64            `json:"total_count"`
	Skip       int              `json:"skip"`
	Limit      int              `json:"limit"`
	Items      []QRCodeResponse `json:"items"`
}

type ImageResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"qr_token"`
	Image string `json:"qr_image"`
}
