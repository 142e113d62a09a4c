package qrcode

import "context"

// QRCodeService owns the token lifecycle per office.
type QRCodeService interface {
	// Issue creates a new active token; earlier tokens for the office stay as they are
	Issue(ctx context.Context, req GenerateRequest) (QRCodeResponse, error)

	// Regenerate deactivates an active token and issues its replacement
	Regenerate(ctx context.Context, id int64) (QRCodeResponse, error)

	ResolveActive(ctx context.Context, token string) (QRCode, error)
	ResolveForOffice(ctx context.Context, officeID int64) (*QRCode, error)

	// Deactivate is idempotent
	Deactivate(ctx context.Context, id int64) error

	List(ctx context.Context, filter ListFilter) (ListQRCodeResponse, error)
	Get(ctx context.Context, id int64) (QRCodeResponse, error)
	GetByToken(ctx context.Context, token string) (QRCodeResponse, error)
	Image(ctx context.Context, id int64) (ImageResponse, error)
}
