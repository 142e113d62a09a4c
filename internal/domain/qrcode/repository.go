package qrcode

import (
	"context"
	"time"
)

type QRCodeRepository interface {
	// Create inserts a new active token for the office
	Create(ctx context.Context, officeID int64, token string) (QRCode, error)

	GetByID(ctx context.Context, id int64) (QRCode, error)

	// GetByToken returns the row regardless of its active flag
	GetByToken(ctx context.Context, token string) (QRCode, error)

	// GetActiveByToken returns ErrQRCodeNotFound for unknown or inactive tokens
	GetActiveByToken(ctx context.Context, token string) (QRCode, error)

	// GetActiveByOffice returns the most recently created active token, or nil.
	// Ties on created_at resolve to the highest id.
	GetActiveByOffice(ctx context.Context, officeID int64) (*QRCode, error)

	// Retire clears is_active on a row that is still active and returns it.
	// Unknown or already inactive rows return ErrQRCodeNotFound, so of two
	// concurrent callers only one retires the row.
	Retire(ctx context.Context, id int64) (QRCode, error)

	// Deactivate clears is_active. Already inactive rows are left as they are.
	Deactivate(ctx context.Context, id int64) error

	List(ctx context.Context, filter ListFilter) ([]QRCode, int64, error)
}

// TokenCache keeps recently resolved active tokens close to the check-in path.
type TokenCache interface {
	Get(ctx context.Context, token string) (QRCode, bool)
	Set(ctx context.Context, qr QRCode, ttl time.Duration)
	Invalidate(ctx context.Context, token string)
}

// ImageRenderer encodes a payload as a PNG data URL.
type ImageRenderer interface {
	Render(payload []byte) (string, error)
}
