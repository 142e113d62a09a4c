package qrcode

import "time"

// QRCode binds an opaque token to an office. Tokens are never hard-deleted.
type QRCode struct {
	ID        int64
	OfficeID  int64
	Token     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	OfficeName *string
	PublicIP   *string
}
