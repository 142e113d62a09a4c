package qrcode

import "errors"

var (
	ErrQRCodeNotFound = errors.New("qr code not found")
	ErrQRCodeInactive = errors.New("qr code is not active")
)
