// Package qrimage renders QR payloads as PNG data URLs.
package qrimage

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 256
	}
	return &Renderer{size: size, level: qrcode.Medium}
}

func (r *Renderer) Render(payload []byte) (string, error) {
	png, err := qrcode.Encode(string(payload), r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr image: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
