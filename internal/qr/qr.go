package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length used when the caller passes no usable
// size.
const DefaultSize = 256

// Encode renders text as a square PNG QR code with the given edge length in
// pixels. Sizes of zero or below fall back to DefaultSize. Empty text and
// text beyond QR capacity fail.
func Encode(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errors.New("nothing to encode")
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

// EncodeBase64 returns the PNG from Encode as a base64 string, ready for
// embedding in JSON responses and data URIs.
func EncodeBase64(text string, size int) (string, error) {
	png, err := Encode(text, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
