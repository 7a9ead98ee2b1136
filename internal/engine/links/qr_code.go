package links

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 2048
)

var ErrInvalidQRSize = errors.New("invalid size: must be between 128 and 2048")

// GenerateQRCode encodes shortURL as a PNG of size x size pixels. Zero
// selects the default size.
func GenerateQRCode(shortURL string, size int) ([]byte, error) {
	if size == 0 {
		size = defaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, ErrInvalidQRSize
	}

	qr, err := qrcode.New(shortURL, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qr.PNG(size)
}
