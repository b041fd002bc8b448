package utils

import (
	"github.com/skip2/go-qrcode"
)

const QRSize = 512

// GenerateQRCode renders content as a PNG QR code of size×size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = QRSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
