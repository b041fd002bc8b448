package helper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTableTokenInvalid = errors.New("invalid table token")
	ErrTableTokenExpired = errors.New("table token expired")
)

// IssueTableToken builds the "<table>-<millis>-<nonce>" string printed in a table's QR code.
func IssueTableToken(table int, now time.Time) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%d-%s", table, now.UnixMilli(), nonce)
}

// VerifyTableToken checks that token was issued for table no longer than maxAge before now.
func VerifyTableToken(token string, table int, now time.Time, maxAge time.Duration) error {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || parts[0] != strconv.Itoa(table) || parts[2] == "" {
		return ErrTableTokenInvalid
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrTableTokenInvalid
	}
	if now.UnixMilli()-issued > maxAge.Milliseconds() {
		return ErrTableTokenExpired
	}
	return nil
}

// TableQRURL is the link a table's QR code opens.
func TableQRURL(appURL string, table int, token string) string {
	return fmt.Sprintf("%s/qr-auth/%d/%s", strings.TrimRight(appURL, "/"), table, token)
}
