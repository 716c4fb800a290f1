package services

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxReceiptLength is the gateway's limit for the receipt field.
	MaxReceiptLength = 40

	receiptRandomBytes   = 6
	defaultReceiptPrefix = "rcpt"
)

// ReceiptGenerator builds short correlation ids of the form hint_time_random.
type ReceiptGenerator struct {
	now    func() time.Time
	random func([]byte) (int, error)
}

func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{now: time.Now, random: rand.Read}
}

// Generate returns a receipt of at most MaxReceiptLength characters. When the
// hint and timestamp overflow the limit they are cut from the right so the
// random suffix always survives intact.
func (g *ReceiptGenerator) Generate(hint string) (string, error) {
	buf := make([]byte, receiptRandomBytes)
	if _, err := g.random(buf); err != nil {
		return "", err
	}
	suffix := hex.EncodeToString(buf)

	hint = sanitizeHint(hint)
	if hint == "" {
		hint = defaultReceiptPrefix
	}

	prefix := hint + "_" + strconv.FormatInt(g.now().UnixMilli(), 36)
	if limit := MaxReceiptLength - len(suffix) - 1; len(prefix) > limit {
		prefix = prefix[:limit]
	}

	return prefix + "_" + suffix, nil
}

// ReceiptHint returns the last n alphanumeric characters of a user id.
func ReceiptHint(userID string, n int) string {
	clean := sanitizeHint(userID)
	if n > 0 && len(clean) > n {
		return clean[len(clean)-n:]
	}
	return clean
}

func sanitizeHint(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
