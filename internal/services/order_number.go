package services

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newOrderNumber builds a human-readable order number like
// GII-20260830-7KQ2MX. The ambiguous characters (0/O, 1/I) are left out of
// the suffix alphabet.
func newOrderNumber(now time.Time) (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	suffix := make([]byte, len(raw))
	for i, b := range raw {
		suffix[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("GII-%s-%s", now.Format("20060102"), suffix), nil
}
