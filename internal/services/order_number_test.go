package services

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^GII-20260830-[A-Z2-9]{6}$`)

	number, err := newOrderNumber(now)
	if err != nil {
		t.Fatalf("newOrderNumber: %v", err)
	}
	if !pattern.MatchString(number) {
		t.Fatalf("order number %q does not match %s", number, pattern)
	}

	suffix := number[strings.LastIndex(number, "-")+1:]
	for _, c := range suffix {
		if strings.ContainsRune("01IO", c) {
			t.Fatalf("suffix %q contains ambiguous character %q", suffix, c)
		}
	}
}
