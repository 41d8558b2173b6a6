package utils

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestFormatBookingNumber(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	got := FormatBookingNumber(at, "7QX2MB")
	if got != "KW-20260829-7QX2MB" {
		t.Errorf("booking number = %q, want KW-20260829-7QX2MB", got)
	}
}

func TestRandomSuffixCharset(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		suffix := RandomSuffix(r)
		if len(suffix) != bookingNumberSuffixLength {
			t.Fatalf("suffix %q has length %d, want %d", suffix, len(suffix), bookingNumberSuffixLength)
		}
		for _, ch := range suffix {
			if !strings.ContainsRune(letterBytes, ch) {
				t.Fatalf("suffix %q contains %q outside the allowed charset", suffix, ch)
			}
		}
	}
}
