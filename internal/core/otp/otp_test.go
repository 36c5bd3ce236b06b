package otp

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/akeray/property-system/internal/core/domain"
)

func TestGenerate_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code is not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := Expiry(now); !got.Equal(now.Add(TTL)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(TTL), got)
	}
}

func TestVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(TTL)

	if err := Verify("123456", expiry, "123456", now); err != nil {
		t.Fatalf("expected matching code to verify, got %v", err)
	}

	// Boundary: a code presented exactly at expiry still counts.
	if err := Verify("123456", expiry, "123456", expiry); err != nil {
		t.Fatalf("expected code at exact expiry to verify, got %v", err)
	}

	if err := Verify("123456", expiry, "123456", expiry.Add(time.Second)); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestVerify_NoChallenge(t *testing.T) {
	now := time.Now()
	if err := Verify("", time.Time{}, "123456", now); !errors.Is(err, domain.ErrNoChallenge) {
		t.Fatalf("expected ErrNoChallenge, got %v", err)
	}
}

func TestVerify_MismatchBeatsExpiry(t *testing.T) {
	// A wrong code against an expired challenge must report the mismatch,
	// not the expiry: the caller presented the wrong secret.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	staleExpiry := now.Add(-time.Hour)

	if err := Verify("123456", staleExpiry, "654321", now); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}
}
