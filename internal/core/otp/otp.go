// Package otp implements the one-time-passcode challenge used to prove a
// tenant controls the mailbox they signed up with.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/akeray/property-system/internal/core/domain"
)

// TTL is how long a generated code stays valid.
const TTL = 10 * time.Minute

const (
	codeMin = 100000
	codeMax = 999999
)

// Generate returns a uniformly random six-digit code. The range starts at
// 100000, so codes never carry a leading zero.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// Expiry returns the instant a code generated at now stops being accepted.
func Expiry(now time.Time) time.Time {
	return now.UTC().Add(TTL)
}

// Verify checks a supplied code against the stored challenge.
//
// The equality check runs before the expiry check, so a correct-but-stale
// code reports ErrOTPExpired rather than ErrOTPMismatch. A cleared challenge
// (post-verification, or never issued) reports ErrNoChallenge.
//
// On success the caller must clear the stored code and expiry and mark the
// principal verified in a single save; Verify itself mutates nothing.
func Verify(stored string, storedExpiry time.Time, supplied string, now time.Time) error {
	if stored == "" || storedExpiry.IsZero() {
		return domain.ErrNoChallenge
	}
	if supplied != stored {
		return domain.ErrOTPMismatch
	}
	if now.After(storedExpiry) {
		return domain.ErrOTPExpired
	}
	return nil
}
