package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resendCooldown = time.Minute

// ResendLimiter throttles verification-code resends per email address.
// Key format: otp:resend:<email>
type ResendLimiter struct {
	client *redis.Client
}

// NewResendLimiter creates a ResendLimiter wrapping the given Redis client.
func NewResendLimiter(client *redis.Client) *ResendLimiter {
	return &ResendLimiter{client: client}
}

// Allow reports whether the address may receive another code now. The first
// call within a cooldown window claims the slot; later calls are refused
// until the key expires.
func (l *ResendLimiter) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(email), "1", resendCooldown).Result()
	if err != nil {
		return false, fmt.Errorf("resend limiter: %w", err)
	}
	return ok, nil
}

func (l *ResendLimiter) key(email string) string {
	return fmt.Sprintf("otp:resend:%s", email)
}
