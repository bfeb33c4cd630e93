package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resendWindow = time.Minute

// ResendThrottle rate-limits verification-email resends per address.
// Key format: resend:<normalized_email>, expiring after resendWindow.
type ResendThrottle struct {
	client *redis.Client
}

func NewResendThrottle(client *redis.Client) *ResendThrottle {
	return &ResendThrottle{client: client}
}

// Allow reports whether a resend for this address may proceed, and claims
// the window when it does. SetNX makes check-and-claim a single round trip.
func (t *ResendThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), "1", resendWindow).Result()
	if err != nil {
		return false, fmt.Errorf("resend throttle: %w", err)
	}
	return ok, nil
}

func (t *ResendThrottle) key(email string) string {
	return "resend:" + email
}
