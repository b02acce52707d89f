package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

const (
	signInFailureWindow = 15 * time.Minute
	signInLockDuration  = 15 * time.Minute
	signInMaxFailures   = 10
)

// counterStore is the subset of cache.RedisCache the throttle needs
type counterStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SignInThrottle locks out IPs that keep presenting identity tokens which
// fail verification. A nil *SignInThrottle is valid and never blocks.
type SignInThrottle struct {
	store counterStore
}

func NewSignInThrottle(store counterStore) *SignInThrottle {
	return &SignInThrottle{store: store}
}

func attemptsKey(ip string) string { return fmt.Sprintf("signin_throttle:attempts:%s", ip) }
func lockKey(ip string) string     { return fmt.Sprintf("signin_throttle:lock:%s", ip) }

// Check blocks locked-out IPs. Cache errors let the request through.
func (t *SignInThrottle) Check() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if t == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		locked, err := t.store.Exists(ctx, lockKey(c.IP()))
		if err != nil || !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := t.store.TTL(ctx, lockKey(c.IP())); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed sign-in attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailure counts a failed verification and locks the IP once the
// limit is reached within the window
func (t *SignInThrottle) RecordFailure(ctx context.Context, ip string) {
	if t == nil {
		return
	}
	attempts, err := t.store.Increment(ctx, attemptsKey(ip))
	if err != nil {
		return
	}
	if attempts == 1 {
		_ = t.store.Expire(ctx, attemptsKey(ip), signInFailureWindow)
	}
	if attempts >= signInMaxFailures {
		_ = t.store.Set(ctx, lockKey(ip), "locked", signInLockDuration)
	}
}

// RecordSuccess clears the failure counter of ip
func (t *SignInThrottle) RecordSuccess(ctx context.Context, ip string) {
	if t == nil {
		return
	}
	_ = t.store.Delete(ctx, attemptsKey(ip), lockKey(ip))
}
