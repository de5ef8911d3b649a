package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnavailable marks failures to reach a backend.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// classify wraps connection failures in ErrUnavailable and passes other
// errors, including nil, through.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// pingAttempts and pingDelay bound Ping. The delay doubles after every
// failed attempt; tests shorten it.
var (
	pingAttempts = 3
	pingDelay    = 100 * time.Millisecond
)

// Ping checks that client answers, retrying connection failures with
// backoff. Other errors are returned at once. Both the Redis cache and the
// Redis session store connect through it.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	delay := pingDelay
	for attempt := 1; ; attempt++ {
		err := classify(client.Ping(ctx).Err())
		if err == nil || !errors.Is(err, ErrUnavailable) || attempt >= pingAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
