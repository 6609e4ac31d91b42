// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package throttle counts failed write token attempts per client in Redis and
locks a client out once it crosses the configured threshold.

Counters are fixed windows: the first failure starts the window, later
failures only increment. A correct token clears the counter.
*/
package throttle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/shici/internal/platform/apperr"
	"github.com/taibuivan/shici/internal/platform/constants"
)

// Guard tracks failures in Redis.
type Guard struct {
	client      redis.Cmdable
	maxFailures int
	window      time.Duration
}

// NewGuard creates a Redis-backed [Guard].
func NewGuard(client redis.Cmdable, maxFailures int, window time.Duration) *Guard {
	return &Guard{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
	}
}

// Check returns an [apperr.RateLimited] error when subject is locked out.
func (guard *Guard) Check(ctx context.Context, subject string) error {
	key := failureKey(subject)

	count, err := guard.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("throttle: read failures: %w", err)
	}

	if count < guard.maxFailures {
		return nil
	}

	ttl, err := guard.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = guard.window
	}
	return apperr.RateLimited(int(math.Ceil(ttl.Seconds())))
}

// RecordFailure increments the failure counter for subject.
func (guard *Guard) RecordFailure(ctx context.Context, subject string) error {
	key := failureKey(subject)

	count, err := guard.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle: incr failures: %w", err)
	}

	// First failure opens the window.
	if count == 1 {
		if err := guard.client.Expire(ctx, key, guard.window).Err(); err != nil {
			return fmt.Errorf("throttle: expire failures: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter for subject.
func (guard *Guard) Reset(ctx context.Context, subject string) error {
	if err := guard.client.Del(ctx, failureKey(subject)).Err(); err != nil {
		return fmt.Errorf("throttle: reset failures: %w", err)
	}
	return nil
}

func failureKey(subject string) string {
	if subject == "" {
		subject = "unknown"
	}
	return constants.RedisPrefixTokenFailures + subject
}
