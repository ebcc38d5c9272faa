// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package poll provides bounded waits for distributed agreement across node
// endpoints: a generic predicate wait plus block, chain and mempool
// convergence checks.
package poll

import (
	"context"
	"sync"
	"time"
)

const (
	// pollInterval is the sleep between predicate evaluations.
	pollInterval = 50 * time.Millisecond

	// defaultCeiling bounds a wait whose caller supplied neither an attempt
	// nor a timeout budget.
	defaultCeiling = 60 * time.Second
)

type waitOptions struct {
	attempts int
	timeout  time.Duration
	lock     sync.Locker
}

type WaitOption func(*waitOptions)

// WithAttempts bounds the number of predicate evaluations.
func WithAttempts(n int) WaitOption {
	return func(o *waitOptions) { o.attempts = n }
}

// WithTimeout bounds the wall-clock time of the wait.
func WithTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) { o.timeout = d }
}

// WithLock evaluates the predicate while holding lock, protecting state the
// predicate captures. The poller itself holds no shared state.
func WithLock(lock sync.Locker) WaitOption {
	return func(o *waitOptions) { o.lock = lock }
}

// WaitUntil evaluates pred every 50ms until it returns true or a budget runs
// out. With neither WithAttempts nor WithTimeout the wait is capped at 60s
// rather than looping forever. Exhaustion returns a *TimeoutError naming the
// bound that was hit; context cancellation returns ctx.Err().
func WaitUntil(ctx context.Context, pred func() bool, opts ...WaitOption) error {
	o := waitOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.attempts <= 0 && o.timeout <= 0 {
		o.timeout = defaultCeiling
	}

	start := time.Now()
	attempt := 0
	for {
		if o.attempts > 0 && attempt >= o.attempts {
			return &TimeoutError{Bound: BoundAttempts, Attempts: attempt, Elapsed: time.Since(start)}
		}
		if o.timeout > 0 && time.Since(start) >= o.timeout {
			return &TimeoutError{Bound: BoundTimeout, Attempts: attempt, Elapsed: time.Since(start)}
		}

		if evaluate(pred, o.lock) {
			return nil
		}
		attempt++

		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

func evaluate(pred func() bool, lock sync.Locker) bool {
	if lock != nil {
		lock.Lock()
		defer lock.Unlock()
	}
	return pred()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
