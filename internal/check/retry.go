package check

import (
	"context"
	"time"
)

// Policy describes exponential backoff for one attempt-cycle. The wait
// sequence is initial, initial*multiplier, initial*multiplier^2, ...
// with no jitter and no cap; MaxRetries is the only bound.
type Policy struct {
	MaxRetries int
	Initial    time.Duration
	Multiplier float64
}

// Retrier tracks retry state for a single attempt-cycle. One task owns
// one Retrier; alert mode constructs a fresh one every cycle.
type Retrier struct {
	policy   Policy
	last     time.Duration
	attempts int
}

func NewRetrier(policy Policy) *Retrier {
	return &Retrier{policy: policy}
}

// Retry sleeps for the next backoff interval and returns the attempt
// number. It returns (0, false) without waiting once MaxRetries
// attempts have been consumed, or if ctx ends during the wait.
func (r *Retrier) Retry(ctx context.Context) (int, bool) {
	if r.attempts >= r.policy.MaxRetries {
		return 0, false
	}

	wait := r.nextWait()

	if !sleep(ctx, wait) {
		return 0, false
	}

	r.last = wait
	r.attempts++
	return r.attempts, true
}

func (r *Retrier) nextWait() time.Duration {
	if r.last > 0 {
		return time.Duration(float64(r.last) * r.policy.Multiplier)
	}
	return r.policy.Initial
}

// sleep blocks for d or until ctx is done; reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
