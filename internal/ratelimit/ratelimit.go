// Package ratelimit implements sliding-window admission control keyed by
// an arbitrary string, typically a policy name and client IP.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below one
// for a denied decision.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter admits or rejects an attempt for key. An allowed attempt is
// recorded; a rejected one is not.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// SweepReport summarizes one pass over the stored windows.
type SweepReport struct {
	RemovedEntries int
	RemovedKeys    int
	RemainingKeys  int
	At             time.Time
	Window         time.Duration
}

// Sweeper proactively prunes expired entries to bound memory.
type Sweeper interface {
	Sweep(ctx context.Context, window time.Duration) (SweepReport, error)
}

// Store is a limiter whose state can be swept.
type Store interface {
	Limiter
	Sweeper
}

// Policy binds a limit and window to a key prefix.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Key builds the store key for a subject under this policy.
func (p Policy) Key(subject string) string {
	return p.Name + ":" + subject
}

// Check applies the policy to subject.
func (p Policy) Check(ctx context.Context, l Limiter, subject string) (Decision, error) {
	return l.Check(ctx, p.Key(subject), p.Limit, p.Window)
}
