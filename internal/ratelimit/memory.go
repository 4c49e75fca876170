package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps per-key timestamp logs in process memory. Counters are
// lost on restart and are not shared between replicas.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns an empty store reading time from now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string][]time.Time),
		now:     now,
	}
}

// Check prunes entries outside the trailing window, then records the
// attempt if fewer than limit remain.
func (s *MemoryStore) Check(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := prune(s.windows[key], now.Add(-window))

	if len(entries) < limit {
		entries = append(entries, now)
		s.windows[key] = entries
		return Decision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(entries),
		}, nil
	}

	if len(entries) == 0 {
		delete(s.windows, key)
	} else {
		s.windows[key] = entries
	}

	var retryAfter time.Duration
	if len(entries) > 0 {
		retryAfter = entries[0].Add(window).Sub(now)
	}
	return Decision{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		RetryAfter: retryAfter,
	}, nil
}

// Sweep prunes every key and drops keys left without entries.
func (s *MemoryStore) Sweep(_ context.Context, window time.Duration) (SweepReport, error) {
	now := s.now()
	cutoff := now.Add(-window)
	report := SweepReport{At: now, Window: window}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entries := range s.windows {
		kept := prune(entries, cutoff)
		report.RemovedEntries += len(entries) - len(kept)
		if len(kept) == 0 {
			delete(s.windows, key)
			report.RemovedKeys++
			continue
		}
		s.windows[key] = kept
	}
	report.RemainingKeys = len(s.windows)
	return report, nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// prune drops entries at or before cutoff. Entries are kept in append order,
// which is chronological.
func prune(entries []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(entries) && !entries[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return entries
	}
	kept := make([]time.Time, len(entries)-i)
	copy(kept, entries[i:])
	return kept
}
