package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// FetchStats holds fetch execution statistics for a wrapped Store.
type FetchStats struct {
	// Gets is the number of point lookups executed.
	Gets atomic.Int64
	// Lists is the number of selector listings executed.
	Lists atomic.Int64
	// FKLists is the number of foreign-key listings executed.
	FKLists atomic.Int64
	// TotalDuration is the total time spent fetching, in nanoseconds.
	TotalDuration atomic.Int64
	// SlowFetches is the count of fetches exceeding the slow threshold.
	SlowFetches atomic.Int64
	// Errors is the count of fetch errors, not-found excluded.
	Errors atomic.Int64
}

// Snapshot returns a point-in-time copy of the statistics.
func (s *FetchStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Gets:          s.Gets.Load(),
		Lists:         s.Lists.Load(),
		FKLists:       s.FKLists.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowFetches:   s.SlowFetches.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *FetchStats) Reset() {
	s.Gets.Store(0)
	s.Lists.Store(0)
	s.FKLists.Store(0)
	s.TotalDuration.Store(0)
	s.SlowFetches.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of fetch statistics.
type StatsSnapshot struct {
	Gets          int64
	Lists         int64
	FKLists       int64
	TotalDuration time.Duration
	SlowFetches   int64
	Errors        int64
}

// Total returns the total number of store fetches in the snapshot.
func (s StatsSnapshot) Total() int64 {
	return s.Gets + s.Lists + s.FKLists
}

// AvgFetchDuration returns the average fetch duration.
func (s StatsSnapshot) AvgFetchDuration() time.Duration {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"gets=%d lists=%d fklists=%d duration=%s avg=%s slow=%d errors=%d",
		s.Gets, s.Lists, s.FKLists, s.TotalDuration, s.AvgFetchDuration(),
		s.SlowFetches, s.Errors,
	)
}

// SlowFetchHook is a function called when a slow fetch is detected.
type SlowFetchHook func(ctx context.Context, op, table string, duration time.Duration)

// StatsStore wraps a Store with fetch statistics collection.
type StatsStore struct {
	Store
	stats         *FetchStats
	slowThreshold time.Duration
	slowHook      SlowFetchHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsStore.
type StatsOption func(*StatsStore)

// WithSlowThreshold sets the threshold for slow fetch detection.
// Fetches taking longer than this duration are counted as slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsStore) {
		s.slowThreshold = d
	}
}

// WithSlowFetchHook sets a callback function for slow fetches.
func WithSlowFetchHook(hook SlowFetchHook) StatsOption {
	return func(s *StatsStore) {
		s.slowHook = hook
	}
}

// WithSlowFetchLog logs slow fetches to the default slog logger.
// This is a convenience wrapper around WithSlowFetchHook.
func WithSlowFetchLog() StatsOption {
	return WithSlowFetchHook(func(_ context.Context, op, table string, duration time.Duration) {
		slog.Warn("slow store fetch", "op", op, "table", table, "duration", duration)
	})
}

// NewStatsStore wraps a Store with statistics collection.
//
// Example:
//
//	st := sqlstore.Open(...)
//	stats := store.NewStatsStore(st,
//	    store.WithSlowThreshold(200*time.Millisecond),
//	    store.WithSlowFetchLog(),
//	)
//	client := relgraph.NewClient(stats, registry)
func NewStatsStore(st Store, opts ...StatsOption) *StatsStore {
	s := &StatsStore{
		Store:         st,
		stats:         &FetchStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchStats returns the underlying FetchStats for reading statistics.
func (s *StatsStore) FetchStats() *FetchStats {
	return s.stats
}

// Get performs a point lookup and records statistics.
func (s *StatsStore) Get(ctx context.Context, table string, id any) (Row, error) {
	start := time.Now()
	row, err := s.Store.Get(ctx, table, id)
	s.record(ctx, "get", table, &s.stats.Gets, start, err)
	return row, err
}

// ListByFK performs a foreign-key listing and records statistics.
func (s *StatsStore) ListByFK(ctx context.Context, table, fkField string, value any) ([]Row, error) {
	start := time.Now()
	rows, err := s.Store.ListByFK(ctx, table, fkField, value)
	s.record(ctx, "list-fk", table, &s.stats.FKLists, start, err)
	return rows, err
}

// List performs a selector listing and records statistics.
func (s *StatsStore) List(ctx context.Context, table string, sel *Selector) ([]Row, error) {
	start := time.Now()
	rows, err := s.Store.List(ctx, table, sel)
	s.record(ctx, "list", table, &s.stats.Lists, start, err)
	return rows, err
}

func (s *StatsStore) record(ctx context.Context, op, table string, counter *atomic.Int64, start time.Time, err error) {
	duration := time.Since(start)
	counter.Add(1)
	s.stats.TotalDuration.Add(int64(duration))

	if err != nil && !IsNotFound(err) {
		s.stats.Errors.Add(1)
	}

	s.mu.RLock()
	threshold := s.slowThreshold
	hook := s.slowHook
	s.mu.RUnlock()

	if duration > threshold {
		s.stats.SlowFetches.Add(1)
		if hook != nil {
			hook(ctx, op, table, duration)
		}
	}
}

var _ Store = (*StatsStore)(nil)
