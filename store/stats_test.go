package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/store"
	"github.com/relgraph/relgraph/store/memstore"
)

func statsFixture(t *testing.T, opts ...store.StatsOption) *store.StatsStore {
	t.Helper()
	ms := memstore.New().CreateTable("employee", "id")
	require.NoError(t, ms.Insert("employee",
		store.Row{"id": 1, "name": "Alice", "department_id": 10},
		store.Row{"id": 2, "name": "Bob", "department_id": 10},
	))
	return store.NewStatsStore(ms, opts...)
}

func TestStatsCounters(t *testing.T) {
	t.Parallel()

	st := statsFixture(t)
	ctx := context.Background()

	_, err := st.Get(ctx, "employee", 1)
	require.NoError(t, err)
	_, err = st.ListByFK(ctx, "employee", "department_id", 10)
	require.NoError(t, err)
	_, err = st.List(ctx, "employee", nil)
	require.NoError(t, err)

	snap := st.FetchStats().Snapshot()
	assert.Equal(t, int64(1), snap.Gets)
	assert.Equal(t, int64(1), snap.FKLists)
	assert.Equal(t, int64(1), snap.Lists)
	assert.Equal(t, int64(3), snap.Total())
	assert.Greater(t, snap.TotalDuration, time.Duration(0))
	assert.Greater(t, snap.AvgFetchDuration(), time.Duration(0))
	assert.Zero(t, snap.Errors)
}

func TestStatsNotFoundIsNotAnError(t *testing.T) {
	t.Parallel()

	st := statsFixture(t)
	_, err := st.Get(context.Background(), "employee", 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	snap := st.FetchStats().Snapshot()
	assert.Equal(t, int64(1), snap.Gets, "not-found still counts as a fetch")
	assert.Zero(t, snap.Errors)
}

func TestStatsErrors(t *testing.T) {
	t.Parallel()

	st := statsFixture(t)
	_, err := st.Get(context.Background(), "project", 1)
	assert.True(t, store.IsUnavailable(err))
	assert.Equal(t, int64(1), st.FetchStats().Snapshot().Errors)
}

func TestStatsSlowFetchHook(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	st := statsFixture(t,
		store.WithSlowThreshold(0),
		store.WithSlowFetchHook(func(_ context.Context, op, table string, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, op+":"+table)
		}),
	)

	_, err := st.Get(context.Background(), "employee", 1)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.Equal(t, "get:employee", calls[0])
	assert.Equal(t, int64(1), st.FetchStats().Snapshot().SlowFetches)
}

func TestStatsReset(t *testing.T) {
	t.Parallel()

	st := statsFixture(t)
	_, err := st.Get(context.Background(), "employee", 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), st.FetchStats().Snapshot().Total())

	st.FetchStats().Reset()
	snap := st.FetchStats().Snapshot()
	assert.Zero(t, snap.Total())
	assert.Zero(t, snap.TotalDuration)
	assert.Zero(t, snap.AvgFetchDuration())
}

func TestSnapshotString(t *testing.T) {
	t.Parallel()

	snap := store.StatsSnapshot{Gets: 2, Lists: 1, FKLists: 3, TotalDuration: 6 * time.Millisecond}
	assert.Contains(t, snap.String(), "gets=2")
	assert.Contains(t, snap.String(), "fklists=3")
	assert.Contains(t, snap.String(), "avg=1ms")
}
