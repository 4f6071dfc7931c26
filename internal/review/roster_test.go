package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time { return f.current }

func (f *fakeClock) Advance(d time.Duration) { f.current = f.current.Add(d) }

func TestRosterCacheServesCachedValueWithinTTL(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context) ([]Reviewer, error) {
		calls++
		return []Reviewer{{ID: 1, Name: "王审核", StudentNumber: "R0001"}}, nil
	}

	clock := &fakeClock{current: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewRosterCache(fetch, 5*time.Minute, zerolog.Nop())
	cache.SetClock(clock.Now)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, calls)

	clock.Advance(4 * time.Minute)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls, "within TTL the store must not be hit again")

	clock.Advance(2 * time.Minute)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls, "expired cache must refresh")
}

func TestRosterCacheServesStaleOnRefreshFailure(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context) ([]Reviewer, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("identity store unavailable")
		}
		return []Reviewer{{ID: 1, Name: "王审核", StudentNumber: "R0001"}}, nil
	}

	clock := &fakeClock{current: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewRosterCache(fetch, 5*time.Minute, zerolog.Nop())
	cache.SetClock(clock.Now)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	stale, err := cache.Get(context.Background())
	require.NoError(t, err, "a failed refresh must degrade to the last known value")
	require.Len(t, stale, 1)
}

func TestRosterCacheFailsWithoutPriorValue(t *testing.T) {
	fetch := func(ctx context.Context) ([]Reviewer, error) {
		return nil, errors.New("identity store unavailable")
	}

	cache := NewRosterCache(fetch, 5*time.Minute, zerolog.Nop())
	_, err := cache.Get(context.Background())
	require.Error(t, err)
}

func TestRosterCacheForceRefresh(t *testing.T) {
	reviewers := []Reviewer{{ID: 1, Name: "王审核", StudentNumber: "R0001"}}
	fetch := func(ctx context.Context) ([]Reviewer, error) {
		out := make([]Reviewer, len(reviewers))
		copy(out, reviewers)
		return out, nil
	}

	cache := NewRosterCache(fetch, 5*time.Minute, zerolog.Nop())
	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	reviewers = append(reviewers, Reviewer{ID: 2, Name: "李审核", StudentNumber: "R0002"})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	refreshed, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, refreshed, 2)
}
