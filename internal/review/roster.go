// Package review implements the reviewer roster and the per-reviewer decision
// state machine that folds N independent verdicts into one achievement status.
package review

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reviewer is the denormalized identity of an active reviewer account.
type Reviewer struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_number"`
}

// FetchFunc loads the currently active reviewer set from the identity store.
type FetchFunc func(ctx context.Context) ([]Reviewer, error)

// RosterCache caches the active reviewer set for a TTL window so roster
// reconciliation does not hit the store on every read. Staleness within the
// window is acceptable; a newly activated reviewer's slot simply appears up
// to one TTL late.
type RosterCache struct {
	mu        sync.Mutex
	fetch     FetchFunc
	ttl       time.Duration
	now       func() time.Time
	logger    zerolog.Logger
	fetchedAt time.Time
	cached    []Reviewer
}

// NewRosterCache builds a roster cache around the given fetch function.
func NewRosterCache(fetch FetchFunc, ttl time.Duration, logger zerolog.Logger) *RosterCache {
	return &RosterCache{
		fetch:  fetch,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "reviewer_roster_cache").Logger(),
	}
}

// Get returns the active reviewer set, refreshing it when the cached value is
// older than the TTL. When a refresh fails mid-window the last known value is
// served instead of failing the caller; only a failure with no prior value is
// an error.
func (c *RosterCache) Get(ctx context.Context) ([]Reviewer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cached) > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		return copyReviewers(c.cached), nil
	}

	reviewers, err := c.fetch(ctx)
	if err != nil {
		if len(c.cached) > 0 {
			c.logger.Warn().Err(err).Msg("roster refresh failed, serving stale value")
			return copyReviewers(c.cached), nil
		}
		return nil, err
	}

	c.cached = reviewers
	c.fetchedAt = c.now()
	return copyReviewers(c.cached), nil
}

// ForceRefresh discards the cached value and reloads immediately.
func (c *RosterCache) ForceRefresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reviewers, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	c.cached = reviewers
	c.fetchedAt = c.now()
	return nil
}

// SetClock overrides the cache's time source. Intended for tests.
func (c *RosterCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func copyReviewers(reviewers []Reviewer) []Reviewer {
	out := make([]Reviewer, len(reviewers))
	copy(out, reviewers)
	return out
}
