package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/state"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// Searcher fetches peaks for a query.
type Searcher interface {
	SearchPeaks(ctx context.Context, query pathquest.SearchQuery) ([]pathquest.Peak, error)
}

// Loader replaces the store's working set with search results.
type Loader struct {
	searcher Searcher
	store    *state.Store
	limit    int
	retry    time.Duration
	logger   *zap.Logger
}

// NewLoader binds a searcher to a store. limit is applied to queries that
// don't set their own.
func NewLoader(searcher Searcher, store *state.Store, limit int, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		searcher: searcher,
		store:    store,
		limit:    limit,
		retry:    defaultRetryInterval,
		logger:   logger,
	}
}

// Load fetches query and applies the result to the store.
func (l *Loader) Load(ctx context.Context, query pathquest.SearchQuery) error {
	peaks, err := l.Fetch(ctx, query)
	l.Apply(query, peaks, err)
	return err
}

// Fetch runs query against the API without touching the store, so callers
// with an event loop can decide on that loop whether the result still
// matters.
func (l *Loader) Fetch(ctx context.Context, query pathquest.SearchQuery) ([]pathquest.Peak, error) {
	if query.Limit <= 0 {
		query.Limit = l.limit
	}
	return l.searcher.SearchPeaks(ctx, query)
}

// Apply swaps a fetch result into the store. On failure the previous working
// set is kept and the failure counted.
func (l *Loader) Apply(query pathquest.SearchQuery, peaks []pathquest.Peak, err error) {
	if err != nil {
		l.store.Replace(query, nil, err)
		l.logger.Warn("peak load failed",
			zap.Error(err),
			zap.Int("consecutive_failures", l.store.Snapshot().ConsecutiveFailures),
		)
		return
	}
	l.store.Replace(query, peaks, nil)
	l.logger.Debug("peaks loaded", zap.Int("count", len(peaks)), zap.String("q", query.Text))
}

// RetryDelay returns how long to wait before retrying after the current run
// of failures.
func (l *Loader) RetryDelay() time.Duration {
	failures := l.store.Snapshot().ConsecutiveFailures
	return calculateBackoff(failures-1, l.retry)
}

// calculateBackoff doubles base for each failure beyond the first, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
