package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeSearcher struct {
	peaks []pathquest.Peak
	err   error
	last  pathquest.SearchQuery
}

func (f *fakeSearcher) SearchPeaks(_ context.Context, q pathquest.SearchQuery) ([]pathquest.Peak, error) {
	f.last = q
	return f.peaks, f.err
}

func TestLoader_LoadReplacesWorkingSet(t *testing.T) {
	store := &state.Store{}
	searcher := &fakeSearcher{peaks: []pathquest.Peak{{ID: "a"}, {ID: "b", IsFavorited: true}}}
	loader := NewLoader(searcher, store, 50, nil)

	if err := loader.Load(context.Background(), pathquest.SearchQuery{Text: "rainier"}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if searcher.last.Limit != 50 {
		t.Fatalf("query limit = %d, want default 50", searcher.last.Limit)
	}
	unfav, fav := store.Partitions()
	if len(unfav) != 1 || len(fav) != 1 {
		t.Fatalf("partitions = %d/%d, want 1/1", len(unfav), len(fav))
	}
}

func TestLoader_FailureKeepsDataAndBacksOff(t *testing.T) {
	store := &state.Store{}
	searcher := &fakeSearcher{peaks: []pathquest.Peak{{ID: "a"}}}
	loader := NewLoader(searcher, store, 10, nil)
	_ = loader.Load(context.Background(), pathquest.SearchQuery{Text: "x"})

	searcher.err = errors.New("offline")
	wantDelays := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, want := range wantDelays {
		if err := loader.Load(context.Background(), pathquest.SearchQuery{Text: "y"}); err == nil {
			t.Fatalf("Load %d returned nil error", i)
		}
		if got := loader.RetryDelay(); got != want {
			t.Fatalf("RetryDelay after %d failures = %v, want %v", i+1, got, want)
		}
	}

	snap := store.Snapshot()
	if snap.Len() != 1 || snap.Query.Text != "x" {
		t.Fatalf("snapshot lost previous data: %+v", snap)
	}
	if !snap.IsOffline() {
		t.Fatalf("IsOffline = false after repeated failures")
	}
}

func TestLoader_FetchLeavesStoreUntouched(t *testing.T) {
	store := &state.Store{}
	searcher := &fakeSearcher{peaks: []pathquest.Peak{{ID: "a"}}}
	loader := NewLoader(searcher, store, 25, nil)

	peaks, err := loader.Fetch(context.Background(), pathquest.SearchQuery{Text: "a"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(peaks) != 1 || searcher.last.Limit != 25 {
		t.Fatalf("Fetch = %v (limit %d), want 1 peak with limit 25", peaks, searcher.last.Limit)
	}
	if store.Snapshot().HasData {
		t.Fatalf("Fetch wrote to the store")
	}

	searcher.err = errors.New("offline")
	if _, err := loader.Fetch(context.Background(), pathquest.SearchQuery{Text: "b"}); err == nil {
		t.Fatalf("Fetch returned nil error")
	}
	if snap := store.Snapshot(); snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("failed Fetch was recorded: %+v", snap)
	}

	loader.Apply(pathquest.SearchQuery{Text: "a"}, peaks, nil)
	if got := store.Snapshot().Len(); got != 1 {
		t.Fatalf("Len after Apply = %d, want 1", got)
	}
}
