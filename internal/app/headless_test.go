package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pathquest/internal/favorites"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/units"
)

// fakeAPI keeps peaks in memory and applies toggles unless toggleErr is set.
type fakeAPI struct {
	mu        sync.Mutex
	peaks     map[string]pathquest.Peak
	toggleErr error
	toggles   int
}

func newFakeAPI(peaks ...pathquest.Peak) *fakeAPI {
	f := &fakeAPI{peaks: map[string]pathquest.Peak{}}
	for _, p := range peaks {
		f.peaks[p.ID] = p
	}
	return f
}

func (f *fakeAPI) SearchPeaks(_ context.Context, q pathquest.SearchQuery) ([]pathquest.Peak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pathquest.Peak
	for _, p := range f.peaks {
		if !q.Bounds.IsZero() && !q.Bounds.Contains(p.Point()) {
			continue
		}
		if q.Text != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Text)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeAPI) FetchPeak(_ context.Context, id string) (pathquest.Peak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.peaks[id]
	if !ok {
		return pathquest.Peak{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakeAPI) ToggleFavorite(_ context.Context, id string, newValue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	p := f.peaks[id]
	p.IsFavorited = newValue
	f.peaks[id] = p
	return nil
}

func rainierArea() *fakeAPI {
	alt := 4392.0
	return newFakeAPI(
		pathquest.Peak{ID: "rainier", Name: "Mount Rainier", Lat: 46.8529, Lng: -121.7604, Altitude: &alt, State: "WA", Country: "US"},
		pathquest.Peak{ID: "little-tahoma", Name: "Little Tahoma", Lat: 46.8496, Lng: -121.7126},
		pathquest.Peak{ID: "hood", Name: "Mount Hood", Lat: 45.3736, Lng: -121.6959, IsFavorited: true},
	)
}

func newTestSession(t *testing.T, api *fakeAPI, notify *bytes.Buffer) *Session {
	t.Helper()
	s, err := NewSession(api, 100, units.Metric, notify, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_SetFavoriteCommits(t *testing.T) {
	api := rainierArea()
	var notify, out bytes.Buffer
	s := newTestSession(t, api, &notify)

	require.NoError(t, s.SetFavorite(context.Background(), "rainier", true, &out))
	assert.Contains(t, out.String(), "Mount Rainier is now a favorite")
	assert.Empty(t, notify.String())

	_, fav := s.Store.Partitions()
	require.Len(t, fav, 1)
	assert.Equal(t, "rainier", fav[0].ID)
	assert.True(t, api.peaks["rainier"].IsFavorited)
}

func TestSession_SetFavoriteRollsBackOnFailure(t *testing.T) {
	api := rainierArea()
	api.toggleErr = pathquest.ErrToggleRejected
	var notify, out bytes.Buffer
	s := newTestSession(t, api, &notify)

	err := s.SetFavorite(context.Background(), "rainier", true, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), favorites.FailureMessage)
	assert.Equal(t, "pathquest: "+favorites.FailureMessage+"\n", notify.String())

	unfav, fav := s.Store.Partitions()
	assert.Empty(t, fav)
	assert.Len(t, unfav, 2)
}

func TestSession_SetFavoriteAlreadyInState(t *testing.T) {
	api := rainierArea()
	var notify, out bytes.Buffer
	s := newTestSession(t, api, &notify)

	require.NoError(t, s.SetFavorite(context.Background(), "hood", true, &out))
	assert.Contains(t, out.String(), "already a favorite")
	assert.Equal(t, 0, api.toggles)
}

func TestSession_SearchPrintsTable(t *testing.T) {
	api := rainierArea()
	var notify, out bytes.Buffer
	s := newTestSession(t, api, &notify)

	require.NoError(t, s.Search(context.Background(), pathquest.SearchQuery{Text: "mount"}, &out))
	text := out.String()
	assert.Contains(t, text, "Mount Rainier")
	assert.Contains(t, text, "4,392 m")
	assert.Contains(t, text, "Mount Hood")
	assert.NotContains(t, text, "Little Tahoma")

	out.Reset()
	require.NoError(t, s.Search(context.Background(), pathquest.SearchQuery{Text: "nothing here"}, &out))
	assert.Equal(t, "No peaks found.\n", out.String())
}
