package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/five82/pathquest/internal/favorites"
	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/layers"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/popup"
	"github.com/five82/pathquest/internal/state"
	"github.com/five82/pathquest/internal/units"
)

// neighborhood is the half-width in degrees of the area loaded around a
// peak before toggling it from the command line.
const neighborhood = 0.05

// memSurface is an off-screen map: layers and popups kept in memory.
type memSurface struct {
	mu     sync.Mutex
	layers map[string][]layers.Feature
	popup  *popup.Content
}

func newMemSurface() *memSurface {
	return &memSurface{layers: make(map[string][]layers.Feature)}
}

func (m *memSurface) LayerFeatures(layer string) []layers.Feature {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layers[layer]
}

func (m *memSurface) SetLayerFeatures(layer string, features []layers.Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers[layer] = features
}

func (m *memSurface) OpenPopup(c popup.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popup = &c
}

func (m *memSurface) ClosePopup(at geo.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.popup != nil && m.popup.At == at {
		m.popup = nil
	}
}

// Session is a headless client: everything the TUI has except the terminal.
type Session struct {
	API    pathquest.PeakAPI
	Store  *state.Store
	Loader *Loader
	Units  units.System
	Logger *zap.Logger

	surface    *memSurface
	projection *layers.Projection
	coord      *favorites.Coordinator
}

// NewSession wires a headless client against api. Failure notifications are
// written to notify.
func NewSession(api pathquest.PeakAPI, limit int, system units.System, notify io.Writer, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &state.Store{}
	store.SetOrder(state.ByAltitudeDesc)
	surface := newMemSurface()
	projection := layers.NewProjection(surface)

	coord, err := favorites.New(favorites.Options{
		Store:      store,
		Projection: projection,
		Popups:     popup.NewPresenter(surface),
		Remote:     api,
		Notifier: favorites.NotifierFunc(func(msg string) {
			fmt.Fprintf(notify, "pathquest: %s\n", msg)
		}),
		Units:  func() units.System { return system },
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &Session{
		API:        api,
		Store:      store,
		Loader:     NewLoader(api, store, limit, logger),
		Units:      system,
		Logger:     logger,
		surface:    surface,
		projection: projection,
		coord:      coord,
	}, nil
}

// Close releases the coordinator.
func (s *Session) Close() {
	s.coord.Close()
}

// Search loads peaks for query and writes them as a table.
func (s *Session) Search(ctx context.Context, query pathquest.SearchQuery, out io.Writer) error {
	if err := s.Loader.Load(ctx, query); err != nil {
		return fmt.Errorf("search peaks: %w", err)
	}
	unfav, fav := s.Store.Partitions()
	if len(unfav)+len(fav) == 0 {
		fmt.Fprintln(out, "No peaks found.")
		return nil
	}
	fmt.Fprintln(out, renderPeakTable(append(fav, unfav...), s.Units))
	return nil
}

// SetFavorite loads the neighborhood around peakID and runs the favorite
// toggle through the coordinator. A peak already in the requested state is
// reported and left alone.
func (s *Session) SetFavorite(ctx context.Context, peakID string, favorite bool, out io.Writer) error {
	peak, err := s.API.FetchPeak(ctx, peakID)
	if err != nil {
		return fmt.Errorf("fetch peak: %w", err)
	}
	query := pathquest.SearchQuery{Bounds: geo.Around(peak.Point(), neighborhood)}
	if err := s.Loader.Load(ctx, query); err != nil {
		return fmt.Errorf("load neighborhood: %w", err)
	}
	s.ensureLoaded(peak)

	s.projection.Reset(s.Store.Partitions())

	outcome, err := s.coord.Toggle(ctx, popup.ToggleRequest{PeakID: peakID, NewValue: favorite})
	switch {
	case errors.Is(err, favorites.ErrNotFound):
		fmt.Fprintf(out, "%s is already %s.\n", peak.DisplayName(), stateWord(favorite))
		return nil
	case err != nil:
		return err
	}

	s.Logger.Info("favorite toggle settled",
		zap.String("peak_id", peakID),
		zap.Bool("new_value", favorite),
		zap.Stringer("outcome", outcome),
	)
	if outcome != favorites.Committed {
		return fmt.Errorf("%s: %s", favorites.FailureMessage, peak.DisplayName())
	}
	if confirmed, err := s.API.FetchPeak(ctx, peakID); err != nil {
		s.Logger.Warn("favorite confirmation fetch failed", zap.String("peak_id", peakID), zap.Error(err))
	} else if confirmed.IsFavorited != favorite {
		return fmt.Errorf("server reports %s as %s after update", peak.DisplayName(), stateWord(confirmed.IsFavorited))
	}
	fmt.Fprintf(out, "%s is now %s.\n", peak.DisplayName(), stateWord(favorite))
	return nil
}

// ensureLoaded adds peak to the working set when the neighborhood search
// did not return it, for instance because the result limit cut it off.
func (s *Session) ensureLoaded(peak pathquest.Peak) {
	if _, _, ok := s.Store.Lookup(peak.ID); ok {
		return
	}
	s.Store.Insert(state.PartitionFor(peak.IsFavorited), peak)
}

func stateWord(favorite bool) string {
	if favorite {
		return "a favorite"
	}
	return "not a favorite"
}

func renderPeakTable(peaks []pathquest.Peak, system units.System) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "ALTITUDE", "LOCATION", "FAV", "SUMMITS")
	for _, p := range peaks {
		fav := ""
		if p.IsFavorited {
			fav = "★"
		}
		t.Row(
			p.ID,
			p.DisplayName(),
			units.FormatOptionalAltitude(p.Altitude, system),
			strings.TrimSpace(p.Locality()),
			fav,
			fmt.Sprint(p.Summits),
		)
	}
	return t.String()
}
