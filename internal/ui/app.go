// Package ui provides the Bubble Tea TUI for PathQuest.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/pathquest/internal/favorites"
	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/layers"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/popup"
	"github.com/five82/pathquest/internal/prefs"
	"github.com/five82/pathquest/internal/state"
	"github.com/five82/pathquest/internal/units"
)

// favoriteTimeout bounds a single favorite request.
const favoriteTimeout = 10 * time.Second

// Pan and zoom steps, as fractions of the visible box.
const (
	panStep     = 0.25
	zoomInStep  = 0.5
	zoomOutStep = 2.0
)

// PeakLoader fetches peaks off the event loop and applies results to the
// store on it.
type PeakLoader interface {
	Fetch(ctx context.Context, query pathquest.SearchQuery) ([]pathquest.Peak, error)
	Apply(query pathquest.SearchQuery, peaks []pathquest.Peak, err error)
	RetryDelay() time.Duration
}

// View represents the current active view.
type View int

const (
	ViewMap View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Remote    favorites.Remote
	Loader    PeakLoader
	Bounds    geo.Bounds
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators, shared across copies of Model
	ctx        context.Context
	store      *state.Store
	loader     PeakLoader
	coord      *favorites.Coordinator
	projection *layers.Projection
	popups     *popup.Presenter
	surface    *mapSurface
	settings   *prefs.Prefs
	prefsPath  string
	logFile    string
	logger     *zap.Logger
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Viewport and loading
	bounds  geo.Bounds
	query   pathquest.SearchQuery
	loadGen int
	loading bool

	// List selection, tracked by peak ID so it follows a peak between layers
	selectedID string

	// Search
	searching   bool
	searchInput textinput.Model

	// Log view
	logViewport viewport.Model
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) (Model, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	if opts.Loader == nil {
		return Model{}, fmt.Errorf("ui: loader is required")
	}

	settings := opts.Prefs
	if settings == (prefs.Prefs{}) {
		settings = prefs.Default()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	bounds := opts.Bounds
	if !bounds.Valid() {
		bounds = geo.Around(geo.Point{Lat: 39.75, Lng: -105.75}, 0.25)
	}

	surface := newMapSurface()
	projection := layers.NewProjection(surface)
	presenter := popup.NewPresenter(surface)

	m := Model{
		ctx:         ctx,
		store:       store,
		loader:      opts.Loader,
		projection:  projection,
		popups:      presenter,
		surface:     surface,
		settings:    &settings,
		prefsPath:   prefsPath,
		logFile:     opts.LogFile,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(settings.Theme),
		currentView: ViewMap,
		bounds:      bounds,
		query:       pathquest.SearchQuery{Bounds: bounds},
		searchInput: newSearchInput(),
	}

	coord, err := favorites.New(favorites.Options{
		Store:      store,
		Projection: projection,
		Popups:     presenter,
		Remote:     opts.Remote,
		Notifier:   surface,
		Units:      m.units,
		Logger:     logger,
	})
	if err != nil {
		return Model{}, err
	}
	m.coord = coord
	m.applyOrder()
	return m, nil
}

// units reads the shared settings, so it stays current across Model copies.
func (m Model) units() units.System {
	return m.settings.System()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		loadCmd(m.ctx, m.loader, m.query, m.loadGen),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case peaksLoadedMsg:
		return m.handleLoaded(msg)

	case retryLoadMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		m.loading = true
		return m, loadCmd(m.ctx, m.loader, m.query, m.loadGen)

	case favoriteSettledMsg:
		outcome := m.coord.Settle(msg.pending, msg.err)
		m.logger.Debug("favorite settled",
			zap.String("peak_id", msg.pending.Request().PeakID),
			zap.Stringer("outcome", outcome),
		)
		return m, m.toastCmd()

	case toastExpiredMsg:
		m.surface.ExpireToast(msg.seq)
		return m, nil

	case prefsChangedMsg:
		m.applyPrefs(prefs.Prefs(msg))
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if c, ok := m.surface.Popup(); ok && m.currentView == ViewMap {
		return m.renderPopup(c)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if _, ok := m.popups.Current(); ok && m.currentView == ViewMap {
		return m.handlePopupKey(msg)
	}
	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.settings.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logFile)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.query.Text)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.settings.Sort = prefs.NextSort(m.settings.Sort)
		m.applyOrder()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleUnits):
		m.settings.Units = string(m.units().Toggle())
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m.load(m.query)

	case key.Matches(msg, m.keys.PanLeft):
		return m.moveViewport(m.bounds.Pan(-panStep, 0))
	case key.Matches(msg, m.keys.PanRight):
		return m.moveViewport(m.bounds.Pan(panStep, 0))
	case key.Matches(msg, m.keys.PanUp):
		return m.moveViewport(m.bounds.Pan(0, panStep))
	case key.Matches(msg, m.keys.PanDown):
		return m.moveViewport(m.bounds.Pan(0, -panStep))
	case key.Matches(msg, m.keys.ZoomIn):
		return m.moveViewport(m.bounds.Zoom(zoomInStep))
	case key.Matches(msg, m.keys.ZoomOut):
		return m.moveViewport(m.bounds.Zoom(zoomOutStep))

	case key.Matches(msg, m.keys.Open):
		m.openSelected()
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m.startToggle(popup.ToggleRequest{
			PeakID:   row.feature.ID,
			NewValue: !row.feature.Favorited(),
		})

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selectIndex(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectIndex(len(m.rows()) - 1)
	}
	return m, nil
}

// handlePopupKey processes input while a peak popup is open.
func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.popups.Close()
		return m, nil
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Favorite):
		c, ok := m.popups.Current()
		if !ok {
			return m, nil
		}
		return m.startToggle(c.Action())
	case key.Matches(msg, m.keys.ToggleUnits):
		m.settings.Units = string(m.units().Toggle())
		m.savePrefs()
		m.refreshPopup()
		return m, nil
	}
	return m, nil
}

// startToggle applies a favorite change locally and returns the command that
// persists it.
func (m Model) startToggle(req popup.ToggleRequest) (tea.Model, tea.Cmd) {
	p, err := m.coord.Begin(req)
	switch {
	case errors.Is(err, favorites.ErrInFlight):
		m.surface.Notify("Still saving the previous change")
		return m, m.toastCmd()
	case err != nil:
		m.logger.Debug("favorite toggle not started", zap.String("peak_id", req.PeakID), zap.Error(err))
		return m, nil
	}
	m.selectedID = req.PeakID
	return m, favoriteCmd(m.ctx, p)
}

// openSelected shows the popup for the selected peak.
func (m *Model) openSelected() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	peak, _, found := m.store.Lookup(row.feature.ID)
	if !found {
		return
	}
	m.popups.Show(popup.Build(peak, m.units()))
}

// refreshPopup rebuilds the open popup from the store.
func (m *Model) refreshPopup() {
	c, ok := m.popups.Current()
	if !ok {
		return
	}
	peak, _, found := m.store.Lookup(c.PeakID)
	if !found {
		m.popups.Close()
		return
	}
	m.popups.Replace(popup.Build(peak, m.units()))
}

// moveViewport reloads the working set for a new bounding box.
func (m Model) moveViewport(bounds geo.Bounds) (tea.Model, tea.Cmd) {
	m.bounds = bounds
	return m.load(pathquest.SearchQuery{Bounds: bounds})
}

// load starts a fresh load. Results and retries for older loads are ignored.
func (m Model) load(query pathquest.SearchQuery) (tea.Model, tea.Cmd) {
	m.loadGen++
	m.loading = true
	m.query = query
	return m, loadCmd(m.ctx, m.loader, query, m.loadGen)
}

// handleLoaded applies a fetch result. Results from superseded loads are
// dropped before they reach the store.
func (m Model) handleLoaded(msg peaksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		return m, nil
	}
	m.loading = false
	m.loader.Apply(msg.query, msg.peaks, msg.err)
	if msg.err != nil {
		delay := m.loader.RetryDelay()
		m.logger.Debug("scheduling peak reload", zap.Duration("delay", delay))
		return m, retryLoadCmd(delay, msg.gen)
	}

	unfav, fav := m.store.Partitions()
	if m.query.Text != "" {
		if b, ok := fitBounds(append(fav, unfav...)); ok {
			m.bounds = b
		}
	}
	m.applyOrder()
	m.refreshPopup()
	return m, nil
}

// applyOrder sets the store's order from the sort preference and redraws
// both layers to match.
func (m *Model) applyOrder() {
	m.store.SetOrder(orderFor(m.settings.Sort, m.bounds.Center()))
	m.projection.Reset(m.store.Partitions())
}

// applyPrefs adopts preferences edited outside the app.
func (m *Model) applyPrefs(p prefs.Prefs) {
	prev := *m.settings
	*m.settings = p
	m.theme = GetTheme(p.Theme)
	if p.Sort != prev.Sort {
		m.applyOrder()
	}
	if p.Units != prev.Units {
		m.refreshPopup()
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, *m.settings); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// toastCmd schedules removal of the current toast.
func (m Model) toastCmd() tea.Cmd {
	text, seq := m.surface.Toast()
	if text == "" {
		return nil
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// orderFor maps a sort preference onto a store order.
func orderFor(sort string, center geo.Point) state.Order {
	switch sort {
	case prefs.SortDistance:
		return state.ByDistanceFrom(center)
	case prefs.SortName:
		return state.ByName
	default:
		return state.ByAltitudeDesc
	}
}

// fitBounds returns a box around peaks with a small margin.
func fitBounds(peaks []pathquest.Peak) (geo.Bounds, bool) {
	if len(peaks) == 0 {
		return geo.Bounds{}, false
	}
	b := geo.Bounds{MinLat: 90, MinLng: 180, MaxLat: -90, MaxLng: -180}
	for _, p := range peaks {
		b.MinLat = min(b.MinLat, p.Lat)
		b.MinLng = min(b.MinLng, p.Lng)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MaxLng = max(b.MaxLng, p.Lng)
	}
	const margin = 0.02
	if b.MaxLat-b.MinLat < margin || b.MaxLng-b.MinLng < margin {
		return geo.Around(b.Center(), 0.05), true
	}
	b = b.Zoom(1.1)
	return b, b.Valid()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderMap())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// bodyHeight is the space left for the map or log view.
func (m Model) bodyHeight() int {
	return max(m.height-3, 3)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	ctx := m.ctx
	defer m.coord.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	w, err := prefs.Watch(ctx, m.prefsPath, m.logger, func(pr prefs.Prefs) {
		p.Send(prefsChangedMsg(pr))
	})
	if err != nil {
		m.logger.Warn("prefs watch unavailable", zap.Error(err))
	} else {
		defer w.Stop()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
