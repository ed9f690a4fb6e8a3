package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/pathquest/internal/config"
	"github.com/five82/pathquest/internal/logging"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/prefs"
	"github.com/five82/pathquest/internal/state"
	"github.com/five82/pathquest/internal/ui"
)

// Options configure the PathQuest application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pathquest/prefs.toml
	Verbose    bool
}

type runtime struct {
	cfg    config.Config
	prefs  prefs.Prefs
	logger *zap.Logger
	client *pathquest.Client
}

func bootstrap(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("prefs unreadable, using defaults", zap.Error(err))
	}

	client, err := pathquest.NewClient(cfg.APIURL, cfg.Token, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	logger.Debug("pathquest starting",
		zap.String("api_url", cfg.APIURL),
		zap.Bool("authenticated", cfg.Token != ""),
		zap.String("units", userPrefs.Units),
	)
	return &runtime{cfg: cfg, prefs: userPrefs, logger: logger, client: client}, nil
}

// Run boots the PathQuest TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	store := &state.Store{}
	uiOpts := ui.Options{
		Context:   ctx,
		Store:     store,
		Remote:    rt.client,
		Loader:    NewLoader(rt.client, store, rt.cfg.SearchLimit, rt.logger),
		Bounds:    rt.cfg.DefaultBounds,
		Prefs:     rt.prefs,
		PrefsPath: opts.PrefsPath,
		LogFile:   rt.cfg.LogFile,
		Logger:    rt.logger,
	}
	return ui.Run(uiOpts)
}

// Search prints the peaks matching text, or those in the configured default
// area when text is empty.
func Search(ctx context.Context, opts Options, text string, out io.Writer) error {
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	s, err := NewSession(rt.client, rt.cfg.SearchLimit, rt.prefs.System(), io.Discard, rt.logger)
	if err != nil {
		return err
	}
	defer s.Close()

	query := pathquest.SearchQuery{Text: strings.TrimSpace(text)}
	if query.Text == "" {
		query.Bounds = rt.cfg.DefaultBounds
	}
	return s.Search(ctx, query, out)
}

// SetFavorite marks peakID as a favorite or removes it, printing the result
// to out and failure notices to errOut.
func SetFavorite(ctx context.Context, opts Options, peakID string, favorite bool, out, errOut io.Writer) error {
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	s, err := NewSession(rt.client, rt.cfg.SearchLimit, rt.prefs.System(), errOut, rt.logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SetFavorite(ctx, peakID, favorite, out)
}
