package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathquest/internal/favorites"
	"github.com/five82/pathquest/internal/logging"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/prefs"
)

// Messages

type peaksLoadedMsg struct {
	gen   int
	query pathquest.SearchQuery
	peaks []pathquest.Peak
	err   error
}

type retryLoadMsg struct {
	gen int
}

type favoriteSettledMsg struct {
	pending *favorites.Pending
	err     error
}

type toastExpiredMsg struct {
	seq int
}

type prefsChangedMsg prefs.Prefs

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func loadCmd(ctx context.Context, loader PeakLoader, query pathquest.SearchQuery, gen int) tea.Cmd {
	return func() tea.Msg {
		peaks, err := loader.Fetch(ctx, query)
		return peaksLoadedMsg{gen: gen, query: query, peaks: peaks, err: err}
	}
}

func retryLoadCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return retryLoadMsg{gen: gen}
	})
}

// favoriteCmd runs the remote half of a toggle off the event loop.
func favoriteCmd(ctx context.Context, p *favorites.Pending) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, favoriteTimeout)
		defer cancel()
		return favoriteSettledMsg{pending: p, err: p.Call(callCtx)}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logging.Tail(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}
