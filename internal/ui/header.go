package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, query, counts and load state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	snap := m.store.Snapshot()
	parts := []string{
		bg.Render("pathquest", styles.Logo),
		bg.Render(m.queryLabel(), styles.Text),
	}

	if snap.HasData {
		counts := fmt.Sprintf("%d peaks", snap.Len())
		parts = append(parts,
			bg.Render(counts, styles.MutedText),
			bg.Render(fmt.Sprintf("%s %d", markerFavorite, len(snap.Favorited)), styles.WarningText),
		)
	}

	switch {
	case m.loading:
		parts = append(parts, bg.Render("Loading...", styles.InfoText))
	case snap.LastError != nil:
		label := "LOAD " + classifyLoadError(snap.LastError)
		if snap.IsOffline() {
			label = "OFFLINE"
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case !snap.LastUpdated.IsZero():
		parts = append(parts, bg.Render("updated "+since(snap.LastUpdated), styles.FaintText))
	}

	if n := m.coord.InFlight(); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("saving %d", n), styles.InfoText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints and display settings.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	hints := []string{}
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, bg.Render(h.Key, keyStyle)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	settings := fmt.Sprintf("sort:%s  units:%s  theme:%s",
		m.settings.Sort, m.units().Suffix(), m.theme.Name)
	hints = append(hints, bg.Render(settings, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(hints, bg.Spaces(2)))
}

// renderStatusLine renders the search prompt, the toast, or the viewport box.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.searching {
		return m.searchInput.View()
	}
	if text, _ := m.surface.Toast(); text != "" {
		return styles.DangerText.Render(text)
	}
	b := m.bounds
	return styles.FaintText.Render(fmt.Sprintf("bbox %.3f,%.3f,%.3f,%.3f", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat))
}

func (m Model) queryLabel() string {
	if q := strings.TrimSpace(m.query.Text); q != "" {
		return fmt.Sprintf("search %q", q)
	}
	return "map " + m.bounds.Center().String()
}

// classifyLoadError returns a short label for a load failure.
func classifyLoadError(err error) string {
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "TIMEOUT"
	case errors.As(err, &netErr):
		return "UNREACHABLE"
	case strings.Contains(err.Error(), "status"):
		return "ERROR"
	default:
		return "FAILED"
	}
}

// since formats the age of t for display.
func since(t time.Time) string {
	d := time.Since(t).Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
