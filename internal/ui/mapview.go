package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pathquest/internal/layers"
	"github.com/five82/pathquest/internal/units"
)

// Marker glyphs.
const (
	markerPeak     = "△"
	markerSummit   = "▲"
	markerFavorite = "★"
	markerSelected = "◉"
)

// listRow is one line of the peak list: a feature and the layer it is drawn on.
type listRow struct {
	feature layers.Feature
	layer   string
}

// rows lists favorites first, then the rest, each in layer order.
func (m Model) rows() []listRow {
	fav := m.surface.LayerFeatures(layers.FavoritePeaksLayer)
	rest := m.surface.LayerFeatures(layers.PeaksLayer)
	out := make([]listRow, 0, len(fav)+len(rest))
	for _, f := range fav {
		out = append(out, listRow{feature: f, layer: layers.FavoritePeaksLayer})
	}
	for _, f := range rest {
		out = append(out, listRow{feature: f, layer: layers.PeaksLayer})
	}
	return out
}

// selectedIndex returns the row holding the selected peak, or 0.
func (m Model) selectedIndex(rows []listRow) int {
	for i, r := range rows {
		if r.feature.ID == m.selectedID {
			return i
		}
	}
	return 0
}

func (m Model) selectedRow() (listRow, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return listRow{}, false
	}
	return rows[m.selectedIndex(rows)], true
}

func (m *Model) moveSelection(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	m.selectIndex(m.selectedIndex(rows) + delta)
}

func (m *Model) selectIndex(i int) {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	i = max(0, min(i, len(rows)-1))
	m.selectedID = rows[i].feature.ID
}

func marker(f layers.Feature) string {
	switch {
	case f.Favorited():
		return markerFavorite
	case summitted(f):
		return markerSummit
	default:
		return markerPeak
	}
}

func summitted(f layers.Feature) bool {
	v, _ := f.Properties[layers.PropSummitted].(bool)
	return v
}

// renderMap renders the plot beside the peak list. Narrow terminals get the
// list alone.
func (m Model) renderMap() string {
	height := m.bodyHeight()
	if m.width < LayoutCompactWidth {
		return m.renderList(m.width, height)
	}
	plotWidth := m.width * 11 / 20
	listWidth := m.width - plotWidth
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPlot(plotWidth, height),
		m.renderList(listWidth, height),
	)
}

// renderPlot draws every feature at its position inside the current box.
// Favorites are drawn last so they stay visible where markers overlap.
func (m Model) renderPlot(width, height int) string {
	styles := m.theme.Styles()
	innerW, innerH := max(width-2, 1), max(height-2, 1)

	grid := make([][]string, innerH)
	for r := range grid {
		grid[r] = make([]string, innerW)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	selID := ""
	if sel, ok := m.selectedRow(); ok {
		selID = sel.feature.ID
	}

	b := m.bounds
	spanLng, spanLat := b.MaxLng-b.MinLng, b.MaxLat-b.MinLat
	place := func(f layers.Feature, layer string) {
		p := f.Geometry.Point()
		if spanLng <= 0 || spanLat <= 0 || !b.Contains(p) {
			return
		}
		col := int((p.Lng - b.MinLng) / spanLng * float64(innerW-1))
		row := int((b.MaxLat - p.Lat) / spanLat * float64(innerH-1))
		glyph := marker(f)
		style := styles.MarkerStyle(layer, summitted(f))
		if f.ID == selID {
			glyph = markerSelected
			style = styles.AccentText.Bold(true)
		}
		grid[row][col] = style.Render(glyph)
	}

	for _, f := range m.surface.LayerFeatures(layers.PeaksLayer) {
		place(f, layers.PeaksLayer)
	}
	for _, f := range m.surface.LayerFeatures(layers.FavoritePeaksLayer) {
		place(f, layers.FavoritePeaksLayer)
	}

	lines := make([]string, innerH)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return styles.Panel.
		Width(innerW).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}

// renderList renders the scrolling peak list with the selection kept in view.
func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	innerW, innerH := max(width-2, 10), max(height-2, 1)
	rows := m.rows()

	if len(rows) == 0 {
		msg := "No peaks in view"
		if m.loading {
			msg = "Loading peaks..."
		}
		return styles.Panel.Width(innerW).Height(innerH).
			Render(styles.MutedText.Render(msg))
	}

	sel := m.selectedIndex(rows)
	start := 0
	if sel >= innerH {
		start = sel - innerH + 1
	}
	end := min(start+innerH, len(rows))

	altWidth := 10
	locWidth := 0
	if m.width >= LayoutWideWidth {
		locWidth = 18
	}
	nameWidth := max(innerW-altWidth-locWidth-4, 6)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		name := padRight(truncate(r.feature.Name(), nameWidth), nameWidth)
		alt := padLeft(altitudeLabel(r.feature, m.units()), altWidth)
		loc := ""
		if locWidth > 0 {
			l, _ := r.feature.Properties[layers.PropLocality].(string)
			loc = " " + padRight(truncate(l, locWidth), locWidth)
		}
		text := fmt.Sprintf("%s %s%s", name, alt, loc)

		mark := styles.MarkerStyle(r.layer, summitted(r.feature)).Render(marker(r.feature))
		if i == sel {
			lines = append(lines, mark+" "+styles.Selected.Render(padRight(text, innerW-2)))
			continue
		}
		lines = append(lines, mark+" "+styles.Text.Render(text))
	}
	return styles.Panel.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

func altitudeLabel(f layers.Feature, system units.System) string {
	meters, ok := f.Altitude()
	if !ok {
		return "-"
	}
	return units.FormatAltitude(meters, system)
}
