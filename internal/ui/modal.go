package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pathquest/internal/popup"
)

const popupWidth = 44

// renderPopup draws the peak popup over the map.
func (m Model) renderPopup(c popup.Content) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(c.Name))
	b.WriteString("\n")
	if c.Locality != "" {
		b.WriteString(styles.MutedText.Render(c.Locality))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", popupWidth-6)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(styles.MutedText.Width(11).Render(label))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	if c.Altitude != "" {
		row("Altitude", c.Altitude)
	}
	row("Location", fmt.Sprintf("%.4f, %.4f", c.At.Lat, c.At.Lng))
	if c.Summitted {
		b.WriteString(styles.SuccessText.Render(markerSummit + " Summitted"))
		b.WriteString("\n")
	}
	if c.Favorited {
		b.WriteString(styles.WarningText.Render(markerFavorite + " Favorite"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Padding(0, 1).
		Render(c.ActionLabel)
	b.WriteString(button)
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render("enter/f " + strings.ToLower(c.ActionLabel) + " · esc close"))

	if text, _ := m.surface.Toast(); text != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(text))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(popupWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
