package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pathquest/internal/pathquest"
)

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "peak name (empty to search the map area)"
	ti.CharLimit = 80
	return ti
}

// handleSearchKey processes input while the search prompt is open. Enter
// replaces the working set; an empty query searches the visible box.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		text := strings.TrimSpace(m.searchInput.Value())
		m.popups.Close()
		if text == "" {
			return m.load(pathquest.SearchQuery{Bounds: m.bounds})
		}
		return m.load(pathquest.SearchQuery{Text: text})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}
