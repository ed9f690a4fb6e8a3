// Package prefs handles PathQuest user preferences persistence.
// Preferences are stored in ~/.config/pathquest/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pathquest/internal/units"
)

// Sort orders offered by the peak list.
const (
	SortAltitude = "altitude"
	SortDistance = "distance"
	SortName     = "name"
)

var sortOrder = []string{SortAltitude, SortDistance, SortName}

// Prefs holds user preferences for PathQuest.
type Prefs struct {
	Theme string `toml:"theme"`
	Units string `toml:"units"`
	Sort  string `toml:"sort"`
}

const (
	defaultPrefsPath = "~/.config/pathquest/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Units: string(units.Imperial), Sort: SortAltitude}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// System returns the unit system named by p.Units.
func (p Prefs) System() units.System {
	return units.Parse(p.Units)
}

// NextSort returns the sort order after current, wrapping around.
func NextSort(current string) string {
	for i, name := range sortOrder {
		if name == current {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return sortOrder[0]
}

// Load reads preferences from the given path. A missing file yields the
// defaults with no error. Read and parse failures also yield the defaults,
// along with the error so the caller can report it.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), fmt.Errorf("resolve prefs path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read prefs: %w", err)
	}

	prefs := Default()
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Default(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	return prefs.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	def := Default()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = def.Theme
	}
	p.Units = string(units.Parse(p.Units))
	switch strings.ToLower(strings.TrimSpace(p.Sort)) {
	case SortAltitude, SortDistance, SortName:
		p.Sort = strings.ToLower(strings.TrimSpace(p.Sort))
	default:
		p.Sort = def.Sort
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
