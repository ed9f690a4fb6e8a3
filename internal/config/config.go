package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pathquest/internal/geo"
)

// Config captures everything PathQuest needs at startup.
type Config struct {
	APIURL        string
	Token         string
	LogFile       string
	SearchLimit   int
	DefaultBounds geo.Bounds
}

const (
	defaultConfigPath  = "~/.config/pathquest/config.toml"
	defaultLogFile     = "~/.local/state/pathquest/pathquest.log"
	defaultAPIURL      = "https://api.pathquest.app"
	defaultSearchLimit = 200
	maxSearchLimit     = 1000
)

// defaultBounds frames the Colorado Front Range.
var defaultBounds = geo.Bounds{MinLng: -106.0, MinLat: 39.5, MaxLng: -105.5, MaxLat: 40.0}

// Overrides are read from the environment and win over the file.
type Overrides struct {
	APIURL  string `env:"PATHQUEST_API_URL"`
	Token   string `env:"PATHQUEST_TOKEN"`
	LogFile string `env:"PATHQUEST_LOG_FILE"`
}

// ParseEnv loads environment overrides into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:        defaultAPIURL,
		LogFile:       mustExpand(defaultLogFile),
		SearchLimit:   defaultSearchLimit,
		DefaultBounds: defaultBounds,
	}
}

// Load locates and parses the config file, falling back to defaults when
// missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := loadFile(resolved)
	if err != nil {
		return Config{}, err
	}

	var over Overrides
	if err := ParseEnv(&over); err != nil {
		return Config{}, err
	}
	cfg.apply(over)
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string    `toml:"api_url"`
		Token       string    `toml:"token"`
		LogFile     string    `toml:"log_file"`
		SearchLimit int       `toml:"search_limit"`
		DefaultBBox []float64 `toml:"default_bbox"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.Token = strings.TrimSpace(raw.Token)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	switch {
	case raw.SearchLimit <= 0:
	case raw.SearchLimit > maxSearchLimit:
		cfg.SearchLimit = maxSearchLimit
	default:
		cfg.SearchLimit = raw.SearchLimit
	}
	if len(raw.DefaultBBox) > 0 {
		bounds, err := parseBBox(raw.DefaultBBox)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: default_bbox: %w", err)
		}
		cfg.DefaultBounds = bounds
	}
	return cfg, nil
}

func (c *Config) apply(over Overrides) {
	if v := strings.TrimSpace(over.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(over.Token); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(over.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
}

// parseBBox reads [minLng, minLat, maxLng, maxLat], the order the search
// endpoint uses.
func parseBBox(values []float64) (geo.Bounds, error) {
	if len(values) != 4 {
		return geo.Bounds{}, fmt.Errorf("want 4 numbers, got %d", len(values))
	}
	b := geo.Bounds{MinLng: values[0], MinLat: values[1], MaxLng: values[2], MaxLat: values[3]}
	if !b.Valid() {
		return geo.Bounds{}, fmt.Errorf("invalid bounds %v", values)
	}
	return b, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
