package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/pathquest/internal/geo"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PATHQUEST_API_URL", "PATHQUEST_TOKEN", "PATHQUEST_LOG_FILE"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.SearchLimit != defaultSearchLimit {
		t.Fatalf("SearchLimit = %d, want %d", cfg.SearchLimit, defaultSearchLimit)
	}
	if cfg.DefaultBounds != defaultBounds {
		t.Fatalf("DefaultBounds = %+v, want %+v", cfg.DefaultBounds, defaultBounds)
	}
	want := filepath.Join(home, ".local/state/pathquest/pathquest.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
api_url = "  http://localhost:8080  "
token = " secret "
log_file = "  ~/logs/pq.log  "
search_limit = 50
default_bbox = [-122.0, 46.5, -121.5, 47.0]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Token != "secret" {
		t.Fatalf("Token = %q", cfg.Token)
	}
	if cfg.LogFile != filepath.Join(home, "logs/pq.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.SearchLimit != 50 {
		t.Fatalf("SearchLimit = %d, want 50", cfg.SearchLimit)
	}
	want := geo.Bounds{MinLng: -122.0, MinLat: 46.5, MaxLng: -121.5, MaxLat: 47.0}
	if cfg.DefaultBounds != want {
		t.Fatalf("DefaultBounds = %+v, want %+v", cfg.DefaultBounds, want)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := writeConfig(t, `
api_url = "   "
log_file = ""
search_limit = -3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.SearchLimit != defaultSearchLimit {
		t.Fatalf("SearchLimit = %d, want %d", cfg.SearchLimit, defaultSearchLimit)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_SearchLimitIsCapped(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg, err := Load(writeConfig(t, `search_limit = 50000`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SearchLimit != maxSearchLimit {
		t.Fatalf("SearchLimit = %d, want %d", cfg.SearchLimit, maxSearchLimit)
	}
}

func TestLoad_InvalidBBoxFails(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"short":    `default_bbox = [1.0, 2.0]`,
		"inverted": `default_bbox = [10.0, 10.0, 5.0, 5.0]`,
		"range":    `default_bbox = [-200.0, 0.0, 0.0, 1.0]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if err == nil || !strings.Contains(err.Error(), "default_bbox") {
				t.Fatalf("Load error = %v, want default_bbox error", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATHQUEST_API_URL", "https://staging.example.com")
	t.Setenv("PATHQUEST_TOKEN", "env-token")
	t.Setenv("PATHQUEST_LOG_FILE", "~/env.log")

	cfg, err := Load(writeConfig(t, `
api_url = "https://file.example.com"
token = "file-token"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://staging.example.com" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.Token != "env-token" {
		t.Fatalf("Token = %q, want env value", cfg.Token)
	}
	if cfg.LogFile != filepath.Join(home, "env.log") {
		t.Fatalf("LogFile = %q, want env value", cfg.LogFile)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, `api_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
