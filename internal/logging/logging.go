// Package logging builds the application logger and reads it back for the
// in-app log view.
//
// The terminal belongs to the TUI, so log output goes to a file as JSON
// lines. Tail and FormatLine turn the end of that file into display text.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log sink and level.
type Options struct {
	// File receives JSON log lines. Empty means discard.
	File    string
	Verbose bool
}

// New builds a production JSON logger writing to opts.File. Verbose lowers
// the level to debug.
func New(opts Options) (*zap.Logger, error) {
	path := strings.TrimSpace(opts.File)
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
