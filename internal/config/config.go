// Package config parses the driver's stratum.yaml project file: the solver
// iteration cap, diagnostic color mode, run-history database path, and any
// extra pre-declared built-in symbols beyond builtin.Level.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the recognized extension for Stratum source files.
const SourceFileExt = ".st"

// DefaultMaxIterations bounds the solver's outer fixed-point loop (§5) when
// stratum.yaml omits maxIterations.
const DefaultMaxIterations = 1000

// DefaultHistoryDB is the run-history store's default path, relative to the
// project root.
const DefaultHistoryDB = ".stratum_history.db"

// ColorMode is a tri-state: auto-detect via isatty, force on, or force off.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// Config is the top-level stratum.yaml shape.
type Config struct {
	// MaxIterations bounds the solver's worklist fixed-point loop (§4.5/§5).
	MaxIterations int `yaml:"maxIterations,omitempty"`

	// Color selects the diagnostic renderer's color mode. Defaults to auto.
	Color ColorMode `yaml:"color,omitempty"`

	// HistoryDB is the path to the sqlite run-history store.
	HistoryDB string `yaml:"historyDB,omitempty"`

	// Builtins lists extra permanent symbol names the driver pre-declares
	// (unlocked, with no type and no own-value) before elaborating any file, beyond
	// the always-present builtin.Level.
	Builtins []string `yaml:"builtins,omitempty"`
}

// Default returns the configuration used when no stratum.yaml is present.
func Default() *Config {
	return &Config{
		MaxIterations: DefaultMaxIterations,
		Color:         ColorAuto,
		HistoryDB:     DefaultHistoryDB,
	}
}

// Load reads and parses path, filling in defaults for any omitted field. A
// missing file is not an error — Load returns Default() unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parsed := &Config{}
	if err := yaml.Unmarshal(data, parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if parsed.MaxIterations > 0 {
		cfg.MaxIterations = parsed.MaxIterations
	}
	if parsed.Color != "" {
		cfg.Color = parsed.Color
	}
	if parsed.HistoryDB != "" {
		cfg.HistoryDB = parsed.HistoryDB
	}
	cfg.Builtins = parsed.Builtins

	return cfg, nil
}
