// Package config provides configuration types, defaults, and persistence for wildo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/zjrosen/wildo/internal/flags"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/paths"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// Storage backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds all configuration options for wildo.
type Config struct {
	Storage StorageConfig   `mapstructure:"storage"`
	UI      UIConfig        `mapstructure:"ui"`
	Theme   ThemeConfig     `mapstructure:"theme"`
	Debug   bool            `mapstructure:"debug"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// StorageConfig selects where snapshots live.
type StorageConfig struct {
	// Backend is "yaml" (default) or "sqlite".
	Backend string `mapstructure:"backend"`

	// Path is the snapshot file or database. Empty derives a file under
	// ~/.local/share/wildo named for the backend.
	Path string `mapstructure:"path"`

	// History is how many snapshots the sqlite backend keeps.
	History int `mapstructure:"history"`
}

// ResolvedPath returns Path with "~" expanded, or the backend's default file.
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" {
		return paths.Expand(s.Path)
	}
	name := "snapshot.yaml"
	if s.Backend == BackendSQLite {
		name = "wildo.db"
	}
	return filepath.Join(paths.DataDir(), name)
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	ShowHelp      bool          `mapstructure:"show_help"`      // show the key hint line in the status bar
	MarkdownStyle string        `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	Preset string `mapstructure:"preset"`

	// Colors overrides individual color tokens, e.g. "todo.overdue": "#FF0000".
	Colors map[string]string `mapstructure:"colors"`
}

// Styles converts the theme to what the styles package applies.
func (t ThemeConfig) Styles() styles.ThemeConfig {
	return styles.ThemeConfig{Preset: t.Preset, Colors: t.Colors}
}

// TracingConfig holds tracing configuration for action application.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend: "none", "file", "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns ~/.config/wildo/traces/traces.jsonl or empty
// string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendYAML,
			History: 20,
		},
		UI: UIConfig{
			TickInterval:  500 * time.Millisecond,
			ShowHelp:      true,
			MarkdownStyle: "dark",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: map[string]bool{
			flags.FlagAutosave: false,
			flags.FlagWatch:    false,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateStorage(c.Storage); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateStorage checks storage configuration for errors.
func ValidateStorage(s StorageConfig) error {
	switch s.Backend {
	case "", BackendYAML:
	case BackendSQLite:
		if s.History < 1 {
			return fmt.Errorf("storage.history must be at least 1, got %d", s.History)
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendYAML, BackendSQLite, s.Backend)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	if ui.TickInterval <= 0 {
		return fmt.Errorf("ui.tick_interval must be positive, got %s", ui.TickInterval)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTheme rejects presets that do not exist. Color overrides are
// checked when the theme is applied.
func ValidateTheme(t ThemeConfig) error {
	if t.Preset == "" || slices.Contains(styles.PresetNames(), t.Preset) {
		return nil
	}
	return fmt.Errorf("theme.preset %q is not one of %v", t.Preset, styles.PresetNames())
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# wildo configuration

# Where snapshots are stored
storage:
  backend: yaml   # "yaml" (single file) or "sqlite" (keeps history)
  # path: ~/.local/share/wildo/snapshot.yaml
  history: 20     # snapshots kept by the sqlite backend

# UI settings
ui:
  tick_interval: 500ms    # repaint interval
  show_help: true         # show key hints in the status bar
  markdown_style: dark    # key help rendering style: "dark" or "light"

# Theme configuration
theme:
  # Use a preset (run 'wildo keys' to see the result):
  # preset: catppuccin-mocha
  #
  # Available presets:
  #   default           - Default wildo theme
  #   catppuccin-mocha  - Warm, cozy dark theme
  #   nord              - Arctic, north-bluish palette
  #   high-contrast     - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   todo.overdue: "#FF0000"
  #   border.focus: "#00FFFF"

# Tracing of key handling
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/wildo/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
flags:
  autosave: false   # save after every key
  watch: false      # reload when another wildo writes the snapshot
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	if err := writeAtomic(configPath, []byte(DefaultConfigTemplate())); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return err
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
