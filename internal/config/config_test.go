package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wildo/internal/flags"
)

// loadConfigFromYAML decodes yaml the way cmd/root.go does.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o600))

	// "::" lets dotted color tokens such as "todo.overdue" stay map keys.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())
	want := Defaults()

	require.Equal(t, want.Storage, cfg.Storage)
	require.Equal(t, want.UI, cfg.UI)
	require.Equal(t, want.Flags, cfg.Flags)
	require.Equal(t, 500*time.Millisecond, cfg.UI.TickInterval)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle, "decoded without viper defaults")
}

func TestWriteDefaultConfig_DecodesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, Defaults().UI, cfg.UI)
	require.NoError(t, cfg.Validate())
}

func TestThemeColors_KeepDottedKeys(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  preset: nord
  colors:
    todo.overdue: "#FF0000"
`)
	require.Equal(t, "nord", cfg.Theme.Preset)
	require.Equal(t, map[string]string{"todo.overdue": "#FF0000"}, cfg.Theme.Colors)
	require.NoError(t, ValidateTheme(cfg.Theme))
	require.Equal(t, "nord", cfg.Theme.Styles().Preset)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"sqlite without history", func(c *Config) { c.Storage.Backend = BackendSQLite; c.Storage.History = 0 }, "storage.history"},
		{"zero tick", func(c *Config) { c.UI.TickInterval = 0 }, "ui.tick_interval"},
		{"bad markdown style", func(c *Config) { c.UI.MarkdownStyle = "sepia" }, "ui.markdown_style"},
		{"unknown preset", func(c *Config) { c.Theme.Preset = "dracula" }, "theme.preset"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, "otlp_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStorage_ResolvedPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.Equal(t, filepath.Join(home, ".local", "share", "wildo", "snapshot.yaml"),
		StorageConfig{Backend: BackendYAML}.ResolvedPath())
	require.Equal(t, filepath.Join(home, ".local", "share", "wildo", "wildo.db"),
		StorageConfig{Backend: BackendSQLite}.ResolvedPath())
	require.Equal(t, filepath.Join(home, "todo.yaml"),
		StorageConfig{Path: "~/todo.yaml"}.ResolvedPath())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))
	require.True(t, Exists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSaveFlag_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveFlag(path, flags.FlagWatch, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Where snapshots are stored")

	cfg := loadConfigFromYAML(t, string(data))
	require.True(t, cfg.Flags[flags.FlagWatch])
	require.False(t, cfg.Flags[flags.FlagAutosave])
	require.Equal(t, BackendYAML, cfg.Storage.Backend)
}

func TestSaveFlag_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveFlag(path, flags.FlagAutosave, true))

	cfg := loadConfigFromYAML(t, mustRead(t, path))
	require.Equal(t, map[string]bool{flags.FlagAutosave: true}, cfg.Flags)
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
