package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/wildo/internal/app"
	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/content/todo"
	"github.com/zjrosen/wildo/internal/flags"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/paths"
	"github.com/zjrosen/wildo/internal/store"
	"github.com/zjrosen/wildo/internal/tracing"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the insert line.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	noColor bool
	cfg     config.Config

	// v uses "::" as its key delimiter so dotted color tokens such as
	// "todo.overdue" stay single map keys.
	v = newViper()

	logCleanup func()
)

// rootTitle names the collection created on first run.
const rootTitle = "To-do"

var rootCmd = &cobra.Command{
	Use:   "wildo",
	Short: "A terminal to-do list organizer",
	Long: `A terminal user interface for nested to-do lists.

Lists live in a collection; open one with l, add items with a, and mark
them done with c. Run 'wildo keys' for every binding.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
	RunE: runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.wildo/config.yaml, then ~/.config/wildo/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write a debug log (path from WILDO_LOG, default debug.log)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colors")
	rootCmd.PersistentFlags().String("backend", "",
		"storage backend: yaml or sqlite (overrides config)")
	rootCmd.PersistentFlags().String("data", "",
		"snapshot file or database (overrides config)")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("storage::backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = v.BindPFlag("storage::path", rootCmd.PersistentFlags().Lookup("data"))
}

func newViper() *viper.Viper {
	nv := viper.NewWithOptions(viper.KeyDelimiter("::"))
	nv.SetEnvPrefix("WILDO")
	nv.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))
	nv.AutomaticEnv()
	return nv
}

func setDefaults(nv *viper.Viper) {
	d := config.Defaults()
	nv.SetDefault("storage::backend", d.Storage.Backend)
	nv.SetDefault("storage::history", d.Storage.History)
	nv.SetDefault("ui::tick_interval", d.UI.TickInterval)
	nv.SetDefault("ui::show_help", d.UI.ShowHelp)
	nv.SetDefault("ui::markdown_style", d.UI.MarkdownStyle)
	nv.SetDefault("tracing::exporter", d.Tracing.Exporter)
	nv.SetDefault("tracing::otlp_endpoint", d.Tracing.OTLPEndpoint)
	nv.SetDefault("tracing::sample_rate", d.Tracing.SampleRate)
	for name, enabled := range d.Flags {
		nv.SetDefault("flags::"+name, enabled)
	}
}

func initConfig() {
	setDefaults(v)

	// Config lookup order:
	// 1. --config
	// 2. .wildo/config.yaml (current directory)
	// 3. ~/.config/wildo/config.yaml (user config, created with defaults if missing)
	path := configPath()
	if path != "" && !config.Exists(path) {
		// If write fails, just continue with defaults (no config file)
		if err := config.WriteDefaultConfig(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "wildo: reading %s: %v\n", path, err)
		}
	}

	cfg = config.Config{}
	_ = v.Unmarshal(&cfg)
}

func configPath() string {
	if cfgFile != "" {
		return paths.Expand(cfgFile)
	}
	if p := paths.ProjectConfigPath(); config.Exists(p) {
		return p
	}
	return paths.UserConfigPath()
}

// setup runs before every command: it checks the config, starts logging and
// applies the theme.
func setup(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := initLogging(); err != nil {
		return err
	}
	log.Info(log.CatConfig, "wildo starting", "version", version, "config", v.ConfigFileUsed())

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if err := styles.ApplyTheme(cfg.Theme.Styles()); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}
	return nil
}

// initLogging writes a debug log when asked to. Otherwise entries of info
// level and above still reach the status bar.
func initLogging() error {
	if logCleanup != nil {
		return nil
	}
	if !cfg.Debug {
		log.InitWriter(nil)
		log.SetMinLevel(log.LevelInfo)
		return nil
	}

	logPath := os.Getenv("WILDO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "wildo")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	return nil
}

func openStore() (store.Store, error) {
	st, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	return st, nil
}

// loadContext reads the latest snapshot, or starts an empty collection on
// first run.
func loadContext(ctx context.Context, st store.Store) (*content.Context, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		return content.NewContext(todo.NewCollection(rootTitle)), nil
	}
	return snap.Context(), nil
}

func runApp(_ *cobra.Command, _ []string) error {
	tp, err := tracing.NewProvider(tracingConfig())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown", err)
		}
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	state, err := loadContext(context.Background(), st)
	if err != nil {
		return err
	}

	snapshotPath := cfg.Storage.ResolvedPath()
	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	model := app.New(app.Options{
		Config:    cfg,
		Context:   state,
		Store:     st,
		Writer:    uuid.NewString(),
		Flags:     flags.New(cfg.Flags),
		Tracer:    tp.Tracer(),
		WatchPath: snapshotPath,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func tracingConfig() config.TracingConfig {
	tc := cfg.Tracing
	if tc.FilePath != "" {
		tc.FilePath = paths.Expand(tc.FilePath)
	}
	return tc
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
