package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/taglet/internal/app"
	"github.com/zjrosen/taglet/internal/config"
	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/keys"
	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/paths"
	"github.com/zjrosen/taglet/internal/tracing"
	"github.com/zjrosen/taglet/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "taglet",
	Short: "A terminal composer for inline mention and topic tags",
	Long: `A terminal chat composer where typing @ or # opens a candidate search
at the cursor. Accepted tags track through later edits and render to a
canonical form that survives renames.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/taglet/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs to debug.log")
	rootCmd.Flags().StringP("directory", "d", "",
		"candidate database file or project directory")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable candidate reload when the database changes")

	// Bind flags to viper
	_ = viper.BindPFlag("directory.path", rootCmd.Flags().Lookup("directory"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("search.strategy", defaults.Search.Strategy)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_timestamps", defaults.UI.ShowTimestamps)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.max_suggestions", defaults.UI.MaxSuggestions)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .taglet/config.yaml (current directory)
		// 2. ~/.config/taglet/config.yaml (user config)
		if _, err := os.Stat(".taglet/config.yaml"); err == nil {
			viper.SetConfigFile(".taglet/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "taglet"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .taglet/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".taglet/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePathOrDefault returns the loaded config file, or the local
// default when the run started without one. Commands that persist settings
// write here.
func configFilePathOrDefault() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".taglet/config.yaml"
}

func runApp(cmd *cobra.Command, args []string) error {
	// Initialize logging if debug mode enabled (via flag or env var)
	if debugFlag || os.Getenv("TAGLET_DEBUG") != "" {
		logPath := os.Getenv("TAGLET_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "taglet")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "Taglet starting", "debug", true, "logPath", logPath)
	}

	if err := config.ValidateTriggers(cfg.Triggers); err != nil {
		return fmt.Errorf("invalid trigger configuration: %w", err)
	}
	if err := config.ValidateSearch(cfg.Search); err != nil {
		return fmt.Errorf("invalid search configuration: %w", err)
	}
	if err := config.ValidateKeybindings(cfg.Keybindings); err != nil {
		return fmt.Errorf("invalid keybinding configuration: %w", err)
	}
	if err := config.ValidateTracing(cfg.Tracing); err != nil {
		return fmt.Errorf("invalid tracing configuration: %w", err)
	}

	keys.ApplyConfig(cfg.Keybindings.Suggest, cfg.Keybindings.Focus)

	if err := styles.ApplyTheme(themeConfig(cfg.Theme)); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	// Handle --no-auto-reload flag (negated logic)
	if noAutoReload, _ := cmd.Flags().GetBool("no-auto-reload"); noAutoReload {
		cfg.AutoReload = false
	}

	tp, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	// Candidate provider: the configured database read-through cached, or
	// the built-in seed when nothing is configured. The seed has no file to
	// watch, so auto-reload only applies to the database path.
	var provider directory.Provider
	var dirCache *directory.Cached
	var dbPath string
	if cfg.Directory.Path != "" {
		dbPath = paths.ResolveCandidatesDB(cfg.Directory.Path)
		store, err := directory.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening candidate directory %s: %w\nRun 'taglet directory add' to create one", dbPath, err)
		}
		defer func() { _ = store.Close() }()
		dirCache = directory.NewCached(store, false)
		provider = dirCache
	} else {
		provider = directory.Seed()
	}
	if tp.Enabled() {
		provider = tracing.NewTracedProvider(provider, tp.Tracer())
	}

	zone.NewGlobal()

	model := app.NewWithConfig(cfg, provider, dirCache, dbPath, tp.Tracer())
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// themeConfig bridges the config theme section into the styles package,
// which declares its own type to avoid an import cycle.
func themeConfig(t config.ThemeConfig) styles.ThemeConfig {
	return styles.ThemeConfig{
		Preset: t.Preset,
		Mode:   t.Mode,
		Colors: t.FlattenedColors(),
	}
}

// tracingConfig bridges the config tracing section, filling the file path
// default that depends on the user's home directory.
func tracingConfig(t config.TracingConfig) tracing.Config {
	filePath := t.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
		ServiceName:  "taglet",
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
