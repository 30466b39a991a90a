// Package config provides configuration types and defaults for taglet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/taglet/internal/log"
)

// TriggerConfig defines a single tag trigger.
type TriggerConfig struct {
	Rune  string `mapstructure:"rune"`  // single rune that opens a search, e.g. "@"
	Label string `mapstructure:"label"` // heading shown above suggestions
	Color string `mapstructure:"color"` // hex color e.g. "#10B981"
}

// Config holds all configuration options for taglet.
type Config struct {
	Directory   DirectoryConfig   `mapstructure:"directory"`
	AutoReload  bool              `mapstructure:"auto_reload"`
	Triggers    []TriggerConfig   `mapstructure:"triggers"`
	Search      SearchConfig      `mapstructure:"search"`
	Keybindings KeybindingsConfig `mapstructure:"keybindings"`
	UI          UIConfig          `mapstructure:"ui"`
	Theme       ThemeConfig       `mapstructure:"theme"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// KeybindingsConfig holds user-remappable keybindings.
type KeybindingsConfig struct {
	// Suggest opens the suggestion popup by hand. Default: "ctrl+space"
	Suggest string `mapstructure:"suggest"`

	// Focus switches focus between composer and transcript. Default: "tab"
	Focus string `mapstructure:"focus"`
}

// DirectoryConfig holds candidate directory database configuration.
type DirectoryConfig struct {
	// Path is the candidate database file, or a project directory
	// containing .taglet/candidates.db. Empty uses the built-in seed.
	Path string `mapstructure:"path"`
}

// SearchConfig holds search session behavior options.
type SearchConfig struct {
	Strategy string `mapstructure:"strategy"` // "eager" (default) or "deferred"
	Charset  string `mapstructure:"charset"`  // regexp character class for query runes, e.g. "[a-zA-Z-]"
	Pattern  string `mapstructure:"pattern"`  // regexp matching canonical tags when seeding text
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar  bool   `mapstructure:"show_status_bar"`
	ShowTimestamps bool   `mapstructure:"show_timestamps"`
	MarkdownStyle  string `mapstructure:"markdown_style"`  // "dark" (default) or "light"
	MaxSuggestions int    `mapstructure:"max_suggestions"` // rows shown in the suggestion box
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       primary: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "text.primary": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/taglet/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/taglet/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taglet", "traces", "traces.jsonl")
}

// DefaultTriggers returns the default trigger configuration.
func DefaultTriggers() []TriggerConfig {
	return []TriggerConfig{
		{
			Rune:  "@",
			Label: "People",
			Color: "#54A0FF",
		},
		{
			Rune:  "#",
			Label: "Topics",
			Color: "#73F59F",
		},
	}
}

// ValidateTriggers checks trigger configuration for errors.
// Returns nil if triggers are valid or empty (will use defaults).
func ValidateTriggers(triggers []TriggerConfig) error {
	if len(triggers) == 0 {
		return nil // Will use defaults
	}

	seen := make(map[string]bool)
	for i, trig := range triggers {
		if trig.Rune == "" {
			return fmt.Errorf("trigger %d: rune is required", i)
		}
		if utf8.RuneCountInString(trig.Rune) != 1 {
			return fmt.Errorf("trigger %d: rune must be a single character, got %q", i, trig.Rune)
		}
		if seen[trig.Rune] {
			return fmt.Errorf("trigger %d: duplicate rune %q", i, trig.Rune)
		}
		seen[trig.Rune] = true
	}
	return nil
}

// ValidateSearch checks search configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateSearch(search SearchConfig) error {
	// Validate strategy
	if search.Strategy != "" && search.Strategy != "eager" && search.Strategy != "deferred" {
		return fmt.Errorf("search.strategy must be \"eager\" or \"deferred\", got %q", search.Strategy)
	}

	// Charset and pattern must compile when set
	if search.Charset != "" {
		if _, err := regexp.Compile(search.Charset); err != nil {
			return fmt.Errorf("search.charset is not a valid regexp: %w", err)
		}
	}
	if search.Pattern != "" {
		if _, err := regexp.Compile(search.Pattern); err != nil {
			return fmt.Errorf("search.pattern is not a valid regexp: %w", err)
		}
	}

	return nil
}

// keyFormatRe matches the key strings bubbletea understands: optional
// modifiers followed by a key name like "k", "f5", or "space".
var keyFormatRe = regexp.MustCompile(`^((ctrl|alt|shift)\+)*([a-z0-9]|f[1-9]|f1[0-2]|space|tab|enter|esc|up|down|left|right|home|end|pgup|pgdown|backspace|delete)$`)

// reservedKeys carry fixed meanings in the composer and popup and cannot
// be remapped.
var reservedKeys = map[string]bool{
	"enter":     true,
	"esc":       true,
	"ctrl+c":    true,
	"backspace": true,
	"delete":    true,
}

// bareKeyRe matches the modifier-less keys the composer does not consume.
var bareKeyRe = regexp.MustCompile(`^(tab|f[1-9]|f1[0-2])$`)

// ValidateKeybindings checks keybinding configuration for errors.
// Returns nil if bindings are valid or empty (will use defaults).
func ValidateKeybindings(kb KeybindingsConfig) error {
	bindings := []struct {
		name string
		raw  string
	}{
		{"keybindings.suggest", kb.Suggest},
		{"keybindings.focus", kb.Focus},
	}

	normalized := make(map[string]string)
	for _, b := range bindings {
		if b.raw == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(b.raw))
		// TrimSpace eats the bare-space spelling "ctrl+ "
		if key == "ctrl+" {
			key = "ctrl+space"
		}
		if !keyFormatRe.MatchString(key) {
			return fmt.Errorf("%s: invalid key format %q", b.name, b.raw)
		}
		if reservedKeys[key] {
			return fmt.Errorf("%s: %q is reserved", b.name, b.raw)
		}
		// Plain printable keys and cursor motion belong to the text input.
		if !strings.Contains(key, "+") && !bareKeyRe.MatchString(key) {
			return fmt.Errorf("%s: %q is reserved for text entry, use a modifier", b.name, b.raw)
		}
		if other, ok := normalized[key]; ok {
			return fmt.Errorf("%s and %s use the same key %q", other, b.name, key)
		}
		normalized[key] = b.name
	}

	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	// Validate Exporter is a valid option
	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		// FilePath is required when Exporter is "file"
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}

		// OTLPEndpoint is required when Exporter is "otlp"
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// GetTriggers returns the configured triggers, or DefaultTriggers() if none configured.
func (c Config) GetTriggers() []TriggerConfig {
	if len(c.Triggers) > 0 {
		return c.Triggers
	}
	return DefaultTriggers()
}

// TriggerRunes returns the rune of each configured trigger in order.
func (c Config) TriggerRunes() []rune {
	triggers := c.GetTriggers()
	runes := make([]rune, 0, len(triggers))
	for _, trig := range triggers {
		r, _ := utf8.DecodeRuneInString(trig.Rune)
		runes = append(runes, r)
	}
	return runes
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Triggers:   DefaultTriggers(),
		Search: SearchConfig{
			Strategy: "eager",
			Charset:  "", // Engine default: [a-zA-Z-]
			Pattern:  "", // Engine default: [@#][\w-]+#.+?#
		},
		UI: UIConfig{
			ShowStatusBar:  true,
			ShowTimestamps: false,
			MarkdownStyle:  "dark",
			MaxSuggestions: 8,
		},
		Theme: ThemeConfig{
			// Default theme uses the "default" preset
			Preset: "",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Taglet Configuration

# Candidate directory database
# Accepts a database file or a project directory containing .taglet/candidates.db
# directory:
#   path: /path/to/project

# Reload candidates when the database changes
auto_reload: true

# Tag triggers - typing one opens a candidate search at the cursor
triggers:
  - rune: "@"
    label: People
    color: "#54A0FF"

  - rune: "#"
    label: Topics
    color: "#73F59F"

# Trigger options:
#   rune: Single character that opens a search (required)
#   label: Heading shown above the suggestion box
#   color: Hex color for rendered tags

# Search behavior
search:
  # When to announce a search: on the trigger itself ("eager", default)
  # or on the first query rune after it ("deferred")
  strategy: eager

  # Runes that extend a search query (regexp character class)
  # charset: "[a-zA-Z-]"

  # Canonical tags recognized when seeding stored text (regexp)
  # pattern: "[@#][\w-]+#.+?#"

# Remappable keybindings
# Plain printable keys go to the composer, so bindings need a modifier
# (or tab / function keys)
# keybindings:
#   suggest: ctrl+space  # Open the suggestion popup by hand
#   focus: tab           # Switch composer/transcript focus

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  show_timestamps: false  # Show timestamps on transcript entries
  # markdown_style: dark  # Markdown rendering style: "dark" (default) or "light"
  max_suggestions: 8      # Rows shown in the suggestion box

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # Use a preset:
  # preset: catppuccin-mocha
  #
  # Available presets:
  #   default           - Default taglet theme
  #   catppuccin-mocha  - Warm, cozy dark theme
  #   catppuccin-latte  - Warm, cozy light theme
  #   dracula           - Dark theme with vibrant colors
  #   nord              - Arctic, north-bluish palette
  #   high-contrast     - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.primary: "#FFFFFF"
  #   status.error: "#FF0000"
  #   tag.mention: "#54A0FF"

# Distributed tracing configuration
# Enables visibility into edit observation and formatting flows
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/taglet/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Enable tracing with file export
# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/taglet/traces/traces.jsonl
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
