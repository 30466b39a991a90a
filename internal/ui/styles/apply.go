// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors the theme section of the app config. Declared here
// rather than importing internal/config to avoid an import cycle.
type ThemeConfig struct {
	Preset string            // preset name, empty means default
	Mode   string            // "light" or "dark", empty means auto-detect
	Colors map[string]string // token -> hex overrides
}

// styleRebuilders holds callbacks that rebuild package-level styles in other
// packages after theme colors change. Registered via RegisterStyleRebuilder.
var styleRebuilders []func()

// RegisterStyleRebuilder registers a callback invoked after ApplyTheme
// updates the color variables. Packages that derive their own package-level
// styles from these colors register a rebuilder from init() so they pick up
// theme changes without importing this package's callers.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ApplyTheme applies a theme configuration to the package color variables.
// Order: default preset, then named preset, then per-token overrides.
// Returns an error on unknown presets, unknown tokens, or malformed colors;
// colors are not modified when an error is returned.
func ApplyTheme(cfg ThemeConfig) error {
	if cfg.Mode != "" && cfg.Mode != "light" && cfg.Mode != "dark" {
		return fmt.Errorf("unknown theme mode: %s", cfg.Mode)
	}

	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for token, hex := range cfg.Colors {
		ct := ColorToken(token)
		if !isValidToken(ct) {
			return fmt.Errorf("unknown color token: %s", token)
		}
		if !isValidHexColor(hex) {
			return fmt.Errorf("invalid hex color for %s: %s", token, hex)
		}
		colors[ct] = hex
	}

	if cfg.Mode != "" {
		lipgloss.SetHasDarkBackground(cfg.Mode == "dark")
	}

	applyColors(colors)
	rebuildStyles()
	for _, fn := range styleRebuilders {
		fn()
	}
	return nil
}

// makeColor builds an adaptive color using the same hex for both modes.
// Themed colors are chosen per palette, not per background.
func makeColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
}

// applyColors writes resolved token colors into the package variables.
func applyColors(colors map[ColorToken]string) {
	if hex, ok := colors[TokenTextPrimary]; ok {
		TextPrimaryColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTextSecondary]; ok {
		TextSecondaryColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTextMuted]; ok {
		TextMutedColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTextPlaceholder]; ok {
		TextPlaceholderColor = makeColor(hex)
	}
	if hex, ok := colors[TokenBorderDefault]; ok {
		BorderDefaultColor = makeColor(hex)
	}
	if hex, ok := colors[TokenBorderFocus]; ok {
		BorderFocusColor = makeColor(hex)
	}
	if hex, ok := colors[TokenBorderHighlight]; ok {
		BorderHighlightFocusColor = makeColor(hex)
	}
	if hex, ok := colors[TokenStatusSuccess]; ok {
		StatusSuccessColor = makeColor(hex)
	}
	if hex, ok := colors[TokenStatusWarning]; ok {
		StatusWarningColor = makeColor(hex)
	}
	if hex, ok := colors[TokenStatusError]; ok {
		StatusErrorColor = makeColor(hex)
	}
	if hex, ok := colors[TokenSelectionIndicator]; ok {
		SelectionIndicatorColor = makeColor(hex)
	}
	if hex, ok := colors[TokenOverlayTitle]; ok {
		OverlayTitleColor = makeColor(hex)
	}
	if hex, ok := colors[TokenOverlayBorder]; ok {
		OverlayBorderColor = makeColor(hex)
	}
	if hex, ok := colors[TokenComposerBorder]; ok {
		ComposerBorderColor = makeColor(hex)
	}
	if hex, ok := colors[TokenComposerBorderFocus]; ok {
		ComposerBorderFocusColor = makeColor(hex)
	}
	if hex, ok := colors[TokenComposerLabel]; ok {
		ComposerLabelColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTagMention]; ok {
		TagMentionColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTagHashtag]; ok {
		TagHashtagColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTagTouched]; ok {
		TagTouchedColor = makeColor(hex)
	}
	if hex, ok := colors[TokenSuggestMatch]; ok {
		SuggestMatchColor = makeColor(hex)
	}
	if hex, ok := colors[TokenSuggestCount]; ok {
		SuggestCountColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTranscriptAuthor]; ok {
		TranscriptAuthorColor = makeColor(hex)
	}
	if hex, ok := colors[TokenTranscriptTimestamp]; ok {
		TranscriptTimestampColor = makeColor(hex)
	}
	if hex, ok := colors[TokenSpinner]; ok {
		SpinnerColor = makeColor(hex)
	}
}

// rebuildStyles recreates derived styles from the current color variables.
// Styles capture colors at construction, so they go stale after applyColors.
func rebuildStyles() {
	SelectionIndicatorStyle = lipgloss.NewStyle().
		Foreground(SelectionIndicatorColor).
		Bold(true)

	TagMentionStyle = lipgloss.NewStyle().
		Foreground(TagMentionColor).
		Bold(true)

	TagHashtagStyle = lipgloss.NewStyle().
		Foreground(TagHashtagColor).
		Bold(true)

	TagTouchedStyle = lipgloss.NewStyle().
		Foreground(TagTouchedColor).
		Bold(true).
		Underline(true)

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(TextPlaceholderColor)

	ComposerLabelStyle = lipgloss.NewStyle().
		Foreground(ComposerLabelColor)

	SuggestMatchStyle = lipgloss.NewStyle().
		Foreground(SuggestMatchColor).
		Bold(true)

	SuggestCountStyle = lipgloss.NewStyle().
		Foreground(SuggestCountColor)

	TranscriptAuthorStyle = lipgloss.NewStyle().
		Foreground(TranscriptAuthorColor).
		Bold(true)

	TranscriptTimestampStyle = lipgloss.NewStyle().
		Foreground(TranscriptTimestampColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)
}

// isValidToken reports whether token is a known color token.
func isValidToken(token ColorToken) bool {
	for _, t := range AllTokens() {
		if t == token {
			return true
		}
	}
	return false
}

// isValidHexColor reports whether color is a #RGB or #RRGGBB hex string.
func isValidHexColor(color string) bool {
	if !strings.HasPrefix(color, "#") {
		return false
	}
	hex := color[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
