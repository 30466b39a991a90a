// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// DefaultPreset matches the built-in colors. Applied as the base layer
// before any named preset or per-token override.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Built-in dark palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",

		TokenBorderDefault:   "#696969",
		TokenBorderFocus:     "#FFFFFF",
		TokenBorderHighlight: "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF6B6B",

		TokenSelectionIndicator: "#FFFFFF",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenComposerBorder:      "#8C8C8C",
		TokenComposerBorderFocus: "#FFFFFF",
		TokenComposerLabel:       "#8C8C8C",

		TokenTagMention: "#54A0FF",
		TokenTagHashtag: "#73F59F",
		TokenTagTouched: "#FECA57",

		TokenSuggestMatch: "#54A0FF",
		TokenSuggestCount: "#696969",

		TokenTranscriptAuthor:    "#73F59F",
		TokenTranscriptTimestamp: "#696969",

		TokenSpinner: "#FFFFFF",
	},
}

// Presets contains all available theme presets, keyed by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,

	"catppuccin-mocha": {
		Name:        "catppuccin-mocha",
		Description: "Catppuccin Mocha (dark)",
		Colors: map[ColorToken]string{
			TokenTextPrimary:     "#CDD6F4", // text
			TokenTextSecondary:   "#BAC2DE", // subtext1
			TokenTextMuted:       "#6C7086", // overlay0
			TokenTextPlaceholder: "#585B70", // surface2

			TokenBorderDefault:   "#6C7086", // overlay0
			TokenBorderFocus:     "#CDD6F4", // text
			TokenBorderHighlight: "#89B4FA", // blue

			TokenStatusSuccess: "#A6E3A1", // green
			TokenStatusWarning: "#F9E2AF", // yellow
			TokenStatusError:   "#F38BA8", // red

			TokenSelectionIndicator: "#CDD6F4", // text

			TokenOverlayTitle:  "#CDD6F4", // text
			TokenOverlayBorder: "#6C7086", // overlay0

			TokenComposerBorder:      "#6C7086", // overlay0
			TokenComposerBorderFocus: "#CDD6F4", // text
			TokenComposerLabel:       "#6C7086", // overlay0

			TokenTagMention: "#89B4FA", // blue
			TokenTagHashtag: "#A6E3A1", // green
			TokenTagTouched: "#F9E2AF", // yellow

			TokenSuggestMatch: "#89B4FA", // blue
			TokenSuggestCount: "#6C7086", // overlay0

			TokenTranscriptAuthor:    "#A6E3A1", // green
			TokenTranscriptTimestamp: "#6C7086", // overlay0

			TokenSpinner: "#CBA6F7", // mauve
		},
	},

	"catppuccin-latte": {
		Name:        "catppuccin-latte",
		Description: "Catppuccin Latte (light)",
		Colors: map[ColorToken]string{
			TokenTextPrimary:     "#4C4F69", // text
			TokenTextSecondary:   "#5C5F77", // subtext1
			TokenTextMuted:       "#9CA0B0", // overlay0
			TokenTextPlaceholder: "#ACB0BE", // surface2

			TokenBorderDefault:   "#9CA0B0", // overlay0
			TokenBorderFocus:     "#4C4F69", // text
			TokenBorderHighlight: "#1E66F5", // blue

			TokenStatusSuccess: "#40A02B", // green
			TokenStatusWarning: "#DF8E1D", // yellow
			TokenStatusError:   "#D20F39", // red

			TokenSelectionIndicator: "#4C4F69", // text

			TokenOverlayTitle:  "#4C4F69", // text
			TokenOverlayBorder: "#9CA0B0", // overlay0

			TokenComposerBorder:      "#9CA0B0", // overlay0
			TokenComposerBorderFocus: "#4C4F69", // text
			TokenComposerLabel:       "#9CA0B0", // overlay0

			TokenTagMention: "#1E66F5", // blue
			TokenTagHashtag: "#40A02B", // green
			TokenTagTouched: "#DF8E1D", // yellow

			TokenSuggestMatch: "#1E66F5", // blue
			TokenSuggestCount: "#9CA0B0", // overlay0

			TokenTranscriptAuthor:    "#40A02B", // green
			TokenTranscriptTimestamp: "#9CA0B0", // overlay0

			TokenSpinner: "#8839EF", // mauve
		},
	},

	"dracula": {
		Name:        "dracula",
		Description: "Dracula (dark)",
		Colors: map[ColorToken]string{
			TokenTextPrimary:     "#F8F8F2", // foreground
			TokenTextSecondary:   "#F8F8F2", // foreground
			TokenTextMuted:       "#6272A4", // comment
			TokenTextPlaceholder: "#6272A4", // comment

			TokenBorderDefault:   "#6272A4", // comment
			TokenBorderFocus:     "#F8F8F2", // foreground
			TokenBorderHighlight: "#BD93F9", // purple

			TokenStatusSuccess: "#50FA7B", // green
			TokenStatusWarning: "#F1FA8C", // yellow
			TokenStatusError:   "#FF5555", // red

			TokenSelectionIndicator: "#F8F8F2", // foreground

			TokenOverlayTitle:  "#F8F8F2", // foreground
			TokenOverlayBorder: "#6272A4", // comment

			TokenComposerBorder:      "#6272A4", // comment
			TokenComposerBorderFocus: "#F8F8F2", // foreground
			TokenComposerLabel:       "#6272A4", // comment

			TokenTagMention: "#FF79C6", // pink
			TokenTagHashtag: "#8BE9FD", // cyan
			TokenTagTouched: "#F1FA8C", // yellow

			TokenSuggestMatch: "#BD93F9", // purple
			TokenSuggestCount: "#6272A4", // comment

			TokenTranscriptAuthor:    "#50FA7B", // green
			TokenTranscriptTimestamp: "#6272A4", // comment

			TokenSpinner: "#BD93F9", // purple
		},
	},

	"nord": {
		Name:        "nord",
		Description: "Nord (dark)",
		Colors: map[ColorToken]string{
			TokenTextPrimary:     "#ECEFF4", // snow storm 3
			TokenTextSecondary:   "#E5E9F0", // snow storm 2
			TokenTextMuted:       "#4C566A", // polar night 4
			TokenTextPlaceholder: "#4C566A", // polar night 4

			TokenBorderDefault:   "#4C566A", // polar night 4
			TokenBorderFocus:     "#ECEFF4", // snow storm 3
			TokenBorderHighlight: "#88C0D0", // frost 2

			TokenStatusSuccess: "#A3BE8C", // aurora green
			TokenStatusWarning: "#EBCB8B", // aurora yellow
			TokenStatusError:   "#BF616A", // aurora red

			TokenSelectionIndicator: "#ECEFF4", // snow storm 3

			TokenOverlayTitle:  "#ECEFF4", // snow storm 3
			TokenOverlayBorder: "#4C566A", // polar night 4

			TokenComposerBorder:      "#4C566A", // polar night 4
			TokenComposerBorderFocus: "#ECEFF4", // snow storm 3
			TokenComposerLabel:       "#4C566A", // polar night 4

			TokenTagMention: "#88C0D0", // frost 2
			TokenTagHashtag: "#A3BE8C", // aurora green
			TokenTagTouched: "#EBCB8B", // aurora yellow

			TokenSuggestMatch: "#88C0D0", // frost 2
			TokenSuggestCount: "#4C566A", // polar night 4

			TokenTranscriptAuthor:    "#A3BE8C", // aurora green
			TokenTranscriptTimestamp: "#4C566A", // polar night 4

			TokenSpinner: "#88C0D0", // frost 2
		},
	},

	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast (accessibility)",
		Colors: map[ColorToken]string{
			TokenTextPrimary:     "#FFFFFF",
			TokenTextSecondary:   "#FFFFFF",
			TokenTextMuted:       "#FFFFFF",
			TokenTextPlaceholder: "#CCCCCC",

			TokenBorderDefault:   "#FFFFFF",
			TokenBorderFocus:     "#FFFF00",
			TokenBorderHighlight: "#00FFFF",

			TokenStatusSuccess: "#00FF00",
			TokenStatusWarning: "#FFFF00",
			TokenStatusError:   "#FF0000",

			TokenSelectionIndicator: "#FFFF00",

			TokenOverlayTitle:  "#FFFFFF",
			TokenOverlayBorder: "#FFFFFF",

			TokenComposerBorder:      "#FFFFFF",
			TokenComposerBorderFocus: "#FFFF00",
			TokenComposerLabel:       "#FFFFFF",

			TokenTagMention: "#00FFFF",
			TokenTagHashtag: "#00FF00",
			TokenTagTouched: "#FFFF00",

			TokenSuggestMatch: "#00FFFF",
			TokenSuggestCount: "#FFFFFF",

			TokenTranscriptAuthor:    "#00FF00",
			TokenTranscriptTimestamp: "#FFFFFF",

			TokenSpinner: "#FFFF00",
		},
	},
}
