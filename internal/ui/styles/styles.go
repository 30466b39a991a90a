// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#343433", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"} // Candidate IDs, secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#777777"} // Empty composer placeholder

	// Borders
	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#696969"} // Unfocused panel borders
	BorderFocusColor          = lipgloss.AdaptiveColor{Light: "#343433", Dark: "#FFFFFF"} // Focused panel borders
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"} // Active selection borders

	// Status colors
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF6B6B"}

	// Selection
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#343433", Dark: "#FFFFFF"} // "> " marker in lists

	// Overlays (suggestion popup)
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}

	// Composer input
	ComposerBorderColor      = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}
	ComposerBorderFocusColor = lipgloss.AdaptiveColor{Light: "#343433", Dark: "#FFFFFF"}
	ComposerLabelColor       = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}

	// Inline tags
	TagMentionColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"} // @mentions
	TagHashtagColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // #hashtags
	TagTouchedColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"} // Tag pending deletion

	// Suggestions
	SuggestMatchColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"} // Matched query portion
	SuggestCountColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // "N matches" hint

	// Transcript
	TranscriptAuthorColor    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	TranscriptTimestampColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Spinner
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFFFFF"}
)

// Derived styles. Rebuilt by rebuildStyles after a theme is applied.
var (
	// SelectionIndicatorStyle renders the "> " marker next to the selected row.
	SelectionIndicatorStyle = lipgloss.NewStyle().
				Foreground(SelectionIndicatorColor).
				Bold(true)

	// Tag styles color rendered tag spans in the composer and transcript.
	TagMentionStyle = lipgloss.NewStyle().
			Foreground(TagMentionColor).
			Bold(true)

	TagHashtagStyle = lipgloss.NewStyle().
			Foreground(TagHashtagColor).
			Bold(true)

	// TagTouchedStyle marks a tag whose next backspace removes it whole.
	TagTouchedStyle = lipgloss.NewStyle().
			Foreground(TagTouchedColor).
			Bold(true).
			Underline(true)

	// PlaceholderStyle renders the empty composer hint.
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(TextPlaceholderColor)

	// ComposerLabelStyle renders the prompt label left of the input.
	ComposerLabelStyle = lipgloss.NewStyle().
				Foreground(ComposerLabelColor)

	// SuggestMatchStyle highlights the matched portion of a candidate name.
	SuggestMatchStyle = lipgloss.NewStyle().
				Foreground(SuggestMatchColor).
				Bold(true)

	// SuggestCountStyle renders the match-count hint in the popup title.
	SuggestCountStyle = lipgloss.NewStyle().
				Foreground(SuggestCountColor)

	// Transcript styles
	TranscriptAuthorStyle = lipgloss.NewStyle().
				Foreground(TranscriptAuthorColor).
				Bold(true)

	TranscriptTimestampStyle = lipgloss.NewStyle().
					Foreground(TranscriptTimestampColor)

	// StatusBarStyle renders the bottom status line.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// ErrorStyle renders fatal error banners.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)

// TagStyleFor returns the default style for tags opened by trigger.
// Custom trigger colors from config take precedence at the call site.
func TagStyleFor(trigger rune) lipgloss.Style {
	if trigger == '#' {
		return TagHashtagStyle
	}
	return TagMentionStyle
}
