// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault   ColorToken = "border.default"
	TokenBorderFocus     ColorToken = "border.focus"
	TokenBorderHighlight ColorToken = "border.highlight"

	// Status/semantic
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Selection
	TokenSelectionIndicator ColorToken = "selection.indicator"

	// Overlays (suggestion popup)
	TokenOverlayTitle  ColorToken = "overlay.title"
	TokenOverlayBorder ColorToken = "overlay.border"

	// Composer input
	TokenComposerBorder      ColorToken = "composer.border"
	TokenComposerBorderFocus ColorToken = "composer.border.focus"
	TokenComposerLabel       ColorToken = "composer.label"

	// Inline tags
	TokenTagMention ColorToken = "tag.mention"
	TokenTagHashtag ColorToken = "tag.hashtag"
	TokenTagTouched ColorToken = "tag.touched"

	// Suggestions
	TokenSuggestMatch ColorToken = "suggest.match"
	TokenSuggestCount ColorToken = "suggest.count"

	// Transcript
	TokenTranscriptAuthor    ColorToken = "transcript.author"
	TokenTranscriptTimestamp ColorToken = "transcript.timestamp"

	// Spinner
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary, TokenTextSecondary, TokenTextMuted, TokenTextPlaceholder,
		TokenBorderDefault, TokenBorderFocus, TokenBorderHighlight,
		TokenStatusSuccess, TokenStatusWarning, TokenStatusError,
		TokenSelectionIndicator,
		TokenOverlayTitle, TokenOverlayBorder,
		TokenComposerBorder, TokenComposerBorderFocus, TokenComposerLabel,
		TokenTagMention, TokenTagHashtag, TokenTagTouched,
		TokenSuggestMatch, TokenSuggestCount,
		TokenTranscriptAuthor, TokenTranscriptTimestamp,
		TokenSpinner,
	}
}
