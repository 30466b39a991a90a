// Package keys contains keybinding definitions.
package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// AppKeyMap defines bindings that are live regardless of which panel has
// focus.
type AppKeyMap struct {
	FocusToggle key.Binding
	Help        key.Binding
	Logs        key.Binding
	Quit        key.Binding
}

// ComposerKeyMap defines bindings active while the composer has focus.
// Plain text editing keys go straight to the input; only the bindings here
// are intercepted.
type ComposerKeyMap struct {
	Submit key.Binding
}

// SuggestKeyMap defines bindings active while the suggestion popup is open.
// Open is also checked while the popup is closed so a deferred search can be
// started by hand.
type SuggestKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Accept  key.Binding
	Dismiss key.Binding
	Open    key.Binding
}

// TranscriptKeyMap defines bindings active while the transcript has focus.
type TranscriptKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Yank     key.Binding
}

// Package-level keymaps. ApplyConfig rebinds entries in place so every
// component observes the same bindings.
var (
	App        = defaultAppKeyMap()
	Composer   = defaultComposerKeyMap()
	Suggest    = defaultSuggestKeyMap()
	Transcript = defaultTranscriptKeyMap()
)

func defaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		FocusToggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch composer/transcript focus"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle log viewer"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func defaultComposerKeyMap() ComposerKeyMap {
	return ComposerKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
	}
}

func defaultSuggestKeyMap() SuggestKeyMap {
	return SuggestKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "previous candidate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "next candidate"),
		),
		// Tab accepts while the popup is open; focus cycling yields to it.
		Accept: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter/tab", "insert candidate"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss suggestions"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("ctrl+space", "open suggestions"),
		),
	}
}

func defaultTranscriptKeyMap() TranscriptKeyMap {
	return TranscriptKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy message"),
		),
	}
}

// ApplyConfig rebinds the configurable keys. Empty strings leave the
// defaults in place. Keys are normalized for the terminal (ctrl+space
// arrives as ctrl+@) while help text keeps the readable form.
func ApplyConfig(suggestKey, focusKey string) {
	if suggestKey != "" {
		terminal := translateToTerminal(suggestKey)
		Suggest.Open = key.NewBinding(
			key.WithKeys(terminal),
			key.WithHelp(translateToDisplay(terminal), "open suggestions"),
		)
	}
	if focusKey != "" {
		terminal := translateToTerminal(focusKey)
		App.FocusToggle = key.NewBinding(
			key.WithKeys(terminal),
			key.WithHelp(translateToDisplay(terminal), "switch composer/transcript focus"),
		)
	}
}

// ResetForTesting restores every keymap to its defaults.
func ResetForTesting() {
	App = defaultAppKeyMap()
	Composer = defaultComposerKeyMap()
	Suggest = defaultSuggestKeyMap()
	Transcript = defaultTranscriptKeyMap()
}

// translateToTerminal converts a config key string to the form bubbletea
// reports. Terminals deliver ctrl+space as the NUL control sequence, which
// bubbletea names ctrl+@. TrimSpace eats the bare-space spelling "ctrl+ ",
// leaving "ctrl+".
func translateToTerminal(k string) string {
	normalized := strings.ToLower(strings.TrimSpace(k))
	switch normalized {
	case "ctrl+space", "ctrl+":
		return "ctrl+@"
	}
	return normalized
}

// translateToDisplay converts a terminal key name back to the readable form
// used in help text.
func translateToDisplay(k string) string {
	if k == "ctrl+@" {
		return "ctrl+space"
	}
	return k
}

// HelpKeyMap aggregates the live bindings for the help view. Methods read
// the package-level keymaps so config rebinds show up without re-plumbing.
type HelpKeyMap struct{}

// ShortHelp returns keybindings for the short help view.
func (HelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{App.Help, App.Quit}
}

// FullHelp returns keybindings for the full help view.
func (HelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{Composer.Submit, Suggest.Open, App.FocusToggle},                             // Composer
		{Suggest.Up, Suggest.Down, Suggest.Accept, Suggest.Dismiss},                  // Suggestions
		{Transcript.Up, Transcript.Down, Transcript.PageUp, Transcript.PageDown, Transcript.Yank}, // Transcript
		{App.Help, App.Logs, App.Quit}, // General
	}
}
