// Package composer provides the message input with inline tag tracking.
// Every edit is reported to a tagging session, which keeps applied tag
// spans positioned and may write rollbacks back into the input.
package composer

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/taglet/internal/tagging"
	"github.com/zjrosen/taglet/internal/ui/styles"
)

// buffer is the editable state the session writes back into. It lives
// behind a pointer so the session's surface stays valid while the
// bubbletea model is copied between updates.
type buffer struct {
	value    string
	cursor   int // byte offset, 0 = before first byte
	selStart int
	selEnd   int

	// pendingEcho is set by SetText; the model repays it with one Observe
	// call after the session returns, per the surface contract.
	pendingEcho bool
}

// Text returns the current buffer text.
func (b *buffer) Text() string { return b.value }

// Selection returns the selected byte span, or cursor,cursor when empty.
func (b *buffer) Selection() (int, int) {
	if b.selStart == b.selEnd {
		return b.cursor, b.cursor
	}
	return b.selStart, b.selEnd
}

// SetText replaces the buffer text and places the cursor.
func (b *buffer) SetText(text string, cursor int) {
	b.value = text
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	b.cursor = cursor
	b.selStart, b.selEnd = b.cursor, b.cursor
	b.pendingEcho = true
}

// Select highlights the half-open byte span.
func (b *buffer) Select(start, end int) {
	b.selStart, b.selEnd = start, end
}

func (b *buffer) hasSelection() bool { return b.selStart != b.selEnd }

func (b *buffer) clearSelection() {
	b.selStart, b.selEnd = b.cursor, b.cursor
}

// deleteSelection removes the selected span and reports whether anything
// was deleted.
func (b *buffer) deleteSelection() bool {
	if !b.hasSelection() {
		return false
	}
	start, end := b.selStart, b.selEnd
	b.value = b.value[:start] + b.value[end:]
	b.cursor = start
	b.clearSelection()
	return true
}

// Model is a single-line text input with inline tag highlighting.
type Model struct {
	buf     *buffer
	session *tagging.Session

	focused     bool
	width       int
	placeholder string

	placeholderStyle lipgloss.Style
	triggerStyles    map[rune]lipgloss.Style
}

// New creates a composer whose edits feed a tagging session. The listener
// receives search and format callbacks synchronously from Update.
func New(cfg tagging.Config, listener tagging.Listener) Model {
	buf := &buffer{}
	return Model{
		buf:              buf,
		session:          tagging.NewSession(buf, listener, cfg),
		width:            40,
		placeholderStyle: lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor),
	}
}

// Session returns the tagging session driving this composer.
func (m Model) Session() *tagging.Session { return m.session }

// Value returns the current display text.
func (m Model) Value() string { return m.buf.value }

// Canonical returns the display text rendered into canonical form.
func (m Model) Canonical() string { return m.session.Formatted() }

// SetValue replaces the text programmatically, clamping the cursor. Tags
// the replacement overwrites are dropped rather than touched.
func (m Model) SetValue(v string) {
	if m.buf.cursor > len(v) {
		m.buf.cursor = len(v)
	}
	m.buf.value = v
	m.buf.clearSelection()
	m.session.ApplyExternalEdit(v, m.buf.cursor)
}

// SetCanonical loads a previously saved canonical message for editing:
// tags are re-registered and the rendered text replaces the buffer.
func (m Model) SetCanonical(canonical string) {
	m.session.FormatTags(canonical)
	m.echo()
}

// Reset clears the text and every applied tag.
func (m Model) Reset() {
	m.session.Clear()
	m.echo()
}

// AcceptCandidate applies a search candidate as a tag at the active
// trigger. Reports false when no search is active.
func (m Model) AcceptCandidate(id, name string) bool {
	ok := m.session.AddTag(id, name)
	m.echo()
	return ok
}

// DismissSearch ends the active search, if any.
func (m Model) DismissSearch() {
	m.session.DismissSearch()
}

// Searching reports whether a trigger search is active.
func (m Model) Searching() bool { return m.session.Searching() }

// Query returns the active search query.
func (m Model) Query() string { return m.session.Query() }

// Trigger returns the rune that opened the active search, or 0.
func (m Model) Trigger() rune { return m.session.Trigger() }

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.buf.cursor
}

// SetCursor sets the cursor position (clamped to valid range). The move is
// reported to the session like any other cursor motion.
func (m Model) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.buf.value) {
		pos = len(m.buf.value)
	}
	m.buf.cursor = pos
	m.buf.clearSelection()
	m.observe()
}

// Focused returns whether the input is focused.
func (m Model) Focused() bool {
	return m.focused
}

// Focus focuses the input.
func (m *Model) Focus() {
	m.focused = true
}

// Blur removes focus from the input.
func (m *Model) Blur() {
	m.focused = false
}

// SetWidth sets the display width.
func (m *Model) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.width = w
}

// Width returns the display width.
func (m Model) Width() int {
	return m.width
}

// Height returns the number of display lines needed for the current content.
// This accounts for text wrapping when content exceeds width.
func (m Model) Height() int {
	if m.buf.value == "" {
		return 1
	}
	lines := m.wrapText()
	if len(lines) == 0 {
		return 1
	}
	return len(lines)
}

// SetPlaceholder sets the placeholder text.
func (m *Model) SetPlaceholder(p string) {
	m.placeholder = p
}

// SetTriggerStyles overrides the per-trigger tag styles, keyed by trigger
// rune. Triggers without an entry fall back to the theme styles.
func (m *Model) SetTriggerStyles(s map[rune]lipgloss.Style) {
	m.triggerStyles = s
}

// TriggerColumn returns the visual column of the active search's trigger
// within the unwrapped value, for anchoring the suggestion popup.
func (m Model) TriggerColumn() (int, bool) {
	if !m.session.Searching() {
		return 0, false
	}
	off := m.buf.cursor - len(m.session.Query()) - utf8.RuneLen(m.session.Trigger())
	if off < 0 {
		off = 0
	} else if off > len(m.buf.value) {
		off = len(m.buf.value)
	}
	return displayWidth(m.buf.value[:off]), true
}

// observe reports the buffer to the session, then repays any write the
// session made during the call.
func (m Model) observe() {
	m.session.Observe(m.buf.value, m.buf.cursor)
	m.echo()
}

// echo delivers the one observation a programmatic SetText owes the
// session; the session swallows it via its deferral flag.
func (m Model) echo() {
	if m.buf.pendingEcho {
		m.buf.pendingEcho = false
		m.session.Observe(m.buf.value, m.buf.cursor)
	}
}

// Update handles key messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyLeft:
			if msg.Alt {
				// Option+Left: move backward one word
				m.buf.cursor = prevWordStart(m.buf.value, m.buf.cursor)
			} else if m.buf.cursor > 0 {
				m.buf.cursor = prevClusterStart(m.buf.value, m.buf.cursor)
			}
			m.buf.clearSelection()
			m.observe()
		case tea.KeyRight:
			if msg.Alt {
				// Option+Right: move forward one word
				m.buf.cursor = nextWordEnd(m.buf.value, m.buf.cursor)
			} else if m.buf.cursor < len(m.buf.value) {
				m.buf.cursor = nextClusterEnd(m.buf.value, m.buf.cursor)
			}
			m.buf.clearSelection()
			m.observe()
		case tea.KeyCtrlF:
			// Ctrl+F: move forward one word
			m.buf.cursor = nextWordEnd(m.buf.value, m.buf.cursor)
			m.buf.clearSelection()
			m.observe()
		case tea.KeyCtrlB:
			// Ctrl+B: move backward one word
			m.buf.cursor = prevWordStart(m.buf.value, m.buf.cursor)
			m.buf.clearSelection()
			m.observe()
		case tea.KeyHome, tea.KeyCtrlA:
			m.buf.cursor = 0
			m.buf.clearSelection()
			m.observe()
		case tea.KeyEnd, tea.KeyCtrlE:
			m.buf.cursor = len(m.buf.value)
			m.buf.clearSelection()
			m.observe()
		case tea.KeyBackspace:
			// A selected span (a touched tag) is deleted whole.
			if m.buf.deleteSelection() {
				m.observe()
				break
			}
			if m.buf.cursor > 0 {
				start := prevClusterStart(m.buf.value, m.buf.cursor)
				m.buf.value = m.buf.value[:start] + m.buf.value[m.buf.cursor:]
				m.buf.cursor = start
				m.buf.clearSelection()
				m.observe()
			}
		case tea.KeyDelete:
			if m.buf.deleteSelection() {
				m.observe()
				break
			}
			if m.buf.cursor < len(m.buf.value) {
				end := nextClusterEnd(m.buf.value, m.buf.cursor)
				m.buf.value = m.buf.value[:m.buf.cursor] + m.buf.value[end:]
				m.buf.clearSelection()
				m.observe()
			}
		case tea.KeyCtrlK:
			// Kill to end of line
			m.buf.value = m.buf.value[:m.buf.cursor]
			m.buf.clearSelection()
			m.observe()
		case tea.KeyCtrlU:
			// Kill to beginning of line
			m.buf.value = m.buf.value[m.buf.cursor:]
			m.buf.cursor = 0
			m.buf.clearSelection()
			m.observe()
		case tea.KeyRunes:
			// Handle Alt+f/b for word navigation (macOS option+arrow sends these)
			if msg.Alt && len(msg.Runes) == 1 {
				switch msg.Runes[0] {
				case 'f':
					m.buf.cursor = nextWordEnd(m.buf.value, m.buf.cursor)
					m.buf.clearSelection()
					m.observe()
					return m, nil
				case 'b':
					m.buf.cursor = prevWordStart(m.buf.value, m.buf.cursor)
					m.buf.clearSelection()
					m.observe()
					return m, nil
				}
			}
			// Typing over a selection replaces it
			m.buf.deleteSelection()
			for _, r := range msg.Runes {
				m.buf.value = m.buf.value[:m.buf.cursor] + string(r) + m.buf.value[m.buf.cursor:]
				m.buf.cursor += utf8.RuneLen(r)
			}
			m.observe()
		case tea.KeySpace:
			m.buf.deleteSelection()
			m.buf.value = m.buf.value[:m.buf.cursor] + " " + m.buf.value[m.buf.cursor:]
			m.buf.cursor++
			m.observe()
		}
	}

	return m, nil
}

// ANSI codes for cursor - only toggle reverse, don't reset other styles
const (
	cursorOn  = "\x1b[7m"  // reverse video on
	cursorOff = "\x1b[27m" // reverse video off (not full reset)
)

// View renders the input with tag highlighting and text wrapping.
// Returns multiple lines joined by newlines when content exceeds width.
func (m Model) View() string {
	lines := m.wrapText()
	return strings.Join(lines, "\n")
}

// wrapText returns the highlighted text wrapped to fit within the configured width.
// Wrapping is ANSI-aware using lipgloss.Width for visual width measurement.
func (m Model) wrapText() []string {
	// Empty value - show placeholder or cursor
	if m.buf.value == "" {
		if m.focused {
			return []string{cursorOn + " " + cursorOff}
		}
		if m.placeholder != "" {
			return []string{m.placeholderStyle.Render(m.placeholder)}
		}
		return []string{""}
	}

	// Style the applied tag spans
	highlighted := m.highlight()

	// Insert cursor if focused
	if m.focused {
		highlighted = insertCursor(highlighted, m.buf.value, m.buf.cursor)
	}

	// If text fits on one line, return as-is
	if lipgloss.Width(highlighted) <= m.width {
		return []string{highlighted}
	}

	// Word-aware wrapping that preserves all characters including spaces
	return wrapHighlightedText(highlighted, m.width)
}

// highlight renders the value with each applied tag styled by its trigger.
// A tag in its deletion grace period is styled as touched instead.
func (m Model) highlight() string {
	text := m.buf.value
	spans := m.session.Spans()
	if len(spans) == 0 {
		return text
	}
	touched, hasTouched := m.session.TouchedTag()

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, r := range spans {
		b.WriteString(text[pos:r.Start])
		style := styles.TagStyleFor(r.Trigger())
		if custom, ok := m.triggerStyles[r.Trigger()]; ok {
			style = custom
		}
		if hasTouched && r == touched {
			style = styles.TagTouchedStyle
		}
		b.WriteString(style.Render(text[r.Start:r.End]))
		pos = r.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

// wrapHighlightedText wraps highlighted text at word boundaries, preserving all characters.
// This is ANSI-aware using visual width accounting; width is counted in
// terminal cells per grapheme cluster, so emoji and CJK take two.
func wrapHighlightedText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 40
	}

	// Word-aware wrapping that preserves all characters including spaces
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0
	lastSpaceIdx := -1  // byte index in currentLine where last space was written
	lastSpaceWidth := 0 // visual width at that point

	i := 0
	state := -1
	for i < len(text) {
		// Handle ANSI escape sequences (don't count them in width)
		if text[i] == '\x1b' {
			start := i
			for i < len(text) && text[i] != 'm' {
				i++
			}
			if i < len(text) {
				i++ // include the 'm'
			}
			currentLine.WriteString(text[start:i])
			state = -1
			continue
		}

		var cluster string
		cluster, _, _, state = uniseg.StepString(text[i:], state)
		w := displayWidth(cluster)

		// Check if adding this cluster would exceed maxWidth
		if currentWidth > 0 && currentWidth+w > maxWidth {
			// Try to break at last space if we have one
			if lastSpaceIdx > 0 {
				// Keep everything up to and including the space on this line
				lineContent := currentLine.String()[:lastSpaceIdx+1]
				lines = append(lines, lineContent)

				// Start new line with the rest (after the space)
				remainder := currentLine.String()[lastSpaceIdx+1:]
				currentLine.Reset()
				currentLine.WriteString(remainder)
				currentWidth = currentWidth - lastSpaceWidth - 1 // -1 for the space
			} else {
				// No space to break at - hard break
				lines = append(lines, currentLine.String())
				currentLine.Reset()
				currentWidth = 0
			}
			lastSpaceIdx = -1
			lastSpaceWidth = 0
		}

		// Track space positions for word wrapping
		if cluster == " " {
			lastSpaceIdx = currentLine.Len()
			lastSpaceWidth = currentWidth
		}

		currentLine.WriteString(cluster)
		currentWidth += w
		i += len(cluster)
	}

	// Don't forget the last line
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}

// insertCursor inserts a cursor at the given position in highlighted text.
// Uses targeted ANSI codes that don't reset surrounding styles.
func insertCursor(highlighted, original string, cursor int) string {
	// Cursor at end - append cursor block
	if cursor >= len(original) {
		return highlighted + cursorOn + " " + cursorOff
	}

	// Map cursor position from original text to highlighted text
	// by walking through both, skipping ANSI codes in highlighted
	origIdx := 0
	highIdx := 0

	for origIdx < cursor && highIdx < len(highlighted) {
		// Skip ANSI escape sequences
		if highlighted[highIdx] == '\x1b' {
			for highIdx < len(highlighted) && highlighted[highIdx] != 'm' {
				highIdx++
			}
			if highIdx < len(highlighted) {
				highIdx++ // skip 'm'
			}
			continue
		}
		origIdx++
		highIdx++
	}

	// Skip any ANSI codes at cursor position
	for highIdx < len(highlighted) && highlighted[highIdx] == '\x1b' {
		for highIdx < len(highlighted) && highlighted[highIdx] != 'm' {
			highIdx++
		}
		if highIdx < len(highlighted) {
			highIdx++
		}
	}

	// Reverse-video the whole cluster so combining marks stay attached
	if highIdx >= len(highlighted) {
		return highlighted + cursorOn + " " + cursorOff
	}

	cluster := clusterAt(highlighted, highIdx)
	return highlighted[:highIdx] + cursorOn + cluster + cursorOff + highlighted[highIdx+len(cluster):]
}

// nextWordEnd finds the position after the next word from pos.
// Skips non-word characters first, then skips word characters.
func nextWordEnd(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if isWordChar(r) {
			break
		}
		pos += size
	}
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !isWordChar(r) {
			break
		}
		pos += size
	}
	return pos
}

// prevWordStart finds the position at the start of the previous word from pos.
// Skips non-word characters backward first, then skips word characters backward.
func prevWordStart(s string, pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:pos])
		if isWordChar(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:pos])
		if !isWordChar(r) {
			break
		}
		pos -= size
	}
	return pos
}

// isWordChar returns true if c is a word character (alphanumeric,
// underscore, or any rune outside ASCII).
func isWordChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c >= utf8.RuneSelf
}
