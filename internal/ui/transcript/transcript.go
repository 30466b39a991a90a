// Package transcript renders the log of sent messages above the composer.
// Message bodies render as markdown; the tags captured at submit time show
// as a styled chip line under each message, and the canonical form of the
// selected message can be yanked to the system clipboard.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/taglet/internal/keys"
	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/tagging"
	"github.com/zjrosen/taglet/internal/ui/markdown"
	"github.com/zjrosen/taglet/internal/ui/styles"
)

// zonePrefix namespaces message click zones within the global zone manager.
const zonePrefix = "transcript-msg-"

// Message is one sent entry: the display text as typed, the canonical form
// with woven ids, and the tags applied when it was submitted.
type Message struct {
	Body      string
	Canonical string
	Tags      []tagging.Tag
	SentAt    time.Time
}

// YankedMsg is sent after a message's canonical form reaches the clipboard.
type YankedMsg struct {
	Preview string
}

// YankErrMsg is sent when the clipboard copy fails.
type YankErrMsg struct {
	Err error
}

// Config holds transcript display options.
type Config struct {
	ShowTimestamps bool
	MarkdownStyle  string // "dark" (default) or "light"
}

// Model holds the transcript state.
type Model struct {
	config    Config
	viewport  viewport.Model
	messages  []Message
	selected  int // yank target; -1 when empty
	focused   bool
	width     int
	height    int
	md        *markdown.Renderer
	clipboard Clipboard
}

// New creates an empty transcript.
func New(cfg Config) Model {
	return Model{
		config:    cfg,
		viewport:  viewport.New(0, 0),
		selected:  -1,
		clipboard: SystemClipboard{},
	}
}

// SetClipboard replaces the clipboard implementation.
func (m Model) SetClipboard(c Clipboard) Model {
	m.clipboard = c
	return m
}

// Focused returns whether the transcript has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Focus gives the transcript keyboard focus.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Len returns the number of messages.
func (m Model) Len() int {
	return len(m.messages)
}

// Messages returns the message log.
func (m Model) Messages() []Message {
	return m.messages
}

// Selected returns the yank-target message.
func (m Model) Selected() (Message, bool) {
	if m.selected >= 0 && m.selected < len(m.messages) {
		return m.messages[m.selected], true
	}
	return Message{}, false
}

// SetSize updates the scroll area and rebuilds the markdown renderer for
// the new wrap width.
func (m Model) SetSize(width, height int) Model {
	if width == m.width && height == m.height {
		return m
	}
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height

	md, err := markdown.New(max(width-2, 10), m.config.MarkdownStyle)
	if err != nil {
		log.Debug(log.CatUI, "markdown renderer unavailable", "error", err)
		md = nil
	}
	m.md = md

	return m.refreshContent(false)
}

// Append adds a sent message, selects it, and follows the tail.
func (m Model) Append(msg Message) Model {
	m.messages = append(m.messages, msg)
	m.selected = len(m.messages) - 1
	return m.refreshContent(true)
}

// Update handles scroll keys, yank, wheel scrolling, and click selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Transcript.Up):
			m.viewport.ScrollUp(1)
		case key.Matches(msg, keys.Transcript.Down):
			m.viewport.ScrollDown(1)
		case key.Matches(msg, keys.Transcript.PageUp):
			m.viewport.HalfPageUp()
		case key.Matches(msg, keys.Transcript.PageDown):
			m.viewport.HalfPageDown()
		case key.Matches(msg, keys.Transcript.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, keys.Transcript.Bottom):
			m.viewport.GotoBottom()
		case key.Matches(msg, keys.Transcript.Yank):
			return m, m.yankCmd()
		}
		return m, nil

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		case tea.MouseButtonLeft:
			if idx, ok := m.clickedMessage(msg); ok && idx != m.selected {
				m.selected = idx
				m = m.refreshContent(false)
			}
		}
		return m, nil
	}

	return m, nil
}

// View renders the scroll area.
func (m Model) View() string {
	return m.viewport.View()
}

// ScrollPercent reports the viewport position for the status bar.
func (m Model) ScrollPercent() float64 {
	return m.viewport.ScrollPercent()
}

func (m Model) clickedMessage(msg tea.MouseMsg) (int, bool) {
	for i := range m.messages {
		if z := zone.Get(zonePrefix + fmt.Sprint(i)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

func (m Model) yankCmd() tea.Cmd {
	selected, ok := m.Selected()
	if !ok {
		return nil
	}
	if err := m.clipboard.Copy(selected.Canonical); err != nil {
		log.Debug(log.CatUI, "clipboard copy failed", "error", err)
		return func() tea.Msg { return YankErrMsg{Err: err} }
	}
	preview := styles.TruncateString(selected.Canonical, 40)
	return func() tea.Msg { return YankedMsg{Preview: preview} }
}

// refreshContent rebuilds the viewport content. The view follows the tail
// when a message was appended or the reader was already at the bottom.
func (m Model) refreshContent(appended bool) Model {
	wasAtBottom := m.viewport.AtBottom()

	if len(m.messages) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No messages yet")
		m.viewport.SetContent(empty)
		return m
	}

	blocks := make([]string, 0, len(m.messages))
	for i, msg := range m.messages {
		block := m.renderMessage(msg, i == m.selected)
		blocks = append(blocks, zone.Mark(zonePrefix+fmt.Sprint(i), block))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))

	if appended || wasAtBottom {
		m.viewport.GotoBottom()
	}
	return m
}

// renderMessage renders one message: header, body, and tag chips.
func (m Model) renderMessage(msg Message, selected bool) string {
	var b strings.Builder

	if selected {
		b.WriteString(styles.SelectionIndicatorStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}
	b.WriteString(styles.TranscriptAuthorStyle.Render("You"))
	if m.config.ShowTimestamps && !msg.SentAt.IsZero() {
		b.WriteString(" " + styles.TranscriptTimestampStyle.Render(msg.SentAt.Format("15:04")))
	}
	b.WriteString("\n")

	b.WriteString(m.renderBody(msg.Body))

	if len(msg.Tags) > 0 {
		chips := make([]string, 0, len(msg.Tags))
		for _, tag := range msg.Tags {
			style := styles.TagStyleFor(tag.Trigger)
			chips = append(chips, style.Render(string(tag.Trigger)+tag.Text))
		}
		b.WriteString("\n" + "  " + strings.Join(chips, " "))
	}

	return b.String()
}

// renderBody renders the message text as markdown, falling back to plain
// word wrapping when the renderer is unavailable.
func (m Model) renderBody(body string) string {
	wrapWidth := max(m.width-2, 10)
	if m.md != nil {
		if out, err := m.md.Render(body); err == nil {
			return out
		}
	}
	return wordwrap.String(body, wrapWidth)
}
