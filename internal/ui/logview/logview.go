// Package logview provides an in-app viewer for recent log entries so a
// debug session stays inside the TUI. Entries arrive over the log broker,
// so the pane updates live while it is open.
package logview

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/pubsub"
	"github.com/zjrosen/taglet/internal/ui/overlay"
	"github.com/zjrosen/taglet/internal/ui/styles"
)

const (
	maxEntries        = 500
	viewportMaxHeight = 25  // Fixed viewport height in lines
	viewportMinHeight = 5   // Minimum viewport height for very small screens
	boxMaxWidth       = 160 // Maximum box width in characters
	boxMinWidth       = 40  // Minimum box width in characters
)

// Model is the log viewer component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
	entries  []string

	listener *pubsub.ContinuousListener[string]
}

// New creates a hidden log viewer showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// StartListening subscribes to the log broker and returns the first listen
// command. Returns nil when logging is disabled and no broker exists.
func (m *Model) StartListening(ctx context.Context) tea.Cmd {
	m.listener = log.NewListener(ctx)
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Update handles broker events and, while visible, the viewer keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		m.push(msg.Payload)
		if m.listener != nil {
			return m, m.listener.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
			m.refreshViewport()
		case "d":
			m.minLevel = log.LevelDebug
			m.refreshViewport()
		case "i":
			m.minLevel = log.LevelInfo
			m.refreshViewport()
		case "w":
			m.minLevel = log.LevelWarn
			m.refreshViewport()
		case "e":
			m.minLevel = log.LevelError
			m.refreshViewport()
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "esc":
			m.visible = false
		}
		return m, nil

	case tea.MouseMsg:
		if m.visible {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// push records one entry, trimming the ring, and follows the tail while
// the viewer is open.
func (m *Model) push(entry string) {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	if m.visible {
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
}

// View renders the log pane.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.filterHint())

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth)
	return boxStyle.Render(b.String())
}

// Overlay renders the viewer centered over the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Visible reports whether the viewer is open.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips visibility, refreshing content on open.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
}

// SetSize updates the viewer's knowledge of the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// refreshViewport rebuilds the viewport with the current filter applied.
func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentWidth := m.contentWidth()

	// Header, footer, and borders take six lines around the content.
	maxAllowed := m.height - 6
	viewportHeight := min(viewportMaxHeight, maxAllowed)
	viewportHeight = max(viewportHeight, viewportMinHeight)

	m.viewport = viewport.New(contentWidth, viewportHeight)
	m.viewport.SetContent(m.content(contentWidth))
}

func (m Model) content(contentWidth int) string {
	var lines []string
	for _, entry := range m.entries {
		if !m.matchesLevel(entry) {
			continue
		}
		lines = append(lines, colorizeEntry(entry, contentWidth))
	}
	if len(lines) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
		return empty.Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// matchesLevel reports whether an entry is at or above the filter level.
// Entries without a recognizable level marker are always shown.
func (m Model) matchesLevel(entry string) bool {
	var entryLevel log.Level
	switch {
	case strings.Contains(entry, "[ERROR]"):
		entryLevel = log.LevelError
	case strings.Contains(entry, "[WARN]"):
		entryLevel = log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		entryLevel = log.LevelInfo
	case strings.Contains(entry, "[DEBUG]"):
		entryLevel = log.LevelDebug
	default:
		return true
	}
	return entryLevel >= m.minLevel
}

// colorizeEntry styles an entry by level, truncating ANSI-aware so long
// lines never push the box wider than the screen.
func colorizeEntry(entry string, maxWidth int) string {
	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth-3, "...")
	}

	var style lipgloss.Style
	switch {
	case strings.Contains(entry, "[ERROR]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	case strings.Contains(entry, "[WARN]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	case strings.Contains(entry, "[INFO]"):
		style = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	case strings.Contains(entry, "[DEBUG]"):
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	}
	return style.Render(entry)
}

// filterHint builds the footer, bolding the active filter.
func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] debug"},
		{log.LevelInfo, "[i] info"},
		{log.LevelWarn, "[w] warn"},
		{log.LevelError, "[e] error"},
	} {
		if m.minLevel == f.level {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}
