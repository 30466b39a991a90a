// Package suggestbox renders the candidate popup for an active tag search.
// The query itself lives in the composer; this component only displays
// results, tracks the highlighted row, and reports accept/dismiss intents.
package suggestbox

import (
	"fmt"
	"strings"

	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/keys"
	"github.com/zjrosen/taglet/internal/ui/styles"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// zonePrefix namespaces row click zones within the global zone manager.
const zonePrefix = "suggest-row-"

// AcceptMsg is sent when a candidate is chosen.
type AcceptMsg struct {
	Candidate directory.Candidate
}

// DismissMsg is sent when the popup is dismissed without a choice.
type DismissMsg struct{}

// Model holds the suggestion popup state.
type Model struct {
	open         bool
	trigger      rune
	title        string // trigger label from config, e.g. "People"
	query        string
	candidates   []directory.Candidate
	cursor       int
	scrollOffset int
	loading      bool
	maxVisible   int
	minWidth     int
	maxWidth     int
}

// New creates a closed suggestion popup.
func New() Model {
	return Model{
		maxVisible: 5,
		minWidth:   24,
		maxWidth:   44,
	}
}

// Open resets the popup for a fresh search under trigger.
func (m Model) Open(trigger rune, title string) Model {
	m.open = true
	m.trigger = trigger
	m.title = title
	m.query = ""
	m.candidates = nil
	m.cursor = 0
	m.scrollOffset = 0
	m.loading = true
	return m
}

// Close hides the popup and drops its results.
func (m Model) Close() Model {
	m.open = false
	m.candidates = nil
	m.query = ""
	m.cursor = 0
	m.scrollOffset = 0
	m.loading = false
	return m
}

// Visible reports whether the popup is showing.
func (m Model) Visible() bool {
	return m.open
}

// SetQuery records the query the results answer, for the empty-state message.
func (m Model) SetQuery(query string) Model {
	m.query = query
	return m
}

// SetCandidates replaces the result list. The cursor keeps its row when it
// still exists, otherwise it snaps back to the top.
func (m Model) SetCandidates(candidates []directory.Candidate) Model {
	m.candidates = candidates
	m.loading = false
	if m.cursor >= len(m.candidates) {
		m.cursor = 0
		m.scrollOffset = 0
	}
	return m
}

// SetLoading marks a search as in flight.
func (m Model) SetLoading(loading bool) Model {
	m.loading = loading
	return m
}

// SetMaxVisible caps the rows shown before scrolling.
func (m Model) SetMaxVisible(n int) Model {
	if n > 0 {
		m.maxVisible = n
	}
	return m
}

// SetMaxWidth caps the popup width.
func (m Model) SetMaxWidth(w int) Model {
	if w >= m.minWidth {
		m.maxWidth = w
	}
	return m
}

// HandlesKey reports whether the popup claims msg while open. Unclaimed keys
// fall through to the composer so typing keeps refining the query inline.
func (m Model) HandlesKey(msg tea.KeyMsg) bool {
	if !m.open {
		return false
	}
	return key.Matches(msg,
		keys.Suggest.Up,
		keys.Suggest.Down,
		keys.Suggest.Accept,
		keys.Suggest.Dismiss,
	)
}

// Update handles navigation and accept/dismiss keys plus wheel scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Suggest.Down):
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, keys.Suggest.Up):
			if m.cursor > 0 {
				m.cursor--
				m = m.ensureCursorVisible()
			}
			return m, nil

		case key.Matches(msg, keys.Suggest.Accept):
			return m, m.acceptCmd()

		case key.Matches(msg, keys.Suggest.Dismiss):
			return m, func() tea.Msg { return DismissMsg{} }
		}

	case tea.MouseMsg:
		// Only handle wheel events for scrolling
		if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
			return m, nil
		}
		maxOffset := max(0, len(m.candidates)-m.maxVisible)
		if msg.Button == tea.MouseButtonWheelUp {
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
		} else {
			if m.scrollOffset < maxOffset {
				m.scrollOffset++
			}
		}
		return m, nil
	}

	return m, nil
}

// Click resolves a left-click on a visible row to its candidate.
func (m Model) Click(msg tea.MouseMsg) (directory.Candidate, bool) {
	if !m.open || msg.Button != tea.MouseButtonLeft {
		return directory.Candidate{}, false
	}
	endIdx := min(m.scrollOffset+m.maxVisible, len(m.candidates))
	for i := m.scrollOffset; i < endIdx; i++ {
		if z := zone.Get(zonePrefix + fmt.Sprint(i)); z != nil && z.InBounds(msg) {
			return m.candidates[i], true
		}
	}
	return directory.Candidate{}, false
}

// Selected returns the highlighted candidate.
func (m Model) Selected() (directory.Candidate, bool) {
	if m.cursor >= 0 && m.cursor < len(m.candidates) {
		return m.candidates[m.cursor], true
	}
	return directory.Candidate{}, false
}

// Cursor returns the highlighted row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Candidates returns the current result list.
func (m Model) Candidates() []directory.Candidate {
	return m.candidates
}

func (m Model) acceptCmd() tea.Cmd {
	selected, ok := m.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return AcceptMsg{Candidate: selected} }
}

func (m Model) ensureCursorVisible() Model {
	if m.cursor >= m.scrollOffset+m.maxVisible {
		m.scrollOffset = m.cursor - m.maxVisible + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	return m
}

// View renders the popup box. The caller anchors it over the background;
// an anchored popup sizes to its content rather than holding a fixed height.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	width := m.contentWidth()
	innerWidth := width - 2

	var content []string
	switch {
	case m.loading && len(m.candidates) == 0:
		content = append(content, m.statusRow("Searching…", innerWidth))

	case len(m.candidates) == 0:
		content = append(content, m.statusRow(m.noMatchesText(), innerWidth))

	default:
		endIdx := min(m.scrollOffset+m.maxVisible, len(m.candidates))
		for i := m.scrollOffset; i < endIdx; i++ {
			row := m.renderRow(m.candidates[i], i == m.cursor, innerWidth)
			content = append(content, zone.Mark(zonePrefix+fmt.Sprint(i), row))
		}
		if endIdx < len(m.candidates) {
			moreText := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("↓ more")
			padding := max((innerWidth-lipgloss.Width(moreText))/2, 0)
			content = append(content, strings.Repeat(" ", padding)+moreText)
		}
	}

	hint := ""
	if !m.loading {
		hint = styles.FormatMatchCount(len(m.candidates))
	}

	return styles.RenderFormSection(content, m.titleText(), hint, width, true, styles.OverlayBorderColor)
}

// titleText builds the heading, e.g. "@ People".
func (m Model) titleText() string {
	if m.title == "" {
		return string(m.trigger)
	}
	return string(m.trigger) + " " + m.title
}

func (m Model) noMatchesText() string {
	return fmt.Sprintf("No matches for %q", string(m.trigger)+m.query)
}

func (m Model) statusRow(text string, innerWidth int) string {
	style := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true).
		PaddingLeft(1)
	return style.Render(styles.TruncateString(text, innerWidth-1))
}

// renderRow renders one candidate: indicator, name with the matched query
// runs highlighted, and muted detail when it fits.
func (m Model) renderRow(c directory.Candidate, selected bool, innerWidth int) string {
	var indicator string
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
	} else {
		indicator = " "
	}

	nameMax := innerWidth - 2
	name := styles.TruncateString(c.Name, nameMax)

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true)
	}
	rendered := highlightMatch(name, m.query, nameStyle)

	row := indicator + " " + rendered

	if c.Detail != "" {
		remaining := innerWidth - 2 - lipgloss.Width(name) - 2
		if remaining >= 4 {
			detailStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
			row += "  " + detailStyle.Render(styles.TruncateString(c.Detail, remaining))
		}
	}

	return row
}

// highlightMatch styles the first case-insensitive occurrence of query
// inside name. The whole name gets base styling when there is no match.
// Matching compares equal-length windows so byte offsets stay aligned with
// name even when lowercasing would change its length.
func highlightMatch(name, query string, base lipgloss.Style) string {
	if query == "" {
		return base.Render(name)
	}
	n := len(query)
	for i := 0; i+n <= len(name); i++ {
		if strings.EqualFold(name[i:i+n], query) {
			return base.Render(name[:i]) +
				styles.SuggestMatchStyle.Render(name[i:i+n]) +
				base.Render(name[i+n:])
		}
	}
	return base.Render(name)
}

// contentWidth sizes the box to its widest row, clamped to the configured
// bounds so the popup stays compact next to the trigger column.
func (m Model) contentWidth() int {
	widest := lipgloss.Width(m.titleText()) + lipgloss.Width(styles.FormatMatchCount(len(m.candidates))) + 8
	for _, c := range m.candidates {
		w := 2 + lipgloss.Width(c.Name)
		if c.Detail != "" {
			w += 2 + lipgloss.Width(c.Detail)
		}
		if w+2 > widest {
			widest = w + 2
		}
	}
	if w := lipgloss.Width(m.noMatchesText()) + 4; len(m.candidates) == 0 && w > widest {
		widest = w
	}
	return max(min(widest, m.maxWidth), m.minWidth)
}
