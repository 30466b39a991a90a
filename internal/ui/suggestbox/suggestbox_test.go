package suggestbox

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/taglet/internal/directory"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
	zone.NewGlobal()
}

func testCandidates() []directory.Candidate {
	return []directory.Candidate{
		{ID: "11a", Name: "Brad", Detail: "Engineering"},
		{ID: "22b", Name: "Brianna", Detail: "Design"},
		{ID: "33c", Name: "Carol", Detail: "Support"},
	}
}

func manyCandidates() []directory.Candidate {
	return []directory.Candidate{
		{ID: "1", Name: "One"},
		{ID: "2", Name: "Two"},
		{ID: "3", Name: "Three"},
		{ID: "4", Name: "Four"},
		{ID: "5", Name: "Five"},
		{ID: "6", Name: "Six"},
		{ID: "7", Name: "Seven"},
	}
}

// scanView wraps View() with zone.Scan() to strip zone markers.
func scanView(m Model) string {
	return zone.Scan(m.View())
}

func openBox() Model {
	return New().Open('@', "People").SetCandidates(testCandidates())
}

func TestSuggestBox_New(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Equal(t, 5, m.maxVisible)
	require.Empty(t, m.Candidates())
}

func TestSuggestBox_Open(t *testing.T) {
	m := New().Open('@', "People")

	require.True(t, m.Visible())
	require.Equal(t, '@', m.trigger)
	require.Equal(t, "People", m.title)
	require.True(t, m.loading)
	require.Empty(t, m.Candidates())
}

func TestSuggestBox_Close(t *testing.T) {
	m := openBox()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m = m.Close()

	require.False(t, m.Visible())
	require.Empty(t, m.Candidates())
	require.Equal(t, 0, m.Cursor())
}

func TestSuggestBox_SetCandidates(t *testing.T) {
	m := New().Open('@', "People")
	require.True(t, m.loading)

	m = m.SetCandidates(testCandidates())

	require.False(t, m.loading)
	require.Len(t, m.Candidates(), 3)
}

func TestSuggestBox_SetCandidates_CursorKeptWhenInBounds(t *testing.T) {
	m := openBox()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.Cursor())

	m = m.SetCandidates(testCandidates()[:2])

	require.Equal(t, 1, m.Cursor())
}

func TestSuggestBox_SetCandidates_CursorResetWhenOutOfBounds(t *testing.T) {
	m := openBox()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.Cursor())

	m = m.SetCandidates(testCandidates()[:1])

	require.Equal(t, 0, m.Cursor())
}

func TestSuggestBox_Update_NavigateDown(t *testing.T) {
	m := openBox()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.Cursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.Cursor())

	// At bottom boundary - should not go past
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.Cursor())
}

func TestSuggestBox_Update_NavigateUp(t *testing.T) {
	m := openBox()
	m.cursor = 2

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 1, m.Cursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.Cursor())

	// At top boundary - should not go past
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.Cursor())
}

func TestSuggestBox_Update_CtrlN_CtrlP(t *testing.T) {
	m := openBox()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, 1, m.Cursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, 0, m.Cursor())
}

func TestSuggestBox_Update_ClosedIgnoresKeys(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(testCandidates()).Close()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})

	require.Nil(t, cmd)
	require.Equal(t, 0, m.Cursor())
}

func TestSuggestBox_Accept_Msg(t *testing.T) {
	m := openBox()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, AcceptMsg{}, msg)
	require.Equal(t, "22b", msg.(AcceptMsg).Candidate.ID)
}

func TestSuggestBox_Accept_Tab(t *testing.T) {
	m := openBox()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, AcceptMsg{}, msg)
	require.Equal(t, "11a", msg.(AcceptMsg).Candidate.ID)
}

func TestSuggestBox_Accept_NoCandidates(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
}

func TestSuggestBox_Dismiss_Msg(t *testing.T) {
	m := openBox()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, DismissMsg{}, msg)
}

func TestSuggestBox_HandlesKey(t *testing.T) {
	m := openBox()

	claimed := []tea.KeyMsg{
		{Type: tea.KeyUp},
		{Type: tea.KeyDown},
		{Type: tea.KeyCtrlP},
		{Type: tea.KeyCtrlN},
		{Type: tea.KeyEnter},
		{Type: tea.KeyTab},
		{Type: tea.KeyEsc},
	}
	for _, msg := range claimed {
		require.True(t, m.HandlesKey(msg), "expected %s claimed", msg.String())
	}

	passed := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'a'}},
		{Type: tea.KeyBackspace},
		{Type: tea.KeySpace},
		{Type: tea.KeyLeft},
	}
	for _, msg := range passed {
		require.False(t, m.HandlesKey(msg), "expected %s passed through", msg.String())
	}
}

func TestSuggestBox_HandlesKey_Closed(t *testing.T) {
	m := New()

	require.False(t, m.HandlesKey(tea.KeyMsg{Type: tea.KeyDown}))
	require.False(t, m.HandlesKey(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestSuggestBox_Selected(t *testing.T) {
	m := openBox()

	selected, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "11a", selected.ID)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	selected, ok = m.Selected()
	require.True(t, ok)
	require.Equal(t, "22b", selected.ID)
}

func TestSuggestBox_Selected_Empty(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(nil)

	selected, ok := m.Selected()
	require.False(t, ok)
	require.Equal(t, directory.Candidate{}, selected)
}

func TestSuggestBox_Update_MouseScrollDown(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(manyCandidates())

	require.Equal(t, 0, m.scrollOffset)

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	require.Equal(t, 1, m.scrollOffset)

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	require.Equal(t, 2, m.scrollOffset)
}

func TestSuggestBox_Update_MouseScrollUp(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(manyCandidates())
	m.scrollOffset = 2

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	require.Equal(t, 1, m.scrollOffset)

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	require.Equal(t, 0, m.scrollOffset)
}

func TestSuggestBox_Update_MouseScrollBoundaries(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(manyCandidates())

	// Already at top - should stay at 0
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	require.Equal(t, 0, m.scrollOffset)

	// 7 candidates, maxVisible = 5, so maxOffset = 2
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	require.Equal(t, 2, m.scrollOffset)
}

func TestSuggestBox_ScrollFollowsCursor(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(manyCandidates())

	// Navigate past the visible window
	for range 6 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	require.Equal(t, 6, m.Cursor())
	require.Equal(t, 2, m.scrollOffset)

	// Navigate back up past the window top
	for range 6 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}

	require.Equal(t, 0, m.Cursor())
	require.Equal(t, 0, m.scrollOffset)
}

func TestSuggestBox_View_Closed(t *testing.T) {
	m := New()

	require.Equal(t, "", m.View())
}

func TestSuggestBox_View_ContainsElements(t *testing.T) {
	m := openBox().SetQuery("br")

	view := scanView(m)

	require.Contains(t, view, "@ People")
	require.Contains(t, view, "Brad")
	require.Contains(t, view, "Brianna")
	require.Contains(t, view, "Carol")
	require.Contains(t, view, "3 matches")
	require.Contains(t, view, "Engineering")
}

func TestSuggestBox_View_Loading(t *testing.T) {
	m := New().Open('@', "People")

	view := scanView(m)

	require.Contains(t, view, "Searching…")
	require.NotContains(t, view, "matches")
}

func TestSuggestBox_View_NoMatches(t *testing.T) {
	m := New().Open('@', "People").SetQuery("zz").SetCandidates(nil)

	view := scanView(m)

	require.Contains(t, view, `No matches for "@zz"`)
	require.Contains(t, view, "0 matches")
}

func TestSuggestBox_View_MoreIndicator(t *testing.T) {
	m := New().Open('@', "People").SetCandidates(manyCandidates())

	view := scanView(m)

	require.Contains(t, view, "↓ more")
	require.NotContains(t, view, "Seven")
}

func TestSuggestBox_View_NoTitleFallsBackToTrigger(t *testing.T) {
	m := New().Open('#', "").SetCandidates(testCandidates())

	view := scanView(m)

	require.Contains(t, view, "#")
}

func TestSuggestBox_View_Stability(t *testing.T) {
	m := openBox()

	view1 := scanView(m)
	view2 := scanView(m)

	require.Equal(t, view1, view2)
}

func TestSuggestBox_Click(t *testing.T) {
	m := openBox()

	// Render through zone.Scan to register click zones
	_ = scanView(m)

	// Zone registration is asynchronous via a channel worker in bubblezone.
	// A small delay allows the worker goroutine to process the channel.
	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		z = zone.Get(zonePrefix + "1")
		if z != nil && !z.IsZero() {
			break
		}
		_ = scanView(m)
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	clicked, ok := m.Click(tea.MouseMsg{
		X:      z.StartX + (z.EndX-z.StartX)/2,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})

	require.True(t, ok)
	require.Equal(t, "22b", clicked.ID)
}

func TestSuggestBox_Click_WrongButton(t *testing.T) {
	m := openBox()
	_ = scanView(m)

	_, ok := m.Click(tea.MouseMsg{X: 1, Y: 1, Button: tea.MouseButtonRight})

	require.False(t, ok)
}
