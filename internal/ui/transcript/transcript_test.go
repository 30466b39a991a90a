package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/taglet/internal/tagging"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
	zone.NewGlobal()
}

// stripANSI removes ANSI escape codes since glamour inserts codes between characters.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func testMessage(body string) Message {
	return Message{
		Body:      body,
		Canonical: body,
		SentAt:    time.Date(2026, 8, 22, 15, 4, 0, 0, time.UTC),
	}
}

func taggedMessage() Message {
	return Message{
		Body:      "ping @Brad about #golang",
		Canonical: "ping @11a#Brad# about #t1#golang#",
		Tags: []tagging.Tag{
			{ID: "11a", Text: "Brad", Trigger: '@'},
			{ID: "t1", Text: "golang", Trigger: '#'},
		},
		SentAt: time.Date(2026, 8, 22, 15, 4, 0, 0, time.UTC),
	}
}

func sizedTranscript(cfg Config) Model {
	return New(cfg).SetSize(60, 10)
}

func TestNew(t *testing.T) {
	m := New(Config{})

	require.Equal(t, 0, m.Len())
	require.False(t, m.Focused())

	_, ok := m.Selected()
	require.False(t, ok)
}

func TestAppend(t *testing.T) {
	m := sizedTranscript(Config{})

	m = m.Append(testMessage("hello"))

	require.Equal(t, 1, m.Len())
	selected, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "hello", selected.Body)
}

func TestAppend_SelectsLatest(t *testing.T) {
	m := sizedTranscript(Config{})

	m = m.Append(testMessage("first"))
	m = m.Append(testMessage("second"))

	selected, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "second", selected.Body)
}

func TestFocusBlur(t *testing.T) {
	m := New(Config{})

	m = m.Focus()
	require.True(t, m.Focused())

	m = m.Blur()
	require.False(t, m.Focused())
}

func TestSetSize_SameSizeNoRebuild(t *testing.T) {
	m := sizedTranscript(Config{})
	m = m.Append(testMessage("hello"))

	before := m.View()
	m = m.SetSize(60, 10)

	require.Equal(t, before, m.View())
}

func TestView_Empty(t *testing.T) {
	m := sizedTranscript(Config{})

	view := stripANSI(m.View())

	require.Contains(t, view, "No messages yet")
}

func TestView_ShowsMessage(t *testing.T) {
	m := sizedTranscript(Config{})
	m = m.Append(testMessage("hello world"))

	view := stripANSI(zone.Scan(m.View()))

	require.Contains(t, view, "You")
	require.Contains(t, view, "hello world")
}

func TestView_Timestamps(t *testing.T) {
	withTS := sizedTranscript(Config{ShowTimestamps: true}).Append(testMessage("hi"))
	require.Contains(t, stripANSI(zone.Scan(withTS.View())), "15:04")

	withoutTS := sizedTranscript(Config{}).Append(testMessage("hi"))
	require.NotContains(t, stripANSI(zone.Scan(withoutTS.View())), "15:04")
}

func TestView_TagChips(t *testing.T) {
	m := sizedTranscript(Config{})
	m = m.Append(taggedMessage())

	view := stripANSI(zone.Scan(m.View()))

	require.Contains(t, view, "@Brad")
	require.Contains(t, view, "#golang")
}

func TestView_MarkdownBody(t *testing.T) {
	m := sizedTranscript(Config{})
	m = m.Append(testMessage("this is **important** news"))

	view := stripANSI(zone.Scan(m.View()))

	require.Contains(t, view, "important")
	require.NotContains(t, view, "**", "expected markdown markers consumed")
}

func TestYank(t *testing.T) {
	clip := &MockClipboard{}
	m := sizedTranscript(Config{}).SetClipboard(clip).Focus()
	m = m.Append(taggedMessage())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, YankedMsg{}, msg)
	require.Equal(t, []string{"ping @11a#Brad# about #t1#golang#"}, clip.Copied)
}

func TestYank_Empty(t *testing.T) {
	m := sizedTranscript(Config{}).SetClipboard(&MockClipboard{}).Focus()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	require.Nil(t, cmd)
}

func TestYank_Error(t *testing.T) {
	clip := &MockClipboard{Err: errors.New("no display")}
	m := sizedTranscript(Config{}).SetClipboard(clip).Focus()
	m = m.Append(testMessage("hello"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, YankErrMsg{}, msg)
	require.EqualError(t, msg.(YankErrMsg).Err, "no display")
}

func TestYank_NotFocused(t *testing.T) {
	clip := &MockClipboard{}
	m := sizedTranscript(Config{}).SetClipboard(clip)
	m = m.Append(testMessage("hello"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	require.Nil(t, cmd)
	require.Empty(t, clip.Copied)
}

func fillTranscript(m Model, n int) Model {
	for i := 0; i < n; i++ {
		m = m.Append(testMessage(fmt.Sprintf("message number %d with enough text to fill a line", i)))
	}
	return m
}

func TestUpdate_ScrollKeys(t *testing.T) {
	m := sizedTranscript(Config{}).Focus()
	m = fillTranscript(m, 20)

	// Appending follows the tail
	require.True(t, m.viewport.AtBottom())
	bottomOffset := m.viewport.YOffset

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Equal(t, bottomOffset-1, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, bottomOffset, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.Equal(t, 0, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	require.True(t, m.viewport.AtBottom())
}

func TestUpdate_HalfPageKeys(t *testing.T) {
	m := sizedTranscript(Config{}).Focus()
	m = fillTranscript(m, 20)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Equal(t, 5, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.Equal(t, 0, m.viewport.YOffset)
}

func TestUpdate_ScrollIgnoredWhenBlurred(t *testing.T) {
	m := sizedTranscript(Config{})
	m = fillTranscript(m, 20)
	bottomOffset := m.viewport.YOffset

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})

	require.Equal(t, bottomOffset, m.viewport.YOffset)
}

func TestUpdate_Wheel(t *testing.T) {
	m := sizedTranscript(Config{})
	m = fillTranscript(m, 20)
	bottomOffset := m.viewport.YOffset

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	require.Equal(t, bottomOffset-3, m.viewport.YOffset)

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	require.Equal(t, bottomOffset, m.viewport.YOffset)
}

func TestClickSelectsMessage(t *testing.T) {
	m := sizedTranscript(Config{})
	m = m.Append(testMessage("first"))
	m = m.Append(testMessage("second"))

	// Render through zone.Scan to register click zones
	_ = zone.Scan(m.View())

	// Zone registration is asynchronous via a channel worker in bubblezone.
	// A small delay allows the worker goroutine to process the channel.
	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		z = zone.Get(zonePrefix + "0")
		if z != nil && !z.IsZero() {
			break
		}
		_ = zone.Scan(m.View())
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, _ = m.Update(tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})

	selected, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "first", selected.Body)
}

func TestScrollPercent(t *testing.T) {
	m := sizedTranscript(Config{})
	m = fillTranscript(m, 20)

	require.Equal(t, 1.0, m.ScrollPercent())
}
