package logview

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/pubsub"
)

func TestNew_StartsHidden(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Equal(t, log.LevelDebug, m.minLevel)
}

func TestToggle_FlipsVisibility(t *testing.T) {
	m := New()
	m.SetSize(80, 40)

	m.Toggle()
	assert.True(t, m.Visible())

	m.Toggle()
	assert.False(t, m.Visible())
}

func TestUpdate_LogEventAppendsEntry(t *testing.T) {
	m := New()

	m, cmd := m.Update(log.LogEvent{Payload: "2026-01-02T10:00:00 [INFO] [ui] hello\n"})

	require.Len(t, m.entries, 1)
	assert.Equal(t, "2026-01-02T10:00:00 [INFO] [ui] hello", m.entries[0])
	// No listener armed, so there is nothing to re-arm.
	assert.Nil(t, cmd)
}

func TestUpdate_LogEventRearmsListener(t *testing.T) {
	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	m := New()
	m.listener = pubsub.NewContinuousListener(context.Background(), broker)

	m, cmd := m.Update(log.LogEvent{Payload: "entry\n"})

	require.Len(t, m.entries, 1)
	assert.NotNil(t, cmd)
}

func TestUpdate_LogEventPrunesOldEntries(t *testing.T) {
	m := New()

	for i := 0; i < maxEntries+25; i++ {
		m, _ = m.Update(log.LogEvent{Payload: fmt.Sprintf("entry %d\n", i)})
	}

	require.Len(t, m.entries, maxEntries)
	assert.Equal(t, "entry 25", m.entries[0])
}

func TestUpdate_KeysIgnoredWhileHidden(t *testing.T) {
	m := New()
	m, _ = m.Update(log.LogEvent{Payload: "entry\n"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	assert.Equal(t, log.LevelDebug, m.minLevel)
	assert.Len(t, m.entries, 1)
}

func TestUpdate_FilterKeysSetMinLevel(t *testing.T) {
	tests := []struct {
		key  string
		want log.Level
	}{
		{"d", log.LevelDebug},
		{"i", log.LevelInfo},
		{"w", log.LevelWarn},
		{"e", log.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := New()
			m.SetSize(80, 40)
			m.Toggle()

			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})

			assert.Equal(t, tt.want, m.minLevel)
		})
	}
}

func TestUpdate_ClearEmptiesBuffer(t *testing.T) {
	m := New()
	m.SetSize(80, 40)
	m, _ = m.Update(log.LogEvent{Payload: "entry\n"})
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})

	assert.Empty(t, m.entries)
}

func TestUpdate_EscCloses(t *testing.T) {
	m := New()
	m.SetSize(80, 40)
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.Visible())
}

func TestView_HiddenRendersNothing(t *testing.T) {
	m := New()
	m.SetSize(80, 40)

	assert.Empty(t, m.View())
}

func TestView_EmptyBufferShowsPlaceholder(t *testing.T) {
	m := New()
	m.SetSize(80, 40)
	m.Toggle()

	assert.Contains(t, m.View(), "No logs to display")
}

func TestView_FiltersBelowMinLevel(t *testing.T) {
	m := New()
	m.SetSize(80, 40)
	m, _ = m.Update(log.LogEvent{Payload: "10:00:00 [INFO] [ui] routine detail\n"})
	m, _ = m.Update(log.LogEvent{Payload: "10:00:01 [ERROR] [db] write failed\n"})
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	view := m.View()
	assert.Contains(t, view, "write failed")
	assert.NotContains(t, view, "routine detail")
}

func TestMatchesLevel(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		minLevel log.Level
		want     bool
	}{
		{"error passes error filter", "x [ERROR] y", log.LevelError, true},
		{"warn blocked by error filter", "x [WARN] y", log.LevelError, false},
		{"info passes debug filter", "x [INFO] y", log.LevelDebug, true},
		{"debug blocked by info filter", "x [DEBUG] y", log.LevelInfo, false},
		{"unmarked entry always shown", "plain text", log.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.minLevel = tt.minLevel

			assert.Equal(t, tt.want, m.matchesLevel(tt.entry))
		})
	}
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	m := New()

	assert.Equal(t, "bg", m.Overlay("bg"))
}

func TestStartListening_NilWithoutLogger(t *testing.T) {
	m := New()

	// The log broker only exists once --debug initializes the logger,
	// which no test in this package does.
	assert.Nil(t, m.StartListening(context.Background()))
}
