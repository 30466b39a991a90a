package app

import (
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/taglet/internal/config"
	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/pubsub"
	"github.com/zjrosen/taglet/internal/tagging"
	"github.com/zjrosen/taglet/internal/ui/transcript"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
	zone.NewGlobal()
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func seedProvider() *directory.Memory {
	p := directory.NewMemory()
	p.Add('@', directory.Candidate{ID: "11a", Name: "Brad", Detail: "Platform"})
	p.Add('@', directory.Candidate{ID: "22b", Name: "Brianna", Detail: "Design"})
	p.Add('#', directory.Candidate{ID: "t1", Name: "golang"})
	return p
}

// createTestModel builds a Model without watcher or tracing plumbing.
func createTestModel() Model {
	return newModel(config.Defaults(), seedProvider(), nil, nil)
}

func sizedTestModel(t *testing.T) Model {
	t.Helper()
	return resize(t, createTestModel(), 100, 40)
}

func resize(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	model, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return model.(Model)
}

// collect runs a command tree and flattens the messages it produces.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// pump applies msg and feeds every synchronously produced message back into
// the model until the command queue drains. Directory searches against the
// in-memory provider resolve inline, so a single pump settles a keystroke.
func pump(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		model, cmd := m.Update(next)
		m = model.(Model)
		queue = append(queue, collect(cmd)...)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			m = pump(t, m, tea.KeyMsg{Type: tea.KeySpace})
		} else {
			m = pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
	return m
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel()

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = newModel.(Model)

	assert.Equal(t, 120, m.width, "expected width to be updated")
	assert.Equal(t, 50, m.height, "expected height to be updated")
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := createTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.NotNil(t, cmd, "expected quit command")
}

func TestApp_ViewEmptyBeforeResize(t *testing.T) {
	m := createTestModel()
	assert.Empty(t, m.View(), "view should be empty until the first resize")
}

func TestApp_ViewRenders(t *testing.T) {
	m := sizedTestModel(t)

	view := stripANSI(m.View())
	assert.Contains(t, view, "Transcript")
	assert.Contains(t, view, "Message")
	assert.Contains(t, view, "No messages yet")
}

func TestApp_TypingFillsComposer(t *testing.T) {
	m := sizedTestModel(t)

	m = typeText(t, m, "hello")

	assert.Equal(t, "hello", m.composer.Value())
}

func TestApp_TriggerOpensSuggestions(t *testing.T) {
	m := sizedTestModel(t)

	m = typeText(t, m, "@")

	require.True(t, m.suggest.Visible(), "trigger should open the popup")
	require.Len(t, m.suggest.Candidates(), 2, "empty query should list every mention candidate")

	selected, ok := m.suggest.Selected()
	require.True(t, ok)
	assert.Equal(t, "Brad", selected.Name, "candidates should be sorted by name")
}

func TestApp_QueryNarrowsCandidates(t *testing.T) {
	m := sizedTestModel(t)

	m = typeText(t, m, "@bri")

	require.True(t, m.suggest.Visible())
	require.Len(t, m.suggest.Candidates(), 1)
	assert.Equal(t, "Brianna", m.suggest.Candidates()[0].Name)
}

func TestApp_SpaceDismissesSuggestions(t *testing.T) {
	m := sizedTestModel(t)

	m = typeText(t, m, "@br ")

	assert.False(t, m.suggest.Visible(), "space breaks the search and closes the popup")
	assert.False(t, m.composer.Searching())
	assert.Equal(t, "@br ", m.composer.Value(), "typed text survives the dismissal")
}

func TestApp_EnterAcceptsSelected(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "@Brad ", m.composer.Value())
	assert.Equal(t, "@11a#Brad# ", m.composer.Canonical())
	assert.False(t, m.suggest.Visible(), "accepting closes the popup")
	assert.False(t, m.composer.Searching())
}

func TestApp_TabAcceptsWhenPopupOpen(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, "@Brad ", m.composer.Value(), "tab accepts instead of switching focus")
	assert.Equal(t, focusComposer, m.focus, "focus stays on the composer")
}

func TestApp_EscDismissesSuggestions(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.suggest.Visible())
	assert.False(t, m.composer.Searching())
	assert.Equal(t, "@br", m.composer.Value())
}

func TestApp_ArrowNavigatesPopup(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.suggest.Cursor())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "@Brianna ", m.composer.Value())
	assert.Equal(t, "@22b#Brianna# ", m.composer.Canonical())
}

func TestApp_DeferredStrategy(t *testing.T) {
	cfg := config.Defaults()
	cfg.Search.Strategy = "deferred"

	t.Run("trigger alone stays quiet until the hotkey", func(t *testing.T) {
		m := resize(t, newModel(cfg, seedProvider(), nil, nil), 100, 40)
		m = typeText(t, m, "@")
		require.False(t, m.suggest.Visible(), "deferred search must not announce on the bare trigger")

		m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
		require.True(t, m.suggest.Visible(), "hotkey announces the pending search")
		assert.Len(t, m.suggest.Candidates(), 2)
	})

	t.Run("first query rune announces by itself", func(t *testing.T) {
		m := resize(t, newModel(cfg, seedProvider(), nil, nil), 100, 40)
		m = typeText(t, m, "@b")
		require.True(t, m.suggest.Visible())
		assert.Equal(t, "b", m.composer.Query())
	})
}

func TestApp_FocusToggle(t *testing.T) {
	m := sizedTestModel(t)
	require.Equal(t, focusComposer, m.focus)
	require.True(t, m.composer.Focused())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTranscript, m.focus)
	assert.False(t, m.composer.Focused())
	assert.True(t, m.transcript.Focused())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusComposer, m.focus)
	assert.True(t, m.composer.Focused())
	assert.False(t, m.transcript.Focused())
}

func TestApp_SubmitAppendsMessage(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "hi there")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, 1, m.transcript.Len())
	msg := m.transcript.Messages()[0]
	assert.Equal(t, "hi there", msg.Body)
	assert.Equal(t, "hi there", msg.Canonical)
	assert.Empty(t, msg.Tags)
	assert.False(t, msg.SentAt.IsZero())
	assert.Empty(t, m.composer.Value(), "composer clears after sending")
}

func TestApp_SubmitWhitespaceIgnored(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "   ")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 0, m.transcript.Len())
	assert.Equal(t, "   ", m.composer.Value(), "blank drafts are kept, not sent")
}

func TestApp_SubmitCarriesTags(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "ping @br")
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // accept Brad
	m = typeText(t, m, "re #gol")
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // accept golang
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // send

	require.Equal(t, 1, m.transcript.Len())
	msg := m.transcript.Messages()[0]
	assert.Equal(t, "ping @Brad re #golang ", msg.Body)
	assert.Equal(t, "ping @11a#Brad# re #t1#golang# ", msg.Canonical)
	require.Len(t, msg.Tags, 2)
	assert.Equal(t, "11a", msg.Tags[0].ID)
	assert.Equal(t, "t1", msg.Tags[1].ID)
}

func TestApp_StatusBarShowsSearchProgress(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")

	view := stripANSI(m.View())
	assert.Contains(t, view, "Searching @br")
}

func TestApp_StatusBarShowsMessageCount(t *testing.T) {
	m := sizedTestModel(t)

	view := stripANSI(m.View())
	assert.Contains(t, view, "0 messages")

	m = typeText(t, m, "hi")
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	view = stripANSI(m.View())
	assert.Contains(t, view, "1 message")
}

func TestApp_YankNoticeLifecycle(t *testing.T) {
	m := sizedTestModel(t)

	model, cmd := m.Update(transcript.YankedMsg{Preview: `"hi there"`})
	m = model.(Model)
	assert.NotNil(t, cmd, "notice schedules its own removal")
	assert.Equal(t, `Copied "hi there"`, m.notice)

	// A stale timer must not clear a newer notice.
	model, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq - 1})
	m = model.(Model)
	assert.NotEmpty(t, m.notice)

	model, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	m = model.(Model)
	assert.Empty(t, m.notice)
}

func TestApp_YankErrorNotice(t *testing.T) {
	m := sizedTestModel(t)

	model, _ := m.Update(transcript.YankErrMsg{Err: assert.AnError})
	m = model.(Model)

	assert.True(t, m.noticeIsErr)
	assert.Contains(t, m.notice, "Copy failed")
}

func TestApp_StaleSearchResultsDropped(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.Len(t, m.suggest.Candidates(), 2)

	// Results for an older query arrive late: ignore them.
	model, _ := m.Update(SearchResultsMsg{
		Trigger:    '@',
		Query:      "b",
		Candidates: []directory.Candidate{{ID: "x", Name: "Stale"}},
	})
	m = model.(Model)
	assert.Len(t, m.suggest.Candidates(), 2, "stale results must not replace the list")

	// Results matching the live query are applied.
	model, _ = m.Update(SearchResultsMsg{
		Trigger:    '@',
		Query:      "br",
		Candidates: []directory.Candidate{{ID: "y", Name: "Fresh"}},
	})
	m = model.(Model)
	require.Len(t, m.suggest.Candidates(), 1)
	assert.Equal(t, "Fresh", m.suggest.Candidates()[0].Name)
}

func TestApp_DirectoryChangedRefreshesSearch(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	model, cmd := m.Update(pubsub.Event[DirectoryEvent]{
		Type:    pubsub.UpdatedEvent,
		Payload: DirectoryEvent{Path: "candidates.db"},
	})
	m = model.(Model)

	assert.Equal(t, "Candidate directory reloaded", m.notice)
	assert.NotNil(t, cmd, "expected a re-search plus notice expiry")
	assert.True(t, m.suggest.Visible(), "the active search stays open across a reload")
}

func TestApp_ClickAcceptsCandidate(t *testing.T) {
	m := sizedTestModel(t)
	m = typeText(t, m, "@br")
	require.True(t, m.suggest.Visible())

	// Zone registration is asynchronous; render until the rows resolve.
	var clicked bool
	for i := 0; i < 10; i++ {
		_ = m.View()
		z := zone.Get("suggest-row-1")
		if z != nil && !z.IsZero() {
			model, _ := m.Update(tea.MouseMsg{
				X:      z.StartX + 1,
				Y:      z.StartY,
				Action: tea.MouseActionPress,
				Button: tea.MouseButtonLeft,
			})
			m = model.(Model)
			if !m.suggest.Visible() {
				clicked = true
				break
			}
		}
		time.Sleep(time.Millisecond)
	}

	require.True(t, clicked, "click never landed on a candidate row")
	assert.Equal(t, "@Brianna ", m.composer.Value())
}

func TestApp_HelpToggle(t *testing.T) {
	m := sizedTestModel(t)
	require.False(t, m.help.ShowAll)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.True(t, m.help.ShowAll)

	view := stripANSI(m.View())
	assert.Contains(t, view, "send message")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.False(t, m.help.ShowAll)
}

func TestApp_LogViewerToggle(t *testing.T) {
	m := sizedTestModel(t)
	require.False(t, m.logs.Visible())

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.True(t, m.logs.Visible())

	view := stripANSI(m.View())
	assert.Contains(t, view, "Logs")
	assert.Contains(t, view, "No logs to display")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.False(t, m.logs.Visible())
}

func TestApp_LogViewerOwnsKeysWhileOpen(t *testing.T) {
	m := sizedTestModel(t)
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.True(t, m.logs.Visible())

	m = typeText(t, m, "e")
	assert.Empty(t, m.composer.Value(), "keys go to the viewer, not the composer")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.logs.Visible(), "esc closes the viewer")
}

func TestApp_LogEventReachesViewer(t *testing.T) {
	m := sizedTestModel(t)

	model, _ := m.Update(log.LogEvent{Payload: "10:00:00 [WARN] [watcher] slow reload\n"})
	m = model.(Model)
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})

	view := stripANSI(m.View())
	assert.Contains(t, view, "slow reload")
}

func TestApp_CloseWithoutWatcher(t *testing.T) {
	m := createTestModel()
	require.NoError(t, m.Close())
}

func TestApp_EngineConfigBridge(t *testing.T) {
	cfg := config.Config{
		Triggers: []config.TriggerConfig{
			{Rune: "@", Label: "People"},
			{Rune: "!", Label: "Actions"},
		},
		Search: config.SearchConfig{
			Strategy: "deferred",
			Charset:  `[a-z]`,
			Pattern:  `[@!][0-9]+#.+?#`,
		},
	}

	ec := EngineConfig(cfg)

	assert.Equal(t, []rune{'@', '!'}, ec.Triggers)
	assert.Equal(t, tagging.SearchDeferred, ec.Strategy)
	assert.True(t, ec.Query.MatchString("z"))
	assert.False(t, ec.Query.MatchString("Z"))
	assert.True(t, ec.Pattern.MatchString("!42#ship it#"))
}

func TestApp_EngineConfigBadRegexpFallsBack(t *testing.T) {
	cfg := config.Defaults()
	cfg.Search.Charset = `[unclosed`

	ec := EngineConfig(cfg)

	assert.True(t, ec.Query.MatchString("a"), "engine default survives a bad charset")
}

func TestApp_BuildPlaceholder(t *testing.T) {
	assert.Equal(t, "Type a message, @ or # to tag", buildPlaceholder(config.Defaults()))

	cfg := config.Config{Triggers: []config.TriggerConfig{{Rune: "@"}}}
	assert.Equal(t, "Type a message, @ to tag", buildPlaceholder(cfg))
}

func TestApp_EndToEndMentionScript(t *testing.T) {
	tm := teatest.NewTestModel(t, createTestModel(), teatest.WithInitialTermSize(90, 30))

	for _, r := range "Hey @br" {
		if r == ' ' {
			tm.Send(tea.KeyMsg{Type: tea.KeySpace})
		} else {
			tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(stripANSI(string(bts)), "Brianna")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter}) // accept Brad
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter}) // send the message
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(stripANSI(string(bts)), "You")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	fm, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	require.Equal(t, 1, fm.transcript.Len())
	sent := fm.transcript.Messages()[0]
	assert.Equal(t, "Hey @Brad ", sent.Body)
	assert.Equal(t, "Hey @11a#Brad# ", sent.Canonical)
	require.Len(t, sent.Tags, 1)
	assert.Equal(t, "11a", sent.Tags[0].ID)
}
