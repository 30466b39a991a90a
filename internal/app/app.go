// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/taglet/internal/config"
	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/keys"
	"github.com/zjrosen/taglet/internal/log"
	"github.com/zjrosen/taglet/internal/pubsub"
	"github.com/zjrosen/taglet/internal/tagging"
	"github.com/zjrosen/taglet/internal/tracing"
	"github.com/zjrosen/taglet/internal/ui/composer"
	"github.com/zjrosen/taglet/internal/ui/logview"
	"github.com/zjrosen/taglet/internal/ui/overlay"
	"github.com/zjrosen/taglet/internal/ui/styles"
	"github.com/zjrosen/taglet/internal/ui/suggestbox"
	"github.com/zjrosen/taglet/internal/ui/transcript"
	"github.com/zjrosen/taglet/internal/watcher"
)

const (
	searchTimeout = 5 * time.Second
	noticeTimeout = 3 * time.Second
)

// SearchResultsMsg carries directory candidates for an in-flight tag search.
type SearchResultsMsg struct {
	Trigger    rune
	Query      string
	Candidates []directory.Candidate
	Err        error
}

// DirectoryEvent is published when the candidate database changes on disk.
type DirectoryEvent struct {
	Path string
}

// clearNoticeMsg expires a status bar notice. The sequence number guards
// against a stale timer clearing a newer notice.
type clearNoticeMsg struct{ seq int }

type focusArea int

const (
	focusComposer focusArea = iota
	focusTranscript
)

func (a focusArea) String() string {
	if a == focusTranscript {
		return "transcript"
	}
	return "composer"
}

// searchRequest is one SearchRequested callback from the engine.
type searchRequest struct {
	query   string
	trigger rune
}

// sessionEvents collects listener callbacks fired synchronously while a
// session operation runs. The model drains it afterwards to drive the
// suggestion popup and directory searches. It lives behind a pointer so
// callbacks reach the same instance the copied model reads.
type sessionEvents struct {
	searches  []searchRequest
	dismissed bool
	formatted string
	changed   bool
}

func (e *sessionEvents) SearchRequested(query string, trigger rune) {
	e.searches = append(e.searches, searchRequest{query: query, trigger: trigger})
}

func (e *sessionEvents) SearchDismissed() {
	e.dismissed = true
}

func (e *sessionEvents) FormattedChanged(formatted string) {
	e.formatted = formatted
	e.changed = true
}

func (e *sessionEvents) reset() {
	e.searches = e.searches[:0]
	e.dismissed = false
	e.formatted = ""
	e.changed = false
}

// Model is the root application state.
type Model struct {
	cfg config.Config

	composer   composer.Model
	transcript transcript.Model
	suggest    suggestbox.Model
	logs       logview.Model
	help       help.Model
	helpKeys   keys.HelpKeyMap

	// First listen command for the log broker, armed at construction.
	logListenCmd tea.Cmd

	// Engine callbacks land here during composer updates.
	events *sessionEvents

	provider directory.Provider
	dirCache *directory.Cached
	tracer   trace.Tracer

	triggerLabels map[rune]string

	focus  focusArea
	width  int
	height int

	notice      string
	noticeIsErr bool
	noticeSeq   int

	// File watcher for auto-reload (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[DirectoryEvent]
}

// NewWithConfig builds the root model and starts the directory watcher when
// auto-reload is configured. dirCache may be nil when caching is disabled;
// dbPath may be empty when candidates come from the built-in seed.
func NewWithConfig(cfg config.Config, provider directory.Provider, dirCache *directory.Cached, dbPath string, tracer trace.Tracer) Model {
	m := newModel(cfg, provider, dirCache, tracer)

	// The log viewer only receives entries when --debug initialized the
	// logger; otherwise StartListening returns nil and the pane stays empty.
	m.logListenCmd = m.logs.StartListening(context.Background())

	if cfg.AutoReload && dbPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(dbPath))
		if err != nil {
			// The app works fine without auto-reload.
			log.Warn(log.CatWatcher, "failed to create watcher, auto-reload disabled", "error", err)
			return m
		}
		changes, err := w.Start()
		if err != nil {
			log.Warn(log.CatWatcher, "failed to start watcher, auto-reload disabled", "error", err)
			_ = w.Stop()
			return m
		}

		ctx, cancel := context.WithCancel(context.Background())
		broker := pubsub.NewBroker[DirectoryEvent]()
		go pumpDirectoryEvents(ctx, changes, broker, dbPath)

		m.watcherHandle = w
		m.watcherCtx = ctx
		m.watcherCancel = cancel
		m.watcherListener = pubsub.NewContinuousListener(ctx, broker)
		log.Debug(log.CatWatcher, "watching candidate database", "path", dbPath)
	}

	return m
}

// newModel wires the components without any background plumbing.
func newModel(cfg config.Config, provider directory.Provider, dirCache *directory.Cached, tracer trace.Tracer) Model {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("taglet")
	}

	events := &sessionEvents{}

	comp := composer.New(EngineConfig(cfg), events)
	comp.Focus()
	comp.SetPlaceholder(buildPlaceholder(cfg))
	comp.SetTriggerStyles(triggerStyles(cfg))

	tr := transcript.New(transcript.Config{
		ShowTimestamps: cfg.UI.ShowTimestamps,
		MarkdownStyle:  cfg.UI.MarkdownStyle,
	})

	sug := suggestbox.New()
	if cfg.UI.MaxSuggestions > 0 {
		sug = sug.SetMaxVisible(cfg.UI.MaxSuggestions)
	}

	return Model{
		cfg:           cfg,
		composer:      comp,
		transcript:    tr,
		suggest:       sug,
		logs:          logview.New(),
		help:          help.New(),
		events:        events,
		provider:      provider,
		dirCache:      dirCache,
		tracer:        tracer,
		triggerLabels: triggerLabels(cfg),
		focus:         focusComposer,
	}
}

// pumpDirectoryEvents republishes raw watcher signals as pubsub events so
// the update loop can consume them through a ContinuousListener.
func pumpDirectoryEvents(ctx context.Context, changes <-chan struct{}, broker *pubsub.Broker[DirectoryEvent], path string) {
	defer broker.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			broker.Publish(pubsub.UpdatedEvent, DirectoryEvent{Path: path})
		}
	}
}

// Close releases background resources. Call after the program exits.
func (m *Model) Close() error {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return fmt.Errorf("stopping watcher: %w", err)
		}
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case suggestbox.AcceptMsg:
		return m.acceptCandidate(msg.Candidate)

	case suggestbox.DismissMsg:
		m.composer.DismissSearch()
		var cmd tea.Cmd
		m, cmd = m.drainSessionEvents()
		return m, cmd

	case SearchResultsMsg:
		return m.handleSearchResults(msg)

	case transcript.YankedMsg:
		m, cmd := m.showNotice("Copied "+msg.Preview, false)
		return m, cmd

	case transcript.YankErrMsg:
		m, cmd := m.showNotice(fmt.Sprintf("Copy failed: %v", msg.Err), true)
		return m, cmd

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeIsErr = false
		}
		return m, nil

	case pubsub.Event[DirectoryEvent]:
		return m.handleDirectoryChanged(msg)

	case log.LogEvent:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.logs.SetSize(msg.Width, msg.Height)
	log.Debug(log.CatUI, "window resized", "width", msg.Width, "height", msg.Height)
	return m.layout()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.App.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.App.Logs):
		m.logs.Toggle()
		return m, nil

	// The log viewer sits above everything else, so it owns the keys
	// while open.
	case m.logs.Visible():
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd

	// The popup claims navigation and accept/dismiss keys while open;
	// everything else falls through to the composer.
	case m.suggest.Visible() && m.suggest.HandlesKey(msg):
		var cmd tea.Cmd
		m.suggest, cmd = m.suggest.Update(msg)
		return m, cmd

	case key.Matches(msg, keys.App.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.layout(), nil

	case key.Matches(msg, keys.App.FocusToggle):
		return m.toggleFocus(), nil

	case key.Matches(msg, keys.Suggest.Open) && m.focus == focusComposer:
		// The deferred strategy keeps the popup closed until the first
		// query rune; the hotkey opens it by hand for the current search.
		if m.composer.Searching() && !m.suggest.Visible() {
			trigger, query := m.composer.Trigger(), m.composer.Query()
			m.suggest = m.suggest.Open(trigger, m.triggerLabels[trigger])
			m.suggest = m.suggest.SetQuery(query)
			return m.layout(), m.searchCmd(trigger, query)
		}
		return m, nil

	case key.Matches(msg, keys.Composer.Submit) && m.focus == focusComposer:
		return m.submit()
	}

	switch m.focus {
	case focusComposer:
		var compCmd tea.Cmd
		m.composer, compCmd = m.composer.Update(msg)
		var drainCmd tea.Cmd
		m, drainCmd = m.drainSessionEvents()
		return m.layout(), tea.Batch(compCmd, drainCmd)

	case focusTranscript:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	// The popup owns the mouse while open.
	if m.suggest.Visible() {
		if c, ok := m.suggest.Click(msg); ok {
			return m.acceptCandidate(c)
		}
		var cmd tea.Cmd
		m.suggest, cmd = m.suggest.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

// drainSessionEvents applies the listener callbacks collected during the
// last session operation. Dismissal is applied before any new search so the
// terminal state wins when one edit both breaks and opens a search.
func (m Model) drainSessionEvents() (Model, tea.Cmd) {
	ev := m.events
	var cmds []tea.Cmd

	if ev.dismissed {
		m.suggest = m.suggest.Close()
	}

	if len(ev.searches) > 0 {
		req := ev.searches[len(ev.searches)-1]
		if !m.suggest.Visible() {
			m.suggest = m.suggest.Open(req.trigger, m.triggerLabels[req.trigger])
		}
		m.suggest = m.suggest.SetQuery(req.query)
		// Keep the stale candidate list on screen while the refresh runs;
		// only a first open shows the loading row.
		if len(m.suggest.Candidates()) == 0 {
			m.suggest = m.suggest.SetLoading(true)
		}
		cmds = append(cmds, m.searchCmd(req.trigger, req.query))
	}

	if ev.changed {
		log.Debug(log.CatEngine, "canonical text changed", "length", len(ev.formatted))
	}

	ev.reset()
	return m, tea.Batch(cmds...)
}

// searchCmd queries the directory provider off the update loop.
func (m Model) searchCmd(trigger rune, query string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		candidates, err := provider.Search(ctx, trigger, query)
		if err != nil {
			log.ErrorErr(log.CatDirectory, "candidate search failed", err,
				"trigger", string(trigger), "query", query)
			return SearchResultsMsg{Trigger: trigger, Query: query, Err: err}
		}
		return SearchResultsMsg{Trigger: trigger, Query: query, Candidates: candidates}
	}
}

func (m Model) handleSearchResults(msg SearchResultsMsg) (tea.Model, tea.Cmd) {
	// Results are stale when the query moved on while the search ran.
	if !m.suggest.Visible() || !m.composer.Searching() ||
		msg.Trigger != m.composer.Trigger() || msg.Query != m.composer.Query() {
		return m, nil
	}

	if msg.Err != nil {
		m.suggest = m.suggest.SetCandidates(nil)
		m, cmd := m.showNotice("Search failed: "+msg.Err.Error(), true)
		return m, cmd
	}

	m.suggest = m.suggest.SetCandidates(msg.Candidates)
	return m, nil
}

// acceptCandidate applies the selected candidate as a tag.
func (m Model) acceptCandidate(c directory.Candidate) (tea.Model, tea.Cmd) {
	_, span := m.tracer.Start(context.Background(), tracing.SpanAddTag)
	span.SetAttributes(
		attribute.String(tracing.AttrTagID, c.ID),
		attribute.String(tracing.AttrTagName, c.Name),
		attribute.String(tracing.AttrSearchQuery, m.composer.Query()),
	)
	ok := m.composer.AcceptCandidate(c.ID, c.Name)
	span.End()

	m.suggest = m.suggest.Close()
	if !ok {
		log.Warn(log.CatEngine, "accept with no active search", "id", c.ID)
		return m, nil
	}

	log.Debug(log.CatEngine, "tag applied", "id", c.ID, "name", c.Name)
	var cmd tea.Cmd
	m, cmd = m.drainSessionEvents()
	return m.layout(), cmd
}

// submit appends the composed message to the transcript and clears the
// composer for the next one.
func (m Model) submit() (tea.Model, tea.Cmd) {
	body := m.composer.Value()
	if strings.TrimSpace(body) == "" {
		return m, nil
	}

	_, span := m.tracer.Start(context.Background(), tracing.SpanFormatTags)
	canonical := m.composer.Canonical()
	tags := m.composer.Session().Tags()
	span.SetAttributes(
		attribute.Int(tracing.AttrTextLength, len(canonical)),
		attribute.Int(tracing.AttrTagCount, len(tags)),
	)
	span.End()

	m.transcript = m.transcript.Append(transcript.Message{
		Body:      body,
		Canonical: canonical,
		Tags:      tags,
		SentAt:    time.Now(),
	})
	m.composer.Reset()

	log.Info(log.CatUI, "message sent", "length", len(body), "tags", len(tags))
	var cmd tea.Cmd
	m, cmd = m.drainSessionEvents()
	return m.layout(), cmd
}

func (m Model) toggleFocus() Model {
	switch m.focus {
	case focusComposer:
		// Moving focus away abandons an in-flight search.
		if m.suggest.Visible() {
			m.composer.DismissSearch()
			m, _ = m.drainSessionEvents()
		}
		m.composer.Blur()
		m.transcript = m.transcript.Focus()
		m.focus = focusTranscript
	case focusTranscript:
		m.transcript = m.transcript.Blur()
		m.composer.Focus()
		m.focus = focusComposer
	}
	log.Debug(log.CatUI, "focus switched", "area", m.focus.String())
	return m
}

func (m Model) handleDirectoryChanged(event pubsub.Event[DirectoryEvent]) (tea.Model, tea.Cmd) {
	log.Info(log.CatWatcher, "candidate database changed", "path", event.Payload.Path)

	if m.dirCache != nil {
		m.dirCache.Invalidate(context.Background())
	}

	var cmds []tea.Cmd
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	// Re-run the active search so fresh rows replace cached ones.
	if m.suggest.Visible() && m.composer.Searching() {
		cmds = append(cmds, m.searchCmd(m.composer.Trigger(), m.composer.Query()))
	}

	m, notice := m.showNotice("Candidate directory reloaded", false)
	cmds = append(cmds, notice)
	return m, tea.Batch(cmds...)
}

// showNotice puts text on the status bar and schedules its removal.
func (m Model) showNotice(text string, isErr bool) (Model, tea.Cmd) {
	m.notice = text
	m.noticeIsErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return m, tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// layout pushes the current dimensions into the components. The composer
// sizes first because its wrapped height decides what the transcript gets.
func (m Model) layout() Model {
	if m.width <= 0 || m.height <= 0 {
		return m
	}

	innerW := m.width - 2
	if innerW < 1 {
		innerW = 1
	}
	m.composer.SetWidth(innerW)
	m.help.Width = m.width

	transcriptH := m.transcriptPaneHeight() - 2
	if transcriptH < 1 {
		transcriptH = 1
	}
	m.transcript = m.transcript.SetSize(innerW, transcriptH)
	return m
}

func (m Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.helpKeys))
}

func (m Model) statusHeight() int {
	if m.cfg.UI.ShowStatusBar {
		return 1
	}
	return 0
}

func (m Model) composerPaneHeight() int {
	return m.composer.Height() + 2
}

func (m Model) transcriptPaneHeight() int {
	h := m.height - m.composerPaneHeight() - m.statusHeight() - m.helpHeight()
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	transcriptPane := styles.RenderWithTitleBorder(
		m.transcript.View(), "Transcript",
		m.width, m.transcriptPaneHeight(),
		m.focus == focusTranscript,
		styles.OverlayTitleColor, styles.BorderFocusColor,
	)
	composerPane := styles.RenderWithTitleBorder(
		m.composer.View(), "Message",
		m.width, m.composerPaneHeight(),
		m.focus == focusComposer,
		styles.OverlayTitleColor, styles.ComposerBorderFocusColor,
	)

	sections := []string{transcriptPane, composerPane}
	if m.cfg.UI.ShowStatusBar {
		sections = append(sections, m.statusBarView())
	}
	sections = append(sections, m.help.View(m.helpKeys))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.suggest.Visible() {
		view = m.overlaySuggestions(view)
	}
	if m.logs.Visible() {
		view = m.logs.Overlay(view)
	}

	// Scan registers the click zones marked by the children.
	return zone.Scan(view)
}

// overlaySuggestions anchors the popup above the composer at the column of
// the trigger that opened the search, stacking over the transcript so the
// query line stays visible.
func (m Model) overlaySuggestions(bg string) string {
	popup := m.suggest.View()
	if popup == "" {
		return bg
	}

	col, ok := m.composer.TriggerColumn()
	if !ok {
		col = 0
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Anchor,
		// +1 skips the pane border so the popup lines up with the text.
		AnchorX: col + 1,
		AnchorY: m.transcriptPaneHeight() - lipgloss.Height(popup),
	}, popup, bg)
}

func (m Model) statusBarView() string {
	inner := m.width - 2
	if inner < 1 {
		inner = 1
	}

	left := m.notice
	leftStyled := left
	switch {
	case left != "" && m.noticeIsErr:
		leftStyled = lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render(left)
	case left == "" && m.composer.Searching():
		left = fmt.Sprintf("Searching %c%s", m.composer.Trigger(), m.composer.Query())
		leftStyled = left
	case left == "":
		if n := m.transcript.Len(); n == 1 {
			left = "1 message"
		} else {
			left = fmt.Sprintf("%d messages", n)
		}
		leftStyled = left
	}

	right := fmt.Sprintf("%d%%", int(m.transcript.ScrollPercent()*100))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		leftMax := inner - lipgloss.Width(right) - 1
		left = styles.TruncateString(left, leftMax)
		leftStyled = left
		gap = inner - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
	}

	return styles.StatusBarStyle.Render(leftStyled + strings.Repeat(" ", gap) + right)
}

// EngineConfig translates file configuration into the engine's Config.
// The format command shares it so headless sessions match the composer.
// Validation ran at startup, so a regexp that fails to compile here keeps
// the engine default.
func EngineConfig(cfg config.Config) tagging.Config {
	ec := tagging.DefaultConfig()
	if runes := cfg.TriggerRunes(); len(runes) > 0 {
		ec.Triggers = runes
	}
	if cfg.Search.Strategy == "deferred" {
		ec.Strategy = tagging.SearchDeferred
	}
	if cfg.Search.Charset != "" {
		if re, err := regexp.Compile(cfg.Search.Charset); err == nil {
			ec.Query = re
		}
	}
	if cfg.Search.Pattern != "" {
		if re, err := regexp.Compile(cfg.Search.Pattern); err == nil {
			ec.Pattern = re
		}
	}
	return ec
}

func buildPlaceholder(cfg config.Config) string {
	runes := cfg.TriggerRunes()
	parts := make([]string, 0, len(runes))
	for _, r := range runes {
		parts = append(parts, string(r))
	}
	if len(parts) == 0 {
		return "Type a message"
	}
	return fmt.Sprintf("Type a message, %s to tag", strings.Join(parts, " or "))
}

// triggerStyles maps configured trigger colors onto composer tag styles.
// Triggers without a color keep the defaults.
func triggerStyles(cfg config.Config) map[rune]lipgloss.Style {
	out := make(map[rune]lipgloss.Style)
	for _, t := range cfg.GetTriggers() {
		if t.Color == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(t.Rune)
		out[r] = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Bold(true)
	}
	return out
}

func triggerLabels(cfg config.Config) map[rune]string {
	out := make(map[rune]string)
	for _, t := range cfg.GetTriggers() {
		r, _ := utf8.DecodeRuneInString(t.Rune)
		out[r] = t.Label
	}
	return out
}
