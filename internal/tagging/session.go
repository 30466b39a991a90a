// Package tagging tracks inline tags applied to a plain-text editing
// surface. A Session observes every (text, cursor) pair the surface
// produces, infers what edit happened by diffing lengths, keeps the byte
// spans of applied tags correct across insertions and deletions, and
// drives trigger-based search: typing '@' or '#' opens a search whose
// query grows and shrinks with the text until a tag is applied or the
// search breaks. Display text and its canonical form (trigger, id, and
// name woven into a parseable string) convert losslessly in both
// directions.
package tagging

import (
	"github.com/zjrosen/taglet/internal/log"
)

// Surface is the text widget a session drives. SetText and Select are the
// engine's only write paths into the widget; the widget reports every edit
// back through Session.Observe. A surface must echo SetText with one
// Observe call, which the session swallows via its deferral flag.
type Surface interface {
	// Text returns the current widget text.
	Text() string
	// Selection returns the current selection as a half-open byte span.
	// An empty selection has start == end == cursor.
	Selection() (start, end int)
	// SetText replaces the widget text and places the cursor.
	SetText(text string, cursor int)
	// Select highlights the half-open byte span.
	Select(start, end int)
}

// Listener receives session callbacks. All methods are invoked
// synchronously from the goroutine calling into the session.
type Listener interface {
	// SearchRequested fires whenever the active query changes, including
	// the empty query right after an eager trigger.
	SearchRequested(query string, trigger rune)
	// SearchDismissed fires when an active search ends without a tag.
	SearchDismissed()
	// FormattedChanged fires with the canonical form whenever it differs
	// from the previously emitted one.
	FormattedChanged(formatted string)
}

// Session is the tag-tracking state machine. It is not safe for concurrent
// use; drive it from the surface's event loop.
type Session struct {
	surface  Surface
	listener Listener
	cfg      Config
	index    *Index

	// Settled snapshot of the surface, updated at the end of every
	// observation.
	lastText   string
	lastCursor int

	searching    bool
	trigger      rune
	query        string
	backtracking bool

	// touched marks a tag in its grace period: the first deletion into it
	// rolled the text back and selected the span, the next deletion
	// removes it for real.
	touched *Range

	deferNext     bool
	lastFormatted string
}

// NewSession builds a session around a surface and listener. Either may be
// nil: a nil surface makes rollback and seeding silent (useful headless),
// a nil listener drops callbacks.
func NewSession(surface Surface, listener Listener, cfg Config) *Session {
	return &Session{
		surface:  surface,
		listener: listener,
		cfg:      cfg.withDefaults(),
		index:    NewIndex(),
	}
}

// Observe consumes one (text, cursor) report from the surface. Text equal
// to the settled snapshot is a cursor move, longer text an insertion,
// shorter text a deletion; same-length replacement is handled as a
// deletion with a zero net delta.
func (s *Session) Observe(text string, cursor int) {
	if cursor < 0 {
		cursor = 0
	} else if cursor > len(text) {
		cursor = len(text)
	}
	if s.deferNext {
		s.deferNext = false
		s.settle(text, cursor)
		return
	}
	switch {
	case text == s.lastText:
		s.observeCursor(text, cursor)
	case len(text) > len(s.lastText):
		s.observeGrowth(text, cursor)
	default:
		s.observeShrink(text, cursor)
	}
}

// Defer makes the session swallow the next Observe call, recording its
// text and cursor without running edit analysis. Surfaces echo programmatic
// SetText calls back through Observe; the deferral keeps that echo from
// being treated as a user edit.
func (s *Session) Defer() {
	s.deferNext = true
}

// AddTag applies the active search's candidate: the span from the trigger
// through the cursor is replaced by trigger+name, the occurrence is
// registered under id, and the search ends. Reports false when no search
// is active or the splice point cannot be found.
func (s *Session) AddTag(id, name string) bool {
	if !s.searching || id == "" || name == "" {
		return false
	}
	text, cursor := s.lastText, s.lastCursor
	trigStart, trig, ok := s.triggerLeftOf(text, cursor)
	if !ok {
		return false
	}

	// A tag glued onto the previous word gets a separating space.
	lead := ""
	if prev, _, valid := lastRuneBefore(text, trigStart); valid && !isSpaceRune(prev) {
		lead = " "
	}

	rendered := string(trig) + name
	start := trigStart + len(lead)
	end := start + len(rendered)
	newText := text[:trigStart] + lead + rendered + text[cursor:]
	newCursor := end
	if end == len(newText) {
		newText += " "
		newCursor = end + 1
	}

	s.reposition(newText, trigStart)
	s.index.Put(Range{Start: start, End: end, Text: rendered}, id)
	log.Debug(log.CatEngine, "tag applied", "id", id, "text", rendered, "start", start)
	s.exitSearch(true)
	s.pushText(newText, newCursor)
	return true
}

// Clear resets the session to empty: no text, no tags, no search. Calling
// it on an already empty session changes nothing.
func (s *Session) Clear() {
	if s.lastText == "" && s.index.Len() == 0 && !s.searching && s.touched == nil {
		return
	}
	s.exitSearch(true)
	s.touched = nil
	s.index.Clear()
	s.pushText("", 0)
}

// DismissSearch ends the active search, if any.
func (s *Session) DismissSearch() {
	s.exitSearch(true)
}

// ApplyExternalEdit records a programmatic text replacement the session
// did not initiate, locating the edited region by diffing the old and new
// text. Unlike Observe it never enters the tag-touch grace period; tags
// the edit intruded into are dropped outright. The surface is assumed to
// already show the new text, so nothing is pushed back.
func (s *Session) ApplyExternalEdit(text string, cursor int) {
	if cursor < 0 {
		cursor = 0
	} else if cursor > len(text) {
		cursor = len(text)
	}
	s.touched = nil
	if text != s.lastText {
		pivot, oldEnd := editSpan(s.lastText, text)
		s.dropOverlapping(pivot, oldEnd)
		s.reposition(text, pivot)
	}
	if s.searching {
		s.refreshSearch(text, cursor)
	}
	s.settle(text, cursor)
}

// Text returns the settled display text.
func (s *Session) Text() string {
	return s.lastText
}

// Cursor returns the settled cursor offset.
func (s *Session) Cursor() int {
	return s.lastCursor
}

// Searching reports whether a search is active.
func (s *Session) Searching() bool {
	return s.searching
}

// Query returns the active search query.
func (s *Session) Query() string {
	return s.query
}

// Trigger returns the rune that opened the active search, or 0.
func (s *Session) Trigger() rune {
	return s.trigger
}

// Backtracking reports whether the active search was re-derived after a
// deletion rather than entered by typing a trigger. Cleared when the
// search ends.
func (s *Session) Backtracking() bool {
	return s.backtracking
}

// TouchedTag returns the tag currently in its deletion grace period.
func (s *Session) TouchedTag() (Range, bool) {
	if s.touched == nil {
		return Range{}, false
	}
	return *s.touched, true
}

// observeCursor handles reports where only the cursor moved.
func (s *Session) observeCursor(text string, cursor int) {
	s.touched = nil
	if r, at, ok := lastRuneBefore(text, cursor); ok && s.cfg.isTrigger(r) {
		if _, covered := s.index.Enclosing(at); !covered {
			s.startSearch(r, "", false)
			s.settle(text, cursor)
			return
		}
	}
	if s.searching {
		s.refreshSearch(text, cursor)
	}
	s.settle(text, cursor)
}

// observeGrowth handles insertions. The inserted span is assumed to end at
// the new cursor; when the surviving prefix disagrees the span is
// re-derived by diffing.
func (s *Session) observeGrowth(text string, cursor int) {
	s.touched = nil
	delta := len(text) - len(s.lastText)
	if cursor < len(text) {
		pivot := cursor - delta
		if pivot < 0 || pivot > len(s.lastText) || s.lastText[:pivot] != text[:pivot] {
			pivot, _ = editSpan(s.lastText, text)
		}
		s.reposition(text, pivot)
	}

	if r, at, ok := lastRuneBefore(text, cursor); ok && s.cfg.isTrigger(r) {
		if _, covered := s.index.Enclosing(at); !covered {
			s.startSearch(r, "", false)
			s.settle(text, cursor)
			return
		}
	}
	if s.searching {
		s.refreshSearch(text, cursor)
	}
	s.settle(text, cursor)
}

// observeShrink handles deletions and same-length replacements.
func (s *Session) observeShrink(text string, cursor int) {
	oldLen := len(s.lastText)
	delta := oldLen - len(text)
	delStart, delEnd := cursor, cursor+delta
	if delEnd > oldLen || s.lastText[:delStart] != text[:delStart] || s.lastText[delEnd:] != text[delStart:] {
		delStart, delEnd = editSpan(s.lastText, text)
	}

	if s.touched != nil {
		victim := *s.touched
		s.touched = nil
		s.index.Remove(victim)
		log.Debug(log.CatEngine, "tag removed", "text", victim.Text, "start", victim.Start)
		s.reposition(text, delStart)
		s.exitSearch(true)
		s.settle(text, cursor)
		return
	}

	// Deleting backward into a tag's tail does not remove it yet: restore
	// the settled text, select the tag, and wait for a second deletion.
	if r, ok := s.index.EndingAt(s.lastCursor); ok && delStart < r.End {
		s.touchTag(r)
		return
	}

	s.dropOverlapping(delStart, delEnd)
	s.reposition(text, delStart)

	if q, trig, ok := s.queryAt(text, cursor); ok {
		if !s.searching {
			log.Debug(log.CatEngine, "backtracked into search", "query", q)
			s.startSearch(trig, q, true)
		} else {
			s.updateSearch(trig, q)
		}
	} else {
		s.exitSearch(true)
	}
	s.settle(text, cursor)
}

// touchTag enters the deletion grace period for r: text is rolled back,
// the tag is selected, and the rollback's echo is deferred.
func (s *Session) touchTag(r Range) {
	s.touched = &r
	log.Debug(log.CatEngine, "tag touched", "text", r.Text, "start", r.Start)
	if s.surface != nil {
		s.deferNext = true
		s.surface.SetText(s.lastText, r.End)
		s.surface.Select(r.Start, r.End)
	}
	s.lastCursor = r.End
}

// refreshSearch re-derives the active query at the cursor, updating it
// when still inside a query run and dismissing otherwise.
func (s *Session) refreshSearch(text string, cursor int) {
	if q, trig, ok := s.queryAt(text, cursor); ok {
		s.updateSearch(trig, q)
		return
	}
	s.exitSearch(true)
}

func (s *Session) startSearch(trigger rune, query string, backtracked bool) {
	s.searching = true
	s.trigger = trigger
	s.query = query
	s.backtracking = backtracked
	log.Debug(log.CatEngine, "search started", "trigger", string(trigger), "query", query)
	s.notifySearch()
}

// updateSearch records a changed query without resetting how the search
// was entered. Identical queries are not re-announced.
func (s *Session) updateSearch(trigger rune, query string) {
	if s.trigger == trigger && s.query == query {
		return
	}
	s.trigger = trigger
	s.query = query
	s.notifySearch()
}

func (s *Session) notifySearch() {
	if s.listener == nil {
		return
	}
	if s.query == "" && s.cfg.Strategy == SearchDeferred {
		return
	}
	s.listener.SearchRequested(s.query, s.trigger)
}

func (s *Session) exitSearch(announce bool) {
	wasSearching := s.searching
	s.searching = false
	s.backtracking = false
	s.trigger = 0
	s.query = ""
	if announce && wasSearching {
		log.Debug(log.CatEngine, "search dismissed")
		if s.listener != nil {
			s.listener.SearchDismissed()
		}
	}
}

// pushText writes text to the surface with its echo deferred, then settles.
func (s *Session) pushText(text string, cursor int) {
	if s.surface != nil {
		s.deferNext = true
		s.surface.SetText(text, cursor)
	}
	s.settle(text, cursor)
}

// settle records the snapshot and emits the canonical form if it changed.
func (s *Session) settle(text string, cursor int) {
	s.lastText = text
	s.lastCursor = cursor
	s.emitFormatted()
}

func (s *Session) emitFormatted() {
	f := s.Formatted()
	if f == s.lastFormatted {
		return
	}
	s.lastFormatted = f
	if s.listener != nil {
		s.listener.FormattedChanged(f)
	}
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
