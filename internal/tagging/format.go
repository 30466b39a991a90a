package tagging

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/taglet/internal/log"
)

// FormatOption overrides parsing knobs for a single FormatTags call.
type FormatOption func(*formatOptions)

type formatOptions struct {
	pattern *regexp.Regexp
	parse   Parser
}

// WithPattern overrides the canonical tag pattern for one call.
func WithPattern(pattern *regexp.Regexp) FormatOption {
	return func(o *formatOptions) {
		if pattern != nil {
			o.pattern = pattern
		}
	}
}

// WithParser overrides the canonical tag parser for one call.
func WithParser(parse Parser) FormatOption {
	return func(o *formatOptions) {
		if parse != nil {
			o.parse = parse
		}
	}
}

// Formatted renders the settled display text into canonical form. Applied
// tags are resolved by walking the trie anchored at their recorded offsets,
// so an occurrence only formats where it actually lives; every other byte
// passes through untouched, including text glued directly onto a tag.
func (s *Session) Formatted() string {
	return s.formatText(s.lastText)
}

func (s *Session) formatText(text string) string {
	if s.index.Len() == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if s.cfg.isTrigger(r) {
			if m, id, ok := s.index.LongestMatch(text[i:], i); ok {
				b.WriteString(s.cfg.Format(id, m.Name(), m.Trigger()))
				i += m.Len()
				continue
			}
		}
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

// Tags returns the applied tags in display order.
func (s *Session) Tags() []Tag {
	ranges := s.index.Ranges()
	out := make([]Tag, 0, len(ranges))
	for _, r := range ranges {
		id, _ := s.index.ID(r)
		out = append(out, Tag{ID: id, Text: r.Name(), Trigger: r.Trigger()})
	}
	return out
}

// Spans returns the applied tag occurrences in display order. Hosts use the
// spans to style tagged regions.
func (s *Session) Spans() []Range {
	return s.index.Ranges()
}

// CursorPosition maps the settled display cursor into the canonical string
// produced by Formatted. A cursor sitting inside a tag maps to the end of
// that tag's canonical form.
func (s *Session) CursorPosition() int {
	cursor := s.lastCursor
	pos := cursor
	for _, r := range s.index.Ranges() {
		id, _ := s.index.ID(r)
		canonical := len(s.cfg.Format(id, r.Name(), r.Trigger()))
		if r.End <= cursor {
			pos += canonical - r.Len()
			continue
		}
		if r.Contains(cursor) {
			pos += canonical - (cursor - r.Start)
		}
		break
	}
	return pos
}

// FormatTags replaces the session contents from a canonical string: the
// inverse of Formatted, used to edit a previously saved message. Existing
// tags are cleared, every pattern match is parsed and re-registered at its
// display offset, and the rendered display text is pushed to the surface
// with the cursor at the end. A match the parser rejects stays in the text
// as a literal and registers nothing.
func (s *Session) FormatTags(canonical string, opts ...FormatOption) {
	o := formatOptions{pattern: s.cfg.Pattern, parse: s.cfg.Parse}
	for _, opt := range opts {
		opt(&o)
	}

	s.index.Clear()
	s.touched = nil

	var b strings.Builder
	b.Grow(len(canonical))
	prev := 0
	for _, loc := range o.pattern.FindAllStringIndex(canonical, -1) {
		b.WriteString(canonical[prev:loc[0]])
		prev = loc[1]
		match := canonical[loc[0]:loc[1]]
		id, name, err := o.parse(match)
		if err != nil {
			log.Debug(log.CatFormat, "skipping malformed tag", "match", match, "error", err)
			b.WriteString(match)
			continue
		}
		trigger, _ := utf8.DecodeRuneInString(match)
		rendered := string(trigger) + name
		start := b.Len()
		b.WriteString(rendered)
		s.index.Put(Range{Start: start, End: start + len(rendered), Text: rendered}, id)
	}
	b.WriteString(canonical[prev:])

	display := b.String()
	if s.searching {
		s.exitSearch(true)
	}
	s.pushText(display, len(display))
}
