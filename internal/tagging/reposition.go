package tagging

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/taglet/internal/log"
)

// reposition recomputes every occurrence after the settled text is replaced
// by newText, where the edit happened at byte offset pivot. Occurrences
// starting at or after the pivot shift by the length delta; occurrences
// before it keep their spans. Every recomputed span is then validated
// against newText and silently dropped when it no longer lines up, so a
// host that rewrites text underneath us degrades to lost tags instead of a
// panic.
func (s *Session) reposition(newText string, pivot int) {
	delta := len(newText) - len(s.lastText)
	next := make(map[Range]string, s.index.Len())
	for r, id := range s.index.ids {
		moved := r
		if r.Start >= pivot {
			moved = r.shifted(delta)
		}
		if !validSpan(newText, moved) {
			log.Debug(log.CatEngine, "dropping stale tag", "text", r.Text, "start", r.Start, "end", r.End)
			continue
		}
		next[moved] = id
	}
	s.index.replaceAll(next)
}

// dropOverlapping removes every occurrence intersecting the half-open span
// [start, end) in the settled text. Deleting into the interior of a tag
// always removes the whole tag.
func (s *Session) dropOverlapping(start, end int) {
	var victims []Range
	for r := range s.index.ids {
		if r.Overlaps(start, end) {
			victims = append(victims, r)
		}
	}
	for _, r := range victims {
		log.Debug(log.CatEngine, "deletion intruded into tag", "text", r.Text, "start", r.Start)
		delete(s.index.ids, r)
	}
	if len(victims) > 0 {
		s.index.rebuildTrie()
	}
}

// validSpan reports whether the occurrence still points at its own rendered
// text inside text.
func validSpan(text string, r Range) bool {
	if r.Start < 0 || r.End > len(text) || r.Len() != len(r.Text) {
		return false
	}
	return text[r.Start:r.End] == r.Text
}

// editSpan locates the region of old that an arbitrary external edit
// replaced, as the half-open byte span [pivot, oldEnd) in old. Everything
// before pivot and everything from oldEnd on survives verbatim in updated.
// For a pure insertion pivot == oldEnd.
func editSpan(old, updated string) (pivot, oldEnd int) {
	dmp := diffmatchpatch.New()
	prefixRunes := dmp.DiffCommonPrefix(old, updated)
	suffixRunes := dmp.DiffCommonSuffix(old, updated)
	pivot = runesToBytes(old, prefixRunes)
	suffix := trailingRunesToBytes(old, suffixRunes)
	// The prefix and suffix can overlap when both strings share a middle
	// run (e.g. "aa" -> "aaa"). The suffix yields to the prefix.
	if limit := len(old) - pivot; suffix > limit {
		suffix = limit
	}
	if limit := len(updated) - pivot; suffix > limit {
		suffix = limit
	}
	return pivot, len(old) - suffix
}

// runesToBytes converts a leading rune count into a byte offset in text.
func runesToBytes(text string, runes int) int {
	if runes <= 0 {
		return 0
	}
	seen := 0
	for i := range text {
		if seen == runes {
			return i
		}
		seen++
	}
	return len(text)
}

// trailingRunesToBytes converts a trailing rune count into a byte length.
func trailingRunesToBytes(text string, runes int) int {
	if runes <= 0 {
		return 0
	}
	seen := 0
	i := len(text)
	for i > 0 && seen < runes {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
		seen++
	}
	return len(text) - i
}
