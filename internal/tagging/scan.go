package tagging

import "unicode/utf8"

// lastRuneBefore decodes the rune ending at byte offset i and returns it
// with its start offset. Reports false at the beginning of text or when i
// does not sit on a rune boundary.
func lastRuneBefore(text string, i int) (rune, int, bool) {
	if i <= 0 || i > len(text) {
		return 0, 0, false
	}
	r, size := utf8.DecodeLastRuneInString(text[:i])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, false
	}
	return r, i - size, true
}

// triggerLeftOf scans left from the cursor across query runes looking for
// the nearest trigger. The scan stops without a result when it runs off the
// front of the text, hits a rune outside the query class, or lands on a
// trigger already covered by an applied tag. Covered triggers end the scan
// rather than being skipped: the run of query runes belongs to that tag's
// rendered text, not to a new search.
func (s *Session) triggerLeftOf(text string, cursor int) (start int, trigger rune, ok bool) {
	i := cursor
	for i > 0 {
		r, at, valid := lastRuneBefore(text, i)
		if !valid {
			return 0, 0, false
		}
		if s.cfg.isTrigger(r) {
			if _, covered := s.index.Enclosing(at); covered {
				return 0, 0, false
			}
			return at, r, true
		}
		if !s.cfg.isQueryRune(r) {
			return 0, 0, false
		}
		i = at
	}
	return 0, 0, false
}

// queryAt re-derives the active search from scratch: the nearest uncovered
// trigger left of the cursor plus everything between it and the cursor.
func (s *Session) queryAt(text string, cursor int) (query string, trigger rune, ok bool) {
	start, trig, ok := s.triggerLeftOf(text, cursor)
	if !ok {
		return "", 0, false
	}
	return text[start+utf8.RuneLen(trig) : cursor], trig, true
}
