package tagging

import "unicode/utf8"

// Range is a single applied tag occurrence: the half-open byte span
// [Start, End) in display text plus the literal rendered text at that span.
// End-Start always equals len(Text). Two occurrences of the same rendered
// text at different offsets are distinct values, which is what allows the
// same name to be tagged twice in one message.
//
// Range is immutable and comparable; it is used as a map key. Repositioning
// never mutates a Range in place, it inserts a shifted copy and drops the
// old value from every index.
type Range struct {
	Start int
	End   int
	Text  string
}

// Len returns the span length in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the byte offset lies inside the span.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Overlaps reports whether the half-open span [start, end) intersects this range.
func (r Range) Overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

// Trigger returns the leading trigger rune of the rendered text.
func (r Range) Trigger() rune {
	tr, _ := utf8.DecodeRuneInString(r.Text)
	return tr
}

// Name returns the rendered text with the leading trigger rune stripped.
func (r Range) Name() string {
	_, size := utf8.DecodeRuneInString(r.Text)
	return r.Text[size:]
}

// shifted returns a copy of the range moved by delta bytes.
func (r Range) shifted(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta, Text: r.Text}
}

// Tag is the read-only view of an applied tag handed to hosts: the external
// identifier, the display name (without the trigger rune), and the trigger
// that introduced it.
type Tag struct {
	ID      string
	Text    string
	Trigger rune
}
