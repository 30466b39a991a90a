package composer

// Cursor motion works in grapheme clusters, not runes: a combining
// sequence or a ZWJ emoji moves and deletes as one unit. The buffer
// stays byte addressed; these helpers translate cluster steps into
// byte offsets. Display width is measured in terminal cells, where
// emoji and CJK occupy two.

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// nextClusterEnd returns the byte offset just past the grapheme cluster
// starting at pos, or len(s) when pos is at or past the end.
func nextClusterEnd(s string, pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s) {
		return len(s)
	}
	cluster, _, _, _ := uniseg.StepString(s[pos:], -1)
	return pos + len(cluster)
}

// prevClusterStart returns the byte offset of the grapheme cluster
// ending at pos. Cluster boundaries only resolve forward, so this walks
// from the start of the string tracking the last boundary seen.
func prevClusterStart(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(s) {
		pos = len(s)
	}
	start := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		_, rest, _, state = uniseg.StepString(rest, state)
		end := len(s) - len(rest)
		if end >= pos {
			return start
		}
		start = end
	}
	return start
}

// clusterAt returns the grapheme cluster starting at byte offset pos,
// or "" when pos is out of range.
func clusterAt(s string, pos int) string {
	if pos < 0 || pos >= len(s) {
		return ""
	}
	cluster, _, _, _ := uniseg.StepString(s[pos:], -1)
	return cluster
}

// displayWidth returns the width of s in terminal cells.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
