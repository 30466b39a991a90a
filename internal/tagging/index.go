package tagging

import "sort"

// Index pairs the position trie with the range-to-identifier table. The two
// structures always hold exactly the same set of ranges: every mutation goes
// through Index so neither side can drift.
type Index struct {
	trie *Trie
	ids  map[Range]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		trie: NewTrie(),
		ids:  make(map[Range]string),
	}
}

// Put records an occurrence and its external identifier.
func (ix *Index) Put(r Range, id string) {
	if r.Text == "" || r.Len() != len(r.Text) {
		return
	}
	if _, exists := ix.ids[r]; exists {
		ix.ids[r] = id
		return
	}
	ix.ids[r] = id
	ix.trie.Insert(r)
}

// Remove drops one occurrence. The trie has no delete primitive, so the
// whole trie is rebuilt from the survivors.
func (ix *Index) Remove(r Range) {
	if _, ok := ix.ids[r]; !ok {
		return
	}
	delete(ix.ids, r)
	ix.rebuildTrie()
}

// Clear drops every occurrence from both structures.
func (ix *Index) Clear() {
	ix.trie.Clear()
	ix.ids = make(map[Range]string)
}

// Len returns the number of applied tags.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// ID returns the external identifier recorded for the occurrence.
func (ix *Index) ID(r Range) (string, bool) {
	id, ok := ix.ids[r]
	return id, ok
}

// Search resolves the occurrence rendering as word at expectedStart.
func (ix *Index) Search(word string, expectedStart int) (Range, bool) {
	return ix.trie.Search(word, expectedStart)
}

// LongestMatch resolves the longest occurrence anchored at byte offset at
// that prefixes text, along with its identifier.
func (ix *Index) LongestMatch(text string, at int) (Range, string, bool) {
	r, ok := ix.trie.LongestMatch(text, at)
	if !ok {
		return Range{}, "", false
	}
	return r, ix.ids[r], true
}

// Ranges returns every occurrence ordered by start offset.
func (ix *Index) Ranges() []Range {
	out := make([]Range, 0, len(ix.ids))
	for r := range ix.ids {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// StartsAt returns the occurrence whose span begins at pos.
func (ix *Index) StartsAt(pos int) (Range, bool) {
	for r := range ix.ids {
		if r.Start == pos {
			return r, true
		}
	}
	return Range{}, false
}

// Enclosing returns the occurrence whose span contains pos.
func (ix *Index) Enclosing(pos int) (Range, bool) {
	for r := range ix.ids {
		if r.Contains(pos) {
			return r, true
		}
	}
	return Range{}, false
}

// EndingAt returns the occurrence whose span ends exactly at pos.
func (ix *Index) EndingAt(pos int) (Range, bool) {
	for r := range ix.ids {
		if r.End == pos {
			return r, true
		}
	}
	return Range{}, false
}

// replaceAll swaps in a recomputed occurrence set, rebuilding the trie to
// match. Used by repositioning, which recomputes every span at once.
func (ix *Index) replaceAll(ids map[Range]string) {
	ix.ids = ids
	ix.rebuildTrie()
}

func (ix *Index) rebuildTrie() {
	ix.trie.Clear()
	ranges := make([]Range, 0, len(ix.ids))
	for r := range ix.ids {
		ranges = append(ranges, r)
	}
	ix.trie.InsertAll(ranges)
}
