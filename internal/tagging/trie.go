package tagging

// Trie indexes applied tags by the bytes of their rendered text. Each
// terminal node carries the set of occurrences sharing that literal text,
// so lookups can be filtered by expected start offset and never match a
// different occurrence that merely renders the same.
//
// The trie has no delete primitive. Removal is Clear followed by
// re-inserting the survivors, which keeps the structure trivially
// consistent after repositioning.
type Trie struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	// ranges holds the occurrences whose rendered text ends at this node.
	// Empty on interior nodes.
	ranges []Range
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Insert records one occurrence under the bytes of its rendered text.
// Inserting the same Range twice is a no-op.
func (t *Trie) Insert(r Range) {
	if r.Text == "" {
		return
	}
	node := t.root
	for i := 0; i < len(r.Text); i++ {
		b := r.Text[i]
		child, ok := node.children[b]
		if !ok {
			child = newTrieNode()
			node.children[b] = child
		}
		node = child
	}
	for _, existing := range node.ranges {
		if existing == r {
			return
		}
	}
	node.ranges = append(node.ranges, r)
}

// InsertAll records every given occurrence.
func (t *Trie) InsertAll(ranges []Range) {
	for _, r := range ranges {
		t.Insert(r)
	}
}

// Clear discards all occurrences.
func (t *Trie) Clear() {
	t.root = newTrieNode()
}

// Search walks the trie along word and returns the occurrence that both
// renders as word and starts at expectedStart. The offset filter is what
// rules out false positives when the same text is tagged at several places.
func (t *Trie) Search(word string, expectedStart int) (Range, bool) {
	node := t.lookup(word)
	if node == nil {
		return Range{}, false
	}
	for _, r := range node.ranges {
		if r.Start == expectedStart {
			return r, true
		}
	}
	return Range{}, false
}

// Contains reports whether any occurrence renders exactly as word.
func (t *Trie) Contains(word string) bool {
	node := t.lookup(word)
	return node != nil && len(node.ranges) > 0
}

// LongestMatch walks the trie along text and returns the deepest occurrence
// whose rendered text prefixes text and whose recorded start equals at. This
// anchors formatting scans: adjacent tags resolve one at a time and a tag
// that happens to prefix another never shadows the occurrence that actually
// lives at the offset.
func (t *Trie) LongestMatch(text string, at int) (Range, bool) {
	var (
		best  Range
		found bool
	)
	node := t.root
	for i := 0; i < len(text); i++ {
		child, ok := node.children[text[i]]
		if !ok {
			break
		}
		node = child
		for _, r := range node.ranges {
			if r.Start == at {
				best = r
				found = true
				break
			}
		}
	}
	return best, found
}

// Len returns the number of stored occurrences.
func (t *Trie) Len() int {
	return countRanges(t.root)
}

func countRanges(n *trieNode) int {
	total := len(n.ranges)
	for _, child := range n.children {
		total += countRanges(child)
	}
	return total
}

func (t *Trie) lookup(word string) *trieNode {
	if word == "" {
		return nil
	}
	node := t.root
	for i := 0; i < len(word); i++ {
		child, ok := node.children[word[i]]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}
