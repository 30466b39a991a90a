package directory

import (
	"context"
	"sort"
	"strings"
)

// Memory is an in-memory provider backed by per-trigger candidate lists.
// Used by the demo seed data and as a fixture in tests.
type Memory struct {
	byTrigger map[rune][]Candidate
}

// NewMemory returns an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{byTrigger: make(map[rune][]Candidate)}
}

// Add registers a candidate under a trigger.
func (m *Memory) Add(trigger rune, c Candidate) {
	m.byTrigger[trigger] = append(m.byTrigger[trigger], c)
}

// Search filters the trigger's candidates by query. Name prefix matches
// rank before substring matches; within each group the order is
// alphabetical.
func (m *Memory) Search(ctx context.Context, trigger rune, query string) ([]Candidate, error) {
	all := m.byTrigger[trigger]
	if query == "" {
		out := make([]Candidate, len(all))
		copy(out, all)
		sortCandidates(out)
		return out, nil
	}

	q := strings.ToLower(query)
	var prefix, contains []Candidate
	for _, c := range all {
		name := strings.ToLower(c.Name)
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, c)
		case strings.Contains(name, q) || strings.Contains(strings.ToLower(c.Detail), q):
			contains = append(contains, c)
		}
	}
	sortCandidates(prefix)
	sortCandidates(contains)
	return append(prefix, contains...), nil
}

// Lookup resolves a candidate by identifier.
func (m *Memory) Lookup(ctx context.Context, trigger rune, id string) (Candidate, error) {
	for _, c := range m.byTrigger[trigger] {
		if c.ID == id {
			return c, nil
		}
	}
	return Candidate{}, &NotFoundError{Trigger: trigger, ID: id}
}

func sortCandidates(cs []Candidate) {
	sort.Slice(cs, func(i, j int) bool {
		return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
	})
}
