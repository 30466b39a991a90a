package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates candidate rows and inserts them in one pass.
type Builder struct {
	t          *testing.T
	db         *sql.DB
	candidates []candidateData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithCandidate adds a candidate with optional configuration.
func (b *Builder) WithCandidate(trigger rune, id string, opts ...CandidateOption) *Builder {
	candidate := defaultCandidate(trigger, id)
	for _, opt := range opts {
		opt(&candidate)
	}
	b.candidates = append(b.candidates, candidate)
	return b
}

// WithUser adds a candidate under the '@' trigger.
func (b *Builder) WithUser(id string, opts ...CandidateOption) *Builder {
	return b.WithCandidate('@', id, opts...)
}

// WithTopic adds a candidate under the '#' trigger.
func (b *Builder) WithTopic(id string, opts ...CandidateOption) *Builder {
	return b.WithCandidate('#', id, opts...)
}

// Build inserts all accumulated data into the database.
func (b *Builder) Build() {
	b.t.Helper()
	for _, c := range b.candidates {
		b.insertCandidate(c)
	}
}

func (b *Builder) insertCandidate(c candidateData) {
	b.t.Helper()
	_, err := b.db.Exec(
		`INSERT INTO candidates (trigger, id, name, detail) VALUES (?, ?, ?, ?)`,
		c.trigger, c.id, c.name, c.detail,
	)
	require.NoError(b.t, err)
}
