// Package directory resolves tag candidates: the people and topics a
// trigger search can complete to. Providers answer (trigger, query) pairs
// with ranked candidates; the app composes the SQLite store, the read
// through cache, and the in-memory seed data behind one interface.
package directory

import (
	"context"
	"errors"
	"fmt"
)

// Candidate is one possible completion for an active search.
type Candidate struct {
	// ID is the stable identifier woven into the canonical form.
	ID string
	// Name is the text rendered after the trigger when the tag is applied.
	Name string
	// Detail is optional secondary text shown in pickers.
	Detail string
}

// Provider answers candidate searches for a trigger.
type Provider interface {
	// Search returns candidates matching query, best first. An empty
	// query returns the provider's default listing.
	Search(ctx context.Context, trigger rune, query string) ([]Candidate, error)
	// Lookup resolves a single candidate by identifier.
	Lookup(ctx context.Context, trigger rune, id string) (Candidate, error)
}

// NotFoundError reports a lookup that matched nothing.
type NotFoundError struct {
	Trigger rune
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no candidate %q for trigger %q", e.ID, e.Trigger)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
