package tagging

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Formatter renders one applied tag into its canonical form. The default
// produces trigger+id+"#"+name+"#", e.g. "@11a#brad#".
type Formatter func(id, name string, trigger rune) string

// Parser is the inverse of Formatter: it splits one canonical match back
// into identifier and display name. The trigger rune is recovered from the
// match itself.
type Parser func(match string) (id, name string, err error)

// SearchStrategy controls when a freshly typed trigger announces a search.
type SearchStrategy int

const (
	// SearchEager announces the search as soon as the trigger is typed,
	// with an empty query.
	SearchEager SearchStrategy = iota
	// SearchDeferred stays quiet until the first query rune follows the
	// trigger.
	SearchDeferred
)

// Config carries the tuning knobs for a tagging session. The zero value is
// usable: every field falls back to the mention/hashtag defaults.
type Config struct {
	// Triggers are the runes that open a search, e.g. '@' and '#'.
	Triggers []rune

	// Query matches a single rune that may appear in a search query.
	// Anything outside this class breaks an active search.
	Query *regexp.Regexp

	// Pattern locates canonical tags inside formatted text.
	Pattern *regexp.Regexp

	// Format renders an applied tag into canonical form.
	Format Formatter

	// Parse splits a canonical match into identifier and name.
	Parse Parser

	// Strategy selects eager or deferred search announcement.
	Strategy SearchStrategy
}

// DefaultConfig returns the mention/hashtag configuration: '@' and '#'
// triggers, letter-or-hyphen queries, and the trigger+id+"#"+name+"#"
// canonical format.
func DefaultConfig() Config {
	return Config{
		Triggers: []rune{'@', '#'},
		Query:    defaultQuery,
		Pattern:  defaultPattern,
		Format:   DefaultFormatter,
		Parse:    DefaultParser,
		Strategy: SearchEager,
	}
}

var (
	defaultQuery   = regexp.MustCompile(`[a-zA-Z-]`)
	defaultPattern = regexp.MustCompile(`[@#][\w-]+#.+?#`)
)

// DefaultFormatter renders trigger+id+"#"+name+"#".
func DefaultFormatter(id, name string, trigger rune) string {
	return fmt.Sprintf("%c%s#%s#", trigger, id, name)
}

// DefaultParser understands both canonical shapes the default formatter
// emits. Splitting on '#' yields three fields for a mention ("@id#name#")
// and four for a hashtag ("#id#name#", where the trigger contributes the
// leading empty field).
func DefaultParser(match string) (id, name string, err error) {
	parts := strings.Split(match, "#")
	switch len(parts) {
	case 3:
		_, size := utf8.DecodeRuneInString(parts[0])
		id, name = parts[0][size:], parts[1]
	case 4:
		id, name = parts[1], parts[2]
	default:
		return "", "", fmt.Errorf("malformed tag %q: %d fields", match, len(parts))
	}
	if id == "" || name == "" {
		return "", "", fmt.Errorf("malformed tag %q: empty id or name", match)
	}
	return id, name, nil
}

func (c Config) withDefaults() Config {
	if len(c.Triggers) == 0 {
		c.Triggers = []rune{'@', '#'}
	}
	if c.Query == nil {
		c.Query = defaultQuery
	}
	if c.Pattern == nil {
		c.Pattern = defaultPattern
	}
	if c.Format == nil {
		c.Format = DefaultFormatter
	}
	if c.Parse == nil {
		c.Parse = DefaultParser
	}
	return c
}

func (c Config) isTrigger(r rune) bool {
	for _, t := range c.Triggers {
		if r == t {
			return true
		}
	}
	return false
}

func (c Config) isQueryRune(r rune) bool {
	return c.Query.MatchString(string(r))
}
