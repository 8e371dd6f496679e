package widget

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query is the canonical (letters, pattern) pair sent to the search service.
type Query struct {
	Letters string
	Pattern string
}

// NewQuery folds raw letter bank text and the template into a Query.
func NewQuery(letters string, t *Template) Query {
	return Query{
		Letters: strings.Map(unicode.ToLower, letters),
		Pattern: t.Pattern(),
	}
}

// Valid reports whether there are at least as many letters as pattern positions.
func (q Query) Valid() bool {
	return utf8.RuneCountInString(q.Letters) >= utf8.RuneCountInString(q.Pattern)
}

func (q Query) String() string {
	return fmt.Sprintf("letters=%q template=%q", q.Letters, q.Pattern)
}

// Outcome is the result of normalizing the current input.
type Outcome int

const (
	// Unchanged means the query equals the previous one; nothing further happens.
	Unchanged Outcome = iota
	// Invalid means the query changed but has fewer letters than pattern positions.
	Invalid
	// Ready means the query changed and should be sent.
	Ready
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Invalid:
		return "invalid"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Normalizer derives canonical queries and suppresses repeats.
// The zero value starts with an empty previous query.
type Normalizer struct {
	prev Query
}

// Normalize builds the query for the current input and classifies it.
// The previous query is replaced whenever the new one differs, valid or not,
// so a repeated invalid query is not re-validated on every keystroke.
func (n *Normalizer) Normalize(letters string, t *Template) (Query, Outcome) {
	q := NewQuery(letters, t)
	if q == n.prev {
		return q, Unchanged
	}
	n.prev = q
	if !q.Valid() {
		return q, Invalid
	}
	return q, Ready
}

// Previous returns the last query that passed through Normalize as changed.
func (n *Normalizer) Previous() Query {
	return n.prev
}
