package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func templateOf(values ...string) *Template {
	t := NewTemplate(len(values))
	for i, v := range values {
		t.Set(i, v)
	}
	return t
}

func TestNewQueryFoldsCase(t *testing.T) {
	q := NewQuery("AtCe", templateOf("C", "a", ""))
	assert.Equal(t, Query{Letters: "atce", Pattern: "ca."}, q)
}

func TestQueryValid(t *testing.T) {
	testCases := []struct {
		letters string
		pattern string
		valid   bool
	}{
		{"atce", "cat", true},
		{"cat", "cat", true},
		{"ca", "cat", false},
		{"", "...", false},
		{"ééé", "...", true},
	}
	for _, tc := range testCases {
		q := Query{Letters: tc.letters, Pattern: tc.pattern}
		assert.Equal(t, tc.valid, q.Valid(), q.String())
	}
}

func TestNormalizerSuppressesRepeats(t *testing.T) {
	var n Normalizer
	tmpl := templateOf("c", "a", "t")

	q, outcome := n.Normalize("ATCE", tmpl)
	assert.Equal(t, Ready, outcome)
	assert.Equal(t, Query{Letters: "atce", Pattern: "cat"}, q)

	_, outcome = n.Normalize("atce", tmpl)
	assert.Equal(t, Unchanged, outcome, "case-folded input is the same query")
}

func TestNormalizerRecordsInvalidQueries(t *testing.T) {
	var n Normalizer
	tmpl := templateOf("c", "a", "t")

	_, outcome := n.Normalize("ca", tmpl)
	assert.Equal(t, Invalid, outcome)
	assert.Equal(t, Query{Letters: "ca", Pattern: "cat"}, n.Previous())

	_, outcome = n.Normalize("ca", tmpl)
	assert.Equal(t, Unchanged, outcome, "an invalid query is not re-validated")

	_, outcome = n.Normalize("cat", tmpl)
	assert.Equal(t, Ready, outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
