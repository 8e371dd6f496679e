package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

type recordingSearcher struct {
	queries []widget.Query
}

func (s *recordingSearcher) Search(_ context.Context, q widget.Query) ([]string, error) {
	s.queries = append(s.queries, q)
	return []string{"cat", "act", "tac"}, nil
}

func run(t *testing.T, input string, limit int) (string, *recordingSearcher) {
	t.Helper()
	s := &recordingSearcher{}
	var out bytes.Buffer
	h := NewInputHandler(s, strings.NewReader(input), &out, widget.DefaultSlots, limit)
	require.NoError(t, h.Start(context.Background()))
	return out.String(), s
}

func TestLettersAndTemplate(t *testing.T) {
	out, s := run(t, "tca c..\n", 0)

	require.NotEmpty(t, s.queries)
	last := s.queries[len(s.queries)-1]
	assert.Equal(t, widget.Query{Letters: "tca", Pattern: "c.."}, last)
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "3 words from 'tca' fit |c..|")
}

func TestLimitHidesExtraResults(t *testing.T) {
	out, _ := run(t, "tca ...\n", 2)
	assert.Contains(t, out, "  2. ")
	assert.NotContains(t, out, "  3. ")
	assert.Contains(t, out, "... and 1 more")
}

func TestInvalidQuery(t *testing.T) {
	out, s := run(t, "ab c..\n", 0)
	assert.Empty(t, s.queries)
	assert.Contains(t, out, "need at least 3 letters")
}

func TestSlotCommands(t *testing.T) {
	out, s := run(t, "tcak ...\n+\n-\nclear\nquit\ntca ...\n", 0)

	// "+" makes four blank slots for four letters; "-" goes back to three.
	require.Len(t, s.queries, 3)
	assert.Equal(t, "....", s.queries[1].Pattern)
	assert.Equal(t, "...", s.queries[2].Pattern)
	assert.Contains(t, out, "cleared")
	assert.NotContains(t, out, "from 'tca'", "input after quit is ignored")
}

func TestBadTemplateLength(t *testing.T) {
	_, s := run(t, "abcdefghij ........\n", 0)
	assert.Empty(t, s.queries)
}

func TestRepeatAfterClear(t *testing.T) {
	out, s := run(t, "tcak\nclear\ntcak\n", 0)

	require.Len(t, s.queries, 2)
	assert.Equal(t, s.queries[0], s.queries[1])
	assert.Equal(t, 2, strings.Count(out, "3 words from 'tcak' fit |....|"))
}
