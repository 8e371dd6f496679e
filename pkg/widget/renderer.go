package widget

import "context"

// Renderer is the display side of the widget. The coordinator pushes every
// visible change through it; a Renderer must not call back into the coordinator.
type Renderer interface {
	// ClearResults empties the results region.
	ClearResults()
	// AppendResult adds one result item after the ones already shown.
	AppendResult(item string)
	// SetInvalid toggles the indicator on the letters field.
	SetInvalid(invalid bool)
	// SetPatternLength shows the current slot count.
	SetPatternLength(n int)
	// SetSlots writes the slot cells back after the template changed shape or was cleared.
	SetSlots(values []string)
	// SetLetters writes the letter bank back after a reset.
	SetLetters(letters string)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) ClearResults() {}
func (NopRenderer) AppendResult(string) {}
func (NopRenderer) SetInvalid(bool) {}
func (NopRenderer) SetPatternLength(int) {}
func (NopRenderer) SetSlots([]string) {}
func (NopRenderer) SetLetters(string) {}

// Searcher performs one remote search for a canonical query.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]string, error)
}

// SearcherFunc adapts a plain function to Searcher.
type SearcherFunc func(ctx context.Context, q Query) ([]string, error)

func (f SearcherFunc) Search(ctx context.Context, q Query) ([]string, error) {
	return f(ctx, q)
}
