package widget

import (
	"context"
	"sync"

	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/charmbracelet/log"
)

// Request is one search issued by the coordinator, tagged with its sequence id.
type Request struct {
	ID    uint64
	Query Query
}

// Response carries the outcome of a Request back to the coordinator.
type Response struct {
	ID    uint64
	Query Query
	Items []string
	Err   error
}

// Coordinator owns the widget state: letter bank, template, the previous
// query, the request sequence id and the result set.
//
// Every transition runs under one mutex, so the freshness check in Complete
// and the render that follows it are atomic with respect to new requests.
// Searches themselves run outside the lock.
type Coordinator struct {
	mu       sync.Mutex
	template *Template
	letters  string
	norm     Normalizer
	seq      uint64
	results  []string
	invalid  bool

	searcher Searcher
	view     Renderer
	logger   *log.Logger
	wg       sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRenderer sets the display collaborator. Defaults to NopRenderer.
func WithRenderer(r Renderer) Option {
	return func(c *Coordinator) {
		c.view = r
	}
}

// WithSlots sets the initial slot count, clamped to [MinSlots, MaxSlots].
func WithSlots(n int) Option {
	return func(c *Coordinator) {
		c.template = NewTemplate(n)
	}
}

// WithLogger replaces the default "widget" logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// NewCoordinator creates a coordinator that queries searcher.
func NewCoordinator(searcher Searcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		template: NewTemplate(DefaultSlots),
		searcher: searcher,
		view:     NopRenderer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.New("widget")
	}
	return c
}

// Init pushes the initial state to the renderer and evaluates it once.
// With an empty letter bank this only raises the invalid indicator.
func (c *Coordinator) Init() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SetSlots(c.template.Values())
	return c.evaluate()
}

// SetLetters replaces the letter bank text and re-evaluates.
func (c *Coordinator) SetLetters(letters string) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letters = letters
	return c.evaluate()
}

// SetSlot edits one slot and re-evaluates, even when the value did not change.
func (c *Coordinator) SetSlot(i int, value string) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.template.Set(i, value)
	return c.evaluate()
}

// AddSlot grows the template by one blank slot, clearing all slot values.
// At MaxSlots it does nothing and returns nil.
func (c *Coordinator) AddSlot() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.template.AddSlot() {
		return nil
	}
	c.view.SetSlots(c.template.Values())
	return c.evaluate()
}

// RemoveSlot drops the last slot, clearing the remaining values.
// At MinSlots it does nothing and returns nil.
func (c *Coordinator) RemoveSlot() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.template.RemoveSlot() {
		return nil
	}
	c.view.SetSlots(c.template.Values())
	return c.evaluate()
}

// Evaluate re-runs normalization on unchanged input, as a key-up would.
func (c *Coordinator) Evaluate() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluate()
}

// Clear empties the letter bank, every slot and the results, then evaluates
// the empty form. An empty bank is always too short, so this records it as the
// previous query and raises the invalid indicator without issuing a search.
// The sequence id survives.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letters = ""
	c.template.Clear()
	c.results = nil
	c.view.SetLetters("")
	c.view.SetSlots(c.template.Values())
	c.view.ClearResults()
	c.evaluate()
}

func (c *Coordinator) evaluate() *Request {
	q, outcome := c.norm.Normalize(c.letters, c.template)
	c.view.SetPatternLength(c.template.Len())
	if outcome == Unchanged {
		return nil
	}

	// Results from an older query never sit next to a new one.
	c.results = nil
	c.view.ClearResults()

	if outcome == Invalid {
		c.setInvalid(true)
		c.logger.Debug("query needs more letters", "letters", q.Letters, "template", q.Pattern)
		return nil
	}
	c.setInvalid(false)

	c.seq++
	c.logger.Debug("issuing search", "id", c.seq, "letters", q.Letters, "template", q.Pattern)
	return &Request{ID: c.seq, Query: q}
}

func (c *Coordinator) setInvalid(invalid bool) {
	c.invalid = invalid
	c.view.SetInvalid(invalid)
}

// Fetch runs the search for req. It holds no lock and may run on any goroutine.
func (c *Coordinator) Fetch(ctx context.Context, req Request) Response {
	items, err := c.searcher.Search(ctx, req.Query)
	return Response{ID: req.ID, Query: req.Query, Items: items, Err: err}
}

// Complete applies a response. It renders and returns true only when the
// response belongs to the most recently issued request; stale responses and
// failures leave the result set alone.
func (c *Coordinator) Complete(resp Response) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if resp.Err != nil {
		c.logger.Error("search failed", "id", resp.ID, "letters", resp.Query.Letters, "template", resp.Query.Pattern, "err", resp.Err)
		return false
	}
	if resp.ID != c.seq {
		c.logger.Debug("ignoring stale results", "id", resp.ID, "current", c.seq)
		return false
	}

	c.results = append(make([]string, 0, len(resp.Items)), resp.Items...)
	c.view.ClearResults()
	for _, item := range c.results {
		c.view.AppendResult(item)
	}
	c.logger.Debug("rendered results", "id", resp.ID, "count", len(c.results))
	return true
}

// Dispatch runs req on a new goroutine and completes it when the search returns.
// A nil req is ignored, so mutator results can be passed straight through.
func (c *Coordinator) Dispatch(ctx context.Context, req *Request) {
	if req == nil {
		return
	}
	r := *req
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Complete(c.Fetch(ctx, r))
	}()
}

// Wait blocks until every dispatched request has completed.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Results returns a copy of the current result set.
func (c *Coordinator) Results() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.results...)
}

// Letters returns the raw letter bank text.
func (c *Coordinator) Letters() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.letters
}

// Slots returns the slot values, "" for blanks.
func (c *Coordinator) Slots() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.template.Values()
}

// Pattern returns the rendered template.
func (c *Coordinator) Pattern() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.template.Pattern()
}

// Previous returns the last evaluated query.
func (c *Coordinator) Previous() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.norm.Previous()
}

// Sequence returns the id of the most recently issued request, 0 before the first.
func (c *Coordinator) Sequence() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Invalid reports whether the letter bank is currently flagged as too short.
func (c *Coordinator) Invalid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalid
}
