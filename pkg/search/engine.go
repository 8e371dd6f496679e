package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordscape/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// ErrInvalidQuery wraps every validation failure returned by Find.
var ErrInvalidQuery = errors.New("invalid query")

// ctxCheckEvery is how many candidate words are scanned between context checks.
const ctxCheckEvery = 4096

// Result is the outcome of one search.
type Result struct {
	Words   []string
	Cached  bool
	Elapsed time.Duration
}

// Engine finds dictionary words that fit a template using a bank of letters.
// It is safe for concurrent use; the index can be swapped while serving.
type Engine struct {
	mu         sync.RWMutex
	index      *dictionary.Index
	cache      *Cache
	maxResults int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables a result cache of n entries. n <= 0 disables caching.
func WithCache(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cache = NewCache(n)
		}
	}
}

// WithMaxResults caps every result list; 0 means unlimited.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		e.maxResults = max(n, 0)
	}
}

// NewEngine creates an engine over idx.
func NewEngine(idx *dictionary.Index, opts ...Option) *Engine {
	e := &Engine{index: idx}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks a lower-cased query the way the service expects it.
func Validate(letters, template string) error {
	switch {
	case letters == "":
		return fmt.Errorf("%w: missing letters", ErrInvalidQuery)
	case template == "":
		return fmt.Errorf("%w: missing template", ErrInvalidQuery)
	case len(template) > len(letters):
		return fmt.Errorf("%w: template is longer than letters (%d > %d)", ErrInvalidQuery, len(template), len(letters))
	}
	for _, s := range []string{letters, template} {
		for i := 0; i < len(s); i++ {
			if s[i] >= 0x80 {
				return fmt.Errorf("%w: non-ASCII character in %q", ErrInvalidQuery, s)
			}
		}
	}
	return nil
}

// Find returns every word matching template from letters, most frequent first.
func (e *Engine) Find(ctx context.Context, letters, template string) (Result, error) {
	return e.FindLimit(ctx, letters, template, 0)
}

// FindLimit is Find with a per-call cap. limit <= 0 uses the engine's cap; a
// per-call cap never exceeds the engine's.
func (e *Engine) FindLimit(ctx context.Context, letters, template string, limit int) (Result, error) {
	start := time.Now()
	letters = strings.ToLower(letters)
	template = strings.ToLower(template)
	if err := Validate(letters, template); err != nil {
		return Result{}, err
	}

	e.mu.RLock()
	idx, cache := e.index, e.cache
	if e.maxResults > 0 && (limit <= 0 || limit > e.maxResults) {
		limit = e.maxResults
	}
	e.mu.RUnlock()

	key := CacheKey(letters, template)
	if cache != nil {
		if words, ok := cache.Get(key); ok {
			return Result{Words: truncate(words, limit), Cached: true, Elapsed: time.Since(start)}, nil
		}
	}

	words, err := scan(ctx, idx, letters, template)
	if err != nil {
		return Result{}, err
	}
	rank(idx, words)
	if cache != nil {
		cache.Put(key, words)
	}

	elapsed := time.Since(start)
	log.Debugf("Searched %d-letter words from '%s' fitting |%s|: %d found in %v",
		len(template), letters, template, len(words), elapsed)
	return Result{Words: truncate(words, limit), Elapsed: elapsed}, nil
}

// scan walks the trie subtree of the template's literal prefix when there is
// one, otherwise the bucket of words with the template's length.
func scan(ctx context.Context, idx *dictionary.Index, letters, template string) ([]string, error) {
	words := make([]string, 0)
	if idx == nil {
		return words, nil
	}
	counts := CountLetters(letters)
	visited := 0

	check := func(word string) error {
		visited++
		if visited%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if Match(word, template, counts) {
			words = append(words, word)
		}
		return nil
	}

	if prefix := LiteralPrefix(template); prefix != "" {
		err := idx.VisitPrefix(prefix, func(word string, _ int) error {
			return check(word)
		})
		if err != nil {
			return nil, err
		}
		return words, nil
	}

	for _, word := range idx.WordsOfLength(len(template)) {
		if err := check(word); err != nil {
			return nil, err
		}
	}
	return words, ctx.Err()
}

// rank orders by frequency, highest first, then alphabetically.
func rank(idx *dictionary.Index, words []string) {
	if idx == nil {
		return
	}
	slices.SortFunc(words, func(a, b string) int {
		af, bf := idx.Frequency(a), idx.Frequency(b)
		if af == bf {
			return cmp.Compare(a, b)
		}
		return cmp.Compare(bf, af)
	})
}

func truncate(words []string, limit int) []string {
	if limit > 0 && len(words) > limit {
		return words[:limit:limit]
	}
	return words
}

// SetIndex swaps the dictionary and starts a new cache. Searches still
// scanning the old index store their results in the old cache, which nothing
// reads any more.
func (e *Engine) SetIndex(idx *dictionary.Index) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = idx
	if e.cache != nil {
		e.cache = NewCache(e.cache.maxEntries)
	}
}

// SetMaxResults changes the result cap; 0 means unlimited.
func (e *Engine) SetMaxResults(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxResults = max(n, 0)
}

// Stats returns statistics about the loaded dictionary and the cache.
func (e *Engine) Stats() map[string]int {
	e.mu.RLock()
	idx, cache, limit := e.index, e.cache, e.maxResults
	e.mu.RUnlock()

	stats := map[string]int{"maxResults": limit}
	if idx != nil {
		s := idx.Stats()
		stats["totalWords"] = s.TotalWords
		stats["maxFrequency"] = s.MaxFrequency
		stats["withFrequency"] = s.WithFreq
	}
	if cache != nil {
		for k, v := range cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
