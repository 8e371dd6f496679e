/*
Package dictionary loads word lists and frequency lists into a searchable index.

Words are kept twice: bucketed by length for full scans, and in a Patricia trie
keyed by the word so that searches whose template starts with fixed letters
only visit the matching subtree.

	idx, err := dictionary.LoadIndex(dictionary.LoadOptions{
		WordList: "data/words.txt",
		FreqList: "data/freq.txt",
	})
	idx.VisitPrefix("ca", func(word string, freq int) error { ... })

Word lists hold one word per line. Frequency lists hold `word count` lines;
words missing from the frequency list get a frequency of 0.
*/
package dictionary

import (
	"errors"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrEmptyWordList is returned when a word list yields no usable words.
var ErrEmptyWordList = errors.New("word list is empty")

// Index holds a loaded dictionary. It is not safe for concurrent mutation;
// once built it is only read.
type Index struct {
	trie         *patricia.Trie
	byLength     map[int][]string
	freqs        map[string]int
	totalWords   int
	maxFrequency int
}

// Stats provides statistics about a loaded index
type Stats struct {
	TotalWords   int
	Lengths      int
	MaxFrequency int
	WithFreq     int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		trie:     patricia.NewTrie(),
		byLength: make(map[int][]string),
		freqs:    make(map[string]int),
	}
}

// Add inserts a lower-cased word with its frequency. Duplicates are ignored.
func (i *Index) Add(word string, freq int) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	if !i.trie.Insert(patricia.Prefix(word), freq) {
		return false
	}
	i.byLength[len(word)] = append(i.byLength[len(word)], word)
	if freq > 0 {
		i.freqs[word] = freq
	}
	i.totalWords++
	if freq > i.maxFrequency {
		i.maxFrequency = freq
	}
	return true
}

// Frequency returns the frequency recorded for word, 0 when unknown.
func (i *Index) Frequency(word string) int {
	return i.freqs[word]
}

// Contains reports whether word is in the index.
func (i *Index) Contains(word string) bool {
	return i.trie.Get(patricia.Prefix(word)) != nil
}

// WordsOfLength returns every word of exactly n bytes, in load order.
// The returned slice must not be modified.
func (i *Index) WordsOfLength(n int) []string {
	return i.byLength[n]
}

// VisitPrefix calls fn for every word starting with prefix.
// Returning an error from fn stops the walk and is passed back to the caller.
func (i *Index) VisitPrefix(prefix string, fn func(word string, freq int) error) error {
	return i.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		freq, _ := item.(int)
		return fn(string(p), freq)
	})
}

// Len returns the number of words in the index.
func (i *Index) Len() int {
	return i.totalWords
}

// Stats returns counts describing the index.
func (i *Index) Stats() Stats {
	return Stats{
		TotalWords:   i.totalWords,
		Lengths:      len(i.byLength),
		MaxFrequency: i.maxFrequency,
		WithFreq:     len(i.freqs),
	}
}
