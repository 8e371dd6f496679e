package widget

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinSlots is the smallest pattern the template can shrink to.
	MinSlots = 3
	// MaxSlots is the largest pattern the template can grow to.
	MaxSlots = 7
	// DefaultSlots is the slot count a fresh widget starts with.
	DefaultSlots = 4
	// Wildcard stands in for a blank slot in the rendered pattern.
	Wildcard = '.'
)

const blank rune = 0

// Template is the ordered sequence of pattern slots.
// Each slot holds at most one character; a blank slot matches anything.
type Template struct {
	slots []rune
}

// NewTemplate returns a template with n blank slots, n clamped to [MinSlots, MaxSlots].
func NewTemplate(n int) *Template {
	n = max(MinSlots, min(n, MaxSlots))
	return &Template{slots: make([]rune, n)}
}

// Len returns the current slot count.
func (t *Template) Len() int {
	return len(t.slots)
}

// AddSlot appends a blank slot and clears every existing value.
// Returns false, leaving the template untouched, when already at MaxSlots.
func (t *Template) AddSlot() bool {
	if len(t.slots) >= MaxSlots {
		return false
	}
	t.slots = append(t.slots, blank)
	t.Clear()
	return true
}

// RemoveSlot drops the last slot and clears the remaining values.
// Returns false, leaving the template untouched, when already at MinSlots.
func (t *Template) RemoveSlot() bool {
	if len(t.slots) <= MinSlots {
		return false
	}
	t.slots = t.slots[:len(t.slots)-1]
	t.Clear()
	return true
}

// Set stores the first character of value in slot i; an empty value blanks it.
// Out of range indexes are ignored and reported as false.
func (t *Template) Set(i int, value string) bool {
	if i < 0 || i >= len(t.slots) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(value)
	if value == "" || r == utf8.RuneError {
		r = blank
	}
	t.slots[i] = r
	return true
}

// Clear blanks every slot without changing the slot count.
func (t *Template) Clear() {
	for i := range t.slots {
		t.slots[i] = blank
	}
}

// Values returns one string per slot, "" for blanks.
func (t *Template) Values() []string {
	out := make([]string, len(t.slots))
	for i, r := range t.slots {
		if r != blank {
			out[i] = string(r)
		}
	}
	return out
}

// Pattern renders the slots as a lower-case string, blanks as Wildcard.
// The result always has exactly Len() runes.
func (t *Template) Pattern() string {
	var b strings.Builder
	b.Grow(len(t.slots))
	for _, r := range t.slots {
		if r == blank {
			b.WriteRune(Wildcard)
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
