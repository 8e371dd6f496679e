package widget

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateClamps(t *testing.T) {
	testCases := []struct {
		in   int
		want int
	}{
		{-1, MinSlots},
		{0, MinSlots},
		{3, 3},
		{4, 4},
		{7, 7},
		{12, MaxSlots},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, NewTemplate(tc.in).Len(), "NewTemplate(%d)", tc.in)
	}
}

func TestTemplateBoundsHoldForAnySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tmpl := NewTemplate(DefaultSlots)

	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			tmpl.AddSlot()
		} else {
			tmpl.RemoveSlot()
		}
		require.GreaterOrEqual(t, tmpl.Len(), MinSlots)
		require.LessOrEqual(t, tmpl.Len(), MaxSlots)
	}
}

func TestTemplateAddAndRemoveAtLimits(t *testing.T) {
	tmpl := NewTemplate(MaxSlots)
	tmpl.Set(0, "x")
	assert.False(t, tmpl.AddSlot())
	assert.Equal(t, MaxSlots, tmpl.Len())
	assert.Equal(t, "x", tmpl.Values()[0], "no-op add must not clear values")

	tmpl = NewTemplate(MinSlots)
	tmpl.Set(0, "y")
	assert.False(t, tmpl.RemoveSlot())
	assert.Equal(t, MinSlots, tmpl.Len())
	assert.Equal(t, "y", tmpl.Values()[0], "no-op remove must not clear values")
}

func TestTemplateResizeClearsValues(t *testing.T) {
	tmpl := NewTemplate(3)
	tmpl.Set(0, "c")
	tmpl.Set(1, "a")
	tmpl.Set(2, "t")
	require.Equal(t, "cat", tmpl.Pattern())

	require.True(t, tmpl.AddSlot())
	assert.Equal(t, []string{"", "", "", ""}, tmpl.Values())
	assert.Equal(t, "....", tmpl.Pattern())

	tmpl.Set(1, "o")
	require.True(t, tmpl.RemoveSlot())
	assert.Equal(t, []string{"", "", ""}, tmpl.Values())
}

func TestTemplateSet(t *testing.T) {
	tmpl := NewTemplate(4)

	assert.True(t, tmpl.Set(0, "Q"))
	assert.True(t, tmpl.Set(1, "uu"), "only the first character is kept")
	assert.False(t, tmpl.Set(4, "x"))
	assert.False(t, tmpl.Set(-1, "x"))

	assert.Equal(t, []string{"Q", "u", "", ""}, tmpl.Values())
	assert.Equal(t, "qu..", tmpl.Pattern())

	tmpl.Set(0, "")
	assert.Equal(t, ".u..", tmpl.Pattern())
}

func TestTemplatePatternLengthMatchesSlots(t *testing.T) {
	tmpl := NewTemplate(5)
	tmpl.Set(2, "É")
	assert.Equal(t, "..é..", tmpl.Pattern())
	assert.Len(t, []rune(tmpl.Pattern()), tmpl.Len())
}
