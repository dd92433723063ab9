package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	all := All()
	require.Len(t, all, 11)
	for _, e := range all {
		assert.True(t, Valid(e.ID), e.ID)
		assert.NotEmpty(t, e.Label)
		assert.Len(t, e.Palette, 3)
	}
	assert.False(t, Valid("ecstatic"))
}

func TestLookupReturnsCopy(t *testing.T) {
	e, ok := Lookup(Cozy)
	require.True(t, ok)
	e.Palette[0] = "#000000"

	again, _ := Lookup(Cozy)
	assert.Equal(t, "#D4B896", again.Palette[0])
}

func TestForCategory(t *testing.T) {
	assert.Len(t, ForCategory(Good), 5)
	assert.Len(t, ForCategory(Bad), 6)
	assert.Len(t, ForCategory(Uncertain), 11)
	for _, e := range ForCategory(Bad) {
		assert.Equal(t, Negative, e.Valence)
	}
}

func TestDominantColors(t *testing.T) {
	t.Run("padded", func(t *testing.T) {
		got := DominantColors([]ID{Cozy, Content})
		assert.Equal(t, []string{"#D4B896", "#D4C4E8", "#FFD700", "#FF6B6B"}, got)
	})
	t.Run("capped", func(t *testing.T) {
		got := DominantColors([]ID{SuperHappy, Pumped, Cozy, Chill, Content})
		assert.Len(t, got, 4)
	})
	t.Run("three", func(t *testing.T) {
		got := DominantColors([]ID{Fuming, Down, Blah})
		assert.Equal(t, []string{"#E8A0A0", "#A0B8D4", "#B0C4D4"}, got)
	})
}

func TestSortIDs(t *testing.T) {
	ids := []ID{"zzz", BoredStiff, Cozy, SuperHappy}
	SortIDs(ids)
	assert.Equal(t, []ID{SuperHappy, Cozy, BoredStiff, "zzz"}, ids)
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{"good": Good, "bad": Bad, "not_sure": Uncertain, "uncertain": Uncertain} {
		got, err := ParseCategory(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}
	_, err := ParseCategory("meh")
	assert.Error(t, err)
	assert.False(t, Category("meh").Valid())
}
