package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/style-dna/internal/style"
)

func TestSeedCatalog(t *testing.T) {
	c := New()
	require.Equal(t, 24, c.Len())

	for _, cand := range slicesOf(c) {
		assert.True(t, cand.StyleCategory.IsValid(), "%s has category %q", cand.ID, cand.StyleCategory)
		assert.NotEmpty(t, cand.Items, cand.ID)
	}

	cand, ok := c.Get("m_outfit_007")
	require.True(t, ok)
	assert.Equal(t, "Edgy Leather", cand.Name)
	assert.Equal(t, style.CategoryEdgy, cand.StyleCategory)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func slicesOf(c *Catalog) []style.Candidate {
	out, _ := c.FetchCandidates(context.Background(), style.Filter{})
	return out
}

func TestFetchCandidates_Gender(t *testing.T) {
	ctx := context.Background()
	c := New()

	women, err := c.FetchCandidates(ctx, style.Filter{Gender: style.GenderFemale})
	require.NoError(t, err)
	require.Len(t, women, 12)
	assert.Equal(t, "w_outfit_001", women[0].ID)

	men, err := c.FetchCandidates(ctx, style.Filter{Gender: style.GenderMale})
	require.NoError(t, err)
	require.Len(t, men, 12)
	assert.Equal(t, "m_outfit_001", men[0].ID)

	for _, g := range []style.Gender{style.GenderNonBinary, "", "unknown"} {
		all, err := c.FetchCandidates(ctx, style.Filter{Gender: g})
		require.NoError(t, err)
		require.Len(t, all, 24, "gender %q", g)
		assert.Equal(t, "w_outfit_001", all[0].ID)
		assert.Equal(t, "m_outfit_012", all[23].ID)
	}
}

func TestSelect_StyleAndPaging(t *testing.T) {
	c := New()
	ctx := context.Background()

	classic, err := c.FetchCandidates(ctx, style.Filter{StyleCategory: style.CategoryClassic})
	require.NoError(t, err)
	for _, cand := range classic {
		assert.Equal(t, style.CategoryClassic, cand.StyleCategory)
	}
	assert.Len(t, classic, 7)

	menClassic, err := c.FetchCandidates(ctx, style.Filter{Gender: style.GenderMale, StyleCategory: style.CategoryClassic, Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, menClassic, 2)
	assert.Equal(t, "m_outfit_004", menClassic[0].ID)
	assert.Equal(t, "m_outfit_011", menClassic[1].ID)
}

func TestPage(t *testing.T) {
	cands := []style.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Len(t, page(cands, 0, 0), 3)
	assert.Len(t, page(cands, 0, 2), 2)
	assert.Equal(t, "b", page(cands, 1, 1)[0].ID)
	assert.Empty(t, page(cands, 3, 5))
	assert.NotNil(t, page(cands, 10, 0))
	assert.Len(t, page(cands, -4, 0), 3)
}

func TestFromCandidates_Copies(t *testing.T) {
	src := []style.Candidate{{ID: "a", StyleCategory: style.CategoryEdgy}}
	c := FromCandidates(src)
	src[0].ID = "changed"

	_, ok := c.Get("a")
	assert.True(t, ok)
}
