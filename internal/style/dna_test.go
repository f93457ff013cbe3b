package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDNA(t *testing.T) {
	dna := NewDNA()
	require.Len(t, dna, len(ValidCategories))
	for c := range ValidCategories {
		assert.Zero(t, dna[c], "category %s", c)
	}
}

func TestApply_Deltas(t *testing.T) {
	tests := []struct {
		name   string
		start  float64
		action Action
		want   float64
	}{
		{"like", 0, ActionLike, 0.05},
		{"superlike", 0, ActionSuperlike, 0.10},
		{"dislike at zero stays zero", 0, ActionDislike, 0},
		{"dislike", 0.5, ActionDislike, 0.47},
		{"none is a no-op", 0.5, ActionNone, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dna := NewDNA()
			dna[CategoryClassic] = tt.start

			got := Apply(dna, CategoryClassic, tt.action)
			assert.InDelta(t, tt.want, got[CategoryClassic], 1e-12)
		})
	}
}

func TestApply_ClampsAtOne(t *testing.T) {
	dna := NewDNA()
	dna[CategoryEdgy] = 0.98

	for i := 0; i < 3; i++ {
		dna = Apply(dna, CategoryEdgy, ActionLike)
	}

	assert.Equal(t, 1.0, dna[CategoryEdgy])

	dna = Apply(dna, CategoryEdgy, ActionSuperlike)
	assert.Equal(t, 1.0, dna[CategoryEdgy])
}

func TestApply_ClampsAtZero(t *testing.T) {
	dna := NewDNA()
	dna[CategoryBohemian] = 0.01

	dna = Apply(dna, CategoryBohemian, ActionDislike)
	assert.Equal(t, 0.0, dna[CategoryBohemian])
}

func TestApply_OnlyTargetChanges(t *testing.T) {
	dna := NewDNA()
	dna[CategoryMinimalist] = 0.3
	dna[CategoryStreetwear] = 0.7

	got := Apply(dna, CategoryClassic, ActionSuperlike)

	assert.Equal(t, 0.3, got[CategoryMinimalist])
	assert.Equal(t, 0.7, got[CategoryStreetwear])
	assert.InDelta(t, 0.10, got[CategoryClassic], 1e-12)
	assert.Zero(t, dna[CategoryClassic], "input must not be modified")
}

func TestApply_UnknownCategoryIsNoOp(t *testing.T) {
	dna := NewDNA()
	dna[CategoryCasualChic] = 0.42

	for _, action := range []Action{ActionLike, ActionDislike, ActionSuperlike} {
		got := Apply(dna, Category("goth"), action)
		assert.Equal(t, dna, got)
	}

	got := Apply(dna, Category(""), ActionLike)
	assert.Equal(t, dna, got)
}

func TestApply_MissingKeyIsNoOp(t *testing.T) {
	dna := DNA{CategoryClassic: 0.2}

	got := Apply(dna, CategoryEdgy, ActionLike)
	assert.Equal(t, dna, got)
	assert.NotContains(t, got, CategoryEdgy)
}

func TestFold(t *testing.T) {
	records := []Record{
		{Action: ActionLike, StyleCategory: CategoryClassic},
		{Action: ActionSuperlike, StyleCategory: CategoryClassic},
		{Action: ActionDislike, StyleCategory: CategoryEdgy},
		{Action: ActionLike, StyleCategory: Category("unknown")},
	}

	dna := Fold(records)

	assert.InDelta(t, 0.15, dna[CategoryClassic], 1e-12)
	assert.Zero(t, dna[CategoryEdgy])
	assert.Len(t, dna, len(ValidCategories))
}
