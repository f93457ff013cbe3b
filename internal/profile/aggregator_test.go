package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/style-dna/internal/style"
)

func TestAggregate_Ranking(t *testing.T) {
	dna := style.NewDNA()
	dna[style.CategoryEdgy] = 0.4
	dna[style.CategoryClassic] = 0.2
	dna[style.CategoryBohemian] = 0.2
	dna[style.CategoryMinimalist] = 0.03

	p := NewAggregator(DefaultConfig()).Aggregate(Input{
		UserID:    "u1",
		DNA:       dna,
		Swipes:    12,
		Threshold: 20,
	})

	require.Len(t, p.Styles, 6)
	assert.Equal(t, style.CategoryEdgy, p.Styles[0].Category)
	assert.Equal(t, style.CategoryBohemian, p.Styles[1].Category, "ties keep the fixed category order")
	assert.Equal(t, style.CategoryClassic, p.Styles[2].Category)
	assert.Equal(t, style.CategoryMinimalist, p.Styles[3].Category)

	require.Len(t, p.TopStyles, 3)
	assert.Equal(t, style.CategoryEdgy, p.Dominant)
	assert.Equal(t, 12, p.Readiness.Progress)
	assert.False(t, p.Readiness.Personalized)
}

func TestAggregate_MinScore(t *testing.T) {
	dna := style.NewDNA()
	dna[style.CategoryStreetwear] = 0.05
	dna[style.CategoryCasualChic] = 0.04

	p := NewAggregator(DefaultConfig()).Aggregate(Input{DNA: dna})

	require.Len(t, p.TopStyles, 1)
	assert.Equal(t, style.CategoryStreetwear, p.Dominant)
}

func TestAggregate_Empty(t *testing.T) {
	p := NewAggregator(DefaultConfig()).Aggregate(Input{DNA: style.NewDNA()})

	assert.Empty(t, p.TopStyles)
	assert.Equal(t, style.Category(""), p.Dominant)
	assert.Len(t, p.Styles, 6)
}

func TestFromRecords(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	records := []style.Record{
		{Action: style.ActionLike, StyleCategory: style.CategoryClassic, CreatedAt: base},
		{Action: style.ActionSuperlike, StyleCategory: style.CategoryClassic, CreatedAt: base.Add(time.Minute)},
		{Action: style.ActionDislike, StyleCategory: style.CategoryEdgy, CreatedAt: base.Add(2 * time.Minute)},
		{Action: style.ActionNone, StyleCategory: style.CategoryEdgy, CreatedAt: base.Add(3 * time.Minute)},
	}

	p := NewAggregator(DefaultConfig()).FromRecords("u1", records, 2)

	assert.Equal(t, 3, p.Swipes)
	assert.True(t, p.Readiness.Personalized)
	assert.Equal(t, style.CategoryClassic, p.Dominant)
	assert.InDelta(t, 0.15, p.TopStyles[0].Score, 1e-12)
	assert.Equal(t, style.Tally{Likes: 1, Superlikes: 1}, p.TopStyles[0].Tally)
	assert.Equal(t, base, p.TimeRange.Start)
	assert.Equal(t, base.Add(2*time.Minute), p.TimeRange.End)
}

func TestTallyRecords(t *testing.T) {
	tallies := TallyRecords([]style.Record{
		{Action: style.ActionLike, StyleCategory: style.CategoryBohemian},
		{Action: style.ActionDislike, StyleCategory: style.CategoryBohemian},
		{Action: style.ActionDislike, StyleCategory: style.CategoryBohemian},
	})

	assert.Equal(t, map[style.Category]style.Tally{
		style.CategoryBohemian: {Likes: 1, Dislikes: 2},
	}, tallies)
}
