package catalog

import (
	"context"
	"slices"

	"github.com/strrl/style-dna/internal/style"
)

// Catalog serves candidates from memory. The zero value is empty; New
// returns the built-in seed outfits.
type Catalog struct {
	candidates []style.Candidate
}

func New() *Catalog {
	return FromCandidates(slices.Concat(womenOutfits, menOutfits))
}

func FromCandidates(candidates []style.Candidate) *Catalog {
	return &Catalog{candidates: slices.Clone(candidates)}
}

func (c *Catalog) FetchCandidates(_ context.Context, filter style.Filter) ([]style.Candidate, error) {
	return Select(c.candidates, filter), nil
}

func (c *Catalog) Get(id string) (style.Candidate, bool) {
	for _, cand := range c.candidates {
		if cand.ID == id {
			return cand, true
		}
	}
	return style.Candidate{}, false
}

func (c *Catalog) Len() int {
	return len(c.candidates)
}

// Select applies a filter to candidates, keeping their order: gender first,
// then style category, then skip and limit. A non-positive limit means no
// limit.
func Select(candidates []style.Candidate, filter style.Filter) []style.Candidate {
	gender := normalizeGender(filter.Gender)

	selected := make([]style.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if gender != "" && cand.Gender != gender {
			continue
		}
		if filter.StyleCategory != "" && cand.StyleCategory != filter.StyleCategory {
			continue
		}
		selected = append(selected, cand)
	}

	return page(selected, filter.Skip, filter.Limit)
}

// normalizeGender returns the gender to filter on, or "" when every
// candidate should be shown.
func normalizeGender(g style.Gender) style.Gender {
	switch g {
	case style.GenderMale, style.GenderFemale:
		return g
	default:
		return ""
	}
}

func page(candidates []style.Candidate, skip, limit int) []style.Candidate {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(candidates) {
		return []style.Candidate{}
	}
	candidates = candidates[skip:]
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	return candidates
}
