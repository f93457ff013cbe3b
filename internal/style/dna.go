package style

import "maps"

const (
	LikeDelta      = 0.05
	SuperlikeDelta = 0.10
	DislikeDelta   = 0.03
)

// DNA maps each style category to an affinity in [0, 1]. Entries are
// independent; the map is not normalized.
type DNA map[Category]float64

func NewDNA() DNA {
	dna := make(DNA, len(categoryOrder))
	for _, c := range categoryOrder {
		dna[c] = 0
	}
	return dna
}

func (d DNA) Clone() DNA {
	return maps.Clone(d)
}

// Apply returns a copy of dna with the action applied to category. Unknown
// categories and uncommitted actions yield an unchanged copy. The input map
// is never modified.
func Apply(dna DNA, category Category, action Action) DNA {
	next := dna.Clone()

	score, ok := next[category]
	if !ok || !category.IsValid() {
		return next
	}

	switch action {
	case ActionLike:
		score += LikeDelta
	case ActionSuperlike:
		score += SuperlikeDelta
	case ActionDislike:
		score -= DislikeDelta
	default:
		return next
	}

	next[category] = clamp(score)
	return next
}

// Fold replays records in order over a fresh DNA.
func Fold(records []Record) DNA {
	dna := NewDNA()
	for _, rec := range records {
		dna = Apply(dna, rec.StyleCategory, rec.Action)
	}
	return dna
}

func clamp(score float64) float64 {
	return min(1, max(0, score))
}
