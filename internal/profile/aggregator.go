package profile

import (
	"sort"
	"time"

	"github.com/strrl/style-dna/internal/style"
)

type Config struct {
	TopN     int
	MinScore float64
}

func DefaultConfig() Config {
	return Config{
		TopN:     3,
		MinScore: 0.05,
	}
}

type StyleScore struct {
	Category style.Category
	Score    float64
	Tally    style.Tally
}

type Profile struct {
	UserID    string
	CreatedAt time.Time
	Swipes    int
	Readiness style.Progress
	TimeRange TimeRange

	// Styles holds every category, highest score first.
	Styles    []StyleScore
	TopStyles []StyleScore
	Dominant  style.Category
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

type Input struct {
	UserID    string
	DNA       style.DNA
	Swipes    int
	Threshold int
	Tallies   map[style.Category]style.Tally
}

type Aggregator struct {
	config Config
	now    time.Time
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{
		config: cfg,
		now:    time.Now(),
	}
}

func (a *Aggregator) Aggregate(in Input) *Profile {
	p := &Profile{
		UserID:    in.UserID,
		CreatedAt: a.now,
		Swipes:    in.Swipes,
		Readiness: style.Readiness(in.Swipes, in.Threshold),
	}

	for _, c := range style.Categories() {
		p.Styles = append(p.Styles, StyleScore{
			Category: c,
			Score:    in.DNA[c],
			Tally:    in.Tallies[c],
		})
	}

	// Stable keeps the fixed category order among equal scores.
	sort.SliceStable(p.Styles, func(i, j int) bool {
		return p.Styles[i].Score > p.Styles[j].Score
	})

	for _, s := range p.Styles {
		if len(p.TopStyles) >= a.config.TopN {
			break
		}
		if s.Score < a.config.MinScore || s.Score == 0 {
			break
		}
		p.TopStyles = append(p.TopStyles, s)
	}

	if len(p.TopStyles) > 0 {
		p.Dominant = p.TopStyles[0].Category
	}

	return p
}

// FromRecords rebuilds a profile from a swipe history by replaying the
// records over a fresh DNA. Records with uncommitted actions are skipped.
func (a *Aggregator) FromRecords(userID string, records []style.Record, threshold int) *Profile {
	committed := make([]style.Record, 0, len(records))
	for _, rec := range records {
		if rec.Action.Committed() {
			committed = append(committed, rec)
		}
	}

	p := a.Aggregate(Input{
		UserID:    userID,
		DNA:       style.Fold(committed),
		Swipes:    len(committed),
		Threshold: threshold,
		Tallies:   TallyRecords(committed),
	})

	if len(committed) > 0 {
		p.TimeRange = TimeRange{
			Start: committed[0].CreatedAt,
			End:   committed[len(committed)-1].CreatedAt,
		}
	}

	return p
}

func TallyRecords(records []style.Record) map[style.Category]style.Tally {
	tallies := make(map[style.Category]style.Tally)
	for _, rec := range records {
		t := tallies[rec.StyleCategory]
		t.Add(rec.Action)
		tallies[rec.StyleCategory] = t
	}
	return tallies
}
