package style

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Category string

const (
	CategoryMinimalist Category = "minimalist"
	CategoryCasualChic Category = "casual_chic"
	CategoryStreetwear Category = "streetwear"
	CategoryBohemian   Category = "bohemian"
	CategoryClassic    Category = "classic"
	CategoryEdgy       Category = "edgy"
)

var ValidCategories = map[Category]string{
	CategoryMinimalist: "Clean lines, neutral palette, few pieces",
	CategoryCasualChic: "Relaxed everyday looks with a polished touch",
	CategoryStreetwear: "Urban, sporty and oversized silhouettes",
	CategoryBohemian:   "Flowing fabrics, prints and free-spirited layering",
	CategoryClassic:    "Tailored, timeless and formal pieces",
	CategoryEdgy:       "Bold, dark and statement-making looks",
}

// Display order. Also the tie-break order wherever categories are ranked.
var categoryOrder = []Category{
	CategoryMinimalist,
	CategoryCasualChic,
	CategoryStreetwear,
	CategoryBohemian,
	CategoryClassic,
	CategoryEdgy,
}

func Categories() []Category {
	return slices.Clone(categoryOrder)
}

func (c Category) IsValid() bool {
	_, ok := ValidCategories[c]
	return ok
}

type Action string

const (
	ActionNone      Action = ""
	ActionLike      Action = "like"
	ActionDislike   Action = "dislike"
	ActionSuperlike Action = "superlike"
)

// Committed reports whether the action changes session state. ActionNone is
// the snap-back outcome and never reaches the score map or the record sink.
func (a Action) Committed() bool {
	switch a {
	case ActionLike, ActionDislike, ActionSuperlike:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	return string(a)
}

func ParseAction(value string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "like":
		return ActionLike, nil
	case "dislike":
		return ActionDislike, nil
	case "superlike":
		return ActionSuperlike, nil
	case "", "none":
		return ActionNone, nil
	default:
		return ActionNone, fmt.Errorf("unknown action %q", value)
	}
}

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
)

type Item struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ImageURL      string   `json:"image_url"`
	Tags          []string `json:"tags"`
	StyleCategory Category `json:"style_category"`
	Gender        Gender   `json:"gender,omitempty"`
	Items         []Item   `json:"items"`
}

// Filter narrows a candidate batch. Only male and female restrict by gender;
// any other value (including non-binary) selects every candidate.
type Filter struct {
	Gender        Gender
	StyleCategory Category
	Skip          int
	Limit         int
}

// Gesture is the cumulative pointer displacement from drag start to release,
// in device-independent pixels. Negative DY points up.
type Gesture struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CandidateID   string    `json:"outfit_id"`
	Action        Action    `json:"action"`
	StyleCategory Category  `json:"style_category"`
	CreatedAt     time.Time `json:"created_at"`
}

type Tally struct {
	Likes      int
	Dislikes   int
	Superlikes int
}

func (t Tally) Total() int {
	return t.Likes + t.Dislikes + t.Superlikes
}

func (t *Tally) Add(action Action) {
	switch action {
	case ActionLike:
		t.Likes++
	case ActionDislike:
		t.Dislikes++
	case ActionSuperlike:
		t.Superlikes++
	}
}
