package gesture

import "github.com/strrl/style-dna/internal/style"

const (
	DefaultCommitThreshold = 100
	DefaultHintThreshold   = 50
)

// Thresholds keeps the release-time and live-hint thresholds separate; they
// are independently configurable and need not match.
type Thresholds struct {
	Commit float64 `yaml:"commit"`
	Hint   float64 `yaml:"hint"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Commit: DefaultCommitThreshold,
		Hint:   DefaultHintThreshold,
	}
}

// Classify maps a displacement to an action. Checks run in a fixed order and
// the first match wins, so a diagonal drag past both thresholds is a like or
// dislike, never a superlike. Being exactly at the threshold does not count.
func Classify(dx, dy, threshold float64) style.Action {
	switch {
	case dx > threshold:
		return style.ActionLike
	case dx < -threshold:
		return style.ActionDislike
	case dy < -threshold:
		return style.ActionSuperlike
	default:
		return style.ActionNone
	}
}

func (t Thresholds) OnRelease(g style.Gesture) style.Action {
	return Classify(g.DX, g.DY, t.Commit)
}

// Preview is the advisory direction shown while dragging.
func (t Thresholds) Preview(dx, dy float64) style.Action {
	return Classify(dx, dy, t.Hint)
}
