package gesture

import "github.com/strrl/style-dna/internal/style"

// Tracker follows a single drag on the top card. It is not safe for
// concurrent use; the session controller guards it.
type Tracker struct {
	thresholds Thresholds
	active     bool
	dx, dy     float64
}

func NewTracker(thresholds Thresholds) *Tracker {
	return &Tracker{thresholds: thresholds}
}

// Start begins a drag. It returns false if one is already in flight.
func (t *Tracker) Start() bool {
	if t.active {
		return false
	}
	t.active = true
	t.dx, t.dy = 0, 0
	return true
}

func (t *Tracker) Active() bool {
	return t.active
}

// Move records the cumulative displacement since Start and returns the live
// hint for it. Moves outside a drag are ignored.
func (t *Tracker) Move(dx, dy float64) style.Action {
	if !t.active {
		return style.ActionNone
	}
	t.dx, t.dy = dx, dy
	return t.thresholds.Preview(dx, dy)
}

func (t *Tracker) Hint() style.Action {
	if !t.active {
		return style.ActionNone
	}
	return t.thresholds.Preview(t.dx, t.dy)
}

// Release ends the drag and hands back the pending gesture. ok is false when
// there was nothing to release.
func (t *Tracker) Release() (g style.Gesture, ok bool) {
	if !t.active {
		return style.Gesture{}, false
	}
	g = style.Gesture{DX: t.dx, DY: t.dy}
	t.Cancel()
	return g, true
}

func (t *Tracker) Cancel() {
	t.active = false
	t.dx, t.dy = 0, 0
}
