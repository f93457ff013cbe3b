package session

import "github.com/strrl/style-dna/internal/style"

type State int

const (
	StateReady State = iota
	StateProcessing
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateProcessing:
		return "processing"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent, caller-owned copy of session state.
type Snapshot struct {
	UserID    string
	State     State
	Cursor    int
	Length    int
	Swipes    int
	DNA       style.DNA
	Readiness style.Progress
}

func (s Snapshot) Remaining() int {
	return s.Length - s.Cursor
}

type Result struct {
	Action    style.Action
	Candidate style.Candidate
	Index     int
	Committed bool
	Exhausted bool
	Snapshot  Snapshot
}
