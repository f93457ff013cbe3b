package replay

import (
	"context"

	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/session"
	"github.com/strrl/style-dna/internal/style"
)

// Step is the outcome of one scripted gesture.
type Step struct {
	Gesture style.Gesture
	Result  session.Result
}

// Replayer drives a session controller with recorded gestures, the way a
// card stack would with live touch input.
type Replayer struct {
	controller *session.Controller
	fetcher    session.Fetcher
	filter     style.Filter
	refill     bool
	logger     *zap.Logger
}

type Option func(*Replayer)

// WithRefill loads the next page from fetcher whenever the queue runs out.
// Pages are filter.Limit wide; Skip advances by that amount, not by the
// number of candidates a page yielded, since fetchers may filter within a
// page. Without a positive limit the first batch is the whole catalog and
// nothing is refilled.
func WithRefill(fetcher session.Fetcher, filter style.Filter) Option {
	return func(r *Replayer) {
		r.fetcher = fetcher
		r.filter = filter
		r.refill = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Replayer) {
		r.logger = logger
	}
}

func New(controller *session.Controller, opts ...Option) *Replayer {
	r := &Replayer{
		controller: controller,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays gestures in order. It stops early when the context is done or
// when the queue is exhausted and no further page can be loaded.
func (r *Replayer) Run(ctx context.Context, gestures []style.Gesture) ([]Step, error) {
	steps := make([]Step, 0, len(gestures))

	for i, g := range gestures {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		if r.controller.Snapshot().State == session.StateExhausted && !r.nextPage(ctx) {
			r.logger.Info("Candidate queue exhausted, stopping replay",
				zap.Int("played", i),
				zap.Int("remaining_gestures", len(gestures)-i))
			break
		}

		steps = append(steps, Step{Gesture: g, Result: r.controller.Swipe(g)})
	}

	return steps, nil
}

func (r *Replayer) nextPage(ctx context.Context) bool {
	if !r.refill || r.filter.Limit <= 0 {
		return false
	}

	r.filter.Skip += r.filter.Limit
	n := r.controller.LoadBatch(ctx, r.fetcher, r.filter)
	r.logger.Debug("Loaded next page", zap.Int("skip", r.filter.Skip), zap.Int("candidates", n))
	return n > 0
}
