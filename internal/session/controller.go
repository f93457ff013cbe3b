package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/gesture"
	"github.com/strrl/style-dna/internal/style"
)

type Config struct {
	UserID                   string
	Thresholds               gesture.Thresholds
	PersonalizationThreshold int
	QueueSize                int
	SinkTimeout              time.Duration

	// OnExhausted runs after the commit that empties the queue, outside the
	// controller lock.
	OnExhausted func(Snapshot)
}

func DefaultConfig() Config {
	return Config{
		Thresholds:               gesture.DefaultThresholds(),
		PersonalizationThreshold: style.DefaultPersonalizationThreshold,
		QueueSize:                defaultQueueSize,
		SinkTimeout:              defaultSinkTimeout,
	}
}

// Controller owns one user's swipe session: the candidate queue and cursor,
// the style DNA and the swipe counter. All methods are safe for concurrent
// use and each gesture commits as a single step under the controller lock.
type Controller struct {
	config  Config
	logger  *zap.Logger
	emitter *Emitter
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	tracker *gesture.Tracker
	queue   []style.Candidate
	cursor  int
	dna     style.DNA
	swipes  int
}

func New(cfg Config, sink Sink, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := gesture.DefaultThresholds()
	if cfg.Thresholds.Commit <= 0 {
		cfg.Thresholds.Commit = defaults.Commit
	}
	if cfg.Thresholds.Hint <= 0 {
		cfg.Thresholds.Hint = defaults.Hint
	}
	if cfg.PersonalizationThreshold <= 0 {
		cfg.PersonalizationThreshold = style.DefaultPersonalizationThreshold
	}

	return &Controller{
		config:  cfg,
		logger:  logger.With(zap.String("user_id", cfg.UserID)),
		emitter: NewEmitter(sink, cfg.QueueSize, cfg.SinkTimeout, logger),
		now:     time.Now,
		newID:   uuid.NewString,
		tracker: gesture.NewTracker(cfg.Thresholds),
		dna:     style.NewDNA(),
	}
}

// Install replaces the candidate queue and rewinds the cursor. Any drag in
// flight on the old queue is abandoned.
func (c *Controller) Install(candidates []style.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.installLocked(candidates)
}

func (c *Controller) installLocked(candidates []style.Candidate) {
	c.queue = slices.Clone(candidates)
	c.cursor = 0
	c.tracker.Cancel()

	c.logger.Debug("Candidate queue installed", zap.Int("length", len(c.queue)))
}

// LoadBatch fetches a new batch and installs it. A failed fetch installs an
// empty queue so the session goes straight to exhausted; the error is only
// logged. It returns the number of candidates installed.
func (c *Controller) LoadBatch(ctx context.Context, fetcher Fetcher, filter style.Filter) int {
	candidates, err := fetcher.FetchCandidates(ctx, filter)
	if err != nil {
		c.logger.Warn("Failed to fetch candidates, installing empty queue",
			zap.String("gender", string(filter.Gender)),
			zap.String("style_category", string(filter.StyleCategory)),
			zap.Error(err))
		candidates = nil
	}

	c.Install(candidates)
	return len(candidates)
}

// BeginDrag starts a gesture on the current card. It returns false when the
// queue is exhausted or another gesture has not been released yet.
func (c *Controller) BeginDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exhaustedLocked() {
		return false
	}
	return c.tracker.Start()
}

// Drag updates the in-flight gesture and returns the live direction hint. It
// never changes committed state.
func (c *Controller) Drag(dx, dy float64) style.Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tracker.Move(dx, dy)
}

// Release commits the pending gesture, if any.
func (c *Controller) Release() Result {
	c.mu.Lock()
	g, ok := c.tracker.Release()
	var res Result
	if ok {
		res = c.commitLocked(g)
	} else {
		res = c.noopLocked()
	}
	c.mu.Unlock()

	c.notifyExhausted(res)
	return res
}

// Swipe runs a whole gesture, drag start to release, as one step.
func (c *Controller) Swipe(g style.Gesture) Result {
	c.mu.Lock()
	var res Result
	if c.exhaustedLocked() || !c.tracker.Start() {
		res = c.noopLocked()
	} else {
		c.tracker.Move(g.DX, g.DY)
		g, _ = c.tracker.Release()
		res = c.commitLocked(g)
	}
	c.mu.Unlock()

	c.notifyExhausted(res)
	return res
}

func (c *Controller) commitLocked(g style.Gesture) Result {
	if c.exhaustedLocked() {
		return c.noopLocked()
	}

	action := c.config.Thresholds.OnRelease(g)
	if !action.Committed() {
		c.logger.Debug("Gesture below threshold, card returns to rest",
			zap.Float64("dx", g.DX),
			zap.Float64("dy", g.DY))
		return c.noopLocked()
	}

	index := c.cursor
	candidate := c.queue[index]

	c.dna = style.Apply(c.dna, candidate.StyleCategory, action)
	c.swipes++

	c.emitter.Emit(style.Record{
		ID:            c.newID(),
		UserID:        c.config.UserID,
		CandidateID:   candidate.ID,
		Action:        action,
		StyleCategory: candidate.StyleCategory,
		CreatedAt:     c.now().UTC(),
	})

	c.cursor++

	c.logger.Debug("Swipe committed",
		zap.String("outfit_id", candidate.ID),
		zap.String("action", action.String()),
		zap.String("style_category", string(candidate.StyleCategory)),
		zap.Int("swipes", c.swipes),
		zap.Int("cursor", c.cursor))

	return Result{
		Action:    action,
		Candidate: candidate,
		Index:     index,
		Committed: true,
		Exhausted: c.exhaustedLocked(),
		Snapshot:  c.snapshotLocked(),
	}
}

func (c *Controller) noopLocked() Result {
	return Result{
		Action:   style.ActionNone,
		Index:    c.cursor,
		Snapshot: c.snapshotLocked(),
	}
}

func (c *Controller) notifyExhausted(res Result) {
	if !res.Committed || !res.Exhausted {
		return
	}

	c.logger.Info("Candidate queue exhausted",
		zap.Int("swipes", res.Snapshot.Swipes),
		zap.Bool("personalized", res.Snapshot.Readiness.Personalized))

	if c.config.OnExhausted != nil {
		c.config.OnExhausted(res.Snapshot)
	}
}

func (c *Controller) Current() (style.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exhaustedLocked() {
		return style.Candidate{}, false
	}
	return c.queue[c.cursor], true
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	state := StateReady
	switch {
	case c.exhaustedLocked():
		state = StateExhausted
	case c.tracker.Active():
		state = StateProcessing
	}

	return Snapshot{
		UserID:    c.config.UserID,
		State:     state,
		Cursor:    c.cursor,
		Length:    len(c.queue),
		Swipes:    c.swipes,
		DNA:       c.dna.Clone(),
		Readiness: style.Readiness(c.swipes, c.config.PersonalizationThreshold),
	}
}

func (c *Controller) exhaustedLocked() bool {
	return c.cursor >= len(c.queue)
}

// Reset clears the session on sign-out: scores and counter return to zero
// and the queue is emptied.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dna = style.NewDNA()
	c.swipes = 0
	c.installLocked(nil)

	c.logger.Info("Session reset")
}

// Close flushes pending swipe records to the sink.
func (c *Controller) Close(ctx context.Context) error {
	return c.emitter.Close(ctx)
}
