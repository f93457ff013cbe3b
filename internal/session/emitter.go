package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strrl/style-dna/internal/style"
)

const (
	defaultQueueSize   = 64
	defaultSinkTimeout = 10 * time.Second
)

// Emitter delivers swipe records to a sink from one background goroutine so
// that records arrive in commit order and the caller never waits on I/O.
// Delivery is best effort: a full queue drops the record and sink errors are
// only logged.
type Emitter struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan style.Record
	done   chan struct{}
}

func NewEmitter(sink Sink, queueSize int, timeout time.Duration, logger *zap.Logger) *Emitter {
	if sink == nil {
		sink = discard
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Emitter{
		sink:    sink,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan style.Record, queueSize),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit enqueues rec without blocking and reports whether it was accepted.
func (e *Emitter) Emit(rec style.Record) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		e.logger.Warn("Swipe record dropped after close", zap.String("outfit_id", rec.CandidateID))
		return false
	}

	select {
	case e.queue <- rec:
		return true
	default:
		e.logger.Warn("Swipe record queue full, dropping record",
			zap.String("outfit_id", rec.CandidateID),
			zap.Int("queue_size", cap(e.queue)))
		return false
	}
}

func (e *Emitter) run() {
	defer close(e.done)

	for rec := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		err := e.sink.RecordSwipe(ctx, rec)
		cancel()

		if err != nil {
			e.logger.Warn("Failed to record swipe",
				zap.String("user_id", rec.UserID),
				zap.String("outfit_id", rec.CandidateID),
				zap.String("action", rec.Action.String()),
				zap.Error(err))
			continue
		}

		e.logger.Debug("Swipe recorded",
			zap.String("id", rec.ID),
			zap.String("outfit_id", rec.CandidateID))
	}
}

// Close stops accepting records and waits until the queue is drained or ctx
// is done.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
