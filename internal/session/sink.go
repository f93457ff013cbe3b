package session

import (
	"context"
	"errors"

	"github.com/strrl/style-dna/internal/style"
)

type Fetcher interface {
	FetchCandidates(ctx context.Context, filter style.Filter) ([]style.Candidate, error)
}

type Sink interface {
	RecordSwipe(ctx context.Context, rec style.Record) error
}

type SinkFunc func(ctx context.Context, rec style.Record) error

func (f SinkFunc) RecordSwipe(ctx context.Context, rec style.Record) error {
	return f(ctx, rec)
}

// MultiSink hands each record to every sink, even when an earlier one fails.
type MultiSink []Sink

func (m MultiSink) RecordSwipe(ctx context.Context, rec style.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordSwipe(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var discard = SinkFunc(func(context.Context, style.Record) error { return nil })
