package store

import (
	"context"
	"fmt"

	"github.com/roach88/querycmp/internal/fixture"
	"github.com/roach88/querycmp/internal/ir"
)

// Recorder appends fixture results to a store.
type Recorder struct {
	store *Store
	ids   IDGenerator
	clock SeqSource
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithIDGenerator replaces the UUIDv7 run-ID generator.
func WithIDGenerator(g IDGenerator) RecorderOption {
	return func(r *Recorder) { r.ids = g }
}

// WithClock replaces the clock resumed from the store.
func WithClock(c SeqSource) RecorderOption {
	return func(r *Recorder) { r.clock = c }
}

// NewRecorder creates a recorder whose clock resumes after the highest seq
// already in the store.
func NewRecorder(ctx context.Context, s *Store, opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{store: s, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		seq, err := s.MaxSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume clock: %w", err)
		}
		r.clock = NewClockAt(seq)
	}
	return r, nil
}

// Record writes one run and its verdicts in a single transaction and returns
// the run.
func (r *Recorder) Record(ctx context.Context, res *fixture.Result) (Run, error) {
	run := Run{
		ID:          r.ids.Generate(),
		Suite:       res.Suite,
		Seq:         r.clock.Next(),
		Pass:        res.Pass,
		Passed:      res.Passed(),
		Failed:      res.Failed(),
		ToolVersion: ir.ToolVersion,
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return Run{}, err
	}
	for _, c := range res.Cases {
		v := Verdict{
			RunID:      run.ID,
			CaseName:   c.Name,
			Expected:   c.Expect,
			Actual:     c.Actual,
			Pass:       c.Pass,
			LeftHash:   c.LeftHash,
			RightHash:  c.RightHash,
			Mismatches: c.Mismatches,
			Seq:        r.clock.Next(),
		}
		if err := writeVerdict(ctx, tx, v); err != nil {
			return Run{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}
