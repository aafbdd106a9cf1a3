package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/querycmp/internal/ir"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	return writeRun(ctx, s.db, run)
}

// WriteVerdict inserts a verdict record.
// Uses ON CONFLICT DO NOTHING for idempotency - a second verdict for the same
// (run_id, case_name) is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteVerdict(ctx context.Context, v Verdict) error {
	return writeVerdict(ctx, s.db, v)
}

func writeRun(ctx context.Context, db execer, run Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, seq, pass, passed, failed, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Suite,
		run.Seq,
		run.Pass,
		run.Passed,
		run.Failed,
		run.ToolVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func writeVerdict(ctx context.Context, db execer, v Verdict) error {
	mismatches, err := marshalMismatches(v.Mismatches)
	if err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO verdicts
		(run_id, case_name, expected, actual, pass, left_hash, right_hash, mismatches, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		v.RunID,
		v.CaseName,
		v.Expected,
		v.Actual,
		v.Pass,
		v.LeftHash,
		v.RightHash,
		mismatches,
		v.Seq,
	)
	if err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}
	return nil
}

// marshalMismatches stores the list as canonical JSON TEXT.
func marshalMismatches(m []string) (string, error) {
	if m == nil {
		m = []string{}
	}
	data, err := ir.MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("marshal mismatches: %w", err)
	}
	return string(data), nil
}
