package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID is not in the log.
var ErrRunNotFound = errors.New("run not found")

// ReadRuns returns every recorded run, oldest first.
// Results are ordered by seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) for an empty log.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, seq, pass, passed, failed, tool_version
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadRun returns a single run by ID.
// Returns ErrRunNotFound if no run has that ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, suite, seq, pass, passed, failed, tool_version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ReadVerdicts returns the verdicts of one run in case order.
// Results are ordered by seq ASC, case_name COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the run has no verdicts.
func (s *Store) ReadVerdicts(ctx context.Context, runID string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, case_name, expected, actual, pass, left_hash, right_hash, mismatches, seq
		FROM verdicts
		WHERE run_id = ?
		ORDER BY seq ASC, case_name COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	verdicts := []Verdict{}
	for rows.Next() {
		var (
			v          Verdict
			mismatches string
		)
		if err := rows.Scan(&v.RunID, &v.CaseName, &v.Expected, &v.Actual, &v.Pass,
			&v.LeftHash, &v.RightHash, &mismatches, &v.Seq); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		if err := json.Unmarshal([]byte(mismatches), &v.Mismatches); err != nil {
			return nil, fmt.Errorf("unmarshal mismatches for %s: %w", v.CaseName, err)
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}

	return verdicts, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Suite, &run.Seq, &run.Pass, &run.Passed, &run.Failed, &run.ToolVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
