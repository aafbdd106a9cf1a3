package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/querycmp/internal/ir"
)

// toCanonicalMap converts a Result to a map[string]any for canonical JSON.
// Error text is left out: it can carry absolute paths.
func (r *Result) toCanonicalMap() map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		m := map[string]any{
			"name":   c.Name,
			"expect": c.Expect,
			"actual": c.Actual,
			"pass":   c.Pass,
		}
		if c.LeftHash != "" {
			m["left_hash"] = c.LeftHash
		}
		if c.RightHash != "" {
			m["right_hash"] = c.RightHash
		}
		if len(c.Mismatches) > 0 {
			m["mismatches"] = c.Mismatches
		}
		cases[i] = m
	}

	return map[string]any{
		"version": ir.SnapshotVersion,
		"suite":   r.Suite,
		"pass":    r.Pass,
		"cases":   cases,
	}
}

// Snapshot renders a result as canonical JSON.
func Snapshot(r *Result) ([]byte, error) {
	data, err := ir.MarshalCanonical(r.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.Suite, err)
	}
	return data, nil
}

// GoldenPath returns the golden file for a suite: golden/<name>.golden next
// to the suite file.
func GoldenPath(suiteFile, suiteName string) string {
	return filepath.Join(filepath.Dir(suiteFile), "golden", suiteName+".golden")
}

// UpdateGolden writes the result snapshot to path.
func UpdateGolden(path string, r *Result) error {
	data, err := Snapshot(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result matches the golden file at path.
// A missing golden file returns an error wrapping os.ErrNotExist.
func CompareGolden(path string, r *Result) (bool, error) {
	golden, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	current, err := Snapshot(r)
	if err != nil {
		return false, err
	}
	return bytes.Equal(golden, current), nil
}

// AssertGolden compares the result snapshot with dir/<suite>.golden.
//
// To regenerate golden files, run the calling test with -update.
func AssertGolden(t *testing.T, dir string, r *Result) {
	t.Helper()

	data, err := Snapshot(r)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, r.Suite, data)
}
