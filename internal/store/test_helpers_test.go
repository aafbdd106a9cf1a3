package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/querycmp/internal/fixture"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, suite string, seq int64) Run {
	return Run{
		ID:          id,
		Suite:       suite,
		Seq:         seq,
		Pass:        true,
		Passed:      1,
		Failed:      0,
		ToolVersion: "0.1.0",
	}
}

// createTestVerdict creates a passing equivalent verdict.
func createTestVerdict(runID, caseName string, seq int64) Verdict {
	return Verdict{
		RunID:      runID,
		CaseName:   caseName,
		Expected:   fixture.ExpectEquivalent,
		Actual:     fixture.ExpectEquivalent,
		Pass:       true,
		LeftHash:   "left-hash",
		RightHash:  "right-hash",
		Mismatches: []string{},
		Seq:        seq,
	}
}

// createTestResult builds a fixture result with one passing and one failing case.
func createTestResult() *fixture.Result {
	return &fixture.Result{
		Suite: "status",
		Pass:  false,
		Cases: []fixture.CaseResult{
			{
				Name:      "same status",
				Expect:    fixture.ExpectEquivalent,
				Actual:    fixture.ExpectEquivalent,
				Pass:      true,
				LeftHash:  "aaa",
				RightHash: "aaa",
			},
			{
				Name:       "status changed",
				Expect:     fixture.ExpectEquivalent,
				Actual:     fixture.ExpectDifferent,
				Pass:       false,
				LeftHash:   "aaa",
				RightHash:  "bbb",
				Mismatches: []string{`query.term: value "open" != "closed"`},
			},
		},
	}
}
