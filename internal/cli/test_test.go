package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querycmp/internal/store"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeRoot(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := executeRoot(t, "test", "/nonexistent/suites")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suites directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := executeRoot(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No suites found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, err := executeRoot(t, "--format", "json", "test", t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.NotNil(t, resp.Data.Suites)
}

func TestTestCommandPassingSuite(t *testing.T) {
	dir := writeSuiteDir(t)

	out, err := executeRoot(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ status (2/2 cases)")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandFailingCase(t *testing.T) {
	dir := writeSuiteDir(t)
	writeFile(t, dir, "wrong.yaml", `name: wrong
cases:
  - name: expects equivalence
    left_file: requests/open.json
    right_file: requests/closed.json
    expect: equivalent
`)

	out, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong (0/1 cases)")
	assert.Contains(t, out, `expects equivalence: expected equivalent, got different (query.bool.must[0].term: value "open" != "closed")`)
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeSuiteDir(t)
	writeFile(t, dir, "other.yaml", "name: broken\n")

	out, err := executeRoot(t, "test", dir, "--filter", "stat*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "broken")
}

func TestTestCommandInvalidSuite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\ncases: []\n")

	out, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "Load error")
}

func TestTestCommandGoldenLifecycle(t *testing.T) {
	dir := writeSuiteDir(t)
	goldenPath := filepath.Join(dir, "golden", "status.golden")

	out, err := executeRoot(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")
	require.FileExists(t, goldenPath)

	// Matches the snapshot it just wrote.
	_, err = executeRoot(t, "test", dir)
	require.NoError(t, err)

	// A tampered snapshot fails the suite.
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"tampered":true}`), 0o644))
	out, err = executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandRecord(t *testing.T) {
	dir := writeSuiteDir(t)
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")

	out, err := executeRoot(t, "--format", "json", "test", dir, "--record", dbPath, "--parallel", "1")
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Suites, 1)
	runID := resp.Data.Suites[0].RunID
	require.NotEmpty(t, runID)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	run, err := s.ReadRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "status", run.Suite)
	assert.True(t, run.Pass)
	assert.Equal(t, 2, run.Passed)

	verdicts, err := s.ReadVerdicts(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Equal(t, "same status", verdicts[0].CaseName)
	assert.Equal(t, "status changed", verdicts[1].CaseName)
	assert.Equal(t, "different", verdicts[1].Actual)
}

func TestFindSuiteFiles(t *testing.T) {
	dir := writeSuiteDir(t)
	writeFile(t, dir, "b.yml", "name: b\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "golden/status.golden", "{}")

	files, err := findSuiteFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "status.yaml"),
	}, files)

	_, err = findSuiteFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestTestCommandRecordGoldenMismatch(t *testing.T) {
	dir := writeSuiteDir(t)
	writeFile(t, dir, "golden/status.golden", `{"tampered":true}`)
	dbPath := filepath.Join(t.TempDir(), "verdicts.db")

	out, err := executeRoot(t, "--format", "json", "test", dir, "--record", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Suites, 1)
	suite := resp.Data.Suites[0]
	assert.False(t, suite.Pass)
	require.NotEmpty(t, suite.RunID)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	run, err := s.ReadRun(context.Background(), suite.RunID)
	require.NoError(t, err)
	assert.False(t, run.Pass, "golden mismatch fails the recorded run")
	assert.Equal(t, 2, run.Passed)
	assert.Equal(t, 0, run.Failed)
}
