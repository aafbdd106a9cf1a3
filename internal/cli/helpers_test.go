package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	openRequest = `{
  "query": {"bool": {"must": [{"term": {"status": "open"}}], "should": []}},
  "sort": [{"created": "desc"}],
  "aggs": {"AvgAge": {"avg": {"field": "Age"}}}
}`

	openRequestYAML = `query:
  bool:
    must:
      - term: {status: open}
    should: []
sort:
  - created: desc
aggs:
  avgage:
    avg: {field: age}
`

	closedRequest = `{
  "query": {"bool": {"must": [{"term": {"status": "closed"}}], "should": []}},
  "sort": [{"created": "desc"}],
  "aggs": {"AvgAge": {"avg": {"field": "Age"}}}
}`

	statusSuite = `name: status
cases:
  - name: same status
    left_file: requests/open.json
    right_file: requests/open.yaml
    expect: equivalent
  - name: status changed
    left_file: requests/open.json
    right_file: requests/closed.json
    expect: different
`
)

// writeFile writes content to dir/name, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeSuiteDir lays out a suites directory with the status suite and its
// request files.
func writeSuiteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "requests/open.json", openRequest)
	writeFile(t, dir, "requests/open.yaml", openRequestYAML)
	writeFile(t, dir, "requests/closed.json", closedRequest)
	writeFile(t, dir, "status.yaml", statusSuite)
	return dir
}

// executeRoot runs the full command tree with an empty environment and
// returns stdout and the command error.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand(&RootOptions{Environ: []string{}})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
