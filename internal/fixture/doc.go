// Package fixture runs comparison suites: YAML files listing pairs of
// search requests and the verdict each pair should get.
//
// A suite looks like:
//
//	name: bool-term
//	description: term clauses inside bool lists
//	length_policy: strict
//	cases:
//	  - name: same status
//	    left:  {query: {term: {status: open}}}
//	    right_file: requests/status-open.json
//	    expect: equivalent
//
// Requests are given inline (left/right) or as files (left_file/right_file)
// relative to the suite file. Expectations are equivalent, different or
// error; error cases expect the pair to be rejected as malformed.
//
// Run evaluates every case and reports each verdict with the fingerprints
// of both requests. Snapshot renders a result as canonical JSON for golden
// comparison.
package fixture
