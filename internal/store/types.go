package store

// Run is one recorded fixture-suite execution.
type Run struct {
	ID          string `json:"id"`
	Suite       string `json:"suite"`
	Seq         int64  `json:"seq"`
	Pass        bool   `json:"pass"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	ToolVersion string `json:"tool_version"`
}

// Verdict is the recorded outcome of one case within a run.
type Verdict struct {
	RunID      string   `json:"run_id"`
	CaseName   string   `json:"case"`
	Expected   string   `json:"expected"`
	Actual     string   `json:"actual"`
	Pass       bool     `json:"pass"`
	LeftHash   string   `json:"left_hash"`
	RightHash  string   `json:"right_hash"`
	Mismatches []string `json:"mismatches"`
	Seq        int64    `json:"seq"`
}
