package equiv

import (
	"fmt"
	"strings"
)

// Report describes the outcome of one comparison.
type Report struct {
	Equivalent bool
	Mismatches []Mismatch
}

// Mismatch is one difference found between the two sides.
type Mismatch struct {
	// Path locates the difference, e.g. "query.bool.must[0].term".
	Path string

	// Facet is the part being compared: a node facet name, "sort",
	// "aggs" or "query".
	Facet string

	// Reason describes the difference, left side first.
	Reason string
}

// String renders "path: reason".
func (m Mismatch) String() string {
	return m.Path + ": " + m.Reason
}

// String renders "equivalent" or one mismatch per line.
func (r Report) String() string {
	if r.Equivalent {
		return "equivalent"
	}
	if len(r.Mismatches) == 0 {
		return "different"
	}
	lines := make([]string, len(r.Mismatches))
	for i, m := range r.Mismatches {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}

func oneSided(leftPresent bool) string {
	if leftPresent {
		return "present on left only"
	}
	return "present on right only"
}

func quoted(s string, present bool) string {
	if !present {
		return "<absent>"
	}
	return fmt.Sprintf("%q", s)
}
