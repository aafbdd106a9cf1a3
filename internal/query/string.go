package query

import (
	"fmt"
	"strings"

	"github.com/roach88/querycmp/internal/ir"
)

var rangeBoundNames = []string{"gt", "gte", "lt", "lte"}

// String returns a compact, human-readable rendering of the node.
// Multiple facets are joined with " & ".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	var parts []string
	if n.Nested != nil {
		parts = append(parts, fmt.Sprintf("nested(%s){%s}", n.Nested.Path, n.Nested.Query))
	}
	if n.Bool != nil {
		parts = append(parts, fmt.Sprintf("bool(must:%s, should:%s)",
			listString(n.Bool.Must), listString(n.Bool.Should)))
	}
	if n.Match != nil {
		parts = append(parts, fmt.Sprintf("match(%s~%s)", n.Match.Field, valueString(n.Match.Query)))
	}
	if n.Prefix != nil {
		parts = append(parts, fmt.Sprintf("prefix(%s^=%s)", n.Prefix.Field, valueString(n.Prefix.Value)))
	}
	if n.Term != nil {
		parts = append(parts, fmt.Sprintf("term(%s=%s)", n.Term.Field, valueString(n.Term.Value)))
	}
	switch r := n.Range.(type) {
	case *NumericRange:
		if r == nil {
			break
		}
		parts = append(parts, fmt.Sprintf("range(%s:[%s])", r.Field, boundsString(rangeBoundNames, []fmt.Stringer{
			numericBound(r.GreaterThan), numericBound(r.GreaterThanOrEqual),
			numericBound(r.LessThan), numericBound(r.LessThanOrEqual),
		})))
	case *DateRange:
		if r == nil {
			break
		}
		parts = append(parts, fmt.Sprintf("daterange(%s:[%s])", r.Field, boundsString(rangeBoundNames, []fmt.Stringer{
			dateBound(r.GreaterThan), dateBound(r.GreaterThanOrEqual),
			dateBound(r.LessThan), dateBound(r.LessThanOrEqual),
		})))
	}

	if len(parts) == 0 {
		return "empty()"
	}
	return strings.Join(parts, " & ")
}

func listString(nodes []*Node) string {
	if nodes == nil {
		return "-"
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func valueString(v ir.Value) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(ir.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.Text()
}
