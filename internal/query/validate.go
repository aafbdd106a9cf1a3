package query

import "fmt"

// ValidationResult contains the well-formedness analysis of a request.
//
// Comparators assume well-formed input: every node reachable, acyclic and
// shallower than MaxDepth. Requests that fail validation may still be
// compared, but the comparators will report malformed trees as errors.
type ValidationResult struct {
	// IsWellFormed is true when no warnings were recorded.
	IsWellFormed bool

	// Warnings lists each problem with the path where it was found.
	Warnings []string
}

// Validate checks a request for shapes the comparators cannot reason about.
//
// Rules:
//  1. No nil nodes inside bool lists or nested facets
//  2. No cycles and no nesting deeper than MaxDepth
//  3. Clause fields and nested paths are non-empty
//  4. Every node carries at least one facet
//  5. Sort keys are non-empty; every aggregation carries a metric
//
// Validate is a pure function with no side effects.
func Validate(req *SearchRequest) ValidationResult {
	v := &validator{
		warnings: []string{},
		onPath:   make(map[*Node]bool),
	}
	if req == nil {
		v.addWarning("request: nil request")
		return v.result()
	}

	if req.Query != nil {
		v.validateNode("query", req.Query, 1)
	}
	for i, s := range req.Sort {
		if s.Key == "" {
			v.addWarning("sort[%d]: empty sort key", i)
		}
	}
	for _, name := range req.Aggs.Names() {
		spec, _ := req.Aggs.Get(name)
		v.validateAggregation(name, spec)
	}

	return v.result()
}

// ValidateNode checks a single query tree.
func ValidateNode(n *Node) ValidationResult {
	v := &validator{
		warnings: []string{},
		onPath:   make(map[*Node]bool),
	}
	v.validateNode("query", n, 1)
	return v.result()
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
	onPath   map[*Node]bool // nodes on the current descent, for cycle detection
}

func (v *validator) result() ValidationResult {
	return ValidationResult{
		IsWellFormed: len(v.warnings) == 0,
		Warnings:     v.warnings,
	}
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validateNode recursively validates a node.
func (v *validator) validateNode(path string, n *Node, depth int) {
	if n == nil {
		v.addWarning("%s: nil node", path)
		return
	}
	if v.onPath[n] {
		v.addWarning("%s: cycle detected", path)
		return
	}
	if depth > MaxDepth {
		v.addWarning("%s: depth exceeds %d", path, MaxDepth)
		return
	}

	v.onPath[n] = true
	defer delete(v.onPath, n)

	if n.FacetCount() == 0 {
		v.addWarning("%s: node carries no facet", path)
	}

	if n.Nested != nil {
		if n.Nested.Path == "" {
			v.addWarning("%s.nested: empty path", path)
		}
		v.validateNode(path+".nested.query", n.Nested.Query, depth+1)
	}
	if n.Bool != nil {
		for i, child := range n.Bool.Must {
			v.validateNode(fmt.Sprintf("%s.bool.must[%d]", path, i), child, depth+1)
		}
		for i, child := range n.Bool.Should {
			v.validateNode(fmt.Sprintf("%s.bool.should[%d]", path, i), child, depth+1)
		}
	}
	if n.Match != nil && n.Match.Field == "" {
		v.addWarning("%s.match: empty field", path)
	}
	if n.Prefix != nil && n.Prefix.Field == "" {
		v.addWarning("%s.prefix: empty field", path)
	}
	if n.Term != nil && n.Term.Field == "" {
		v.addWarning("%s.term: empty field", path)
	}
	if HasRange(n.Range) && n.Range.RangeField() == "" {
		v.addWarning("%s.range: empty field", path)
	}
}

// validateAggregation checks that an aggregation requests at least one metric.
func (v *validator) validateAggregation(name string, spec AggregationSpec) {
	for _, k := range AggregationKinds {
		if spec.Kind(k) != nil {
			return
		}
	}
	v.addWarning("aggs.%s: no metric requested", name)
}
