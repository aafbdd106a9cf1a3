package equiv

import (
	"fmt"

	"github.com/roach88/querycmp/internal/query"
)

// comparison holds the state of one top-level comparison.
// The first error stops all further descent.
type comparison struct {
	policy     LengthPolicy
	maxDepth   int
	mismatches []Mismatch
	err        error
}

func (c *comparison) mismatch(path, facet, format string, args ...any) {
	c.mismatches = append(c.mismatches, Mismatch{
		Path:   path,
		Facet:  facet,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (c *comparison) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// present applies the arity template and records one-sided parts.
func (c *comparison) present(path, facet string, aPresent, bPresent bool, eq func() bool) bool {
	if presenceArity(aPresent, bPresent) == arityOne {
		c.mismatch(path, facet, "%s", oneSided(aPresent))
	}
	return comparePresence(aPresent, bPresent, eq)
}

// optional is present for pointer-valued parts.
func optional[T any](c *comparison, path string, facet query.Facet, a, b *T, eq func(a, b *T) bool) bool {
	if presenceArity(a != nil, b != nil) == arityOne {
		c.mismatch(path, string(facet), "%s", oneSided(a != nil))
	}
	return compareOptional(a, b, eq)
}

// node compares two query nodes.
//
// The nested facet is checked first. A nested mismatch ends the
// comparison; a nested match falls through to the bool and leaf facets,
// which must agree as well. If both nodes are bool, only the clause lists
// are compared. If neither is, all five leaf comparators run.
func (c *comparison) node(path string, a, b *query.Node, depth int) bool {
	if c.err != nil {
		return false
	}
	if a == nil || b == nil {
		c.fail(fmt.Errorf("%w at %s", ErrNilNode, path))
		return false
	}
	if depth > c.maxDepth {
		c.fail(fmt.Errorf("%w at %s (limit %d)", ErrDepthExceeded, path, c.maxDepth))
		return false
	}

	if !optional(c, path+".nested", query.FacetNested, a.Nested, b.Nested, func(x, y *query.Nested) bool {
		return c.nested(path, x, y, depth)
	}) {
		return false
	}

	if a.Bool == nil && b.Bool == nil {
		return c.leaves(path, a, b)
	}
	return optional(c, path+".bool", query.FacetBool, a.Bool, b.Bool, func(x, y *query.Bool) bool {
		return c.boolClause(path+".bool", x, y, depth)
	})
}

func (c *comparison) nested(path string, a, b *query.Nested, depth int) bool {
	eq := true
	if a.Path != b.Path {
		c.mismatch(path+".nested", string(query.FacetNested), "path %q != %q", a.Path, b.Path)
		eq = false
	}
	return c.node(path+".nested.query", a.Query, b.Query, depth+1) && eq
}

// leaves runs every leaf comparator without short-circuiting, so the
// report lists all leaf mismatches.
func (c *comparison) leaves(path string, a, b *query.Node) bool {
	eq := c.term(path, a.Term, b.Term)
	eq = c.match(path, a.Match, b.Match) && eq
	eq = c.prefix(path, a.Prefix, b.Prefix) && eq
	eq = c.numericRange(path, a.Range, b.Range) && eq
	eq = c.dateRange(path, a.Range, b.Range) && eq
	return eq
}

func (c *comparison) boolClause(path string, a, b *query.Bool, depth int) bool {
	eq := c.clauseList(path+".must", a.Must, b.Must, depth)
	return c.clauseList(path+".should", a.Should, b.Should, depth) && eq
}

// clauseList compares two clause lists element by element.
func (c *comparison) clauseList(path string, a, b []*query.Node, depth int) bool {
	return c.present(path, string(query.FacetBool), a != nil, b != nil, func() bool {
		if c.policy == LengthStrict && len(a) != len(b) {
			c.mismatch(path, string(query.FacetBool), "length %d != %d", len(a), len(b))
			return false
		}

		eq := true
		for i := range a {
			if i >= len(b) {
				c.fail(fmt.Errorf("%w: %s[%d] (left has %d clauses, right has %d)",
					ErrClauseIndex, path, i, len(a), len(b)))
				return false
			}
			eq = c.node(fmt.Sprintf("%s[%d]", path, i), a[i], b[i], depth+1) && eq
			if c.err != nil {
				return false
			}
		}
		return eq
	})
}
