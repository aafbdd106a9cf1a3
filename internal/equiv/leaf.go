package equiv

import (
	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

// Terms reports whether the term facets of two nodes are equivalent.
// Fields compare exactly and values by their text.
func Terms(a, b *query.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return new(comparison).term("query", a.Term, b.Term)
}

// Matches reports whether the match facets of two nodes are equivalent.
func Matches(a, b *query.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return new(comparison).match("query", a.Match, b.Match)
}

// Prefixes reports whether the prefix facets of two nodes are equivalent.
func Prefixes(a, b *query.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return new(comparison).prefix("query", a.Prefix, b.Prefix)
}

func (c *comparison) term(path string, a, b *query.Term) bool {
	path += ".term"
	return optional(c, path, query.FacetTerm, a, b, func(x, y *query.Term) bool {
		return c.clause(path, query.FacetTerm, x.Field, y.Field, x.Value, y.Value)
	})
}

func (c *comparison) match(path string, a, b *query.Match) bool {
	path += ".match"
	return optional(c, path, query.FacetMatch, a, b, func(x, y *query.Match) bool {
		return c.clause(path, query.FacetMatch, x.Field, y.Field, x.Query, y.Query)
	})
}

func (c *comparison) prefix(path string, a, b *query.Prefix) bool {
	path += ".prefix"
	return optional(c, path, query.FacetPrefix, a, b, func(x, y *query.Prefix) bool {
		return c.clause(path, query.FacetPrefix, x.Field, y.Field, x.Value, y.Value)
	})
}

// clause compares the field and value shared by every leaf facet.
// Field names are case-sensitive. Values compare by rendered text, so
// Int(5) and Float(5) agree; two absent values agree.
func (c *comparison) clause(path string, facet query.Facet, aField, bField string, aValue, bValue ir.Value) bool {
	eq := true
	if aField != bField {
		c.mismatch(path, string(facet), "field %q != %q", aField, bField)
		eq = false
	}
	if !ir.SameText(aValue, bValue) {
		at, aok := ir.TextOf(aValue)
		bt, bok := ir.TextOf(bValue)
		c.mismatch(path, string(facet), "value %s != %s", quoted(at, aok), quoted(bt, bok))
		eq = false
	}
	return eq
}
