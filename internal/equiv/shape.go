package equiv

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/querycmp/internal/query"
)

// Sorts reports whether two sort specifications are equivalent: same
// length, and the same key and direction at every position.
func Sorts(a, b []query.SortField) bool {
	return new(comparison).sorts("sort", a, b)
}

// Aggregations reports whether two aggregation dictionaries are equivalent.
//
// The dictionaries must hold the same number of entries, and their first
// entries must request the same metrics. For each metric kind present on
// both sides, field and name compare case-insensitively. Entries after the
// first are not inspected. Two empty dictionaries are equivalent.
func Aggregations(a, b *query.Aggregations) bool {
	return new(comparison).aggregations("aggs", a, b)
}

func (c *comparison) sorts(path string, a, b []query.SortField) bool {
	if len(a) != len(b) {
		c.mismatch(path, "sort", "length %d != %d", len(a), len(b))
		return false
	}
	eq := true
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Direction != b[i].Direction {
			c.mismatch(fmt.Sprintf("%s[%d]", path, i), "sort", "%s %s != %s %s",
				a[i].Key, a[i].Direction, b[i].Key, b[i].Direction)
			eq = false
		}
	}
	return eq
}

func (c *comparison) aggregations(path string, a, b *query.Aggregations) bool {
	if a.Len() != b.Len() {
		c.mismatch(path, "aggs", "count %d != %d", a.Len(), b.Len())
		return false
	}
	if a.Len() == 0 {
		return true
	}

	_, aSpec, _ := a.First()
	_, bSpec, _ := b.First()
	eq := true
	for _, kind := range query.AggregationKinds {
		eq = c.metric(fmt.Sprintf("%s[0].%s", path, kind), aSpec.Kind(kind), bSpec.Kind(kind)) && eq
	}
	return eq
}

func (c *comparison) metric(path string, a, b *query.MetricAgg) bool {
	if presenceArity(a != nil, b != nil) == arityOne {
		c.mismatch(path, "aggs", "%s", oneSided(a != nil))
	}
	return compareOptional(a, b, func(x, y *query.MetricAgg) bool {
		eq := true
		if !lowerEqual(x.Field, y.Field) {
			c.mismatch(path, "aggs", "field %q != %q", x.Field, y.Field)
			eq = false
		}
		if !lowerEqual(x.Name, y.Name) {
			c.mismatch(path, "aggs", "name %q != %q", x.Name, y.Name)
			eq = false
		}
		return eq
	})
}

// lowerEqual compares the language-neutral lowercase forms of two strings.
// Only the casing changes, so "straße" and "STRASSE" stay distinct.
func lowerEqual(a, b string) bool {
	lower := cases.Lower(language.Und)
	return lower.String(a) == lower.String(b)
}
