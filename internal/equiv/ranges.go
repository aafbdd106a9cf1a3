package equiv

import (
	"strconv"

	"github.com/roach88/querycmp/internal/query"
)

// NumericRanges reports whether the numeric range facets of two nodes are
// equivalent. When either node carries a date range the comparator does not
// apply and reports no conflict; DateRanges owns that case.
func NumericRanges(a, b *query.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return new(comparison).numericRange("query", a.Range, b.Range)
}

// DateRanges reports whether the date range facets of two nodes are
// equivalent. When either node carries a numeric range the comparator does
// not apply and reports no conflict.
func DateRanges(a, b *query.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return new(comparison).dateRange("query", a.Range, b.Range)
}

// asNumeric narrows r to a numeric range. An absent range narrows to nil;
// a date range does not narrow.
func asNumeric(r query.Range) (*query.NumericRange, bool) {
	if r == nil {
		return nil, true
	}
	n, ok := r.(*query.NumericRange)
	return n, ok
}

func asDate(r query.Range) (*query.DateRange, bool) {
	if r == nil {
		return nil, true
	}
	d, ok := r.(*query.DateRange)
	return d, ok
}

func (c *comparison) numericRange(path string, a, b query.Range) bool {
	x, aok := asNumeric(a)
	y, bok := asNumeric(b)
	if !aok || !bok {
		return true
	}

	path += ".range"
	return optional(c, path, query.FacetRange, x, y, func(x, y *query.NumericRange) bool {
		eq := c.rangeField(path, x.Field, y.Field)
		eq = c.numericBound(path, "lt", x.LessThan, y.LessThan) && eq
		eq = c.numericBound(path, "lte", x.LessThanOrEqual, y.LessThanOrEqual) && eq
		eq = c.numericBound(path, "gt", x.GreaterThan, y.GreaterThan) && eq
		eq = c.numericBound(path, "gte", x.GreaterThanOrEqual, y.GreaterThanOrEqual) && eq
		return eq
	})
}

func (c *comparison) dateRange(path string, a, b query.Range) bool {
	x, aok := asDate(a)
	y, bok := asDate(b)
	if !aok || !bok {
		return true
	}

	path += ".range"
	return optional(c, path, query.FacetRange, x, y, func(x, y *query.DateRange) bool {
		eq := c.rangeField(path, x.Field, y.Field)
		eq = c.dateBound(path, "lt", x.LessThan, y.LessThan) && eq
		eq = c.dateBound(path, "lte", x.LessThanOrEqual, y.LessThanOrEqual) && eq
		eq = c.dateBound(path, "gt", x.GreaterThan, y.GreaterThan) && eq
		eq = c.dateBound(path, "gte", x.GreaterThanOrEqual, y.GreaterThanOrEqual) && eq
		return eq
	})
}

func (c *comparison) rangeField(path, a, b string) bool {
	if a != b {
		c.mismatch(path, string(query.FacetRange), "field %q != %q", a, b)
		return false
	}
	return true
}

func (c *comparison) numericBound(path, name string, a, b *float64) bool {
	if compareOptional(a, b, func(x, y *float64) bool { return *x == *y }) {
		return true
	}
	c.mismatch(path, string(query.FacetRange), "%s %s != %s", name, floatText(a), floatText(b))
	return false
}

// dateBound compares two date bounds. Anchored bounds compare as instants,
// so offsets do not matter; anything else compares by canonical text.
func (c *comparison) dateBound(path, name string, a, b *query.DateMath) bool {
	if compareOptional(a, b, sameDate) {
		return true
	}
	c.mismatch(path, string(query.FacetRange), "%s %s != %s", name, dateText(a), dateText(b))
	return false
}

func sameDate(a, b *query.DateMath) bool {
	if a.IsAnchored() && b.IsAnchored() {
		return a.Anchor.Equal(*b.Anchor)
	}
	return a.String() == b.String()
}

func floatText(f *float64) string {
	if f == nil {
		return "<absent>"
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

func dateText(d *query.DateMath) string {
	if d == nil {
		return "<absent>"
	}
	return d.String()
}
