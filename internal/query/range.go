package query

import (
	"fmt"
	"strings"
	"time"
)

// Range is a sealed interface for range facets.
// Only *NumericRange and *DateRange implement it.
type Range interface {
	// RangeField returns the field the range applies to.
	RangeField() string
	rangeNode() // Marker method - seals interface to this package
}

// NumericRange bounds a numeric field. Nil bounds are absent.
type NumericRange struct {
	Field              string
	LessThan           *float64
	LessThanOrEqual    *float64
	GreaterThan        *float64
	GreaterThanOrEqual *float64
}

func (*NumericRange) rangeNode() {}

// RangeField implements Range.
func (r *NumericRange) RangeField() string {
	if r == nil {
		return ""
	}
	return r.Field
}

// DateRange bounds a date field. Nil bounds are absent.
type DateRange struct {
	Field              string
	LessThan           *DateMath
	LessThanOrEqual    *DateMath
	GreaterThan        *DateMath
	GreaterThanOrEqual *DateMath
}

func (*DateRange) rangeNode() {}

// RangeField implements Range.
func (r *DateRange) RangeField() string {
	if r == nil {
		return ""
	}
	return r.Field
}

// HasRange reports whether r holds a range. A typed nil such as
// (*NumericRange)(nil) counts as absent.
func HasRange(r Range) bool {
	switch v := r.(type) {
	case *NumericRange:
		return v != nil
	case *DateRange:
		return v != nil
	default:
		return false
	}
}

// Bound returns a pointer to v for use as a numeric range bound.
func Bound(v float64) *float64 {
	return &v
}

// DateMath is a date range bound.
//
// It is either anchored to a parsed instant, or an unparsed date-math
// expression such as "now-1d/d" that only the search engine can resolve.
type DateMath struct {
	Anchor *time.Time
	Expr   string
}

// Instant returns a bound anchored at t.
func Instant(t time.Time) *DateMath {
	return &DateMath{Anchor: &t}
}

// DateExpr returns an unanchored date-math bound.
func DateExpr(expr string) *DateMath {
	return &DateMath{Expr: expr}
}

// ParseDateMath interprets s as an RFC 3339 instant when possible and keeps it
// as a date-math expression otherwise.
func ParseDateMath(s string) *DateMath {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Instant(t)
	}
	return DateExpr(s)
}

// IsAnchored reports whether d is a parsed instant.
func (d *DateMath) IsAnchored() bool {
	return d != nil && d.Anchor != nil
}

// String renders the canonical text of d. Anchored instants render in UTC
// RFC 3339, so the same instant written with different offsets renders the same.
func (d *DateMath) String() string {
	if d == nil {
		return "<nil>"
	}
	if d.Anchor != nil {
		return d.Anchor.UTC().Format(time.RFC3339Nano)
	}
	return d.Expr
}

// boundsString renders non-nil bounds in gt, gte, lt, lte order.
func boundsString(names []string, bounds []fmt.Stringer) string {
	parts := make([]string, 0, len(bounds))
	for i, b := range bounds {
		if b != nil {
			parts = append(parts, names[i]+" "+b.String())
		}
	}
	return strings.Join(parts, ", ")
}

type floatBound float64

func (f floatBound) String() string { return fmt.Sprintf("%g", float64(f)) }

func numericBound(p *float64) fmt.Stringer {
	if p == nil {
		return nil
	}
	return floatBound(*p)
}

func dateBound(d *DateMath) fmt.Stringer {
	if d == nil {
		return nil
	}
	return d
}
