package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateAggregation is returned when an aggregation name is reused
// within one dictionary.
var ErrDuplicateAggregation = errors.New("duplicate aggregation name")

// SearchRequest is a complete search request: the query tree plus the
// result-shaping specifications compared alongside it.
type SearchRequest struct {
	Query *Node         // nil = no query
	Sort  []SortField   // priority order
	Aggs  *Aggregations // nil = no aggregations
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending",
// ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q", s)
	}
}

// SortField is one entry of a sort specification.
// Position in the enclosing slice is the sort priority.
type SortField struct {
	Key       string
	Direction Direction
}

// AggregationKind names a metric aggregation.
type AggregationKind string

const (
	AggSum     AggregationKind = "sum"
	AggMin     AggregationKind = "min"
	AggMax     AggregationKind = "max"
	AggAverage AggregationKind = "avg"
)

// AggregationKinds lists the supported metric kinds in comparison order.
var AggregationKinds = []AggregationKind{AggSum, AggMin, AggMax, AggAverage}

// MetricAgg is a single-field metric aggregation.
type MetricAgg struct {
	Field string
	Name  string
}

// AggregationSpec is an aggregation request. Upstream builders set one kind;
// the comparator checks all of them.
type AggregationSpec struct {
	Sum     *MetricAgg
	Min     *MetricAgg
	Max     *MetricAgg
	Average *MetricAgg
}

// Kind returns the metric of the given kind, or nil when absent.
func (s AggregationSpec) Kind(k AggregationKind) *MetricAgg {
	switch k {
	case AggSum:
		return s.Sum
	case AggMin:
		return s.Min
	case AggMax:
		return s.Max
	case AggAverage:
		return s.Average
	default:
		return nil
	}
}

// Aggregations is an ordered dictionary from aggregation name to spec.
// Iteration follows insertion order. The zero value is an empty dictionary
// ready for use. A nil *Aggregations behaves as an empty dictionary for all
// read methods.
type Aggregations struct {
	names []string
	specs map[string]AggregationSpec
}

// NewAggregations creates an empty dictionary.
func NewAggregations() *Aggregations {
	return &Aggregations{specs: make(map[string]AggregationSpec)}
}

// Set appends name to the dictionary.
// Returns ErrDuplicateAggregation if name is already present.
func (a *Aggregations) Set(name string, spec AggregationSpec) error {
	if _, exists := a.specs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAggregation, name)
	}
	if a.specs == nil {
		a.specs = make(map[string]AggregationSpec)
	}
	a.names = append(a.names, name)
	a.specs[name] = spec
	return nil
}

// Len returns the number of entries.
func (a *Aggregations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// First returns the earliest inserted entry.
func (a *Aggregations) First() (string, AggregationSpec, bool) {
	if a.Len() == 0 {
		return "", AggregationSpec{}, false
	}
	name := a.names[0]
	return name, a.specs[name], true
}

// Get returns the spec stored under name.
func (a *Aggregations) Get(name string) (AggregationSpec, bool) {
	if a == nil {
		return AggregationSpec{}, false
	}
	spec, ok := a.specs[name]
	return spec, ok
}

// Names returns the names in insertion order.
func (a *Aggregations) Names() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}
