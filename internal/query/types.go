package query

import "github.com/roach88/querycmp/internal/ir"

// Facet names one of the optional clause shapes a Node may carry.
type Facet string

const (
	FacetNested Facet = "nested"
	FacetBool   Facet = "bool"
	FacetMatch  Facet = "match"
	FacetPrefix Facet = "prefix"
	FacetTerm   Facet = "term"
	FacetRange  Facet = "range"
)

// Facets lists every facet in the order nodes are rendered and reported.
var Facets = []Facet{FacetNested, FacetBool, FacetMatch, FacetPrefix, FacetTerm, FacetRange}

// MaxDepth bounds how deeply nodes may nest before a tree is considered
// malformed. Real queries stay in single digits.
const MaxDepth = 64

// Node is one node of a search query tree.
//
// Every facet is optional. A nil facet means the clause is not part of the
// query, which is different from a facet with empty fields.
type Node struct {
	Nested *Nested
	Bool   *Bool
	Match  *Match
	Prefix *Prefix
	Term   *Term
	Range  Range // *NumericRange, *DateRange or nil
}

// Nested scopes an inner query to a nested-document path.
//
// Semantics:
//
//	{"nested": {"path": "items", "query": {...}}}
type Nested struct {
	Path  string
	Query *Node
}

// Bool is a boolean composite of sub-queries.
//
// A nil list is absent; a non-nil empty list is present and empty. Element
// order is significant to the comparators.
type Bool struct {
	Must   []*Node
	Should []*Node
}

// Match is a full-text match clause.
type Match struct {
	Field string
	Query ir.Value // nil = no query text
}

// Prefix matches terms beginning with Value.
type Prefix struct {
	Field string
	Value ir.Value
}

// Term is an exact-value clause.
type Term struct {
	Field string
	Value ir.Value
}

// Has reports whether n carries the given facet.
func (n *Node) Has(f Facet) bool {
	if n == nil {
		return false
	}
	switch f {
	case FacetNested:
		return n.Nested != nil
	case FacetBool:
		return n.Bool != nil
	case FacetMatch:
		return n.Match != nil
	case FacetPrefix:
		return n.Prefix != nil
	case FacetTerm:
		return n.Term != nil
	case FacetRange:
		return HasRange(n.Range)
	default:
		return false
	}
}

// FacetCount returns how many facets n carries.
func (n *Node) FacetCount() int {
	count := 0
	for _, f := range Facets {
		if n.Has(f) {
			count++
		}
	}
	return count
}

// TermNode builds a node carrying only a term facet.
func TermNode(field string, value ir.Value) *Node {
	return &Node{Term: &Term{Field: field, Value: value}}
}

// MatchNode builds a node carrying only a match facet.
func MatchNode(field string, text ir.Value) *Node {
	return &Node{Match: &Match{Field: field, Query: text}}
}

// PrefixNode builds a node carrying only a prefix facet.
func PrefixNode(field string, value ir.Value) *Node {
	return &Node{Prefix: &Prefix{Field: field, Value: value}}
}

// NestedNode builds a node carrying only a nested facet.
func NestedNode(path string, inner *Node) *Node {
	return &Node{Nested: &Nested{Path: path, Query: inner}}
}

// BoolNode builds a node carrying only a bool facet.
// Pass nil for a list that should be absent.
func BoolNode(must, should []*Node) *Node {
	return &Node{Bool: &Bool{Must: must, Should: should}}
}

// NumericRangeNode builds a node carrying a numeric range facet.
func NumericRangeNode(r NumericRange) *Node {
	return &Node{Range: &r}
}

// DateRangeNode builds a node carrying a date range facet.
func DateRangeNode(r DateRange) *Node {
	return &Node{Range: &r}
}

// Nodes is shorthand for a present node list.
// Nodes() returns a non-nil empty list.
func Nodes(nodes ...*Node) []*Node {
	if nodes == nil {
		return []*Node{}
	}
	return nodes
}
