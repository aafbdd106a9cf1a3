// Package query provides the search request model that querycmp compares.
//
// The model mirrors the Elasticsearch request DSL closely enough that two
// independently built requests (one produced by a query translator under
// test, one written by hand) can be compared facet by facet.
//
// NODES AND FACETS:
//
// A Node is a bag of optional facets rather than a single variant:
//
//	Node{
//	    Nested: &Nested{Path: "items", Query: inner},
//	    Term:   &Term{Field: "status", Value: ir.String("open")},
//	}
//
// Upstream builders normally populate exactly one facet, but nothing here
// enforces that, and the comparators in package equiv check every facet a
// node carries. Absence (a nil facet) is distinct from a zero value.
//
// BOOL LISTS:
//
// Bool.Must and Bool.Should distinguish a nil slice (the list is absent) from
// a non-nil empty slice (the list is present and empty). Decoders preserve
// this distinction.
//
// RANGES:
//
// Range is a sealed tagged union. A node's range is either a *NumericRange
// or a *DateRange, fixed when the node is built:
//
//	switch r := node.Range.(type) {
//	case *NumericRange:
//	    // float bounds
//	case *DateRange:
//	    // date-math bounds
//	case nil:
//	    // no range facet
//	}
//
// RESULT SHAPING:
//
// SortField sequences and the Aggregations ordered dictionary are siblings of
// the query tree on SearchRequest; they are compared independently.
package query
