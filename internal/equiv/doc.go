// Package equiv decides whether two search requests are semantically
// equivalent.
//
// Comparison is positional and shape-aware. Two trees are equivalent when
// they carry the same facets in the same places with the same fields and
// values; no algebraic rewriting is attempted, so must:[A, B] and
// must:[B, A] differ.
//
// The comparators share one template for optional parts, driven by the
// presence-arity of the two sides:
//
//	0 (both absent)   equivalent, the part is not in either request
//	1 (one present)   not equivalent
//	2 (both present)  equivalent iff the parts are equal
//
// Entry points:
//
//	Nodes            query trees (nested, bool, then leaf facets)
//	BoolClauses      must/should lists, compared by position
//	Terms, Matches, Prefixes, NumericRanges, DateRanges
//	Sorts            sort specifications, compared by position
//	Aggregations     aggregation dictionaries (count and first entry)
//	Requests         query, sort and aggregations together
//
// A Checker carries the options (length policy, depth limit, logger) and
// its Compare methods return a Report listing every mismatch found.
// Malformed trees (nil nodes, cycles, excessive depth) are reported as
// errors by Compare and are never equivalent.
package equiv
