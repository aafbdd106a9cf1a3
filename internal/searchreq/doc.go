// Package searchreq decodes search request documents into query.SearchRequest
// values.
//
// Documents use a subset of the Elasticsearch query DSL:
//
//	query:  <node>
//	sort:   ["field" | {field: "asc"|"desc"} | {field: {order: "asc"|"desc"}}]
//	aggs:   {<name>: {sum|min|max|avg: {field: <field>}}}
//
// A node is an object whose keys are facets. term, match and prefix take
// {field: value} or {field: {value|query: value}}; range takes
// {field: {gt|gte|lt|lte: bound}} and is numeric when every bound is a
// number and a date range when every bound is a string; nested takes
// {path, query}; bool takes must and should, each a node or a list of nodes.
//
// JSON and YAML are read through yaml.v3 nodes and CUE through the CUE
// evaluator, so object key order survives decoding. Aggregation order
// matters to the comparators.
//
// Every document is checked against an embedded JSON schema before it is
// built, and fingerprinted over its canonical JSON form.
package searchreq
