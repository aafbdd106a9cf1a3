package searchreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

func parseJSON(t *testing.T, src string) *query.SearchRequest {
	t.Helper()
	req, err := Parse([]byte(src), FormatJSON)
	require.NoError(t, err)
	return req
}

func TestParse_EmptyRequest(t *testing.T) {
	req := parseJSON(t, `{}`)

	assert.Nil(t, req.Query)
	assert.Nil(t, req.Sort)
	assert.Equal(t, 0, req.Aggs.Len())
}

func TestParse_ScalarValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ir.Value
	}{
		{"string", `{"query": {"term": {"f": "x"}}}`, ir.String("x")},
		{"int", `{"query": {"term": {"f": 42}}}`, ir.Int(42)},
		{"float", `{"query": {"term": {"f": 1.5}}}`, ir.Float(1.5)},
		{"bool", `{"query": {"term": {"f": true}}}`, ir.Bool(true)},
		{"wrapped", `{"query": {"term": {"f": {"value": "x"}}}}`, ir.String("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := parseJSON(t, tt.src)
			require.NotNil(t, req.Query.Term)
			assert.Equal(t, tt.want, req.Query.Term.Value)
		})
	}
}

func TestParse_MultipleFacetsOnOneNode(t *testing.T) {
	req := parseJSON(t, `{"query": {
		"nested": {"path": "items", "query": {"term": {"sku": "A"}}},
		"term": {"status": "open"}
	}}`)

	assert.Equal(t, 2, req.Query.FacetCount())
	assert.Equal(t, "items", req.Query.Nested.Path)
	assert.Equal(t, "status", req.Query.Term.Field)
}

func TestParse_BoolClauseForms(t *testing.T) {
	req := parseJSON(t, `{"query": {"bool": {"must": {"term": {"a": 1}}, "should": []}}}`)

	require.Len(t, req.Query.Bool.Must, 1, "a single node becomes a one-element list")
	assert.NotNil(t, req.Query.Bool.Should, "an explicit empty list stays present")
	assert.Empty(t, req.Query.Bool.Should)

	req = parseJSON(t, `{"query": {"bool": {"should": [{"term": {"a": 1}}]}}}`)
	assert.Nil(t, req.Query.Bool.Must, "an omitted list stays absent")
}

func TestParse_RangeVariants(t *testing.T) {
	req := parseJSON(t, `{"query": {"range": {"age": {}}}}`)
	_, ok := req.Query.Range.(*query.NumericRange)
	assert.True(t, ok, "a range without bounds is numeric")

	req = parseJSON(t, `{"query": {"range": {"created": {"gte": "2024-01-01T10:00:00+02:00"}}}}`)
	dr, ok := req.Query.Range.(*query.DateRange)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T08:00:00Z", dr.GreaterThanOrEqual.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		format   Format
		wantErr  error
		wantPath string
	}{
		{"invalid json", `{"query": `, FormatJSON, ErrFormat, "$"},
		{"invalid yaml", "query: [unclosed", FormatYAML, ErrFormat, "$"},
		{"empty yaml", "", FormatYAML, ErrFormat, "$"},
		{"duplicate key", `{"query": {"term": {"a": 1}}, "query": {}}`, FormatJSON, ErrFormat, "$"},
		{"invalid cue", "query: {", FormatCUE, ErrFormat, "$"},
		{"incomplete cue", "query: term: a: int", FormatCUE, ErrFormat, "$"},
		{"unknown format", `{}`, Format("toml"), ErrFormat, "$"},
		{"root not object", `[]`, FormatJSON, ErrSchema, "$"},
		{"unknown request key", `{"size": 10}`, FormatJSON, ErrSchema, "$"},
		{"null term value", `{"query": {"term": {"a": null}}}`, FormatJSON, ErrSchema, ""},
		{"term with two fields", `{"query": {"term": {"a": 1, "b": 2}}}`, FormatJSON, ErrSchema, ""},
		{"bad sort direction", `{"sort": [{"a": "up"}]}`, FormatJSON, ErrSchema, ""},
		{"unknown aggregation", `{"aggs": {"m": {"median": {"field": "a"}}}}`, FormatJSON, ErrSchema, ""},
		{"aggs and aggregations", `{"aggs": {}, "aggregations": {}}`, FormatJSON, ErrSchema, "$"},
		{"nested without query", `{"query": {"nested": {"path": "p"}}}`, FormatJSON, ErrSchema, ""},
		{"unknown facet", `{"query": {"bool": {"must": [{"wildcard": {"a": "b*"}}]}}}`, FormatJSON, ErrUnknownFacet, "$.query.bool.must[0].wildcard"},
		{"must_not", `{"query": {"bool": {"must_not": []}}}`, FormatJSON, ErrUnknownFacet, "$.query.bool.must_not"},
		{"mixed range", `{"query": {"range": {"a": {"gt": 1, "lt": "now"}}}}`, FormatJSON, ErrMixedRange, "$.query.range.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, de.Path)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Path: "$.query", Message: "boom", Err: ErrSchema}

	assert.Equal(t, "$.query: boom", err.Error())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestSchemaJSON(t *testing.T) {
	schema, err := requestSchema()
	require.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Contains(t, SchemaJSON(), `"definitions"`)
}
