package searchreq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/querycmp/internal/equiv"
	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

func loadTestdata(t *testing.T, name string) *Document {
	t.Helper()
	d, err := LoadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return d
}

func TestLoadFile_JSON(t *testing.T) {
	d := loadTestdata(t, "request.json")
	req := d.Request

	assert.Equal(t, FormatJSON, d.Format)
	require.NotNil(t, req.Query)
	require.NotNil(t, req.Query.Bool)
	require.Len(t, req.Query.Bool.Must, 3)
	require.Len(t, req.Query.Bool.Should, 2)

	status := req.Query.Bool.Must[0].Term
	require.NotNil(t, status)
	assert.Equal(t, "status", status.Field)
	assert.Equal(t, ir.String("open"), status.Value)

	age, ok := req.Query.Bool.Must[1].Range.(*query.NumericRange)
	require.True(t, ok, "numeric bounds build a numeric range")
	assert.Equal(t, "age", age.Field)
	assert.Equal(t, 18.0, *age.GreaterThanOrEqual)
	assert.Equal(t, 65.5, *age.LessThan)
	assert.Nil(t, age.GreaterThan)

	nested := req.Query.Bool.Must[2].Nested
	require.NotNil(t, nested)
	assert.Equal(t, "items", nested.Path)
	assert.Equal(t, "items.sku", nested.Query.Prefix.Field)
	assert.Equal(t, ir.String("A-"), nested.Query.Prefix.Value)

	match := req.Query.Bool.Should[0].Match
	require.NotNil(t, match)
	assert.Equal(t, ir.String("go"), match.Query)

	created, ok := req.Query.Bool.Should[1].Range.(*query.DateRange)
	require.True(t, ok, "string bounds build a date range")
	assert.True(t, created.GreaterThan.IsAnchored())
	assert.False(t, created.LessThanOrEqual.IsAnchored())
	assert.Equal(t, "now", created.LessThanOrEqual.Expr)

	assert.Equal(t, []query.SortField{
		{Key: "created", Direction: query.Descending},
		{Key: "name", Direction: query.Ascending},
		{Key: "age", Direction: query.Ascending},
	}, req.Sort)

	assert.Equal(t, []string{"total", "avg_age"}, req.Aggs.Names(), "document order is kept")
	name, spec, ok := req.Aggs.First()
	require.True(t, ok)
	assert.Equal(t, "total", name)
	require.NotNil(t, spec.Sum)
	assert.Equal(t, query.MetricAgg{Field: "price", Name: "total"}, *spec.Sum)

	assert.True(t, query.Validate(req).IsWellFormed)
}

func TestLoadFile_FormatsAgree(t *testing.T) {
	fromJSON := loadTestdata(t, "request.json")
	fromYAML := loadTestdata(t, "request.yaml")
	fromCUE := loadTestdata(t, "request.cue")

	assert.Equal(t, FormatYAML, fromYAML.Format)
	assert.Equal(t, FormatCUE, fromCUE.Format)

	assert.True(t, equiv.Requests(fromJSON.Request, fromYAML.Request), "json vs yaml")
	assert.True(t, equiv.Requests(fromJSON.Request, fromCUE.Request), "json vs cue")

	assert.Equal(t, fromJSON.Fingerprint, fromYAML.Fingerprint)
	assert.Equal(t, fromJSON.Fingerprint, fromCUE.Fingerprint)
	assert.Len(t, fromJSON.Fingerprint, 64)

	assert.Equal(t, []string{"total", "avg_age"}, fromCUE.Request.Aggs.Names())
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "request.txt"))
	require.ErrorIs(t, err, ErrFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"query": {"wildcard": {"f": "x*"}}}`), 0o644))
	_, err = LoadFile(bad)
	require.ErrorIs(t, err, ErrUnknownFacet)
	assert.Contains(t, err.Error(), bad)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"a.JSON", FormatJSON},
		{"dir/a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.cue", FormatCUE},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("a")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFromYAMLNode(t *testing.T) {
	var holder struct {
		Left yaml.Node `yaml:"left"`
	}
	src := `
left:
  query:
    bool:
      must: {term: {status: open}}
      should: []
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &holder))

	d, err := FromYAMLNode(&holder.Left)
	require.NoError(t, err)

	want := query.BoolNode(query.Nodes(query.TermNode("status", ir.String("open"))), query.Nodes())
	assert.True(t, equiv.Nodes(want, d.Request.Query))

	_, err = FromYAMLNode(nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFingerprint_IgnoresKeyOrderAndLayout(t *testing.T) {
	a, err := Decode([]byte(`{"query": {"term": {"a": 1}}, "sort": ["x"]}`), FormatJSON)
	require.NoError(t, err)
	b, err := Decode([]byte("sort: [x]\nquery:\n  term: {a: 1}\n"), FormatYAML)
	require.NoError(t, err)
	c, err := Decode([]byte(`{"query": {"term": {"a": 2}}, "sort": ["x"]}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestFingerprint_KeepsAggregationOrder(t *testing.T) {
	xy, err := Decode([]byte(`{"aggs": {"x": {"sum": {"field": "a"}}, "y": {"avg": {"field": "b"}}}}`), FormatJSON)
	require.NoError(t, err)
	yx, err := Decode([]byte(`{"aggs": {"y": {"avg": {"field": "b"}}, "x": {"sum": {"field": "a"}}}}`), FormatJSON)
	require.NoError(t, err)
	xyYAML, err := Decode([]byte("aggs:\n  x: {sum: {field: a}}\n  y: {avg: {field: b}}\n"), FormatYAML)
	require.NoError(t, err)

	assert.False(t, equiv.Requests(xy.Request, yx.Request))
	assert.NotEqual(t, xy.Fingerprint, yx.Fingerprint)
	assert.Equal(t, xy.Fingerprint, xyYAML.Fingerprint)
}
