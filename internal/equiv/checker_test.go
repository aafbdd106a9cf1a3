package equiv

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querycmp/internal/query"
)

func TestParseLengthPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    LengthPolicy
		wantErr bool
	}{
		{"", LengthStrict, false},
		{"strict", LengthStrict, false},
		{"LEADING", LengthLeading, false},
		{"loose", LengthStrict, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLengthPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) LengthPolicy {
	t.Helper()
	p, err := ParseLengthPolicy(s)
	require.NoError(t, err)
	return p
}

func TestNewChecker_Defaults(t *testing.T) {
	c := NewChecker()
	assert.Equal(t, LengthStrict, c.LengthPolicy())
	assert.Equal(t, query.MaxDepth, c.MaxDepth())

	c = NewChecker(WithMaxDepth(0), WithLengthPolicy(LengthLeading))
	assert.Equal(t, query.MaxDepth, c.MaxDepth(), "non-positive depth keeps the default")
	assert.Equal(t, LengthLeading, c.LengthPolicy())
}

func TestCompare_NilRoot(t *testing.T) {
	report, err := NewChecker().Compare(nil, term("a", "b"))
	require.ErrorIs(t, err, ErrNilNode)
	assert.False(t, report.Equivalent)

	_, err = NewChecker().Compare(nil, nil)
	require.ErrorIs(t, err, ErrNilNode, "two nil roots are malformed, not equivalent")
	assert.False(t, Nodes(nil, nil))
}

func TestCompare_NilNestedQuery(t *testing.T) {
	a := query.NestedNode("items", nil)
	b := query.NestedNode("items", nil)

	_, err := NewChecker().Compare(a, b)
	require.ErrorIs(t, err, ErrNilNode)
	assert.Contains(t, err.Error(), "query.nested.query")
	assert.False(t, Nodes(a, b))
}

func TestCompare_NilClause(t *testing.T) {
	a := query.BoolNode(query.Nodes(nil), nil)
	b := query.BoolNode(query.Nodes(nil), nil)

	_, err := NewChecker().Compare(a, b)
	require.ErrorIs(t, err, ErrNilNode)
	assert.Contains(t, err.Error(), "query.bool.must[0]")
}

func TestCompare_DepthLimit(t *testing.T) {
	build := func(levels int) *query.Node {
		n := term("leaf", "x")
		for i := 1; i < levels; i++ {
			n = query.NestedNode("p", n)
		}
		return n
	}

	c := NewChecker(WithMaxDepth(5))

	report, err := c.Compare(build(5), build(5))
	require.NoError(t, err)
	assert.True(t, report.Equivalent)

	_, err = c.Compare(build(6), build(6))
	require.ErrorIs(t, err, ErrDepthExceeded)
	assert.False(t, c.Nodes(build(6), build(6)))
}

func TestCompare_CycleEndsAtDepthLimit(t *testing.T) {
	cyclic := func() *query.Node {
		root := query.BoolNode(nil, nil)
		root.Bool.Must = query.Nodes(root, root)
		return root
	}
	a, b := cyclic(), cyclic()

	report, err := NewChecker().Compare(a, b)
	require.ErrorIs(t, err, ErrDepthExceeded)
	assert.False(t, report.Equivalent)
	assert.False(t, Nodes(a, a), "a cyclic tree is never equivalent, not even to itself")
}

func TestCompare_LengthStrict(t *testing.T) {
	short := query.BoolNode(query.Nodes(term("a", "1")), nil)
	long := query.BoolNode(query.Nodes(term("a", "1"), term("b", "2")), nil)

	report, err := NewChecker().Compare(short, long)
	require.NoError(t, err)
	assert.False(t, report.Equivalent)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "query.bool.must", report.Mismatches[0].Path)
	assert.Equal(t, "length 1 != 2", report.Mismatches[0].Reason)

	report, err = NewChecker().Compare(long, short)
	require.NoError(t, err)
	assert.False(t, report.Equivalent)
}

func TestCompare_LengthLeading(t *testing.T) {
	short := query.BoolNode(query.Nodes(term("a", "1")), nil)
	long := query.BoolNode(query.Nodes(term("a", "1"), term("b", "2")), nil)
	c := NewChecker(WithLengthPolicy(LengthLeading))

	t.Run("left shorter compares leading indices", func(t *testing.T) {
		report, err := c.Compare(short, long)
		require.NoError(t, err)
		assert.True(t, report.Equivalent)
	})

	t.Run("right shorter is an index error", func(t *testing.T) {
		report, err := c.Compare(long, short)
		require.ErrorIs(t, err, ErrClauseIndex)
		assert.False(t, report.Equivalent)
		assert.Contains(t, err.Error(), "query.bool.must[1]")
		assert.False(t, c.Nodes(long, short))
	})

	t.Run("leading indices still compare positionally", func(t *testing.T) {
		other := query.BoolNode(query.Nodes(term("b", "2"), term("a", "1")), nil)
		assert.False(t, c.Nodes(short, other))
	})
}

func TestBoolClauses(t *testing.T) {
	a := &query.Bool{Must: query.Nodes(term("a", "1")), Should: query.Nodes(term("b", "2"))}
	b := &query.Bool{Must: query.Nodes(term("a", "1")), Should: query.Nodes(term("b", "2"))}
	assert.True(t, BoolClauses(a, b))

	b.Should = nil
	assert.False(t, BoolClauses(a, b), "should present on one side")

	assert.True(t, BoolClauses(&query.Bool{}, &query.Bool{}))
	assert.False(t, BoolClauses(nil, &query.Bool{}))
}

func TestCompare_ReportIsEmptyWhenEquivalent(t *testing.T) {
	report, err := NewChecker().Compare(statusQuery("open"), statusQuery("open"))
	require.NoError(t, err)
	assert.True(t, report.Equivalent)
	assert.Empty(t, report.Mismatches)
	assert.Equal(t, "equivalent", report.String())
}

func TestReport_String(t *testing.T) {
	r := Report{Mismatches: []Mismatch{
		{Path: "query.term", Facet: "term", Reason: `field "a" != "b"`},
		{Path: "sort", Facet: "sort", Reason: "length 1 != 0"},
	}}
	assert.Equal(t, "query.term: field \"a\" != \"b\"\nsort: length 1 != 0", r.String())
	assert.Equal(t, "different", Report{}.String())
}

func TestChecker_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewChecker(WithLogger(logger))

	c.Nodes(term("a", "1"), term("a", "2"))

	out := buf.String()
	assert.Contains(t, out, "comparison finished")
	assert.Contains(t, out, "component=equiv")
	assert.Contains(t, out, "equivalent=false")
	assert.Contains(t, out, "mismatches=1")
}

func TestChecker_ConcurrentUse(t *testing.T) {
	c := NewChecker()
	a, b := corpus(), corpus()

	done := make(chan bool)
	for i := range a {
		go func(i int) {
			done <- c.Nodes(a[i], b[i])
		}(i)
	}
	for range a {
		assert.True(t, <-done)
	}
}
