package equiv

import (
	"time"

	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

func term(field, value string) *query.Node {
	return query.TermNode(field, ir.String(value))
}

func statusQuery(status string) *query.Node {
	return query.BoolNode(query.Nodes(term("status", status)), query.Nodes())
}

func ageRange(gte, lt float64) *query.Node {
	return query.NumericRangeNode(query.NumericRange{
		Field:              "age",
		GreaterThanOrEqual: query.Bound(gte),
		LessThan:           query.Bound(lt),
	})
}

func createdSince(ts string) *query.Node {
	return query.DateRangeNode(query.DateRange{
		Field:       "created",
		GreaterThan: query.ParseDateMath(ts),
	})
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func avgAgg(field, name string) query.AggregationSpec {
	return query.AggregationSpec{Average: &query.MetricAgg{Field: field, Name: name}}
}

func aggs(entries ...any) *query.Aggregations {
	a := query.NewAggregations()
	for i := 0; i < len(entries); i += 2 {
		if err := a.Set(entries[i].(string), entries[i+1].(query.AggregationSpec)); err != nil {
			panic(err)
		}
	}
	return a
}

// corpus returns independently built, well-formed trees covering every facet.
func corpus() []*query.Node {
	multi := query.NestedNode("items", term("sku", "A-1"))
	multi.Term = &query.Term{Field: "status", Value: ir.String("open")}

	return []*query.Node{
		term("status", "open"),
		term("status", "closed"),
		term("Status", "open"),
		query.TermNode("age", ir.Int(30)),
		query.TermNode("age", nil),
		query.MatchNode("title", ir.String("go lang")),
		query.MatchNode("title", nil),
		query.PrefixNode("sku", ir.String("A-")),
		ageRange(18, 65),
		ageRange(21, 65),
		query.NumericRangeNode(query.NumericRange{Field: "age"}),
		createdSince("2024-01-01T00:00:00Z"),
		createdSince("now-1d/d"),
		query.NestedNode("items", term("sku", "A-1")),
		query.NestedNode("lines", term("sku", "A-1")),
		multi,
		statusQuery("open"),
		statusQuery("closed"),
		query.BoolNode(nil, nil),
		query.BoolNode(query.Nodes(), nil),
		query.BoolNode(nil, query.Nodes(term("a", "1"), term("b", "2"))),
		query.BoolNode(nil, query.Nodes(term("b", "2"), term("a", "1"))),
		query.BoolNode(query.Nodes(query.NestedNode("items", query.BoolNode(query.Nodes(ageRange(1, 2)), nil))), nil),
		{},
	}
}
