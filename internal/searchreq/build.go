package searchreq

import (
	"fmt"

	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

// buildRequest converts a schema-checked document into a request.
// Checks the schema already covers are repeated here so the builder never
// panics on unexpected shapes.
func buildRequest(doc any) (*query.SearchRequest, error) {
	root, ok := doc.(object)
	if !ok {
		return nil, schemaErr("$", "request must be an object, got %s", kindOf(doc))
	}

	req := &query.SearchRequest{}
	for _, m := range root {
		path := "$." + m.key
		switch m.key {
		case "query":
			n, err := buildNode(path, m.value)
			if err != nil {
				return nil, err
			}
			req.Query = n
		case "sort":
			sort, err := buildSort(path, m.value)
			if err != nil {
				return nil, err
			}
			req.Sort = sort
		case "aggs", "aggregations":
			if req.Aggs != nil {
				return nil, schemaErr(path, "aggs and aggregations are mutually exclusive")
			}
			aggs, err := buildAggregations(path, m.value)
			if err != nil {
				return nil, err
			}
			req.Aggs = aggs
		default:
			return nil, schemaErr(path, "unknown request key %q", m.key)
		}
	}
	return req, nil
}

func buildNode(path string, v any) (*query.Node, error) {
	obj, ok := v.(object)
	if !ok {
		return nil, schemaErr(path, "query must be an object, got %s", kindOf(v))
	}

	n := &query.Node{}
	for _, m := range obj {
		p := path + "." + m.key
		switch query.Facet(m.key) {
		case query.FacetTerm:
			field, value, err := fieldValue(p, m.value, "value")
			if err != nil {
				return nil, err
			}
			n.Term = &query.Term{Field: field, Value: value}
		case query.FacetMatch:
			field, value, err := fieldValue(p, m.value, "query")
			if err != nil {
				return nil, err
			}
			n.Match = &query.Match{Field: field, Query: value}
		case query.FacetPrefix:
			field, value, err := fieldValue(p, m.value, "value")
			if err != nil {
				return nil, err
			}
			n.Prefix = &query.Prefix{Field: field, Value: value}
		case query.FacetRange:
			r, err := buildRange(p, m.value)
			if err != nil {
				return nil, err
			}
			n.Range = r
		case query.FacetNested:
			nested, err := buildNested(p, m.value)
			if err != nil {
				return nil, err
			}
			n.Nested = nested
		case query.FacetBool:
			b, err := buildBool(p, m.value)
			if err != nil {
				return nil, err
			}
			n.Bool = b
		default:
			return nil, &DecodeError{
				Path:    p,
				Message: fmt.Sprintf("unsupported query facet %q", m.key),
				Err:     ErrUnknownFacet,
			}
		}
	}
	return n, nil
}

// single returns the only member of a one-key object such as {field: ...}.
func single(path string, v any) (member, error) {
	obj, ok := v.(object)
	if !ok || len(obj) != 1 {
		return member{}, schemaErr(path, "expected an object with exactly one field")
	}
	return obj[0], nil
}

// fieldValue reads {field: value} or {field: {<key>: value}}.
func fieldValue(path string, v any, key string) (string, ir.Value, error) {
	m, err := single(path, v)
	if err != nil {
		return "", nil, err
	}

	raw := m.value
	if inner, ok := raw.(object); ok {
		if len(inner) != 1 || inner[0].key != key {
			return "", nil, schemaErr(path+"."+m.key, "expected {%s: <value>}", key)
		}
		raw = inner[0].value
	}

	value, err := ir.FromAny(raw)
	if err != nil {
		return "", nil, schemaErr(path+"."+m.key, "%v", err)
	}
	return m.key, value, nil
}

// buildRange picks the range variant from its bounds: all numbers is numeric,
// all strings is a date range. A range without bounds is numeric.
func buildRange(path string, v any) (query.Range, error) {
	m, err := single(path, v)
	if err != nil {
		return nil, err
	}
	bounds, ok := m.value.(object)
	if !ok {
		return nil, schemaErr(path+"."+m.key, "range bounds must be an object")
	}

	numeric := make(map[string]*float64, len(bounds))
	dates := make(map[string]*query.DateMath, len(bounds))
	for _, b := range bounds {
		bp := path + "." + m.key + "." + b.key
		switch b.key {
		case "gt", "gte", "lt", "lte":
		default:
			return nil, schemaErr(bp, "unknown range bound %q", b.key)
		}
		switch val := b.value.(type) {
		case int64:
			numeric[b.key] = query.Bound(float64(val))
		case float64:
			numeric[b.key] = query.Bound(val)
		case string:
			dates[b.key] = query.ParseDateMath(val)
		default:
			return nil, schemaErr(bp, "range bound must be a number or a string, got %s", kindOf(b.value))
		}
	}

	if len(numeric) > 0 && len(dates) > 0 {
		return nil, &DecodeError{
			Path:    path + "." + m.key,
			Message: "bounds must be all numbers or all strings",
			Err:     ErrMixedRange,
		}
	}
	if len(dates) > 0 {
		return &query.DateRange{
			Field:              m.key,
			GreaterThan:        dates["gt"],
			GreaterThanOrEqual: dates["gte"],
			LessThan:           dates["lt"],
			LessThanOrEqual:    dates["lte"],
		}, nil
	}
	return &query.NumericRange{
		Field:              m.key,
		GreaterThan:        numeric["gt"],
		GreaterThanOrEqual: numeric["gte"],
		LessThan:           numeric["lt"],
		LessThanOrEqual:    numeric["lte"],
	}, nil
}

func buildNested(path string, v any) (*query.Nested, error) {
	obj, ok := v.(object)
	if !ok {
		return nil, schemaErr(path, "nested must be an object")
	}

	nested := &query.Nested{}
	var sawQuery bool
	for _, m := range obj {
		switch m.key {
		case "path":
			s, ok := m.value.(string)
			if !ok || s == "" {
				return nil, schemaErr(path+".path", "nested path must be a non-empty string")
			}
			nested.Path = s
		case "query":
			inner, err := buildNode(path+".query", m.value)
			if err != nil {
				return nil, err
			}
			nested.Query = inner
			sawQuery = true
		default:
			return nil, schemaErr(path+"."+m.key, "unknown nested key %q", m.key)
		}
	}
	if nested.Path == "" || !sawQuery {
		return nil, schemaErr(path, "nested requires path and query")
	}
	return nested, nil
}

func buildBool(path string, v any) (*query.Bool, error) {
	obj, ok := v.(object)
	if !ok {
		return nil, schemaErr(path, "bool must be an object")
	}

	b := &query.Bool{}
	for _, m := range obj {
		p := path + "." + m.key
		switch m.key {
		case "must":
			list, err := buildClauses(p, m.value)
			if err != nil {
				return nil, err
			}
			b.Must = list
		case "should":
			list, err := buildClauses(p, m.value)
			if err != nil {
				return nil, err
			}
			b.Should = list
		default:
			return nil, &DecodeError{
				Path:    p,
				Message: fmt.Sprintf("unsupported bool clause %q", m.key),
				Err:     ErrUnknownFacet,
			}
		}
	}
	return b, nil
}

// buildClauses accepts a single node or a list. The result is never nil, so
// an explicit empty list stays present.
func buildClauses(path string, v any) ([]*query.Node, error) {
	if _, ok := v.(object); ok {
		n, err := buildNode(path, v)
		if err != nil {
			return nil, err
		}
		return []*query.Node{n}, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, schemaErr(path, "clauses must be a query or a list of queries")
	}
	nodes := make([]*query.Node, len(list))
	for i, item := range list {
		n, err := buildNode(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func buildSort(path string, v any) ([]query.SortField, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, schemaErr(path, "sort must be a list")
	}

	fields := make([]query.SortField, len(list))
	for i, item := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		if key, ok := item.(string); ok {
			fields[i] = query.SortField{Key: key, Direction: query.Ascending}
			continue
		}

		m, err := single(p, item)
		if err != nil {
			return nil, err
		}
		order := m.value
		if inner, ok := order.(object); ok {
			if len(inner) != 1 || inner[0].key != "order" {
				return nil, schemaErr(p+"."+m.key, "expected {order: asc|desc}")
			}
			order = inner[0].value
		}
		s, ok := order.(string)
		if !ok {
			return nil, schemaErr(p+"."+m.key, "sort order must be a string")
		}
		dir, err := query.ParseDirection(s)
		if err != nil {
			return nil, schemaErr(p+"."+m.key, "%v", err)
		}
		fields[i] = query.SortField{Key: m.key, Direction: dir}
	}
	return fields, nil
}

func buildAggregations(path string, v any) (*query.Aggregations, error) {
	obj, ok := v.(object)
	if !ok {
		return nil, schemaErr(path, "aggregations must be an object")
	}

	aggs := query.NewAggregations()
	for _, m := range obj {
		p := path + "." + m.key
		kind, err := single(p, m.value)
		if err != nil {
			return nil, err
		}
		body, ok := kind.value.(object)
		if !ok || len(body) != 1 || body[0].key != "field" {
			return nil, schemaErr(p+"."+kind.key, "expected {field: <name>}")
		}
		field, ok := body[0].value.(string)
		if !ok {
			return nil, schemaErr(p+"."+kind.key+".field", "field must be a string")
		}

		metric := &query.MetricAgg{Field: field, Name: m.key}
		var spec query.AggregationSpec
		switch query.AggregationKind(kind.key) {
		case query.AggSum:
			spec.Sum = metric
		case query.AggMin:
			spec.Min = metric
		case query.AggMax:
			spec.Max = metric
		case query.AggAverage:
			spec.Average = metric
		default:
			return nil, &DecodeError{
				Path:    p + "." + kind.key,
				Message: fmt.Sprintf("unsupported aggregation %q", kind.key),
				Err:     ErrUnknownFacet,
			}
		}
		if err := aggs.Set(m.key, spec); err != nil {
			return nil, schemaErr(p, "%v", err)
		}
	}
	return aggs, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case object:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
