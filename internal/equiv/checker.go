package equiv

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/querycmp/internal/logging"
	"github.com/roach88/querycmp/internal/query"
)

var (
	// ErrNilNode is returned when a node required by the comparison is nil.
	ErrNilNode = errors.New("nil query node")

	// ErrNilRequest is returned when a request passed to CompareRequests is nil.
	ErrNilRequest = errors.New("nil search request")

	// ErrDepthExceeded is returned when the trees nest deeper than the
	// checker's depth limit. Cyclic trees always end here.
	ErrDepthExceeded = errors.New("query depth exceeded")

	// ErrClauseIndex is returned under LengthLeading when the right-hand
	// clause list is shorter than the left-hand one.
	ErrClauseIndex = errors.New("clause index out of range")
)

// LengthPolicy selects how bool clause lists of different lengths compare.
type LengthPolicy int

const (
	// LengthStrict treats clause lists of different lengths as not
	// equivalent.
	LengthStrict LengthPolicy = iota

	// LengthLeading walks the indices of the left-hand list. Extra entries on
	// the right are ignored; missing entries on the right are ErrClauseIndex.
	LengthLeading
)

// String returns "strict" or "leading".
func (p LengthPolicy) String() string {
	switch p {
	case LengthStrict:
		return "strict"
	case LengthLeading:
		return "leading"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseLengthPolicy parses "strict" or "leading". The empty string is strict.
func ParseLengthPolicy(s string) (LengthPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return LengthStrict, nil
	case "leading":
		return LengthLeading, nil
	default:
		return LengthStrict, fmt.Errorf("invalid length policy %q (expected strict or leading)", s)
	}
}

// Checker compares query trees and requests.
// A Checker is immutable and safe for concurrent use.
type Checker struct {
	policy   LengthPolicy
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLengthPolicy sets the clause list length policy.
func WithLengthPolicy(p LengthPolicy) Option {
	return func(c *Checker) { c.policy = p }
}

// WithMaxDepth sets the depth limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithLogger sets the logger for comparison summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// NewChecker creates a Checker. Defaults: LengthStrict, query.MaxDepth,
// discard logger.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		policy:   LengthStrict,
		maxDepth: query.MaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.Default(c.logger).With("component", "equiv")
	return c
}

// LengthPolicy returns the configured length policy.
func (c *Checker) LengthPolicy() LengthPolicy { return c.policy }

// MaxDepth returns the configured depth limit.
func (c *Checker) MaxDepth() int { return c.maxDepth }

// Compare compares two query trees and reports every mismatch.
//
// The error is non-nil only for malformed input: a nil root or nested query,
// a nil clause list entry, a tree deeper than the depth limit, or a short
// right-hand list under LengthLeading. Report.Equivalent is false whenever
// an error is returned.
func (c *Checker) Compare(a, b *query.Node) (Report, error) {
	cmp := c.newComparison()
	eq := cmp.node("query", a, b, 1)
	return c.finish("query", cmp, eq)
}

// CompareRequests compares query, sort and aggregations of two requests.
// Two absent queries are equivalent; an absent and a present query are not.
func (c *Checker) CompareRequests(a, b *query.SearchRequest) (Report, error) {
	if a == nil || b == nil {
		return Report{}, ErrNilRequest
	}

	cmp := c.newComparison()
	eq := cmp.present("query", "query", a.Query != nil, b.Query != nil, func() bool {
		return cmp.node("query", a.Query, b.Query, 1)
	})
	eq = cmp.sorts("sort", a.Sort, b.Sort) && eq
	eq = cmp.aggregations("aggs", a.Aggs, b.Aggs) && eq
	return c.finish("request", cmp, eq)
}

// Nodes reports whether two query trees are equivalent.
// Malformed input is never equivalent.
func (c *Checker) Nodes(a, b *query.Node) bool {
	r, err := c.Compare(a, b)
	return err == nil && r.Equivalent
}

// BoolClauses reports whether two bool facets are equivalent.
func (c *Checker) BoolClauses(a, b *query.Bool) bool {
	if a == nil || b == nil {
		return false
	}
	cmp := c.newComparison()
	eq := cmp.boolClause("bool", a, b, 1)
	return cmp.err == nil && eq
}

// Requests reports whether two requests are equivalent.
func (c *Checker) Requests(a, b *query.SearchRequest) bool {
	r, err := c.CompareRequests(a, b)
	return err == nil && r.Equivalent
}

func (c *Checker) newComparison() *comparison {
	return &comparison{policy: c.policy, maxDepth: c.maxDepth}
}

func (c *Checker) finish(kind string, cmp *comparison, eq bool) (Report, error) {
	if cmp.err != nil {
		c.logger.Debug("comparison failed", "kind", kind, "error", cmp.err)
		return Report{Mismatches: cmp.mismatches}, cmp.err
	}
	c.logger.Debug("comparison finished",
		"kind", kind,
		"equivalent", eq,
		"mismatches", len(cmp.mismatches),
	)
	return Report{Equivalent: eq, Mismatches: cmp.mismatches}, nil
}

var defaultChecker = NewChecker()

// Nodes reports whether two query trees are equivalent under the default
// checker.
func Nodes(a, b *query.Node) bool { return defaultChecker.Nodes(a, b) }

// BoolClauses reports whether two bool facets are equivalent under the
// default checker.
func BoolClauses(a, b *query.Bool) bool { return defaultChecker.BoolClauses(a, b) }

// Requests reports whether two requests are equivalent under the default
// checker.
func Requests(a, b *query.SearchRequest) bool { return defaultChecker.Requests(a, b) }
