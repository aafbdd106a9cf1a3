package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/roach88/querycmp/internal/equiv"
	"github.com/roach88/querycmp/internal/logging"
	"github.com/roach88/querycmp/internal/searchreq"
)

// Options configures Run.
type Options struct {
	// Parallel bounds how many cases run at once. Zero uses GOMAXPROCS.
	Parallel int

	// MaxDepth overrides the checker depth limit when positive.
	MaxDepth int

	// Logger receives per-suite summaries. Nil discards.
	Logger *slog.Logger
}

// Result is the outcome of running a suite.
type Result struct {
	Suite string

	// Pass is true when every case got its expected verdict.
	Pass bool

	// Cases are in suite order.
	Cases []CaseResult
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name   string
	Expect string

	// Actual is equivalent, different or error.
	Actual string
	Pass   bool

	// LeftHash and RightHash are request fingerprints; empty when the side
	// failed to decode.
	LeftHash  string
	RightHash string

	// Mismatches lists the differences found, "path: reason".
	Mismatches []string

	// Error describes why Actual is error.
	Error string
}

// Passed returns the number of cases that got their expected verdict.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Cases {
		if c.Pass {
			n++
		}
	}
	return n
}

// Failed returns the number of cases that did not get their expected verdict.
func (r *Result) Failed() int {
	return len(r.Cases) - r.Passed()
}

// Run evaluates every case of the suite.
//
// Case failures, including requests that fail to decode, are recorded in the
// result. The error is non-nil only for an invalid suite or a cancelled
// context.
func Run(ctx context.Context, suite *Suite, opts Options) (*Result, error) {
	policy, err := suite.Policy()
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}

	logger := logging.Default(opts.Logger).With("suite", suite.Name)
	checker := equiv.NewChecker(
		equiv.WithLengthPolicy(policy),
		equiv.WithMaxDepth(opts.MaxDepth),
		equiv.WithLogger(logger),
	)

	limit := opts.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	cases := make([]CaseResult, len(suite.Cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range suite.Cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cases[i] = runCase(suite, &suite.Cases[i], checker)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}

	result := &Result{Suite: suite.Name, Pass: true, Cases: cases}
	for _, c := range cases {
		if !c.Pass {
			result.Pass = false
		}
	}

	logger.Info("suite finished",
		"cases", len(cases),
		"passed", result.Passed(),
		"failed", result.Failed(),
	)
	return result, nil
}

func runCase(suite *Suite, c *Case, checker *equiv.Checker) CaseResult {
	res := CaseResult{Name: c.Name, Expect: c.Expect}

	left, leftErr := suite.load(&c.Left, c.LeftFile)
	right, rightErr := suite.load(&c.Right, c.RightFile)
	if left != nil {
		res.LeftHash = left.Fingerprint
	}
	if right != nil {
		res.RightHash = right.Fingerprint
	}

	switch {
	case leftErr != nil:
		res.Actual = ExpectError
		res.Error = fmt.Sprintf("left: %v", leftErr)
	case rightErr != nil:
		res.Actual = ExpectError
		res.Error = fmt.Sprintf("right: %v", rightErr)
	default:
		report, err := checker.CompareRequests(left.Request, right.Request)
		for _, m := range report.Mismatches {
			res.Mismatches = append(res.Mismatches, m.String())
		}
		switch {
		case err != nil:
			res.Actual = ExpectError
			res.Error = err.Error()
		case report.Equivalent:
			res.Actual = ExpectEquivalent
		default:
			res.Actual = ExpectDifferent
		}
	}

	res.Pass = res.Actual == res.Expect
	return res
}

func (s *Suite) load(inline *yaml.Node, file string) (*searchreq.Document, error) {
	if file != "" {
		return searchreq.LoadFile(s.resolve(file))
	}
	return searchreq.FromYAMLNode(inline)
}
