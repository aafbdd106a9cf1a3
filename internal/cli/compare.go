package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/querycmp/internal/equiv"
	"github.com/roach88/querycmp/internal/searchreq"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	LengthPolicy string
	MaxDepth     int
}

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	Equivalent bool           `json:"equivalent"`
	Left       string         `json:"left"`
	Right      string         `json:"right"`
	LeftHash   string         `json:"left_hash"`
	RightHash  string         `json:"right_hash"`
	Policy     string         `json:"length_policy"`
	Mismatches []MismatchJSON `json:"mismatches"`
}

// MismatchJSON is one reported difference.
type MismatchJSON struct {
	Path   string `json:"path"`
	Facet  string `json:"facet"`
	Reason string `json:"reason"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two search requests",
		Long: `Compare two search request documents for semantic equivalence.

The query trees, sort specifications and aggregations are compared.
Documents may be JSON (.json), YAML (.yaml, .yml) or CUE (.cue).

Exit codes:
  0 - Requests are equivalent
  1 - Requests differ
  2 - Command error (unreadable or malformed documents, depth limit)

Examples:
  querycmp compare old.json new.json
  querycmp compare old.yaml new.cue --length-policy leading
  querycmp compare old.json new.json --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LengthPolicy, "length-policy", "", "clause list length handling (strict|leading)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "nesting limit (0 uses the built-in limit)")

	return cmd
}

func runCompare(opts *CompareOptions, leftPath, rightPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	policyName := opts.Config.LengthPolicy
	if cmd.Flags().Changed("length-policy") {
		policyName = opts.LengthPolicy
	}
	policy, err := equiv.ParseLengthPolicy(policyName)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	maxDepth := opts.Config.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth = opts.MaxDepth
	}

	left, err := loadRequest(formatter, leftPath)
	if err != nil {
		return err
	}
	right, err := loadRequest(formatter, rightPath)
	if err != nil {
		return err
	}

	checker := equiv.NewChecker(
		equiv.WithLengthPolicy(policy),
		equiv.WithMaxDepth(maxDepth),
		equiv.WithLogger(opts.logger()),
	)
	report, err := checker.CompareRequests(left.Request, right.Request)
	if err != nil {
		_ = formatter.Error(ErrCodeCompare, err.Error(), nil)
		return WrapExitError(ExitCommandError, "compare", err)
	}

	result := CompareResult{
		Equivalent: report.Equivalent,
		Left:       leftPath,
		Right:      rightPath,
		LeftHash:   left.Fingerprint,
		RightHash:  right.Fingerprint,
		Policy:     policy.String(),
		Mismatches: mismatchesJSON(report.Mismatches),
	}

	if report.Equivalent {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "✓ equivalent")
		formatter.VerboseLog("left %s\nright %s", left.Fingerprint, right.Fingerprint)
		return nil
	}

	if formatter.Format == "json" {
		if err := formatter.Failure(ErrCodeNotEquivalent, "requests are not equivalent", result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ different")
		for _, m := range report.Mismatches {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}
	return NewExitError(ExitFailure, "requests are not equivalent")
}

// loadRequest reads one document, reporting failures as command errors.
func loadRequest(formatter *OutputFormatter, path string) (*searchreq.Document, error) {
	doc, err := searchreq.LoadFile(path)
	if err == nil {
		formatter.VerboseLog("loaded %s (%s)", path, doc.Format)
		return doc, nil
	}

	details := map[string]string{"file": path}
	var decErr *searchreq.DecodeError
	if errors.As(err, &decErr) {
		details["path"] = decErr.Path
	}
	_ = formatter.Error(ErrCodeLoad, err.Error(), details)

	if errors.Is(err, fs.ErrNotExist) {
		return nil, WrapExitError(ExitCommandError, "request file not found", err)
	}
	return nil, WrapExitError(ExitCommandError, "load request", err)
}

func mismatchesJSON(ms []equiv.Mismatch) []MismatchJSON {
	out := make([]MismatchJSON, len(ms))
	for i, m := range ms {
		out[i] = MismatchJSON{Path: m.Path, Facet: m.Facet, Reason: m.Reason}
	}
	return out
}
