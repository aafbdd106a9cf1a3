package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/querycmp/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	RunID string
}

// RunDetail is the JSON payload of history --run.
type RunDetail struct {
	Run      store.Run       `json:"run"`
	Verdicts []store.Verdict `json:"verdicts"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <db>",
		Short: "Show recorded suite runs",
		Long: `List the suite runs recorded by "querycmp test --record", oldest first.

With --run, show the verdict of every case in that run.

Examples:
  querycmp history verdicts.db
  querycmp history verdicts.db --run 0192f0c4-7d1e-7c3a-9b1f-2f6f3c1a9e55`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show verdicts of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, dbPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	// Open would create a fresh database; a missing log is a mistake.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("database not found: %s", dbPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open verdict log", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if opts.RunID == "" {
		runs, err := s.ReadRuns(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "read runs", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(runs)
		}
		return outputRunsText(formatter, runs)
	}

	run, err := s.ReadRun(ctx, opts.RunID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		return WrapExitError(ExitCommandError, "read run", err)
	}
	verdicts, err := s.ReadVerdicts(ctx, run.ID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read verdicts", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunDetail{Run: run, Verdicts: verdicts})
	}
	return outputVerdictsText(formatter, run, verdicts)
}

func outputRunsText(formatter *OutputFormatter, runs []store.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tSUITE\tPASSED\tFAILED\tRESULT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", r.Seq, r.ID, r.Suite, r.Passed, r.Failed, passLabel(r.Pass))
	}
	return tw.Flush()
}

func outputVerdictsText(formatter *OutputFormatter, run store.Run, verdicts []store.Verdict) error {
	w := formatter.Writer
	fmt.Fprintf(w, "Run %s: suite %s, %d passed, %d failed\n\n", run.ID, run.Suite, run.Passed, run.Failed)

	for _, v := range verdicts {
		mark := "✓"
		if !v.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s: expected %s, got %s\n", mark, v.CaseName, v.Expected, v.Actual)
		for _, m := range v.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	return nil
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
