package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/querycmp/internal/config"
	"github.com/roach88/querycmp/internal/logging"
)

// RootOptions holds global flags and the resolved configuration shared by
// all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config is resolved in PersistentPreRunE: file, then QUERYCMP_* env,
	// then explicit flags.
	Config config.Config

	// Logger is built from Verbose; nil discards.
	Logger *slog.Logger

	// Environ overrides os.Environ() when non-nil.
	Environ []string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the querycmp CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "querycmp",
		Short: "querycmp - search request equivalence checker",
		Long: `Decide whether two search requests are semantically equivalent.

Requests are Elasticsearch-style query documents in JSON, YAML or CUE.
Comparison is positional and shape-aware: clause order matters, absent and
empty differ, and aggregation names compare without regard to case.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (YAML)")

	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve merges config file, environment and flags into opts.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	cfg, err := config.Load(opts.ConfigFile, environ)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}

	opts.Config = cfg
	opts.Format = cfg.Format
	opts.Verbose = cfg.Verbose
	opts.Logger = logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	return nil
}

// logger returns the configured logger, or a discard logger when the
// command runs without the root (tests).
func (opts *RootOptions) logger() *slog.Logger {
	return logging.Default(opts.Logger)
}

// formatter builds the output formatter for cmd.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
