package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/querycmp/internal/query"
	"github.com/roach88/querycmp/internal/searchreq"
)

// FileValidation holds the validation outcome of one document.
type FileValidation struct {
	File        string   `json:"file"`
	Valid       bool     `json:"valid"`
	Format      string   `json:"format,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results for every file.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate search request documents",
		Long: `Validate search request documents without comparing them.

Each document is decoded, checked against the request schema and then
checked for well-formedness: no empty clauses, no empty fields, no nesting
beyond the depth limit, and a metric on every aggregation.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (missing files)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		fv, err := validateFile(file)
		if err != nil {
			_ = formatter.Error(ErrCodeLoad, err.Error(), map[string]string{"file": file})
			return WrapExitError(ExitCommandError, "request file not found", err)
		}
		formatter.VerboseLog("validated %s", file)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// validateFile checks one document. Only a missing file is returned as an
// error; decode, schema and well-formedness problems land in the result.
func validateFile(file string) (FileValidation, error) {
	fv := FileValidation{File: file}

	doc, err := searchreq.LoadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return fv, err
	}
	if err != nil {
		fv.Errors = []string{err.Error()}
		return fv, nil
	}

	fv.Format = string(doc.Format)
	fv.Fingerprint = doc.Fingerprint

	check := query.Validate(doc.Request)
	fv.Valid = check.IsWellFormed
	if !check.IsWellFormed {
		fv.Errors = check.Warnings
	}
	return fv, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, f := range result.Files {
		fmt.Fprintf(formatter.Writer, "✓ %s\n", f.File)
	}
	return nil
}

// outputValidationErrors outputs every invalid file with its problems.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	invalid := 0
	for _, f := range result.Files {
		if !f.Valid {
			invalid++
		}
	}
	message := fmt.Sprintf("%d of %d file(s) invalid", invalid, len(result.Files))

	if formatter.Format == "json" {
		if err := formatter.Failure(ErrCodeInvalid, message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	for _, f := range result.Files {
		if f.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", f.File)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", f.File)
		for _, e := range f.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
	}
	return NewExitError(ExitFailure, message)
}
