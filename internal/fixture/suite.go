package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/querycmp/internal/equiv"
)

// Expected verdicts.
const (
	ExpectEquivalent = "equivalent"
	ExpectDifferent  = "different"
	ExpectError      = "error"
)

// Suite is a named list of comparison cases.
type Suite struct {
	// Name identifies the suite and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description"`

	// LengthPolicy is "strict" (default) or "leading".
	LengthPolicy string `yaml:"length_policy,omitempty"`

	// Cases run in file order.
	Cases []Case `yaml:"cases"`

	// Dir resolves left_file and right_file. LoadSuite sets it to the
	// directory of the suite file.
	Dir string `yaml:"-"`
}

// Case is one pair of requests and the expected verdict.
type Case struct {
	Name string `yaml:"name"`

	// Left and Right hold inline requests. Exactly one of Left and LeftFile
	// is set, and likewise for the right side.
	Left      yaml.Node `yaml:"left,omitempty"`
	LeftFile  string    `yaml:"left_file,omitempty"`
	Right     yaml.Node `yaml:"right,omitempty"`
	RightFile string    `yaml:"right_file,omitempty"`

	Expect string `yaml:"expect"`
}

// LoadSuite reads and parses a suite file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	suite, err := ParseSuite(data)
	if err != nil {
		return nil, err
	}
	suite.Dir = filepath.Dir(path)

	if err := validateFiles(suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return suite, nil
}

// ParseSuite parses suite YAML. File references are not checked; Dir is
// left empty.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

// Policy returns the suite's clause length policy.
func (s *Suite) Policy() (equiv.LengthPolicy, error) {
	return equiv.ParseLengthPolicy(s.LengthPolicy)
}

// validateSuite checks that required fields are present and valid.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if _, err := s.Policy(); err != nil {
		return fmt.Errorf("length_policy: %w", err)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if err := validateSide(c.Left, c.LeftFile); err != nil {
			return fmt.Errorf("cases[%d] %q: left: %w", i, c.Name, err)
		}
		if err := validateSide(c.Right, c.RightFile); err != nil {
			return fmt.Errorf("cases[%d] %q: right: %w", i, c.Name, err)
		}

		switch c.Expect {
		case ExpectEquivalent, ExpectDifferent, ExpectError:
		case "":
			return fmt.Errorf("cases[%d] %q: expect is required", i, c.Name)
		default:
			return fmt.Errorf("cases[%d] %q: unknown expect %q (want equivalent, different or error)", i, c.Name, c.Expect)
		}
	}

	return nil
}

func validateSide(inline yaml.Node, file string) error {
	hasInline := inline.Kind != 0
	switch {
	case hasInline && file != "":
		return fmt.Errorf("inline request and file are mutually exclusive")
	case !hasInline && file == "":
		return fmt.Errorf("inline request or file is required")
	}
	return nil
}

// validateFiles checks that referenced request files exist.
func validateFiles(s *Suite) error {
	for i, c := range s.Cases {
		for _, file := range []string{c.LeftFile, c.RightFile} {
			if file == "" {
				continue
			}
			if _, err := os.Stat(s.resolve(file)); os.IsNotExist(err) {
				return fmt.Errorf("cases[%d] %q: request file not found: %s", i, c.Name, file)
			}
		}
	}
	return nil
}

func (s *Suite) resolve(file string) string {
	if filepath.IsAbs(file) || s.Dir == "" {
		return file
	}
	return filepath.Join(s.Dir, file)
}
