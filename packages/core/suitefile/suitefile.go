package suitefile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// ErrInvalidSuiteFile is returned when a suite file does not match the schema
var ErrInvalidSuiteFile = errors.New("invalid suite file")

// File is a parsed suite file
type File struct {
	Suite       string     `yaml:"suite"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestSpec `yaml:"tests"`

	Path string `yaml:"-"`
}

// TestSpec declares one test of a suite file
type TestSpec struct {
	Name     string   `yaml:"name"`
	Priority *int     `yaml:"priority,omitempty"`
	Depends  []string `yaml:"depends,omitempty"`
	Steps    []Step   `yaml:"steps,omitempty"`
}

// Step is a single action of a test body. Exactly one field is set.
type Step struct {
	Sleep string  `yaml:"sleep,omitempty"`
	Log   *string `yaml:"log,omitempty"`
	Fail  *string `yaml:"fail,omitempty"`
	Flaky *int    `yaml:"flaky,omitempty"`
}

// ValidationError lists every schema violation found in a suite file
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	where := e.Path
	if where == "" {
		where = "suite file"
	}
	return fmt.Sprintf("%s: %s", where, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSuiteFile
}

// Validate checks raw YAML against the suite file schema
func Validate(data []byte, path string) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Path: path, Issues: []string{fmt.Sprintf("yaml: %v", err)}}
	}
	if doc == nil {
		return &ValidationError{Path: path, Issues: []string{"file is empty"}}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return &ValidationError{Path: path, Issues: issues}
}

// Parse validates data and decodes it into a File
func Parse(data []byte, path string) (*File, error) {
	if err := Validate(data, path); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path

	if err := f.check(); err != nil {
		return nil, &ValidationError{Path: path, Issues: []string{err.Error()}}
	}
	return &f, nil
}

// ParseFile reads and parses the suite file at path
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read suite file: %w", err)
	}
	return Parse(data, path)
}

// check covers what the schema cannot express
func (f *File) check() error {
	seen := make(map[string]bool, len(f.Tests))
	for _, t := range f.Tests {
		if seen[t.Name] {
			return fmt.Errorf("duplicate test name %q", t.Name)
		}
		seen[t.Name] = true

		for i, s := range t.Steps {
			if _, err := s.body(); err != nil {
				return fmt.Errorf("test %q step %d: %w", t.Name, i+1, err)
			}
		}
	}
	return nil
}

// IsSuiteFile reports whether path looks like a suite file
func IsSuiteFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".suite.yaml") || strings.HasSuffix(base, ".suite.yml")
}

// CollectFiles expands files and directories into the suite files they contain
func CollectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && IsSuiteFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
