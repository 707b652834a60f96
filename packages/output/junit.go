package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one run of a suite
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	ID         string          `xml:"id,attr,omitempty"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitProperty is a name/value pair attached to a suite
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitTestCase is one test of a run
type JUnitTestCase struct {
	XMLName    xml.Name        `xml:"testcase"`
	Name       string          `xml:"name,attr"`
	ClassName  string          `xml:"classname,attr"`
	Time       float64         `xml:"time,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	Failure    *JUnitDetail    `xml:"failure,omitempty"`
	Error      *JUnitDetail    `xml:"error,omitempty"`
	Skipped    *JUnitSkipped   `xml:"skipped,omitempty"`
}

// JUnitDetail is the body of a <failure> or <error> element
type JUnitDetail struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped marks a test skipped on a dependency
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter collects one <testsuite> per run and writes them on Flush
type JUnitFormatter struct {
	writer io.Writer
	root   JUnitTestSuites
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		root:   JUnitTestSuites{Name: "suiterun"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatSummary(s *runner.Summary) {
	name := s.Suite
	if name == "" {
		name = "suiterun"
	}

	suite := JUnitTestSuite{
		Name:      name,
		ID:        s.RunID,
		Tests:     s.Total,
		Failures:  s.Failed,
		Errors:    s.Errored,
		Skipped:   s.Skipped,
		Time:      s.Duration.Seconds(),
		Timestamp: s.StartedAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "workers", Value: strconv.Itoa(s.Workers)},
			{Name: "speedup", Value: strconv.FormatFloat(s.Speedup, 'f', 2, 64)},
			{Name: "efficiency", Value: strconv.FormatFloat(s.Efficiency, 'f', 1, 64)},
		},
		TestCases: make([]JUnitTestCase, 0, len(s.Results)),
	}

	for _, r := range s.Results {
		tc := JUnitTestCase{
			Name:      r.Name,
			ClassName: name,
			Time:      r.Outcome.Duration.Seconds(),
		}
		if r.Outcome.Attempts > 0 {
			tc.Properties = []JUnitProperty{{Name: "attempts", Value: strconv.Itoa(r.Outcome.Attempts)}}
		}

		switch {
		case r.Skipped():
			tc.Skipped = &JUnitSkipped{Message: r.Outcome.Reason}
		case r.Failed():
			tc.Failure = &JUnitDetail{
				Message: r.Outcome.Reason,
				Type:    "AssertionError",
				Content: fmt.Sprintf("failed after %d attempts: %s", r.Outcome.Attempts, r.Outcome.Reason),
			}
		case !r.Recorded:
			msg := "no verdict"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			tc.Error = &JUnitDetail{Message: msg, Type: "InfrastructureError"}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	f.root.Tests += suite.Tests
	f.root.Failures += suite.Failures
	f.root.Errors += suite.Errors
	f.root.Skipped += suite.Skipped
	f.root.Time += suite.Time
	f.root.TestSuites = append(f.root.TestSuites, suite)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes every collected run as one JUnit document
func (f *JUnitFormatter) Flush() error {
	f.root.Timestamp = time.Now().Format(time.RFC3339)

	if _, err := io.WriteString(f.writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(f.root); err != nil {
		return err
	}
	_, err := io.WriteString(f.writer, "\n")
	return err
}
