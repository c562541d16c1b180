// Package report reads the JSON results written by the Vitest JSON reporter
// and formats the failed tests for reading.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrInputFileMissing is returned when the results file does not exist.
	ErrInputFileMissing = errors.New("test results file not found")
	// ErrMalformedJSON is returned when the results file is not valid JSON.
	ErrMalformedJSON = errors.New("could not decode test results JSON")
)

// StatusFailed is the status of a failed suite or assertion.
const StatusFailed = "failed"

// Results is the top level of the reporter output.
type Results struct {
	// NumFailedTests is kept as written by the runner; it is empty when absent.
	NumFailedTests json.Number `json:"numFailedTests"`
	TestResults    []Suite     `json:"testResults"`
}

// Suite is the result of one test file.
type Suite struct {
	Name             string      `json:"name"`
	Status           string      `json:"status"`
	AssertionResults []Assertion `json:"assertionResults"`
}

// Assertion is the result of one test case.
type Assertion struct {
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	FailureMessages []string  `json:"failureMessages"`
	Location        *Location `json:"location"`
}

// Location points at a test case in its file.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Failed reports whether the suite or any of its assertions failed.
func (s Suite) Failed() bool {
	if s.Status == StatusFailed {
		return true
	}
	return len(s.FailedAssertions()) > 0
}

// FailedAssertions returns the assertions with a failed status, in order.
func (s Suite) FailedAssertions() []Assertion {
	var failed []Assertion
	for _, a := range s.AssertionResults {
		if a.Status == StatusFailed {
			failed = append(failed, a)
		}
	}
	return failed
}

// DisplayName returns the suite path or a placeholder when it is missing.
func (s Suite) DisplayName() string {
	if s.Name == "" {
		return "Unknown Suite Path"
	}
	return s.Name
}

// DisplayTitle returns the assertion title or a placeholder when it is missing.
func (a Assertion) DisplayTitle() string {
	if a.Title == "" {
		return "Unknown Test"
	}
	return a.Title
}

// ReportedFailures returns the runner's failed count, or "N/A" when absent.
func (r *Results) ReportedFailures() string {
	if r.NumFailedTests == "" {
		return "N/A"
	}
	return r.NumFailedTests.String()
}

// Load reads and decodes the results file at path.
func Load(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileMissing, path)
		}
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes results read from path.
func Parse(data []byte, path string) (*Results, error) {
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrMalformedJSON, path, err)
	}
	return &r, nil
}

// Diagnostic returns the single line reported when loading path failed.
func Diagnostic(err error, path string) string {
	switch {
	case errors.Is(err, ErrInputFileMissing):
		return fmt.Sprintf("Error: Test results file not found at %s", path)
	case errors.Is(err, ErrMalformedJSON):
		return fmt.Sprintf("Error: Could not decode JSON from %s", path)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
