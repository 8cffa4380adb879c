package ldtest

import (
	"fmt"
	"strings"
)

// Status is the final classification of a single test.
type Status string

const (
	StatusPassed          Status = "passed"
	StatusFailed          Status = "failed"
	StatusSkipped         Status = "skipped"
	StatusExpectedFailure Status = "expected-failure"
)

type Results struct {
	Tests            []TestResult
	Failures         []TestResult
	ExpectedFailures []TestResult
}

type TestResult struct {
	TestID TestID
	Status Status
	// Reason is the skip reason or the description of a tolerated defect.
	Reason string
	Errors []error
}

// OK is true if no test failed. Expected failures do not count against the run.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r Results) Count(status Status) int {
	n := 0
	for _, t := range r.Tests {
		if t.Status == status {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
