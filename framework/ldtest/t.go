package ldtest

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/restful-booker/booking-contract-tests/framework"
)

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter is an optional function for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is any object that will be made available to tests via T.Context().
	Context interface{}
}

type environment struct {
	config  TestConfiguration
	results Results
}

// T represents a test or subtest.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, so a test can run against a live service from a standalone
// program. To make assertions, pass the *T to the assert and require packages as if it were a
// *testing.T: Errorf records a failure, and FailNow (called by require) ends the test.
//
// Besides passing and failing, a test can end with ExpectedFailure, meaning that the service
// deviated from its contract in a way that has been registered as a known defect.
type T struct {
	env             *environment
	id              TestID
	debugLogger     framework.CapturingLogger
	step            string
	failed          bool
	skipped         bool
	expectedFailure bool
	reason          string
	errors          []error
	cleanups        []func()
	ranSubtests     bool
}

const excludedByFilter = "excluded by filter parameters"


// Run starts a new test run. The action receives a root T, which should call Run or Group for
// each top-level test or group.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			t.recoverFrom(r)
		}
		t.runCleanups()
		t.recordResult()
	}()

	action(t)
}

func (t *T) recoverFrom(r interface{}) {
	if t2, ok := r.(*T); ok && t2 == t {
		if t.failed && len(t.errors) == 0 {
			t.addError(errors.New("test failed with no failure message"))
		}
		return
	}
	t.failed = true
	t.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
}

func (t *T) runCleanups() {
	for len(t.cleanups) > 0 {
		cleanup := t.cleanups[len(t.cleanups)-1]
		t.cleanups = t.cleanups[:len(t.cleanups)-1]
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(*T); !ok {
						t.failed = true
						t.addError(fmt.Errorf("unexpected panic in cleanup: %+v", r))
					}
				}
			}()
			cleanup()
		}()
	}
}

func (t *T) recordResult() {
	if !t.failed && (len(t.id.Path) == 0 || t.ranSubtests) {
		return // only tests have results; the root and groups count only if they blew up
	}
	result := TestResult{TestID: t.id, Status: t.status(), Reason: t.reason, Errors: t.errors}
	results := &t.env.results
	results.Tests = append(results.Tests, result)
	switch result.Status {
	case StatusFailed:
		results.Failures = append(results.Failures, result)
	case StatusExpectedFailure:
		results.ExpectedFailures = append(results.ExpectedFailures, result)
	}
}

func (t *T) status() Status {
	switch {
	case t.failed:
		return StatusFailed
	case t.skipped:
		return StatusSkipped
	case t.expectedFailure:
		return StatusExpectedFailure
	default:
		return StatusPassed
	}
}

func (t *T) addError(err error) {
	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

// ID returns the unique identifier of this test.
func (t *T) ID() TestID {
	return t.id
}

// Context returns the object that was passed in TestConfiguration.Context.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Run runs a subtest. The subtest has its own debug output, result, and deferred actions;
// its failure does not stop the parent test. A subtest that the filter excludes is recorded as
// skipped without running.
func (t *T) Run(name string, action func(*T)) {
	t.ranSubtests = true
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		excluded := &T{id: id, env: t.env, skipped: true, reason: excludedByFilter}
		excluded.recordResult()
		logger.TestSkipped(id, excluded.reason)
		return
	}
	t1 := &T{
		id:  id,
		env: t.env,
	}
	t1.run(action)
	switch t1.status() {
	case StatusSkipped:
		logger.TestSkipped(id, t1.reason)
	case StatusExpectedFailure:
		logger.TestExpectedFailure(id, t1.reason, t1.debugLogger.Output())
	default:
		logger.TestFinished(id, t1.failed, t1.debugLogger.Output())
	}
}

// Group runs an action that only defines tests, by calling Run or Group. The filter is never
// applied to the group itself, only to each test in it, and the group has no result of its own
// unless its action fails.
func (t *T) Group(name string, action func(*T)) {
	t.ranSubtests = true
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	t1 := &T{
		id:          id,
		env:         t.env,
		ranSubtests: true,
	}
	t1.run(action)
	if t1.failed {
		logger.TestFinished(id, true, t1.debugLogger.Output())
	}
}

// Errorf records a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	if t.step != "" {
		err = fmt.Errorf("[%s] %w", t.step, err)
	}
	t.addError(reformatError(err))
}

// FailNow marks the test as failed and exits it immediately.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Skip exits the test immediately without marking it as failed.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.reason = reason
	t.Skip()
}

// ExpectedFailure exits the test immediately and records it as an expected failure: the
// service did something wrong, but it is a known defect that should not fail the run. If the
// test had already recorded a failure, it remains a failure.
func (t *T) ExpectedFailure(reason string) {
	t.expectedFailure = true
	t.reason = reason
	t.Debug("expected failure: %s", reason)
	panic(t)
}

// Defer schedules an action to run when the test ends, whether it passed or not. Deferred
// actions run in reverse order of registration.
func (t *T) Defer(action func()) {
	t.cleanups = append(t.cleanups, action)
}

// Step runs part of a test under a descriptive name. The name is written to the debug output
// and prefixed to any failure recorded while the step is running.
func (t *T) Step(name string, action func()) {
	t.Debug("STEP: %s", name)
	previous := t.step
	t.step = name
	defer func() { t.step = previous }()
	action()
}

// Debug writes a message to the test's debug output.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// reformatError strips the stack location block that testify puts at the start of its
// messages, since it always points into the test framework rather than the test.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimPrefix(err.Error(), "\n"), "\n")
	var out []string
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace && isContinuationLine(line) {
			continue
		}
		inTrace = false
		out = append(out, line)
	}
	return errors.New(strings.Join(out, "\n"))
}

func isContinuationLine(line string) bool {
	label := strings.SplitN(strings.TrimPrefix(line, "\t"), "\t", 2)[0]
	return strings.TrimSpace(label) == ""
}
