package ldtest

import "github.com/restful-booker/booking-contract-tests/framework"

// TestLogger receives notifications as tests start and finish.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput framework.CapturedOutput)
	TestSkipped(id TestID, reason string)
	TestExpectedFailure(id TestID, reason string, debugOutput framework.CapturedOutput)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                           {}
func (n nullTestLogger) TestError(TestID, error)                                      {}
func (n nullTestLogger) TestFinished(TestID, bool, framework.CapturedOutput)          {}
func (n nullTestLogger) TestSkipped(TestID, string)                                   {}
func (n nullTestLogger) TestExpectedFailure(TestID, string, framework.CapturedOutput) {}
