package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/restful-booker/booking-contract-tests/framework"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"

	"github.com/fatih/color"
)

var (
	failedColor   = color.New(color.FgRed, color.Bold)
	expectedColor = color.New(color.FgYellow)
	skippedColor  = color.New(color.FgHiBlack)
)

// ConsoleTestLogger writes the progress of the test run as it happens.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id ldtest.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id ldtest.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id ldtest.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id ldtest.TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c *ConsoleTestLogger) TestExpectedFailure(id ldtest.TestID, reason string, debugOutput framework.CapturedOutput) {
	expectedColor.Fprintf(c.Out, "  KNOWN DEFECT: %s (%s)\n", id, reason)
	if len(debugOutput) > 0 && c.DebugOutputOnSuccess {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}
