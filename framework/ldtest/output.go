package ldtest

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// PrintResults writes a summary of the test run, listing every expected failure with its
// reason and every failure with its errors.
func PrintResults(out io.Writer, results Results) {
	passed := color.New(color.FgGreen)
	tolerated := color.New(color.FgYellow)
	failed := color.New(color.FgRed, color.Bold)

	if len(results.ExpectedFailures) > 0 {
		tolerated.Fprintf(out, "Known service defects (%d):\n", len(results.ExpectedFailures))
		for _, r := range results.ExpectedFailures {
			fmt.Fprintf(out, "  %s: %s\n", r.TestID, r.Reason)
		}
		fmt.Fprintln(out)
	}

	if !results.OK() {
		failed.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, r := range results.Failures {
			fmt.Fprintf(out, "  %s\n", r.TestID)
			for _, err := range r.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
		}
		fmt.Fprintln(out)
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d expected failures, %d skipped",
		results.Count(StatusPassed),
		len(results.Failures),
		len(results.ExpectedFailures),
		results.Count(StatusSkipped),
	)
	if results.OK() {
		passed.Fprintf(out, "All tests passed (%s)\n", summary)
	} else {
		failed.Fprintf(out, "Test run failed (%s)\n", summary)
	}
}
