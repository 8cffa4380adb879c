package ldtest

import (
	"io"

	"gopkg.in/yaml.v3"
)

type reportFile struct {
	Summary reportSummary `yaml:"summary"`
	Tests   []reportTest  `yaml:"tests"`
}

type reportSummary struct {
	Passed           int  `yaml:"passed"`
	Failed           int  `yaml:"failed"`
	ExpectedFailures int  `yaml:"expectedFailures"`
	Skipped          int  `yaml:"skipped"`
	OK               bool `yaml:"ok"`
}

type reportTest struct {
	ID     string   `yaml:"id"`
	Status Status   `yaml:"status"`
	Reason string   `yaml:"reason,omitempty"`
	Errors []string `yaml:"errors,omitempty"`
}

// WriteReport writes the results of a test run as YAML, for consumption by CI tooling.
func WriteReport(out io.Writer, results Results) error {
	report := reportFile{
		Summary: reportSummary{
			Passed:           results.Count(StatusPassed),
			Failed:           len(results.Failures),
			ExpectedFailures: len(results.ExpectedFailures),
			Skipped:          results.Count(StatusSkipped),
			OK:               results.OK(),
		},
	}
	for _, r := range results.Tests {
		t := reportTest{ID: r.TestID.String(), Status: r.Status, Reason: r.Reason}
		for _, err := range r.Errors {
			t.Errors = append(t.Errors, err.Error())
		}
		report.Tests = append(report.Tests, t)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
