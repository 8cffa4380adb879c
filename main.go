package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/restful-booker/booking-contract-tests/bookingtests"
	"github.com/restful-booker/booking-contract-tests/framework"
	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const statusPath = "/ping"

var errTestsFailed = errors.New("test run failed")

func main() {
	os.Exit(execute(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code: 0 if every test passed or
// failed only with a known defect, 1 otherwise.
func execute(program string, args []string, out, errOut io.Writer) int {
	var params commandParams
	cmd := newRootCommand(&params, func() error {
		return runTests(program, &params, out)
	})
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(errOut, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

func runTests(program string, params *commandParams, out io.Writer) error {
	cfg := params.config

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		zapLogger, err := newDebugLogger()
		if err != nil {
			return err
		}
		defer func() { _ = zapLogger.Sync() }()
		mainDebugLogger = framework.NewZapLogger(zapLogger)
	}

	testHarness, err := harness.NewTestHarness(
		cfg.URL,
		statusPath,
		cfg.Timeout,
		cfg.StartupTimeout,
		mainDebugLogger,
		out,
	)
	if err != nil {
		return fmt.Errorf("test service error: %w", err)
	}

	fmt.Fprintln(out)
	ldtest.PrintFilterDescription(out, params.filters)

	fmt.Fprintln(out, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	suiteConfig := bookingtests.SuiteConfig{
		Credentials:   servicedef.AuthParams{Username: cfg.Username, Password: cfg.Password},
		SessionScope:  params.sessionScope,
		NonexistentID: cfg.NonexistentID,
	}
	results := bookingtests.RunTestSuite(testHarness, suiteConfig, params.filters.AsFilter, testLogger, mainDebugLogger)

	fmt.Fprintln(out)
	ldtest.PrintResults(out, results)

	if cfg.Report != "" {
		if err := writeReportFile(cfg.Report, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", cfg.Report)
	}

	if !results.OK() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests again:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(program, results.Failures))
		return errTestsFailed
	}
	return nil
}

func newDebugLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stdout"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func writeReportFile(path string, results ldtest.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	if err := ldtest.WriteReport(f, results); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write report: %w", err)
	}
	return f.Close()
}
