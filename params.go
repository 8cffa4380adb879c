package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/restful-booker/booking-contract-tests/bookingtests"
	"github.com/restful-booker/booking-contract-tests/config"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
)

type commandParams struct {
	configPath string
	filters    ldtest.RegexFilters
	debug      bool
	debugAll   bool

	config       *config.Config
	sessionScope bookingtests.SessionScope
}

// newRootCommand defines the command line. Flags named after configuration keys override the
// config file and environment only when they are given.
func newRootCommand(params *commandParams, run func() error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking-contract-tests",
		Short: "Verifies that a booking service implements its HTTP contract",
		Long: `Runs create, read, update, patch and delete scenarios and negative cases against a
booking service. Known service defects are reported as expected failures and do not fail
the run; any other deviation does.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return params.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	defaults := config.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&params.configPath, "config", "", "YAML config file")
	fs.String(config.KeyURL, "", "base URL of the booking service (required)")
	fs.String(config.KeyUsername, defaults.Username, "username for the credential exchange")
	fs.String(config.KeyPassword, defaults.Password, "password for the credential exchange")
	fs.String(config.KeySession, defaults.Session,
		fmt.Sprintf("session scope: %s or %s", bookingtests.SessionPerRun, bookingtests.SessionPerScenario))
	fs.Duration(config.KeyTimeout, defaults.Timeout, "timeout for each request to the service")
	fs.Duration(config.KeyStartupTimeout, defaults.StartupTimeout, "how long to wait for the service to respond")
	fs.Int(config.KeyNonexistentID, defaults.NonexistentID, "booking id known not to exist (0 to find one)")
	fs.String(config.KeyReport, "", "write a YAML report of all results to this file")
	fs.Var(&params.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&params.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&params.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&params.debugAll, "debug-all", false, "enable debug logging for all tests")
	return cmd
}

func (c *commandParams) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	scope, err := bookingtests.ParseSessionScope(cfg.Session)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.config = cfg
	c.sessionScope = scope
	return nil
}

// rerunCommand builds a command line that runs only the given tests again, with the same
// service and session settings.
func (c *commandParams) rerunCommand(program string, failures []ldtest.TestResult) string {
	var b commandBuilder
	b.add(program, "--"+config.KeyURL, c.config.URL)
	if c.configPath != "" {
		b.add("--config", c.configPath)
	}
	if c.sessionScope != bookingtests.SessionPerRun {
		b.add("--"+config.KeySession, string(c.sessionScope))
	}
	for _, f := range failures {
		b.add("--run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	b.add("--debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
