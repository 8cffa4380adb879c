package bookingtests

import (
	"github.com/restful-booker/booking-contract-tests/bookinggen"
	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework"
	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
)

// RunTestSuite runs every booking contract test against the service behind the harness.
//
// With SessionPerRun, the single credential exchange happens here, before the first test. If it
// fails, every test that needs credentials fails with the same error, and the others still run.
func RunTestSuite(
	testHarness *harness.TestHarness,
	config SuiteConfig,
	filter ldtest.Filter,
	testLogger ldtest.TestLogger,
	debugLogger framework.Logger,
) ldtest.Results {
	c := newBookingTestContext(testHarness, config, debugLogger)
	return c.run(filter, testLogger, func(t *ldtest.T) {
		t.Group("CRUD", DoCRUDTests)
		t.Group("negative", DoNegativeTests)
	})
}

func newBookingTestContext(
	testHarness *harness.TestHarness,
	config SuiteConfig,
	debugLogger framework.Logger,
) *bookingTestContext {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	if config.SessionScope == "" {
		config.SessionScope = SessionPerRun
	}
	if config.Generator == nil {
		config.Generator = bookinggen.NewRandom()
	}
	c := &bookingTestContext{
		harness: testHarness,
		config:  config,
	}
	if config.SessionScope == SessionPerRun {
		c.sharedAuth, c.sharedAuthErr = client.New(testHarness, debugLogger).Authenticate(config.Credentials)
		if c.sharedAuthErr != nil {
			debugLogger.Printf("Shared authentication failed: %s", c.sharedAuthErr)
		}
	}
	return c
}

func (c *bookingTestContext) run(filter ldtest.Filter, testLogger ldtest.TestLogger, action func(*ldtest.T)) ldtest.Results {
	return ldtest.Run(
		ldtest.TestConfiguration{
			Filter:     filter,
			TestLogger: testLogger,
			Context:    c,
		},
		action,
	)
}
