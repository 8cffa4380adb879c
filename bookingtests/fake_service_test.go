package bookingtests

import (
	"io/ioutil"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/restful-booker/booking-contract-tests/bookinggen"
	"github.com/restful-booker/booking-contract-tests/fakebooker"
	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"github.com/gin-gonic/gin"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fakeCreds = servicedef.AuthParams{Username: "admin", Password: "password123"}

func testSuiteConfig() SuiteConfig {
	return SuiteConfig{
		Credentials: fakeCreds,
		Generator:   bookinggen.New(rand.NewSource(1)),
	}
}

func withFakeService(t *testing.T, opts fakebooker.Options, action func(*fakebooker.Service, *harness.TestHarness)) {
	service := fakebooker.New(opts)
	httphelpers.WithServer(service.Handler(), func(server *httptest.Server) {
		h, err := harness.NewTestHarness(server.URL, "/ping", time.Second*5, time.Second, nil, ioutil.Discard)
		require.NoError(t, err)
		action(service, h)
	})
}

// runSuite runs the whole suite against a fake service and returns the results along with the
// fake, so that tests can look at what was left behind.
func runSuite(t *testing.T, opts fakebooker.Options, config SuiteConfig) (ldtest.Results, *fakebooker.Service) {
	var results ldtest.Results
	var service *fakebooker.Service
	withFakeService(t, opts, func(s *fakebooker.Service, h *harness.TestHarness) {
		results = RunTestSuite(h, config, nil, nil, nil)
		service = s
	})
	return results, service
}

// runScenario runs a single test named "scenario" against a fake service.
func runScenario(t *testing.T, opts fakebooker.Options, action func(*ldtest.T)) (ldtest.TestResult, *fakebooker.Service) {
	var results ldtest.Results
	var service *fakebooker.Service
	withFakeService(t, opts, func(s *fakebooker.Service, h *harness.TestHarness) {
		c := newBookingTestContext(h, testSuiteConfig(), nil)
		results = c.run(nil, nil, func(t *ldtest.T) {
			t.Run("scenario", action)
		})
		service = s
	})
	return requireResult(t, results, "scenario"), service
}

func requireResult(t *testing.T, results ldtest.Results, id string) ldtest.TestResult {
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			return r
		}
	}
	require.Fail(t, "test result not found", id)
	return ldtest.TestResult{}
}
