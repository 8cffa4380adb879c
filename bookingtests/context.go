package bookingtests

import (
	"fmt"

	"github.com/restful-booker/booking-contract-tests/bookinggen"
	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// SessionScope says how many credential exchanges a test run makes.
type SessionScope string

const (
	// SessionPerRun authenticates once before any test runs. All tests that need credentials
	// share the resulting context, which they never modify.
	SessionPerRun SessionScope = "per-run"

	// SessionPerScenario authenticates separately in every test that needs credentials.
	SessionPerScenario SessionScope = "per-scenario"
)

func ParseSessionScope(s string) (SessionScope, error) {
	switch SessionScope(s) {
	case SessionPerRun, SessionPerScenario:
		return SessionScope(s), nil
	default:
		return "", fmt.Errorf("unknown session scope %q (must be %q or %q)", s, SessionPerRun, SessionPerScenario)
	}
}

// SuiteConfig contains the parameters of a test run that are specific to bookings.
type SuiteConfig struct {
	Credentials  servicedef.AuthParams
	SessionScope SessionScope

	// NonexistentID is the booking id used by the update-of-a-nonexistent-booking test. If it
	// is zero, the test creates and deletes a booking to obtain an id that surely does not exist.
	NonexistentID int

	// Generator produces booking payloads. If nil, a randomly seeded one is used.
	Generator *bookinggen.Generator
}

type bookingTestContext struct {
	harness       *harness.TestHarness
	config        SuiteConfig
	sharedAuth    *client.AuthenticatedContext
	sharedAuthErr error
}

func requireContext(t *ldtest.T) *bookingTestContext {
	if c, ok := t.Context().(*bookingTestContext); ok {
		return c
	}
	panic("bookingTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// NewClient returns a booking API client that logs to the test's debug output.
func NewClient(t *ldtest.T) *client.BookingClient {
	return client.New(requireContext(t).harness, t.DebugLogger())
}

// Generate returns a new valid booking payload.
func Generate(t *ldtest.T) servicedef.Booking {
	return requireContext(t).config.Generator.Generate()
}

// RequireAuthenticatedCaller returns a Caller with credentials, authenticating first if the
// session scope is per-scenario. The test fails immediately if authentication did not succeed.
func RequireAuthenticatedCaller(t *ldtest.T) *client.Caller {
	bc := NewClient(t)
	auth, err := session(t, bc)
	require.NoError(t, err, "cannot run a test that needs authentication")
	return bc.As(auth)
}

func session(t *ldtest.T, bc *client.BookingClient) (*client.AuthenticatedContext, error) {
	c := requireContext(t)
	if c.config.SessionScope == SessionPerScenario {
		return bc.Authenticate(c.config.Credentials)
	}
	return c.sharedAuth, c.sharedAuthErr
}

// UnauthenticatedCaller returns a Caller that sends no credentials.
func UnauthenticatedCaller(t *ldtest.T) *client.Caller {
	return NewClient(t).Unauthenticated()
}
