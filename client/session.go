package client

import (
	"fmt"
	"net/http"

	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/servicedef"
)

// AuthenticatedContext is the result of one successful credential exchange. It only holds the
// token, never changes after it is created, and so can be shared by any number of tests.
type AuthenticatedContext struct {
	username string
	token    string
}

// AuthFailure means that the service did not accept the credential exchange.
type AuthFailure struct {
	Username string
	Status   int
	Reason   string
}

func (e *AuthFailure) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication as %q failed with HTTP %d: %s", e.Username, e.Status, e.Reason)
	}
	return fmt.Sprintf("authentication as %q failed with HTTP %d", e.Username, e.Status)
}

// Authenticate performs exactly one credential exchange. Tokens are not refreshed; a test run
// is expected to be much shorter than the token lifetime.
func (c *BookingClient) Authenticate(creds servicedef.AuthParams) (*AuthenticatedContext, error) {
	resp, err := c.harness.Do(harness.Request{Method: "POST", Path: authPath, Body: creds}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("credential exchange failed: %w", err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, &AuthFailure{Username: creds.Username, Status: resp.Status, Reason: string(resp.Body)}
	}
	var auth servicedef.AuthResponse
	if err := resp.DecodeJSON(&auth); err != nil {
		return nil, &AuthFailure{Username: creds.Username, Status: resp.Status, Reason: err.Error()}
	}
	if auth.Token == "" {
		reason := auth.Reason
		if reason == "" {
			reason = "no token in response"
		}
		return nil, &AuthFailure{Username: creds.Username, Status: resp.Status, Reason: reason}
	}
	c.logger.Printf("Authenticated as %q", creds.Username)
	return &AuthenticatedContext{username: creds.Username, token: auth.Token}, nil
}

func (a *AuthenticatedContext) Username() string {
	return a.username
}

func (a *AuthenticatedContext) cookie() *http.Cookie {
	return &http.Cookie{Name: servicedef.TokenCookieName, Value: a.token}
}
