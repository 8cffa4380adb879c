// Package client makes calls to the booking API of the service under test. It knows the
// endpoints and how to attach credentials, but it does not decide whether a response is right.
package client

import (
	"fmt"
	"net/http"

	"github.com/restful-booker/booking-contract-tests/framework"
	"github.com/restful-booker/booking-contract-tests/framework/harness"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	bookingPath = "/booking"
	authPath    = "/auth"
)

// Response is the status and body of a call that reached the service.
type Response = harness.Response

// BookingClient sends booking API requests through a TestHarness, logging them to the logger
// of the test that owns it. It is cheap to create one per test.
type BookingClient struct {
	harness *harness.TestHarness
	logger  framework.Logger
}

// Caller makes booking API calls with one fixed set of credentials, or none at all.
type Caller struct {
	client *BookingClient
	auth   *AuthenticatedContext
}

func New(h *harness.TestHarness, logger framework.Logger) *BookingClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &BookingClient{harness: h, logger: logger}
}

// As returns a Caller that attaches the credentials of an AuthenticatedContext to every request.
func (c *BookingClient) As(auth *AuthenticatedContext) *Caller {
	return &Caller{client: c, auth: auth}
}

// Unauthenticated returns a Caller that sends no credential material at all.
func (c *BookingClient) Unauthenticated() *Caller {
	return &Caller{client: c}
}

// IsAuthenticated is true if requests made through this Caller carry credentials.
func (c *Caller) IsAuthenticated() bool {
	return c.auth != nil
}

func (c *Caller) CreateBooking(b servicedef.Booking) (*Response, error) {
	return c.send("POST", bookingPath, b)
}

// CreateBookingRaw posts an arbitrary JSON value, which need not be a valid booking.
func (c *Caller) CreateBookingRaw(body ldvalue.Value) (*Response, error) {
	return c.send("POST", bookingPath, body)
}

func (c *Caller) GetBooking(id int) (*Response, error) {
	return c.send("GET", bookingIDPath(id), nil)
}

func (c *Caller) UpdateBooking(id int, b servicedef.Booking) (*Response, error) {
	return c.send("PUT", bookingIDPath(id), b)
}

// UpdateBookingRaw puts an arbitrary JSON value, which need not be a valid booking.
func (c *Caller) UpdateBookingRaw(id int, body ldvalue.Value) (*Response, error) {
	return c.send("PUT", bookingIDPath(id), body)
}

func (c *Caller) PatchBooking(id int, p servicedef.PartialBooking) (*Response, error) {
	return c.send("PATCH", bookingIDPath(id), p)
}

func (c *Caller) DeleteBooking(id int) (*Response, error) {
	return c.send("DELETE", bookingIDPath(id), nil)
}

func (c *Caller) send(method, path string, body interface{}) (*Response, error) {
	req := harness.Request{Method: method, Path: path, Body: body}
	if c.auth != nil {
		req.Cookies = []*http.Cookie{c.auth.cookie()}
	}
	return c.client.harness.Do(req, c.client.logger)
}

func bookingIDPath(id int) string {
	return fmt.Sprintf("%s/%d", bookingPath, id)
}
