package bookingtests

import (
	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// requireResponse fails the test if a call did not get any response at all. It is meant to wrap
// a Caller method directly: requireResponse(t)(caller.GetBooking(id)).
func requireResponse(t *ldtest.T) func(*client.Response, error) *client.Response {
	return func(resp *client.Response, err error) *client.Response {
		require.NoError(t, err)
		return resp
	}
}

func requireStatus(t *ldtest.T, status int, resp *client.Response) {
	require.Equal(t, status, resp.Status, "unexpected HTTP status; response body was: %s", string(resp.Body))
}

// CreateTemporaryBooking creates a booking that will be deleted when the test ends.
func CreateTemporaryBooking(t *ldtest.T, caller *client.Caller, b servicedef.Booking) int {
	resp := requireResponse(t)(caller.CreateBooking(b))
	requireStatus(t, 200, resp)
	var created servicedef.CreatedBooking
	require.NoError(t, resp.DecodeJSON(&created))
	require.True(t, created.BookingID.IsDefined(), "create response did not contain bookingid")
	id := created.BookingID.IntValue()
	t.Defer(func() { deleteQuietly(t, caller, id) })
	return id
}

// deleteIfCreated is for negative tests that expect a create to be rejected: if the service
// accepted it anyway, the booking it made is deleted when the test ends.
func deleteIfCreated(t *ldtest.T, caller *client.Caller, resp *client.Response) {
	if resp.Status < 200 || resp.Status >= 300 {
		return
	}
	var created servicedef.CreatedBooking
	if err := resp.DecodeJSON(&created); err != nil || !created.BookingID.IsDefined() {
		t.Debug("service accepted the booking but did not return a usable id, cannot clean up")
		return
	}
	id := created.BookingID.IntValue()
	t.Defer(func() { deleteQuietly(t, caller, id) })
}

// deleteQuietly removes a booking during cleanup. Failures are only logged, so that they do
// not hide the outcome of the test itself. If caller has no credentials, the delete is made
// with the session of the test run instead.
func deleteQuietly(t *ldtest.T, caller *client.Caller, id int) {
	t.Debug("cleaning up booking %d", id)
	if !caller.IsAuthenticated() {
		bc := NewClient(t)
		auth, err := session(t, bc)
		if err != nil {
			t.Debug("could not delete booking %d, no session: %s", id, err)
			return
		}
		caller = bc.As(auth)
	}
	resp, err := caller.DeleteBooking(id)
	switch {
	case err != nil:
		t.Debug("could not delete booking %d: %s", id, err)
	case resp.Status != 201 && resp.Status != 404 && resp.Status != 405:
		t.Debug("could not delete booking %d: HTTP %d", id, resp.Status)
	}
}
