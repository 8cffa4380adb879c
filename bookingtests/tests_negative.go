package bookingtests

import (
	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

const wrongTypeTotalPrice = "some_value_8734895_ldfjhgkjdfg"

func DoNegativeTests(t *ldtest.T) {
	t.Run("create without firstname and lastname", func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		body := servicedef.WithoutFields(Generate(t).AsValue(), "firstname", "lastname")

		resp := requireResponse(t)(caller.CreateBookingRaw(body))
		deleteIfCreated(t, caller, resp)
		RequireConforming(t, MissingRequiredFields, resp)
	})

	t.Run("create with text instead of a number", func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		body := servicedef.WithField(Generate(t).AsValue(), "totalprice", ldvalue.String(wrongTypeTotalPrice))

		resp := requireResponse(t)(caller.CreateBookingRaw(body))
		deleteIfCreated(t, caller, resp)
		RequireConforming(t, WrongNumericType, resp)
	})

	t.Run("update nonexistent booking", func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		id := nonexistentBookingID(t, caller)

		resp := requireResponse(t)(caller.UpdateBooking(id, Generate(t)))
		if resp.Status == 200 {
			// the service may have created a booking under that id
			t.Defer(func() { deleteQuietly(t, caller, id) })
		}
		RequireConforming(t, UpdateNonexistent, resp)
	})

	t.Run("delete without authentication", func(t *ldtest.T) {
		id := CreateTemporaryBooking(t, RequireAuthenticatedCaller(t), Generate(t))

		resp := requireResponse(t)(UnauthenticatedCaller(t).DeleteBooking(id))
		RequireConforming(t, DeleteWithoutAuth, resp)
	})
}

// nonexistentBookingID returns the configured id after checking that it really does not exist,
// or the id of a booking that it has just created and deleted.
func nonexistentBookingID(t *ldtest.T, caller *client.Caller) int {
	if id := requireContext(t).config.NonexistentID; id != 0 {
		resp := requireResponse(t)(caller.GetBooking(id))
		require.Equal(t, 404, resp.Status, "booking %d was configured as nonexistent, but it exists", id)
		return id
	}
	id := CreateTemporaryBooking(t, caller, Generate(t))
	resp := requireResponse(t)(caller.DeleteBooking(id))
	requireStatus(t, 201, resp)
	return id
}
