package bookingtests

import (
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoCRUDTests(t *ldtest.T) {
	t.Run("create, read, update, patch and delete", func(t *ldtest.T) {
		RunLifecycle(t, RequireAuthenticatedCaller(t))
	})

	t.Run("created booking can be read with every submitted field", func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		b := Generate(t)
		id := CreateTemporaryBooking(t, caller, b)

		resp := requireResponse(t)(caller.GetBooking(id))
		requireStatus(t, 200, resp)
		var read servicedef.Booking
		require.NoError(t, resp.DecodeJSON(&read))
		assert.Equal(t, b, read)
	})

	t.Run("full update is idempotent", func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		id := CreateTemporaryBooking(t, caller, Generate(t))
		replacement := Generate(t)

		var reads []servicedef.Booking
		for i := 0; i < 2; i++ {
			resp := requireResponse(t)(caller.UpdateBooking(id, replacement))
			requireStatus(t, 200, resp)

			resp = requireResponse(t)(caller.GetBooking(id))
			requireStatus(t, 200, resp)
			var read servicedef.Booking
			require.NoError(t, resp.DecodeJSON(&read))
			reads = append(reads, read)
		}
		assert.Equal(t, reads[0], reads[1], "second identical update changed the booking")
		assert.Equal(t, replacement, reads[1])
	})
}
