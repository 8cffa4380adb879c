package bookingtests

import (
	"testing"

	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/fakebooker"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jimBrown = servicedef.Booking{
	FirstName:   "Jim",
	LastName:    "Brown",
	TotalPrice:  111,
	DepositPaid: true,
	BookingDates: servicedef.BookingDates{
		CheckIn:  "2025-01-01",
		CheckOut: "2025-01-05",
	},
	AdditionalNeeds: ldvalue.NewOptionalString("Breakfast"),
}

var jamesGreen = servicedef.Booking{
	FirstName:   "James",
	LastName:    "Green",
	TotalPrice:  222,
	DepositPaid: false,
	BookingDates: servicedef.BookingDates{
		CheckIn:  "2025-02-01",
		CheckOut: "2025-02-03",
	},
	AdditionalNeeds: ldvalue.NewOptionalString("Dinner"),
}

func readBooking(t *ldtest.T, caller *client.Caller, id int) servicedef.Booking {
	resp := requireResponse(t)(caller.GetBooking(id))
	requireStatus(t, 200, resp)
	var read servicedef.Booking
	require.NoError(t, resp.DecodeJSON(&read))
	return read
}

func TestWorkflowPassesThroughEveryState(t *testing.T) {
	var states []State
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		w := NewWorkflow(t, RequireAuthenticatedCaller(t))
		states = append(states, w.State())
		for _, step := range []func(){
			func() { w.Create(jimBrown) },
			w.VerifyRead,
			func() { w.Update(jamesGreen) },
			w.VerifyUpdate,
			func() { w.Patch(DefaultPatch) },
			w.VerifyPatch,
			w.Delete,
			w.VerifyAbsence,
		} {
			step()
			states = append(states, w.State())
		}
		assert.NotZero(t, w.BookingID())
	})

	assert.Equal(t, ldtest.StatusPassed, result.Status, "errors: %v", result.Errors)
	assert.Equal(t, []State{Absent, Created, ReadVerified, Updated, UpdateVerified,
		Patched, PatchVerified, Deleted, AbsenceVerified}, states)
	assert.Equal(t, 0, service.BookingCount())
}

func TestWorkflowPatchLeavesUnsentFieldsAlone(t *testing.T) {
	result, _ := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		w := NewWorkflow(t, caller)
		w.Create(jimBrown)
		w.VerifyRead()
		w.Update(jamesGreen)
		w.VerifyUpdate()
		assert.Equal(t, jamesGreen, readBooking(t, caller, w.BookingID()), "replacement not visible")

		w.Patch(DefaultPatch)
		w.VerifyPatch()

		read := readBooking(t, caller, w.BookingID())
		assert.Equal(t, "Alex", read.FirstName)
		assert.Equal(t, "Potter", read.LastName)
		assert.Equal(t, ldvalue.NewOptionalString("laptop"), read.AdditionalNeeds)
		assert.Equal(t, 222, read.TotalPrice)
		assert.False(t, read.DepositPaid)
		assert.Equal(t, jamesGreen.BookingDates, read.BookingDates)
	})

	assert.Equal(t, ldtest.StatusPassed, result.Status, "errors: %v", result.Errors)
}

func TestWorkflowStepOutOfOrderFails(t *testing.T) {
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		w := NewWorkflow(t, RequireAuthenticatedCaller(t))
		w.Create(jimBrown)
		w.Patch(DefaultPatch)
	})

	assert.Equal(t, ldtest.StatusFailed, result.Status)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Error(), "workflow step out of order")
	assert.Contains(t, result.Errors[0].Error(), "in state Created")
	assert.Equal(t, 0, service.BookingCount(), "booking created before the failure was not cleaned up")
}

func TestWorkflowDeletesBookingWhenTestEndsEarly(t *testing.T) {
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		w := NewWorkflow(t, RequireAuthenticatedCaller(t))
		w.Create(jimBrown)
		w.VerifyRead()
	})

	assert.Equal(t, ldtest.StatusPassed, result.Status)
	assert.Equal(t, 0, service.BookingCount())
}

func TestWorkflowWithoutCredentialsFailsInUpdateStepAndStillCleansUp(t *testing.T) {
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		w := NewWorkflow(t, UnauthenticatedCaller(t))
		w.Create(jimBrown)
		w.VerifyRead()
		w.Update(jamesGreen)
	})

	assert.Equal(t, ldtest.StatusFailed, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "[replace booking]")
	assert.Equal(t, 0, service.BookingCount(), "booking outlived its test")
}

func TestCleanupFailureDoesNotChangeResult(t *testing.T) {
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		caller := RequireAuthenticatedCaller(t)
		id := CreateTemporaryBooking(t, caller, jimBrown)
		resp := requireResponse(t)(caller.DeleteBooking(id))
		requireStatus(t, 201, resp)
	})

	assert.Equal(t, ldtest.StatusPassed, result.Status, "errors: %v", result.Errors)
	assert.Equal(t, 0, service.BookingCount())
}

func TestRunLifecycleWithGeneratedBookings(t *testing.T) {
	result, service := runScenario(t, fakebooker.Options{}, func(t *ldtest.T) {
		w := RunLifecycle(t, RequireAuthenticatedCaller(t))
		assert.Equal(t, AbsenceVerified, w.State())
	})

	assert.Equal(t, ldtest.StatusPassed, result.Status, "errors: %v", result.Errors)
	assert.Equal(t, 0, service.BookingCount())
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "Absent", Absent.String())
	assert.Equal(t, "Read-Verified", ReadVerified.String())
	assert.Equal(t, "Absence-Verified", AbsenceVerified.String())
	assert.Equal(t, "Unknown", State(42).String())
}
