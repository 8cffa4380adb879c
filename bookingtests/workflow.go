package bookingtests

import (
	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"
	"github.com/restful-booker/booking-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

// State is the point a Workflow has reached in the life of its booking.
type State int

const (
	Absent State = iota
	Created
	ReadVerified
	Updated
	UpdateVerified
	Patched
	PatchVerified
	Deleted
	AbsenceVerified
)

var stateNames = [...]string{
	"Absent",
	"Created",
	"Read-Verified",
	"Updated",
	"Update-Verified",
	"Patched",
	"Patch-Verified",
	"Deleted",
	"Absence-Verified",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// DefaultPatch is the partial update used by the lifecycle test.
var DefaultPatch = servicedef.PartialBooking{
	FirstName:       ldvalue.NewOptionalString("Alex"),
	LastName:        ldvalue.NewOptionalString("Potter"),
	AdditionalNeeds: ldvalue.NewOptionalString("laptop"),
}

// Workflow takes one booking through create, read, update, patch and delete, verifying the
// service's response at every step. The steps must be called in order; each one fails the test
// immediately if its check does not pass, so a later step can rely on everything before it.
//
// The booking is deleted when the test ends even if the workflow did not get that far.
type Workflow struct {
	t         *ldtest.T
	caller    *client.Caller
	state     State
	id        int
	submitted servicedef.Booking
	updated   servicedef.Booking
	patched   servicedef.PartialBooking
}

func NewWorkflow(t *ldtest.T, caller *client.Caller) *Workflow {
	return &Workflow{t: t, caller: caller}
}

func (w *Workflow) State() State {
	return w.state
}

// BookingID returns the id assigned by the service, or zero before the booking is created.
func (w *Workflow) BookingID() int {
	return w.id
}

// Create posts a new booking. The response must have an id and echo the submitted firstname
// and totalprice. Cleanup is scheduled as soon as the response carries an id, even if the
// create is then judged wrong.
func (w *Workflow) Create(b servicedef.Booking) {
	w.advance(Absent, Created, "create booking", func() {
		resp := requireResponse(w.t)(w.caller.CreateBooking(b))
		var created servicedef.CreatedBooking
		decodeErr := resp.DecodeJSON(&created)
		if decodeErr == nil && created.BookingID.IsDefined() {
			w.id = created.BookingID.IntValue()
			w.t.Defer(w.cleanup)
		}
		requireStatus(w.t, 200, resp)
		require.NoError(w.t, decodeErr)
		require.True(w.t, created.BookingID.IsDefined(), "create response did not contain bookingid")

		w.submitted = b

		require.Equal(w.t, b.FirstName, created.Booking.FirstName, "firstname in create response")
		require.Equal(w.t, b.TotalPrice, created.Booking.TotalPrice, "totalprice in create response")
	})
}

// VerifyRead reads the booking back and checks the lastname that was submitted.
func (w *Workflow) VerifyRead() {
	w.advance(Created, ReadVerified, "read created booking", func() {
		read := w.requireRead()
		require.Equal(w.t, w.submitted.LastName, read.LastName, "lastname of created booking")
	})
}

// Update replaces the booking. The response must show the new firstname and lastname.
func (w *Workflow) Update(b servicedef.Booking) {
	w.advance(ReadVerified, Updated, "replace booking", func() {
		resp := requireResponse(w.t)(w.caller.UpdateBooking(w.id, b))
		requireStatus(w.t, 200, resp)
		var echoed servicedef.Booking
		require.NoError(w.t, resp.DecodeJSON(&echoed))
		w.updated = b

		require.Equal(w.t, b.FirstName, echoed.FirstName, "firstname in update response")
		require.Equal(w.t, b.LastName, echoed.LastName, "lastname in update response")
	})
}

// VerifyUpdate reads the booking back to prove that the update was stored, not just echoed.
func (w *Workflow) VerifyUpdate() {
	w.advance(Updated, UpdateVerified, "read replaced booking", func() {
		read := w.requireRead()
		require.Equal(w.t, w.updated.FirstName, read.FirstName, "firstname of replaced booking")
	})
}

// Patch partially updates the booking.
func (w *Workflow) Patch(p servicedef.PartialBooking) {
	w.advance(UpdateVerified, Patched, "partially update booking", func() {
		resp := requireResponse(w.t)(w.caller.PatchBooking(w.id, p))
		requireStatus(w.t, 200, resp)
		require.NoError(w.t, resp.DecodeJSON(&w.patched))
	})
}

// VerifyPatch reads the booking back. The patched fields must match the patch response, and
// totalprice, which the patch did not send, must still have the value from the full update.
func (w *Workflow) VerifyPatch() {
	w.advance(Patched, PatchVerified, "read partially updated booking", func() {
		read := w.requireRead()
		require.Equal(w.t, w.patched.FirstName, ldvalue.NewOptionalString(read.FirstName), "firstname after patch")
		require.Equal(w.t, w.patched.LastName, ldvalue.NewOptionalString(read.LastName), "lastname after patch")
		require.Equal(w.t, w.patched.AdditionalNeeds, read.AdditionalNeeds, "additionalneeds after patch")
		require.Equal(w.t, w.updated.TotalPrice, read.TotalPrice, "totalprice was changed by a patch that did not include it")
	})
}

// Delete deletes the booking.
func (w *Workflow) Delete() {
	w.advance(PatchVerified, Deleted, "delete booking", func() {
		resp := requireResponse(w.t)(w.caller.DeleteBooking(w.id))
		requireStatus(w.t, 201, resp)
	})
}

// VerifyAbsence checks that the deleted booking can no longer be read.
func (w *Workflow) VerifyAbsence() {
	w.advance(Deleted, AbsenceVerified, "read deleted booking", func() {
		resp := requireResponse(w.t)(w.caller.GetBooking(w.id))
		requireStatus(w.t, 404, resp)
	})
}

func (w *Workflow) advance(from, to State, step string, action func()) {
	if w.state != from {
		require.Fail(w.t, "workflow step out of order",
			"cannot %s in state %s, it requires state %s", step, w.state, from)
	}
	w.t.Step(step, action)
	w.state = to
	w.t.Debug("booking %d is now %s", w.id, w.state)
}

func (w *Workflow) requireRead() servicedef.Booking {
	resp := requireResponse(w.t)(w.caller.GetBooking(w.id))
	requireStatus(w.t, 200, resp)
	var b servicedef.Booking
	require.NoError(w.t, resp.DecodeJSON(&b))
	return b
}

func (w *Workflow) cleanup() {
	if w.state >= Deleted {
		return
	}
	deleteQuietly(w.t, w.caller, w.id)
}

// RunLifecycle takes a generated booking through every state of the Workflow, replacing it
// with a second generated booking and then applying DefaultPatch.
func RunLifecycle(t *ldtest.T, caller *client.Caller) *Workflow {
	w := NewWorkflow(t, caller)
	w.Create(Generate(t))
	w.VerifyRead()
	w.Update(Generate(t))
	w.VerifyUpdate()
	w.Patch(DefaultPatch)
	w.VerifyPatch()
	w.Delete()
	w.VerifyAbsence()
	require.Equal(t, AbsenceVerified, w.State())
	return w
}
