package servicedef

import (
	"encoding/json"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DateFormat is the layout of checkin and checkout dates on the wire.
const DateFormat = "2006-01-02"

// Booking is the resource under test, as sent in create and update requests and as returned
// by the read endpoint.
type Booking struct {
	FirstName       string                 `json:"firstname"`
	LastName        string                 `json:"lastname"`
	TotalPrice      int                    `json:"totalprice"`
	DepositPaid     bool                   `json:"depositpaid"`
	BookingDates    BookingDates           `json:"bookingdates"`
	AdditionalNeeds ldvalue.OptionalString `json:"additionalneeds"`
}

type BookingDates struct {
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
}

// CreatedBooking is the response body of a successful create. BookingID is undefined if the
// service did not return one.
type CreatedBooking struct {
	BookingID ldvalue.OptionalInt `json:"bookingid"`
	Booking   Booking             `json:"booking"`
}

// PartialBooking is the body of a partial update, and the part of its response that the tests
// look at. Only the defined fields are sent.
type PartialBooking struct {
	FirstName       ldvalue.OptionalString `json:"firstname"`
	LastName        ldvalue.OptionalString `json:"lastname"`
	AdditionalNeeds ldvalue.OptionalString `json:"additionalneeds"`
}

// AsValue converts the booking to a JSON object value. Fields that are not defined are left out.
func (b Booking) AsValue() ldvalue.Value {
	dates := ldvalue.ObjectBuild().
		Set("checkin", ldvalue.String(b.BookingDates.CheckIn)).
		Set("checkout", ldvalue.String(b.BookingDates.CheckOut)).
		Build()
	builder := ldvalue.ObjectBuild().
		Set("firstname", ldvalue.String(b.FirstName)).
		Set("lastname", ldvalue.String(b.LastName)).
		Set("totalprice", ldvalue.Int(b.TotalPrice)).
		Set("depositpaid", ldvalue.Bool(b.DepositPaid)).
		Set("bookingdates", dates)
	if b.AdditionalNeeds.IsDefined() {
		builder.Set("additionalneeds", ldvalue.String(b.AdditionalNeeds.StringValue()))
	}
	return builder.Build()
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.AsValue())
}

func (p PartialBooking) AsValue() ldvalue.Value {
	builder := ldvalue.ObjectBuild()
	for _, f := range []struct {
		name  string
		value ldvalue.OptionalString
	}{
		{"firstname", p.FirstName},
		{"lastname", p.LastName},
		{"additionalneeds", p.AdditionalNeeds},
	} {
		if f.value.IsDefined() {
			builder.Set(f.name, ldvalue.String(f.value.StringValue()))
		}
	}
	return builder.Build()
}

func (p PartialBooking) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.AsValue())
}

// WithoutFields returns a copy of a JSON object with the named properties removed.
func WithoutFields(v ldvalue.Value, names ...string) ldvalue.Value {
	builder := ldvalue.ObjectBuild()
	for _, key := range v.Keys() {
		if !contains(names, key) {
			builder.Set(key, v.GetByKey(key))
		}
	}
	return builder.Build()
}

// WithField returns a copy of a JSON object with one property added or replaced.
func WithField(v ldvalue.Value, name string, value ldvalue.Value) ldvalue.Value {
	builder := ldvalue.ObjectBuild()
	for _, key := range v.Keys() {
		builder.Set(key, v.GetByKey(key))
	}
	builder.Set(name, value)
	return builder.Build()
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
