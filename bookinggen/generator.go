// Package bookinggen produces plausible booking payloads for the contract tests.
package bookinggen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/restful-booker/booking-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var (
	firstNames      = []string{"Jim", "Sally", "Mary", "Eric", "Susan", "Mark", "Josh", "Amy", "Olga", "Ravi"}
	lastNames       = []string{"Brown", "Jones", "Wilson", "Jackson", "Smith", "Ericsson", "Allen", "Ivanova", "Patel"}
	additionalNeeds = []string{"Breakfast", "Late checkout", "Airport transfer", "Extra pillow", "Baby cot"}
)

// Generator creates bookings with random but valid field values. It is safe for concurrent use.
type Generator struct {
	rnd     *rand.Rand
	now     func() time.Time
	counter int
	lock    sync.Mutex
}

// New creates a Generator that draws from the given source. Using a fixed seed makes the
// sequence of bookings repeatable.
func New(source rand.Source) *Generator {
	return &Generator{rnd: rand.New(source), now: time.Now}
}

func NewRandom() *Generator {
	return New(rand.NewSource(time.Now().UnixNano()))
}

// Generate returns a new booking. Successive bookings from one Generator always have different
// first names, so that an update to a freshly generated booking is observable.
func (g *Generator) Generate() servicedef.Booking {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.counter++
	checkIn := g.now().AddDate(0, 0, 1+g.rnd.Intn(365))
	checkOut := checkIn.AddDate(0, 0, 1+g.rnd.Intn(14))
	return servicedef.Booking{
		FirstName:   fmt.Sprintf("%s%s", pick(g.rnd, firstNames), g.suffix()),
		LastName:    fmt.Sprintf("%s%s", pick(g.rnd, lastNames), g.suffix()),
		TotalPrice:  50 + g.rnd.Intn(4950),
		DepositPaid: g.rnd.Intn(2) == 1,
		BookingDates: servicedef.BookingDates{
			CheckIn:  checkIn.Format(servicedef.DateFormat),
			CheckOut: checkOut.Format(servicedef.DateFormat),
		},
		AdditionalNeeds: ldvalue.NewOptionalString(pick(g.rnd, additionalNeeds)),
	}
}

// suffix keeps names unique within a run: the counter guarantees it, the random letters keep
// parallel runs against one service from producing the same names.
func (g *Generator) suffix() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 3)
	for i := range b {
		b[i] = letters[g.rnd.Intn(len(letters))]
	}
	return fmt.Sprintf("-%s%d", b, g.counter)
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}
