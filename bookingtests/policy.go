package bookingtests

import (
	"fmt"

	"github.com/restful-booker/booking-contract-tests/client"
	"github.com/restful-booker/booking-contract-tests/framework/ldtest"

	"github.com/stretchr/testify/require"
)

// Outcome is how a negative test treats the status that the service returned.
type Outcome int

const (
	// Conforming means the service rejected the request as its contract says it should.
	Conforming Outcome = iota

	// ToleratedDefect means the service deviated from its contract in a way that is already
	// known and accepted. The test is recorded as an expected failure and does not fail the run.
	ToleratedDefect

	// HardFailure means any other deviation. The test fails.
	HardFailure
)

func (o Outcome) String() string {
	switch o {
	case Conforming:
		return "conforming"
	case ToleratedDefect:
		return "tolerated defect"
	default:
		return "hard failure"
	}
}

// Expectation lists the statuses that a negative test accepts. Tolerating a newly found
// service defect means adding an entry to Tolerated, not writing a new check.
type Expectation struct {
	Conforming []int
	// Tolerated maps a status to the description of the known defect it indicates.
	Tolerated map[int]string
}

// Classification is the result of checking one observed status against an Expectation.
type Classification struct {
	Outcome Outcome
	Status  int
	Reason  string
}

func (e Expectation) Classify(status int) Classification {
	for _, s := range e.Conforming {
		if s == status {
			return Classification{Outcome: Conforming, Status: status}
		}
	}
	if reason, ok := e.Tolerated[status]; ok {
		return Classification{Outcome: ToleratedDefect, Status: status, Reason: reason}
	}
	return Classification{
		Outcome: HardFailure,
		Status:  status,
		Reason:  fmt.Sprintf("expected status in %v, got %d", e.Conforming, status),
	}
}

var (
	// MissingRequiredFields applies to a create without firstname and lastname.
	MissingRequiredFields = Expectation{
		Conforming: []int{400, 404},
		Tolerated: map[int]string{
			200: "service does not validate required fields",
			500: "service crashes instead of validating required fields",
		},
	}

	// WrongNumericType applies to a create with a string where totalprice should be a number.
	WrongNumericType = Expectation{
		Conforming: []int{400, 404},
		Tolerated: map[int]string{
			200: "service does not validate data types",
		},
	}

	// UpdateNonexistent applies to a full update of a booking id that does not exist.
	UpdateNonexistent = Expectation{
		Conforming: []int{400, 404, 405},
		Tolerated: map[int]string{
			200: "service does not check that the booking id exists",
		},
	}

	// DeleteWithoutAuth applies to a delete with no credentials. Nothing is tolerated here: a
	// delete that gets past authorization is never an acceptable known defect.
	DeleteWithoutAuth = Expectation{
		Conforming: []int{403},
	}
)

// RequireConforming classifies the status of a response. A conforming status lets the test go
// on; a tolerated defect ends the test as an expected failure; anything else fails it.
func RequireConforming(t *ldtest.T, e Expectation, resp *client.Response) {
	c := e.Classify(resp.Status)
	t.Debug("HTTP %d classified as %s", c.Status, c.Outcome)
	switch c.Outcome {
	case Conforming:
		return
	case ToleratedDefect:
		t.ExpectedFailure(c.Reason)
	default:
		require.Fail(t, c.Reason, "response body was: %s", string(resp.Body))
	}
}
