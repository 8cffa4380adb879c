package bookingtests

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	for _, p := range []struct {
		name        string
		expectation Expectation
		status      int
		outcome     Outcome
	}{
		{"missing fields 400", MissingRequiredFields, 400, Conforming},
		{"missing fields 404", MissingRequiredFields, 404, Conforming},
		{"missing fields 200", MissingRequiredFields, 200, ToleratedDefect},
		{"missing fields 500", MissingRequiredFields, 500, ToleratedDefect},
		{"missing fields 422", MissingRequiredFields, 422, HardFailure},
		{"missing fields 201", MissingRequiredFields, 201, HardFailure},
		{"wrong type 400", WrongNumericType, 400, Conforming},
		{"wrong type 404", WrongNumericType, 404, Conforming},
		{"wrong type 200", WrongNumericType, 200, ToleratedDefect},
		{"wrong type 500", WrongNumericType, 500, HardFailure},
		{"update nonexistent 405", UpdateNonexistent, 405, Conforming},
		{"update nonexistent 404", UpdateNonexistent, 404, Conforming},
		{"update nonexistent 400", UpdateNonexistent, 400, Conforming},
		{"update nonexistent 200", UpdateNonexistent, 200, ToleratedDefect},
		{"update nonexistent 403", UpdateNonexistent, 403, HardFailure},
		{"delete without auth 403", DeleteWithoutAuth, 403, Conforming},
		{"delete without auth 200", DeleteWithoutAuth, 200, HardFailure},
		{"delete without auth 201", DeleteWithoutAuth, 201, HardFailure},
		{"delete without auth 404", DeleteWithoutAuth, 404, HardFailure},
		{"delete without auth 401", DeleteWithoutAuth, 401, HardFailure},
	} {
		t.Run(p.name, func(t *testing.T) {
			c := p.expectation.Classify(p.status)
			assert.Equal(t, p.outcome, c.Outcome)
			assert.Equal(t, p.status, c.Status)
			if p.outcome == Conforming {
				assert.Empty(t, c.Reason)
			} else {
				assert.NotEmpty(t, c.Reason)
			}
		})
	}
}

func TestToleratedReasonsComeFromTable(t *testing.T) {
	assert.Equal(t, "service does not validate required fields", MissingRequiredFields.Classify(200).Reason)
	assert.Equal(t, "service crashes instead of validating required fields", MissingRequiredFields.Classify(500).Reason)
}

func TestHardFailureReasonNamesExpectedStatuses(t *testing.T) {
	c := DeleteWithoutAuth.Classify(200)
	assert.Equal(t, fmt.Sprintf("expected status in %v, got 200", []int{403}), c.Reason)
}

func TestNewToleratedDefectIsData(t *testing.T) {
	e := Expectation{Conforming: []int{400}, Tolerated: map[int]string{409: "known conflict bug"}}
	assert.Equal(t, ToleratedDefect, e.Classify(409).Outcome)
	assert.Equal(t, HardFailure, e.Classify(410).Outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "conforming", Conforming.String())
	assert.Equal(t, "tolerated defect", ToleratedDefect.String())
	assert.Equal(t, "hard failure", HardFailure.String())
}
