package eligibility

import (
	"time"

	"refcert/internal/exam/models"
)

// Input groups everything a policy may consider. Policies are pure functions
// over this value: no I/O, no side effects, no clock reads.
type Input struct {
	Exam    models.Exam
	Referee models.RefereeTestContext
	Now     time.Time
}

// Policy is one independent eligibility rule. Evaluate returns
// ReasonEligible when the rule permits the attempt, or the specific deny
// reason otherwise. An error means the rule could not be evaluated at all;
// the checker propagates it rather than treating it as a deny.
type Policy interface {
	Name() string
	Evaluate(in Input) (Reason, error)
}
