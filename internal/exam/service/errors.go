package service

import "refcert/internal/exam/eligibility"

// NotEligibleError travels inside the error chain so transports can surface
// the machine-readable denial reason.
type NotEligibleError struct {
	Reason eligibility.Reason
}

func (e *NotEligibleError) Error() string {
	return "referee is not eligible: " + e.Reason.String()
}
