// Package eligibility decides whether a referee may attempt an exam. It
// composes independent policy rules over the immutable referee snapshot and
// reports a single reason for the first rule that denies.
package eligibility

// Reason is the outcome code of an eligibility check. The set is exhaustive;
// callers render messages from these codes, and submission-time re-checks
// reuse them so start and submit surface identical failures.
type Reason string

const (
	ReasonUnknown                                                   Reason = "unknown"
	ReasonEligible                                                  Reason = "eligible"
	ReasonMissingRequiredCertification                              Reason = "missing_required_certification"
	ReasonRecertificationForLowerThanPreviouslyHeld                 Reason = "recertification_for_lower_than_previously_held"
	ReasonRecertificationNotAllowedDueToInitialCertificationStarted Reason = "recertification_not_allowed_due_to_initial_certification_started"
	ReasonTestAttemptedMaximumNumberOfTimes                         Reason = "test_attempted_maximum_number_of_times"
	ReasonMissingCertificationPayment                               Reason = "missing_certification_payment"
	ReasonInCooldownPeriod                                          Reason = "in_cooldown_period"
	ReasonRefereeAlreadyCertified                                   Reason = "referee_already_certified"
)

func (r Reason) String() string { return string(r) }

// Eligible reports whether the reason represents a positive outcome.
func (r Reason) Eligible() bool { return r == ReasonEligible }
