package eligibility

import (
	"time"

	"refcert/internal/certification"
	dErrors "refcert/pkg/domain-errors"
)

// Cooldown windows between attempts at the same exam. Exams awarding the
// Advanced level get the longer window.
const (
	cooldownAdvanced = 3 * 24 * time.Hour
	cooldownDefault  = 24 * time.Hour
)

// RequiredCertificationPolicy enforces the prerequisite chain. For a regular
// exam the referee must hold the prerequisite of the lowest level the exam
// awards. For a recertification exam the referee must hold the certification
// being recertified, must not have previously topped out below it, and must
// not yet hold anything for the new rulebook version.
type RequiredCertificationPolicy struct{}

func (RequiredCertificationPolicy) Name() string { return "required_certification" }

func (RequiredCertificationPolicy) Evaluate(in Input) (Reason, error) {
	if in.Exam.IsRecertification() {
		return evaluateRecertification(in)
	}

	lowest, ok := in.Exam.LowestAwarded()
	if !ok {
		return ReasonUnknown, dErrors.New(dErrors.CodeInvariantViolation, "exam awards no certifications")
	}
	prereq := lowest.Prerequisite()
	if prereq == nil {
		return ReasonEligible, nil
	}
	if !in.Referee.Holds(*prereq) {
		return ReasonMissingRequiredCertification, nil
	}
	return ReasonEligible, nil
}

func evaluateRecertification(in Input) (Reason, error) {
	recertified := *in.Exam.Recertifies

	if !in.Referee.Holds(recertified) {
		return ReasonMissingRequiredCertification, nil
	}

	// The highest level earned for the old rulebook version must cover the
	// recertified level. Holding the exact certification already implies
	// this; the check stays as a guard against inconsistent snapshots.
	highest, ok := in.Referee.HighestForVersion(recertified.Version)
	if !ok || highest.Level.Rank() < recertified.Level.Rank() {
		return ReasonRecertificationForLowerThanPreviouslyHeld, nil
	}

	// Once the referee has started earning certifications for the new
	// rulebook version, the recertification shortcut is closed.
	newest, ok := in.Exam.HighestAwarded()
	if !ok {
		return ReasonUnknown, dErrors.New(dErrors.CodeInvariantViolation, "exam awards no certifications")
	}
	if in.Referee.HoldsAnyForVersion(newest.Version) {
		return ReasonRecertificationNotAllowedDueToInitialCertificationStarted, nil
	}

	return ReasonEligible, nil
}

// AlreadyCertifiedPolicy denies when the exam has nothing left to award the
// referee.
type AlreadyCertifiedPolicy struct{}

func (AlreadyCertifiedPolicy) Name() string { return "already_certified" }

func (AlreadyCertifiedPolicy) Evaluate(in Input) (Reason, error) {
	for _, cert := range in.Exam.AwardedCertifications {
		if !in.Referee.Holds(cert) {
			return ReasonEligible, nil
		}
	}
	return ReasonRefereeAlreadyCertified, nil
}

// MaxAttemptsPolicy caps the total number of attempts at an exam, any
// outcome included.
type MaxAttemptsPolicy struct{}

func (MaxAttemptsPolicy) Name() string { return "max_attempts" }

func (MaxAttemptsPolicy) Evaluate(in Input) (Reason, error) {
	attempts := in.Referee.AttemptsForExam(in.Exam.ID)
	if len(attempts) >= in.Exam.MaxAttempts {
		return ReasonTestAttemptedMaximumNumberOfTimes, nil
	}
	return ReasonEligible, nil
}

// CooldownPolicy enforces the waiting period after every prior attempt at
// the exam. Finished attempts anchor the window at their finish time;
// in-progress attempts at their assumed worst-case finish.
type CooldownPolicy struct{}

func (CooldownPolicy) Name() string { return "attempt_cooldown" }

func (CooldownPolicy) Evaluate(in Input) (Reason, error) {
	cooldown := cooldownDefault
	if in.Exam.AwardsLevel(certification.LevelAdvanced) {
		cooldown = cooldownAdvanced
	}
	for _, attempt := range in.Referee.AttemptsForExam(in.Exam.ID) {
		windowStart := attempt.CooldownStart(in.Exam.TimeLimit)
		if in.Now.Before(windowStart.Add(cooldown)) {
			return ReasonInCooldownPeriod, nil
		}
	}
	return ReasonEligible, nil
}

// PaymentPolicy requires a confirmed payment before an Advanced-level exam
// may be attempted for a rulebook version.
type PaymentPolicy struct{}

func (PaymentPolicy) Name() string { return "payment" }

func (PaymentPolicy) Evaluate(in Input) (Reason, error) {
	for _, cert := range in.Exam.AwardedCertifications {
		if cert.Level != certification.LevelAdvanced {
			continue
		}
		if !in.Referee.HasPaidFor(cert.Version) {
			return ReasonMissingCertificationPayment, nil
		}
	}
	return ReasonEligible, nil
}

// LanguagePolicy requires the exam language to exactly match the referee's
// configured language. The reason code set carries no language-specific
// code, so a mismatch reports ReasonUnknown.
type LanguagePolicy struct{}

func (LanguagePolicy) Name() string { return "language" }

func (LanguagePolicy) Evaluate(in Input) (Reason, error) {
	if in.Exam.Language != in.Referee.Language {
		return ReasonUnknown, nil
	}
	return ReasonEligible, nil
}
