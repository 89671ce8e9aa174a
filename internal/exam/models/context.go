package models

import (
	"refcert/internal/certification"
	id "refcert/pkg/domain"
)

// RefereeTestContext is the per-referee read snapshot eligibility policies
// evaluate against. It is loaded fresh for every check or submission and
// never cached or mutated by this module; the storage collaborator owns it.
type RefereeTestContext struct {
	RefereeID id.RefereeID

	// Certifications the referee currently holds.
	Certifications []certification.Certification

	// Attempts is the referee's persisted attempt history.
	Attempts []Attempt

	// PaidVersions lists the rulebook versions for which an Advanced-level
	// payment has been confirmed.
	PaidVersions []certification.RulebookVersion

	// Language is the referee's configured language tag.
	Language string
}

// Holds reports whether the referee currently holds exactly cert.
func (c RefereeTestContext) Holds(cert certification.Certification) bool {
	return certification.Contains(c.Certifications, cert)
}

// HoldsAnyForVersion reports whether the referee holds any certification of
// the given rulebook version.
func (c RefereeTestContext) HoldsAnyForVersion(version certification.RulebookVersion) bool {
	for _, cert := range c.Certifications {
		if cert.Version == version {
			return true
		}
	}
	return false
}

// HighestForVersion returns the referee's highest certification for the
// given rulebook version, if any.
func (c RefereeTestContext) HighestForVersion(version certification.RulebookVersion) (certification.Certification, bool) {
	var highest certification.Certification
	found := false
	for _, cert := range c.Certifications {
		if cert.Version != version {
			continue
		}
		if !found || certification.Compare(cert, highest) > 0 {
			highest = cert
			found = true
		}
	}
	return highest, found
}

// AttemptsForExam returns the referee's attempts at the given exam, any
// outcome included.
func (c RefereeTestContext) AttemptsForExam(examID id.ExamID) []Attempt {
	var out []Attempt
	for _, a := range c.Attempts {
		if a.ExamID == examID {
			out = append(out, a)
		}
	}
	return out
}

// HasPaidFor reports whether an Advanced-level payment is confirmed for the
// rulebook version.
func (c RefereeTestContext) HasPaidFor(version certification.RulebookVersion) bool {
	for _, v := range c.PaidVersions {
		if v == version {
			return true
		}
	}
	return false
}
