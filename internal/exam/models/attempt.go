package models

import (
	"time"

	"refcert/internal/certification"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
)

// AttemptState tracks the attempt lifecycle. Finished is terminal; retrying
// requires a new attempt gated again by eligibility.
type AttemptState string

const (
	AttemptInProgress AttemptState = "in_progress"
	AttemptFinished   AttemptState = "finished"
)

// FinishMethod records how an attempt reached the Finished state.
type FinishMethod string

const (
	FinishMethodSubmission FinishMethod = "submission"
	FinishMethodTimeout    FinishMethod = "timeout"
)

// AttemptFinish holds the fields that exist only once an attempt is
// finished. Finished attempts are immutable; they are the audit trail and
// the sole source for cooldown and attempt-count checks.
type AttemptFinish struct {
	FinishedAt     time.Time
	Method         FinishMethod
	Score          int // 0-100
	PassPercentage int
	Passed         bool

	// Awarded is non-empty only when Passed is true.
	Awarded []certification.Certification

	WasRecertification bool
}

// Attempt is one instance of a referee taking an exam. Finish is nil while
// the attempt is in progress.
type Attempt struct {
	ID        id.AttemptID
	ExamID    id.ExamID
	RefereeID id.RefereeID
	Level     certification.Level // highest level the exam awards, for record-keeping
	StartedAt time.Time

	Finish *AttemptFinish
}

// State derives the lifecycle state from the finish record.
func (a Attempt) State() AttemptState {
	if a.Finish != nil {
		return AttemptFinished
	}
	return AttemptInProgress
}

// CooldownStart returns the moment an attempt's cooldown window opens: the
// finish time for finished attempts, or the assumed worst-case finish
// (start + time limit) for in-progress ones.
func (a Attempt) CooldownStart(timeLimit time.Duration) time.Time {
	if a.Finish != nil {
		return a.Finish.FinishedAt
	}
	return a.StartedAt.Add(timeLimit)
}

// NewFinishedAttempt constructs an immutable finished attempt and enforces
// the awarding invariant: certifications only travel with a pass.
func NewFinishedAttempt(attempt Attempt, finish AttemptFinish) (Attempt, error) {
	if attempt.ID.IsNil() {
		return Attempt{}, dErrors.New(dErrors.CodeInvariantViolation, "attempt id is required")
	}
	if !finish.Passed && len(finish.Awarded) > 0 {
		return Attempt{}, dErrors.New(dErrors.CodeInvariantViolation, "failed attempt cannot award certifications")
	}
	if finish.FinishedAt.Before(attempt.StartedAt) {
		return Attempt{}, dErrors.New(dErrors.CodeInvariantViolation, "attempt cannot finish before it started")
	}
	attempt.Finish = &finish
	return attempt, nil
}
