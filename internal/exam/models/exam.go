// Package models holds the exam module's domain types: exams, questions,
// attempts, and the per-referee read snapshot evaluated by eligibility.
package models

import (
	"time"

	"refcert/internal/certification"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
)

// Answer is one selectable answer of a question.
type Answer struct {
	ID      id.AnswerID
	Text    string
	Correct bool
}

// Question belongs to an exam's pool. Points weight the question's
// contribution to the score.
type Question struct {
	ID      id.QuestionID
	Text    string
	Points  int
	Answers []Answer
}

// Answer returns the answer with the given ID, or nil when the question has
// no such answer.
func (q Question) Answer(answerID id.AnswerID) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return &q.Answers[i]
		}
	}
	return nil
}

// Exam is a timed, scored assessment that can award one or more
// certifications. Exams are immutable during an attempt; administration of
// the catalog happens outside this module.
type Exam struct {
	ID             id.ExamID
	Title          string
	Description    string
	Language       string
	TimeLimit      time.Duration
	PassPercentage int // 0-100
	MaxAttempts    int
	QuestionCount  int // number of questions chosen per attempt

	// AwardedCertifications is never empty. A recertification exam may award
	// a whole chain of certifications in one pass.
	AwardedCertifications []certification.Certification

	// Recertifies is non-nil only for recertification exams and names the
	// certification being re-validated under the newer rulebook version.
	Recertifies *certification.Certification

	Questions []Question // question pool
	IsActive  bool
}

// Validate enforces the exam invariants the core relies on. The catalog is
// seeded externally, so the invariants are re-checked at the trust boundary.
func (e Exam) Validate() error {
	if len(e.AwardedCertifications) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "exam must award at least one certification")
	}
	if e.PassPercentage < 0 || e.PassPercentage > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "pass percentage must be within 0-100")
	}
	if e.MaxAttempts <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "max attempts must be positive")
	}
	if e.QuestionCount <= 0 || e.QuestionCount > len(e.Questions) {
		return dErrors.New(dErrors.CodeInvariantViolation, "question count must be within the pool size")
	}
	if e.Recertifies != nil {
		// The awarded set must cover the chain up to the recertified level.
		if !e.AwardsLevel(e.Recertifies.Level) {
			return dErrors.New(dErrors.CodeInvariantViolation, "recertification exam must award the recertified level")
		}
	}
	return nil
}

// IsRecertification reports whether the exam re-validates an existing
// certification under a newer rulebook version.
func (e Exam) IsRecertification() bool { return e.Recertifies != nil }

// LowestAwarded returns the smallest certification the exam awards.
func (e Exam) LowestAwarded() (certification.Certification, bool) {
	return certification.Lowest(e.AwardedCertifications)
}

// HighestAwarded returns the largest certification the exam awards.
func (e Exam) HighestAwarded() (certification.Certification, bool) {
	return certification.Highest(e.AwardedCertifications)
}

// AwardsLevel reports whether any awarded certification carries the level.
func (e Exam) AwardsLevel(level certification.Level) bool {
	for _, c := range e.AwardedCertifications {
		if c.Level == level {
			return true
		}
	}
	return false
}

// Question returns the pool question with the given ID, or nil.
func (e Exam) Question(questionID id.QuestionID) *Question {
	for i := range e.Questions {
		if e.Questions[i].ID == questionID {
			return &e.Questions[i]
		}
	}
	return nil
}
