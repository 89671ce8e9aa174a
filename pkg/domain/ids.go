package domain

import (
	"github.com/google/uuid"

	dErrors "refcert/pkg/domain-errors"
)

// Typed UUID identifiers. Distinct types keep referee, exam, and attempt IDs
// from being swapped at call sites; the compiler enforces the distinction.
type (
	RefereeID  uuid.UUID
	ExamID     uuid.UUID
	AttemptID  uuid.UUID
	QuestionID uuid.UUID
	AnswerID   uuid.UUID
)

func (id RefereeID) String() string  { return uuid.UUID(id).String() }
func (id ExamID) String() string     { return uuid.UUID(id).String() }
func (id AttemptID) String() string  { return uuid.UUID(id).String() }
func (id QuestionID) String() string { return uuid.UUID(id).String() }
func (id AnswerID) String() string   { return uuid.UUID(id).String() }

func (id RefereeID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ExamID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AttemptID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AnswerID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// NewAttemptID mints a fresh attempt identity.
func NewAttemptID() AttemptID { return AttemptID(uuid.New()) }

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Used at trust boundaries (HTTP params, store rows).
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}

func ParseRefereeID(s string) (RefereeID, error) {
	u, err := parseUUID(s, "referee")
	return RefereeID(u), err
}

func ParseExamID(s string) (ExamID, error) {
	u, err := parseUUID(s, "exam")
	return ExamID(u), err
}

func ParseAttemptID(s string) (AttemptID, error) {
	u, err := parseUUID(s, "attempt")
	return AttemptID(u), err
}

func ParseQuestionID(s string) (QuestionID, error) {
	u, err := parseUUID(s, "question")
	return QuestionID(u), err
}

func ParseAnswerID(s string) (AnswerID, error) {
	u, err := parseUUID(s, "answer")
	return AnswerID(u), err
}
