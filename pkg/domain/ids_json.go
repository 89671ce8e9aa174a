package domain

import "github.com/google/uuid"

// Text marshalling so typed IDs render as canonical UUID strings in JSON
// payloads and Redis records instead of raw byte arrays.

func (id RefereeID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ExamID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id AttemptID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id QuestionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AnswerID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *RefereeID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = RefereeID(u)
	return nil
}

func (id *ExamID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ExamID(u)
	return nil
}

func (id *AttemptID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = AttemptID(u)
	return nil
}

func (id *QuestionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = QuestionID(u)
	return nil
}

func (id *AnswerID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = AnswerID(u)
	return nil
}
