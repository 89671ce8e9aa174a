package handler

import (
	"refcert/internal/exam/scoring"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
)

// submittedAnswer is one question/answer pair of a submission.
type submittedAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// SubmitExamRequest is the body of POST /exams/{examID}/submit.
type SubmitExamRequest struct {
	Answers []submittedAnswer `json:"answers"`
}

// Validate enforces shape only; answer IDs are cross-checked against the
// attempt's questions during scoring.
func (r *SubmitExamRequest) Validate() error {
	for _, answer := range r.Answers {
		if _, err := id.ParseQuestionID(answer.QuestionID); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "invalid question id")
		}
		if _, err := id.ParseAnswerID(answer.AnswerID); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "invalid answer id")
		}
	}
	return nil
}

func (r *SubmitExamRequest) toSubmitted() []scoring.SubmittedAnswer {
	answers := make([]scoring.SubmittedAnswer, 0, len(r.Answers))
	for _, answer := range r.Answers {
		questionID, err := id.ParseQuestionID(answer.QuestionID)
		if err != nil {
			continue
		}
		answerID, err := id.ParseAnswerID(answer.AnswerID)
		if err != nil {
			continue
		}
		answers = append(answers, scoring.SubmittedAnswer{QuestionID: questionID, AnswerID: answerID})
	}
	return answers
}
