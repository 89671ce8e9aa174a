package handler

import (
	"time"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	"refcert/internal/exam/service"
)

type certificationResponse struct {
	Level   string `json:"level"`
	Version int    `json:"version"`
}

func toCertifications(certs []certification.Certification) []certificationResponse {
	out := make([]certificationResponse, 0, len(certs))
	for _, cert := range certs {
		out = append(out, certificationResponse{Level: string(cert.Level), Version: int(cert.Version)})
	}
	return out
}

type examSummaryResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description,omitempty"`
	Language       string                  `json:"language"`
	TimeLimitSecs  int                     `json:"time_limit_seconds"`
	PassPercentage int                     `json:"pass_percentage"`
	MaxAttempts    int                     `json:"max_attempts"`
	QuestionCount  int                     `json:"question_count"`
	Awards         []certificationResponse `json:"awards"`
	Recertifies    *certificationResponse  `json:"recertifies,omitempty"`
	Eligible       bool                    `json:"eligible"`
	Reason         string                  `json:"reason"`
}

func toExamSummary(summary service.ExamSummary) examSummaryResponse {
	exam := summary.Exam
	resp := examSummaryResponse{
		ID:             exam.ID.String(),
		Title:          exam.Title,
		Description:    exam.Description,
		Language:       exam.Language,
		TimeLimitSecs:  int(exam.TimeLimit.Seconds()),
		PassPercentage: exam.PassPercentage,
		MaxAttempts:    exam.MaxAttempts,
		QuestionCount:  exam.QuestionCount,
		Awards:         toCertifications(exam.AwardedCertifications),
		Eligible:       summary.Eligibility.Eligible,
		Reason:         summary.Eligibility.Reason.String(),
	}
	if exam.Recertifies != nil {
		resp.Recertifies = &certificationResponse{
			Level:   string(exam.Recertifies.Level),
			Version: int(exam.Recertifies.Version),
		}
	}
	return resp
}

// answerResponse deliberately omits the Correct flag.
type answerResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionResponse struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Points  int              `json:"points"`
	Answers []answerResponse `json:"answers"`
}

func toQuestions(questions []models.Question) []questionResponse {
	out := make([]questionResponse, 0, len(questions))
	for _, question := range questions {
		answers := make([]answerResponse, 0, len(question.Answers))
		for _, answer := range question.Answers {
			answers = append(answers, answerResponse{ID: answer.ID.String(), Text: answer.Text})
		}
		out = append(out, questionResponse{
			ID:      question.ID.String(),
			Text:    question.Text,
			Points:  question.Points,
			Answers: answers,
		})
	}
	return out
}

type startExamResponse struct {
	AttemptID string             `json:"attempt_id"`
	ExamID    string             `json:"exam_id"`
	StartedAt time.Time          `json:"started_at"`
	Deadline  time.Time          `json:"deadline"`
	Resumed   bool               `json:"resumed,omitempty"`
	Questions []questionResponse `json:"questions"`
}

func toStartExamResponse(started service.StartedAttempt) startExamResponse {
	return startExamResponse{
		AttemptID: started.AttemptID.String(),
		ExamID:    started.ExamID.String(),
		StartedAt: started.StartedAt,
		Deadline:  started.Deadline,
		Resumed:   started.Resumed,
		Questions: toQuestions(started.Questions),
	}
}

type submitExamResponse struct {
	AttemptID      string                  `json:"attempt_id"`
	Score          int                     `json:"score"`
	PassPercentage int                     `json:"pass_percentage"`
	Passed         bool                    `json:"passed"`
	Awarded        []certificationResponse `json:"awarded,omitempty"`
	FinishedAt     time.Time               `json:"finished_at"`
}

func toSubmitExamResponse(result service.SubmissionResult) submitExamResponse {
	finish := result.Attempt.Finish
	resp := submitExamResponse{
		AttemptID:      result.Attempt.ID.String(),
		Score:          finish.Score,
		PassPercentage: finish.PassPercentage,
		Passed:         finish.Passed,
		FinishedAt:     finish.FinishedAt,
	}
	if len(finish.Awarded) > 0 {
		resp.Awarded = toCertifications(finish.Awarded)
	}
	return resp
}
