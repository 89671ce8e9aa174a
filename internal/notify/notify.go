// Package notify delivers post-exam feedback to referees. Feedback jobs are
// enqueued after the finished attempt is persisted, so delivery failures never
// lose a result.
package notify

import (
	"context"
	"time"

	"refcert/internal/certification"
	id "refcert/pkg/domain"
)

// Job describes one feedback message for a finished attempt.
type Job struct {
	AttemptID  id.AttemptID                  `json:"attempt_id"`
	RefereeID  id.RefereeID                  `json:"referee_id"`
	ExamID     id.ExamID                     `json:"exam_id"`
	ExamTitle  string                        `json:"exam_title"`
	Email      string                        `json:"email,omitempty"`
	Score      int                           `json:"score"`
	Passed     bool                          `json:"passed"`
	Awarded    []certification.Certification `json:"awarded,omitempty"`
	FinishedAt time.Time                     `json:"finished_at"`
}

// Sender delivers one feedback job to its destination.
type Sender interface {
	Send(ctx context.Context, job Job) error
}
