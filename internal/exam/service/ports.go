package service

import (
	"context"
	"time"

	"refcert/internal/exam/models"
	"refcert/internal/exam/scoring"
	"refcert/internal/exam/store/active"
	"refcert/internal/notify"
	id "refcert/pkg/domain"
)

// ExamStore provides read access to the exam catalog.
type ExamStore interface {
	GetExam(ctx context.Context, examID id.ExamID) (models.Exam, error)
	ListActiveExams(ctx context.Context) ([]models.Exam, error)
}

// AttemptStore persists finished attempts together with their answer trail.
// The write must be idempotent per attempt ID.
type AttemptStore interface {
	SaveFinishedAttempt(ctx context.Context, attempt models.Attempt, trail []scoring.GradedAnswer) error
}

// ActiveAttemptStore holds in-progress attempts. Consume removes and returns
// the record atomically; concurrent submissions race on it and exactly one
// wins.
type ActiveAttemptStore interface {
	Put(ctx context.Context, record active.Record, ttl time.Duration) error
	Get(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (active.Record, error)
	Consume(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (active.Record, error)
}

// SnapshotProvider loads the referee snapshot consumed by eligibility.
type SnapshotProvider interface {
	GetRefereeTestContext(ctx context.Context, refereeID id.RefereeID) (models.RefereeTestContext, error)
}

// QuestionChooser selects and shuffles the question subset for one attempt.
type QuestionChooser interface {
	ChooseQuestions(pool []models.Question, count int) ([]models.Question, error)
}

// FeedbackQueue receives feedback jobs after the finished attempt is
// persisted. Enqueue must not block.
type FeedbackQueue interface {
	Enqueue(ctx context.Context, job notify.Job)
}
