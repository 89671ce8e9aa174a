package service

import (
	"context"
	"errors"
	"time"

	"refcert/internal/exam/models"
	"refcert/internal/exam/store/active"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
	"refcert/pkg/platform/sentinel"
)

// StartedAttempt is what a referee receives when an attempt opens: the chosen
// questions and the submission deadline. Correct flags never leave the
// service; transports render answers without them.
type StartedAttempt struct {
	AttemptID id.AttemptID
	ExamID    id.ExamID
	StartedAt time.Time
	Deadline  time.Time
	Questions []models.Question

	// Resumed is true when an attempt was already open and is returned
	// again instead of a fresh one.
	Resumed bool
}

// StartExam opens an attempt: eligibility is checked against a fresh
// snapshot, a question subset is chosen, and the attempt is parked in the
// active store until submission or expiry. Starting while an attempt is open
// resumes it with the original questions and deadline.
func (s *Service) StartExam(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (StartedAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "exam.start")
	defer span.End()

	exam, err := s.loadActiveExam(ctx, examID)
	if err != nil {
		return StartedAttempt{}, err
	}

	if existing, err := s.active.Get(ctx, refereeID, examID); err == nil {
		s.logger.InfoContext(ctx, "resuming open attempt",
			"attempt_id", existing.AttemptID.String(),
			"referee_id", refereeID.String(),
			"exam_id", examID.String(),
		)
		return startedFromRecord(existing, exam, true), nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return StartedAttempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check open attempts")
	}

	evalStart := s.clock()
	result, err := s.checker.Check(ctx, exam, refereeID)
	s.metrics.ObserveEvaluateLatency(s.clock().Sub(evalStart))
	if err != nil {
		return StartedAttempt{}, err
	}
	s.metrics.IncrementEligibilityOutcome(result.Reason.String())
	if !result.Eligible {
		return StartedAttempt{}, dErrors.Wrap(
			&NotEligibleError{Reason: result.Reason},
			dErrors.CodeForbidden, "referee is not eligible for this exam",
		)
	}

	questions, err := s.chooser.ChooseQuestions(exam.Questions, exam.QuestionCount)
	if err != nil {
		return StartedAttempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to choose questions")
	}

	record := active.Record{
		AttemptID: id.NewAttemptID(),
		ExamID:    examID,
		RefereeID: refereeID,
		StartedAt: s.clock(),
		Questions: questions,
	}
	ttl := exam.TimeLimit + activeRecordGrace
	if err := s.active.Put(ctx, record, ttl); err != nil {
		return StartedAttempt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open attempt")
	}

	s.logger.InfoContext(ctx, "attempt started",
		"attempt_id", record.AttemptID.String(),
		"referee_id", refereeID.String(),
		"exam_id", examID.String(),
		"questions", len(questions),
	)
	return startedFromRecord(record, exam, false), nil
}

func startedFromRecord(record active.Record, exam models.Exam, resumed bool) StartedAttempt {
	return StartedAttempt{
		AttemptID: record.AttemptID,
		ExamID:    record.ExamID,
		StartedAt: record.StartedAt,
		Deadline:  record.StartedAt.Add(exam.TimeLimit),
		Questions: record.Questions,
		Resumed:   resumed,
	}
}
