package service

import (
	"context"
	"errors"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	"refcert/internal/exam/scoring"
	"refcert/internal/notify"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
	"refcert/pkg/platform/sentinel"
	"refcert/pkg/requestcontext"
)

// SubmissionResult is the outcome of a graded submission.
type SubmissionResult struct {
	Attempt models.Attempt
	Outcome scoring.Outcome
}

// SubmitExam grades and persists a submission. The open attempt record is
// consumed atomically first, so concurrent submissions for the same attempt
// resolve to exactly one winner. Eligibility is re-checked against a fresh
// snapshot before grading; the snapshot only contains persisted finished
// attempts, so the attempt being submitted never blocks itself.
func (s *Service) SubmitExam(ctx context.Context, refereeID id.RefereeID, examID id.ExamID, answers []scoring.SubmittedAnswer) (SubmissionResult, error) {
	ctx, span := s.tracer.Start(ctx, "exam.submit")
	defer span.End()
	submitStart := s.clock()
	defer func() { s.metrics.ObserveSubmitLatency(s.clock().Sub(submitStart)) }()

	exam, err := s.loadActiveExam(ctx, examID)
	if err != nil {
		return SubmissionResult{}, err
	}

	record, err := s.active.Consume(ctx, refereeID, examID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementSubmissionResult("rejected")
			return SubmissionResult{}, dErrors.Wrap(err, dErrors.CodeConflict, "no attempt in progress for this exam")
		}
		return SubmissionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume open attempt")
	}

	result, err := s.checker.Check(ctx, exam, refereeID)
	if err != nil {
		return SubmissionResult{}, err
	}
	if !result.Eligible {
		s.metrics.IncrementSubmissionResult("rejected")
		return SubmissionResult{}, dErrors.Wrap(
			&NotEligibleError{Reason: result.Reason},
			dErrors.CodeForbidden, "referee is no longer eligible for this exam",
		)
	}

	outcome := scoring.Score(record.Questions, answers, exam.PassPercentage)

	finishedAt := s.clock()
	method := models.FinishMethodSubmission
	if elapsed := finishedAt.Sub(record.StartedAt); elapsed > exam.TimeLimit+lateGrace {
		method = models.FinishMethodTimeout
		s.logger.WarnContext(ctx, "submission past deadline, recording as timeout",
			"attempt_id", record.AttemptID.String(),
			"elapsed", elapsed.String(),
			"time_limit", exam.TimeLimit.String(),
		)
	}

	finish := models.AttemptFinish{
		FinishedAt:         finishedAt,
		Method:             method,
		Score:              outcome.Score,
		PassPercentage:     exam.PassPercentage,
		Passed:             outcome.Passed,
		WasRecertification: exam.IsRecertification(),
	}
	if outcome.Passed {
		finish.Awarded = exam.AwardedCertifications
	}

	level := certLevel(exam)
	attempt, err := models.NewFinishedAttempt(models.Attempt{
		ID:        record.AttemptID,
		ExamID:    examID,
		RefereeID: refereeID,
		Level:     level,
		StartedAt: record.StartedAt,
	}, finish)
	if err != nil {
		return SubmissionResult{}, err
	}

	if err := s.attempts.SaveFinishedAttempt(ctx, attempt, outcome.Trail); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementSubmissionResult("rejected")
			return SubmissionResult{}, dErrors.Wrap(err, dErrors.CodeConflict, "attempt already submitted")
		}
		return SubmissionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist attempt")
	}

	// Feedback goes out only after the write committed; a lost job never
	// loses a result.
	if s.feedback != nil {
		s.feedback.Enqueue(ctx, notify.Job{
			AttemptID:  attempt.ID,
			RefereeID:  refereeID,
			ExamID:     examID,
			ExamTitle:  exam.Title,
			Email:      requestcontext.Email(ctx),
			Score:      outcome.Score,
			Passed:     outcome.Passed,
			Awarded:    finish.Awarded,
			FinishedAt: finishedAt,
		})
	}

	if outcome.Passed {
		s.metrics.IncrementSubmissionResult("passed")
	} else {
		s.metrics.IncrementSubmissionResult("failed")
	}
	s.logger.InfoContext(ctx, "attempt submitted",
		"attempt_id", attempt.ID.String(),
		"referee_id", refereeID.String(),
		"exam_id", examID.String(),
		"score", outcome.Score,
		"passed", outcome.Passed,
	)
	return SubmissionResult{Attempt: attempt, Outcome: outcome}, nil
}

// certLevel records the exam tier on the attempt: the highest awarded level.
func certLevel(exam models.Exam) certification.Level {
	if highest, ok := exam.HighestAwarded(); ok {
		return highest.Level
	}
	return ""
}
