package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"refcert/internal/exam/eligibility"
	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
	"refcert/pkg/platform/sentinel"
)

// ExamSummary pairs a catalog exam with the calling referee's eligibility.
type ExamSummary struct {
	Exam        models.Exam
	Eligibility eligibility.Result
}

// ListAvailableExams returns every active exam annotated with the referee's
// eligibility. The catalog and the referee snapshot load in parallel; the
// snapshot is loaded once and shared across all evaluations.
func (s *Service) ListAvailableExams(ctx context.Context, refereeID id.RefereeID) ([]ExamSummary, error) {
	ctx, span := s.tracer.Start(ctx, "exam.list_available")
	defer span.End()

	var (
		exams   []models.Exam
		referee models.RefereeTestContext
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exams, err = s.exams.ListActiveExams(gctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list exams")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		referee, err = s.snapshots.GetRefereeTestContext(gctx, refereeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "referee not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referee test context")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.clock()
	summaries := make([]ExamSummary, 0, len(exams))
	for _, exam := range exams {
		result, err := s.checker.Evaluate(ctx, eligibility.Input{Exam: exam, Referee: referee, Now: now})
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ExamSummary{Exam: exam, Eligibility: result})
	}
	return summaries, nil
}

// GetExamDetails returns one exam with the referee's eligibility for it.
func (s *Service) GetExamDetails(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (ExamSummary, error) {
	ctx, span := s.tracer.Start(ctx, "exam.get_details")
	defer span.End()

	exam, err := s.loadActiveExam(ctx, examID)
	if err != nil {
		return ExamSummary{}, err
	}

	start := s.clock()
	result, err := s.checker.Check(ctx, exam, refereeID)
	s.metrics.ObserveEvaluateLatency(s.clock().Sub(start))
	if err != nil {
		return ExamSummary{}, err
	}
	return ExamSummary{Exam: exam, Eligibility: result}, nil
}

// loadActiveExam fetches an exam and hides inactive ones.
func (s *Service) loadActiveExam(ctx context.Context, examID id.ExamID) (models.Exam, error) {
	exam, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Exam{}, dErrors.Wrap(err, dErrors.CodeNotFound, "exam not found")
		}
		return models.Exam{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load exam")
	}
	if !exam.IsActive {
		return models.Exam{}, dErrors.New(dErrors.CodeNotFound, "exam not found")
	}
	return exam, nil
}
