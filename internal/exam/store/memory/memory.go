// Package memory provides the in-memory store used by tests and local
// development. It implements the exam service's storage ports with the same
// semantics as the Postgres store, including the idempotent finish write.
package memory

import (
	"context"
	"sync"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	"refcert/internal/exam/scoring"
	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
)

type refereeState struct {
	language       string
	certifications []certification.Certification
	paidVersions   []certification.RulebookVersion
}

// Store holds exams, finished attempts, and referee state behind one mutex.
type Store struct {
	mu       sync.RWMutex
	exams    map[id.ExamID]models.Exam
	referees map[id.RefereeID]*refereeState
	attempts map[id.AttemptID]models.Attempt
	trails   map[id.AttemptID][]scoring.GradedAnswer
}

func New() *Store {
	return &Store{
		exams:    make(map[id.ExamID]models.Exam),
		referees: make(map[id.RefereeID]*refereeState),
		attempts: make(map[id.AttemptID]models.Attempt),
		trails:   make(map[id.AttemptID][]scoring.GradedAnswer),
	}
}

// SeedExam registers an exam in the catalog.
func (s *Store) SeedExam(exam models.Exam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = exam
}

// SeedReferee registers a referee with a language and optional holdings.
func (s *Store) SeedReferee(refereeID id.RefereeID, language string, certs ...certification.Certification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referees[refereeID] = &refereeState{language: language, certifications: certs}
}

// ConfirmPayment records a confirmed Advanced-level payment.
func (s *Store) ConfirmPayment(refereeID id.RefereeID, version certification.RulebookVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.referees[refereeID]; ok {
		ref.paidVersions = append(ref.paidVersions, version)
	}
}

// GetExam returns the exam or sentinel.ErrNotFound.
func (s *Store) GetExam(_ context.Context, examID id.ExamID) (models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exam, ok := s.exams[examID]
	if !ok {
		return models.Exam{}, sentinel.ErrNotFound
	}
	return exam, nil
}

// ListActiveExams returns every active exam.
func (s *Store) ListActiveExams(_ context.Context) ([]models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Exam
	for _, exam := range s.exams {
		if exam.IsActive {
			out = append(out, exam)
		}
	}
	return out, nil
}

// SaveFinishedAttempt persists a finished attempt exactly once. A second
// write for the same attempt ID returns sentinel.ErrConflict. On a passed
// attempt the awarded certifications become part of the referee's holdings.
func (s *Store) SaveFinishedAttempt(_ context.Context, attempt models.Attempt, trail []scoring.GradedAnswer) error {
	if attempt.Finish == nil {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[attempt.ID]; exists {
		return sentinel.ErrConflict
	}
	s.attempts[attempt.ID] = attempt
	s.trails[attempt.ID] = trail

	if attempt.Finish.Passed {
		ref, ok := s.referees[attempt.RefereeID]
		if !ok {
			return sentinel.ErrNotFound
		}
		for _, cert := range attempt.Finish.Awarded {
			if !certification.Contains(ref.certifications, cert) {
				ref.certifications = append(ref.certifications, cert)
			}
		}
	}
	return nil
}

// GetRefereeTestContext assembles a fresh snapshot for the referee.
func (s *Store) GetRefereeTestContext(_ context.Context, refereeID id.RefereeID) (models.RefereeTestContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.referees[refereeID]
	if !ok {
		return models.RefereeTestContext{}, sentinel.ErrNotFound
	}

	snapshot := models.RefereeTestContext{
		RefereeID: refereeID,
		Language:  ref.language,
	}
	snapshot.Certifications = append(snapshot.Certifications, ref.certifications...)
	snapshot.PaidVersions = append(snapshot.PaidVersions, ref.paidVersions...)
	for _, attempt := range s.attempts {
		if attempt.RefereeID == refereeID {
			snapshot.Attempts = append(snapshot.Attempts, attempt)
		}
	}
	return snapshot, nil
}

// Trail returns the persisted answer trail of an attempt, for tests.
func (s *Store) Trail(attemptID id.AttemptID) []scoring.GradedAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trails[attemptID]
}
