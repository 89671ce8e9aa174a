// Package service orchestrates the exam lifecycle: catalog listing with
// eligibility, attempt start, and submission with scoring, certification
// awarding, and feedback dispatch.
package service

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"refcert/internal/exam/eligibility"
	"refcert/internal/exam/metrics"
)

// lateGrace absorbs network latency between the client-side deadline and the
// server-side clock before a submission is recorded as a timeout.
const lateGrace = 10 * time.Second

// activeRecordGrace keeps the active record alive slightly past the deadline
// so a submission at the buzzer still finds it.
const activeRecordGrace = time.Minute

// Clock abstracts time.Now for testability.
type Clock func() time.Time

// Service wires the exam stores, the eligibility checker, question choice,
// and feedback dispatch behind the transport layer.
type Service struct {
	exams     ExamStore
	attempts  AttemptStore
	active ActiveAttemptStore
	snapshots SnapshotProvider
	checker   *eligibility.Checker
	chooser   QuestionChooser
	feedback  FeedbackQueue

	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   Clock
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches module metrics. A nil Metrics is safe; all metric
// methods are nil-tolerant.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithFeedback attaches the feedback queue. Without one, feedback is skipped.
func WithFeedback(queue FeedbackQueue) Option {
	return func(s *Service) {
		s.feedback = queue
	}
}

// WithChecker overrides the eligibility checker, e.g. to change the policy
// chain in tests.
func WithChecker(checker *eligibility.Checker) Option {
	return func(s *Service) {
		if checker != nil {
			s.checker = checker
		}
	}
}

func New(
	exams ExamStore,
	attempts AttemptStore,
	active ActiveAttemptStore,
	snapshots SnapshotProvider,
	chooser QuestionChooser,
	opts ...Option,
) *Service {
	s := &Service{
		exams:     exams,
		attempts:  attempts,
		active:    active,
		snapshots: snapshots,
		chooser:   chooser,
		logger:    slog.Default(),
		clock:     time.Now,
		tracer:    otel.Tracer("refcert/internal/exam"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.checker == nil {
		s.checker = eligibility.NewChecker(snapshots,
			eligibility.WithLogger(s.logger),
			eligibility.WithClock(eligibility.Clock(s.clock)),
		)
	}
	return s
}
