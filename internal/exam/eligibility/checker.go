package eligibility

import (
	"context"
	"log/slog"
	"time"

	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
)

// Clock abstracts time.Now for testability.
type Clock func() time.Time

// SnapshotProvider loads the per-referee read snapshot. Implemented by the
// storage collaborator; the checker never mutates or caches the result.
type SnapshotProvider interface {
	GetRefereeTestContext(ctx context.Context, refereeID id.RefereeID) (models.RefereeTestContext, error)
}

// Result is the outcome of a full eligibility check.
type Result struct {
	Eligible bool
	Reason   Reason

	// DeniedBy names the policy that denied, for logs and metrics only.
	DeniedBy string
}

// Checker orchestrates the policy rules in a fixed, explicit order and
// short-circuits on the first deny.
type Checker struct {
	policies []Policy
	provider SnapshotProvider
	logger   *slog.Logger
	clock    Clock
}

type CheckerOption func(*Checker)

func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock Clock) CheckerOption {
	return func(c *Checker) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPolicies overrides the default policy chain. Order is significant: the
// first deny wins.
func WithPolicies(policies []Policy) CheckerOption {
	return func(c *Checker) {
		c.policies = policies
	}
}

// DefaultPolicies returns the canonical rule chain in evaluation order.
func DefaultPolicies() []Policy {
	return []Policy{
		RequiredCertificationPolicy{},
		AlreadyCertifiedPolicy{},
		MaxAttemptsPolicy{},
		CooldownPolicy{},
		PaymentPolicy{},
		LanguagePolicy{},
	}
}

// NewChecker constructs a Checker with the default policy chain.
func NewChecker(provider SnapshotProvider, opts ...CheckerOption) *Checker {
	c := &Checker{
		policies: DefaultPolicies(),
		provider: provider,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check loads the referee's snapshot once and evaluates every policy against
// it. The snapshot load is the only I/O involved.
func (c *Checker) Check(ctx context.Context, exam models.Exam, refereeID id.RefereeID) (Result, error) {
	referee, err := c.provider.GetRefereeTestContext(ctx, refereeID)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referee test context")
	}
	return c.Evaluate(ctx, Input{Exam: exam, Referee: referee, Now: c.clock()})
}

// Evaluate runs the policy chain over an already-loaded snapshot. A policy
// returning an error aborts the whole check loudly: the error is logged with
// the failing policy's identity and propagated, never downgraded to a deny.
func (c *Checker) Evaluate(ctx context.Context, in Input) (Result, error) {
	for _, policy := range c.policies {
		reason, err := policy.Evaluate(in)
		if err != nil {
			c.logger.ErrorContext(ctx, "eligibility policy failed",
				"policy", policy.Name(),
				"exam_id", in.Exam.ID,
				"referee_id", in.Referee.RefereeID,
				"error", err,
			)
			return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "eligibility policy "+policy.Name()+" failed")
		}
		if !reason.Eligible() {
			return Result{Eligible: false, Reason: reason, DeniedBy: policy.Name()}, nil
		}
	}
	return Result{Eligible: true, Reason: ReasonEligible}, nil
}
