package notify

import (
	"context"
	"io"
	"log/slog"

	"refcert/pkg/platform/circuit"
)

// FallbackSender delivers through the primary sender and degrades to the
// fallback once the primary has failed often enough to open the breaker.
// Successful primary sends close the breaker again.
type FallbackSender struct {
	primary  Sender
	fallback Sender
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackSender(primary, fallback Sender, logger *slog.Logger, opts ...circuit.Option) *FallbackSender {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FallbackSender{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("feedback", opts...),
		logger:   logger,
	}
}

func (s *FallbackSender) Send(ctx context.Context, job Job) error {
	err := s.primary.Send(ctx, job)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "feedback sender recovered, leaving fallback mode")
		}
		return nil
	}

	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "feedback sender degraded, switching to fallback",
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return s.fallback.Send(ctx, job)
}
