package notify

import (
	"context"
	"io"
	"log/slog"
)

const defaultBuffer = 256

// Outbox buffers feedback jobs in memory and hands them to a worker. Enqueue
// never blocks the request path; when the buffer is full the job is dropped
// and logged, matching the delivery guarantee of the feedback channel
// (best-effort, the attempt itself is already persisted).
type Outbox struct {
	inbox  chan Job
	logger *slog.Logger
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithBuffer sets the inbox capacity.
func WithBuffer(size int) OutboxOption {
	return func(o *Outbox) {
		if size > 0 {
			o.inbox = make(chan Job, size)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) OutboxOption {
	return func(o *Outbox) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOutbox constructs an outbox with a default buffer of 256 jobs.
func NewOutbox(opts ...OutboxOption) *Outbox {
	o := &Outbox{
		inbox:  make(chan Job, defaultBuffer),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Enqueue adds a job without blocking. A full buffer drops the job.
func (o *Outbox) Enqueue(ctx context.Context, job Job) {
	select {
	case o.inbox <- job:
	default:
		o.logger.WarnContext(ctx, "feedback outbox full, dropping job",
			"attempt_id", job.AttemptID.String(),
			"referee_id", job.RefereeID.String(),
		)
	}
}

// Inbox exposes the job channel for a Worker.
func (o *Outbox) Inbox() <-chan Job {
	return o.inbox
}

// Worker consumes feedback jobs from an outbox and sends them. A send failure
// is logged and the job dropped; feedback is best-effort.
type Worker struct {
	sender Sender
	inbox  <-chan Job
	logger *slog.Logger
}

func NewWorker(sender Sender, inbox <-chan Job, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Worker{sender: sender, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.inbox:
			if err := w.sender.Send(ctx, job); err != nil {
				w.logger.ErrorContext(ctx, "send feedback",
					"attempt_id", job.AttemptID.String(),
					"error", err,
				)
			}
		}
	}
}
