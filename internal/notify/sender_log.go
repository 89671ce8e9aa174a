package notify

import (
	"context"
	"log/slog"

	"refcert/pkg/email"
)

// LogSender writes feedback to the log. It is the fallback when no broker is
// configured, and keeps local development free of Kafka.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, job Job) error {
	greeting := "referee"
	if job.Email != "" {
		first, _ := email.DeriveNameFromEmail(job.Email)
		greeting = first
	}
	s.logger.InfoContext(ctx, "exam feedback",
		"greeting", greeting,
		"attempt_id", job.AttemptID.String(),
		"exam", job.ExamTitle,
		"score", job.Score,
		"passed", job.Passed,
		"awarded", len(job.Awarded),
	)
	return nil
}
