// Package active stores in-progress attempt records: the chosen question
// subset, the shuffled answer order, and the start time of one attempt.
//
// Records are ephemeral by design. They exist from StartExam until the
// attempt is submitted or the TTL runs out; consuming a record is the
// compare-and-set guard that makes a second submission an explicit conflict
// instead of a silent double write.
package active

import (
	"time"

	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
)

// Record is the persisted state of one in-progress attempt.
type Record struct {
	AttemptID id.AttemptID      `json:"attempt_id"`
	ExamID    id.ExamID         `json:"exam_id"`
	RefereeID id.RefereeID      `json:"referee_id"`
	StartedAt time.Time         `json:"started_at"`
	Questions []models.Question `json:"questions"`
}
