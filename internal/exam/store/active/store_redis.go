package active

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
)

// RedisStore keeps active attempt records in Redis with a TTL. The TTL acts
// as the upper bound on how long an attempt can stay in progress.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func key(refereeID id.RefereeID, examID id.ExamID) string {
	return fmt.Sprintf("attempt:active:%s:%s", refereeID, examID)
}

// Put stores the record, replacing any previous active attempt of the same
// referee at the same exam.
func (s *RedisStore) Put(ctx context.Context, record Record, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal active attempt: %w", err)
	}
	if err := s.client.Set(ctx, key(record.RefereeID, record.ExamID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store active attempt: %w", err)
	}
	return nil
}

// Get returns the active attempt record, or sentinel.ErrNotFound when the
// referee has no in-progress attempt at the exam (or it expired).
func (s *RedisStore) Get(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (Record, error) {
	payload, err := s.client.Get(ctx, key(refereeID, examID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("load active attempt: %w", err)
	}
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("decode active attempt: %w", err)
	}
	return record, nil
}

// Consume atomically removes and returns the record (GETDEL). Exactly one
// caller wins; everyone else sees sentinel.ErrNotFound. This is the
// submission race guard.
func (s *RedisStore) Consume(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (Record, error) {
	payload, err := s.client.GetDel(ctx, key(refereeID, examID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("consume active attempt: %w", err)
	}
	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("decode active attempt: %w", err)
	}
	return record, nil
}
