package active

import (
	"context"
	"sync"
	"time"

	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
)

// Clock abstracts time.Now for expiry checks in tests.
type Clock func() time.Time

type entry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore is the in-memory twin of RedisStore for tests and single-node
// development setups.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   Clock
}

type MemoryOption func(*MemoryStore)

func WithClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Put(_ context.Context, record Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(record.RefereeID, record.ExamID)] = entry{
		record:    record,
		expiresAt: s.clock().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, refereeID id.RefereeID, examID id.ExamID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(refereeID, examID, false)
}

func (s *MemoryStore) Consume(_ context.Context, refereeID id.RefereeID, examID id.ExamID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(refereeID, examID, true)
}

func (s *MemoryStore) lookup(refereeID id.RefereeID, examID id.ExamID, remove bool) (Record, error) {
	k := key(refereeID, examID)
	e, ok := s.entries[k]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	if s.clock().After(e.expiresAt) {
		delete(s.entries, k)
		return Record{}, sentinel.ErrNotFound
	}
	if remove {
		delete(s.entries, k)
	}
	return e.record, nil
}
