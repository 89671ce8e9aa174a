//go:build integration

package active_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"refcert/internal/exam/models"
	"refcert/internal/exam/store/active"
	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
	"refcert/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *active.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = active.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func newTestRecord() active.Record {
	return active.Record{
		AttemptID: id.NewAttemptID(),
		ExamID:    id.ExamID(uuid.New()),
		RefereeID: id.RefereeID(uuid.New()),
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Questions: []models.Question{
			{
				ID:     id.QuestionID(uuid.New()),
				Text:   "Is a dropped disc live?",
				Points: 1,
				Answers: []models.Answer{
					{ID: id.AnswerID(uuid.New()), Text: "Yes", Correct: true},
					{ID: id.AnswerID(uuid.New()), Text: "No"},
				},
			},
		},
	}
}

func (s *RedisStoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	record := newTestRecord()

	s.Require().NoError(s.store.Put(ctx, record, time.Minute))

	got, err := s.store.Get(ctx, record.RefereeID, record.ExamID)
	s.Require().NoError(err)
	s.Equal(record.AttemptID, got.AttemptID)
	s.Equal(record.StartedAt, got.StartedAt)
	s.Require().Len(got.Questions, 1)
	s.Len(got.Questions[0].Answers, 2)
}

func (s *RedisStoreSuite) TestConsume_ExactlyOnce() {
	ctx := context.Background()
	record := newTestRecord()
	s.Require().NoError(s.store.Put(ctx, record, time.Minute))

	got, err := s.store.Consume(ctx, record.RefereeID, record.ExamID)
	s.Require().NoError(err)
	s.Equal(record.AttemptID, got.AttemptID)

	// The second consumer races and must lose.
	_, err = s.store.Consume(ctx, record.RefereeID, record.ExamID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestGet_Missing() {
	_, err := s.store.Get(context.Background(), id.RefereeID(uuid.New()), id.ExamID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestRecordExpires() {
	ctx := context.Background()
	record := newTestRecord()
	s.Require().NoError(s.store.Put(ctx, record, 50*time.Millisecond))

	s.Require().Eventually(func() bool {
		_, err := s.store.Get(ctx, record.RefereeID, record.ExamID)
		return err != nil
	}, 2*time.Second, 25*time.Millisecond)
}

func (s *RedisStoreSuite) TestRefereesAreIsolated() {
	ctx := context.Background()
	first := newTestRecord()
	second := newTestRecord()
	second.ExamID = first.ExamID
	s.Require().NoError(s.store.Put(ctx, first, time.Minute))
	s.Require().NoError(s.store.Put(ctx, second, time.Minute))

	_, err := s.store.Consume(ctx, first.RefereeID, first.ExamID)
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, second.RefereeID, second.ExamID)
	s.Require().NoError(err)
	s.Equal(second.AttemptID, got.AttemptID)
}
