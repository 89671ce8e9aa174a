package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	"refcert/internal/exam/scoring"
	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
)

func basic20() certification.Certification {
	return certification.Certification{Level: certification.LevelBasic, Version: 20}
}

func finishedAttempt(t *testing.T, refereeID id.RefereeID, examID id.ExamID, passed bool) models.Attempt {
	t.Helper()
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	finish := &models.AttemptFinish{
		FinishedAt:     started.Add(10 * time.Minute),
		Method:         models.FinishMethodSubmission,
		Score:          40,
		PassPercentage: 60,
	}
	if passed {
		finish.Score = 80
		finish.Passed = true
		finish.Awarded = []certification.Certification{basic20()}
	}
	return models.Attempt{
		ID:        id.NewAttemptID(),
		ExamID:    examID,
		RefereeID: refereeID,
		Level:     certification.LevelBasic,
		StartedAt: started,
		Finish:    finish,
	}
}

func TestStore_ExamCatalog(t *testing.T) {
	store := New()
	ctx := context.Background()

	active := models.Exam{ID: id.ExamID(uuid.New()), Title: "Basic v20", IsActive: true}
	inactive := models.Exam{ID: id.ExamID(uuid.New()), Title: "Retired", IsActive: false}
	store.SeedExam(active)
	store.SeedExam(inactive)

	got, err := store.GetExam(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basic v20", got.Title)

	_, err = store.GetExam(ctx, id.ExamID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	listed, err := store.ListActiveExams(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}

func TestStore_SaveFinishedAttempt_Idempotent(t *testing.T) {
	store := New()
	ctx := context.Background()
	refereeID := id.RefereeID(uuid.New())
	examID := id.ExamID(uuid.New())
	store.SeedReferee(refereeID, "en")

	attempt := finishedAttempt(t, refereeID, examID, false)
	trail := []scoring.GradedAnswer{{QuestionID: id.QuestionID(uuid.New())}}

	require.NoError(t, store.SaveFinishedAttempt(ctx, attempt, trail))
	assert.ErrorIs(t, store.SaveFinishedAttempt(ctx, attempt, trail), sentinel.ErrConflict)
	assert.Len(t, store.Trail(attempt.ID), 1)
}

func TestStore_SaveFinishedAttempt_RequiresFinish(t *testing.T) {
	store := New()
	attempt := models.Attempt{ID: id.NewAttemptID()}
	assert.ErrorIs(t, store.SaveFinishedAttempt(context.Background(), attempt, nil), sentinel.ErrInvalidState)
}

func TestStore_PassedAttemptAwardsCertifications(t *testing.T) {
	store := New()
	ctx := context.Background()
	refereeID := id.RefereeID(uuid.New())
	store.SeedReferee(refereeID, "en")

	attempt := finishedAttempt(t, refereeID, id.ExamID(uuid.New()), true)
	require.NoError(t, store.SaveFinishedAttempt(ctx, attempt, nil))

	snapshot, err := store.GetRefereeTestContext(ctx, refereeID)
	require.NoError(t, err)
	assert.True(t, snapshot.Holds(basic20()))
	require.Len(t, snapshot.Attempts, 1)
	assert.Equal(t, attempt.ID, snapshot.Attempts[0].ID)
}

func TestStore_GetRefereeTestContext_UnknownReferee(t *testing.T) {
	store := New()
	_, err := store.GetRefereeTestContext(context.Background(), id.RefereeID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := New()
	ctx := context.Background()
	refereeID := id.RefereeID(uuid.New())
	store.SeedReferee(refereeID, "en", basic20())

	snapshot, err := store.GetRefereeTestContext(ctx, refereeID)
	require.NoError(t, err)
	snapshot.Certifications[0].Version = 99

	fresh, err := store.GetRefereeTestContext(ctx, refereeID)
	require.NoError(t, err)
	assert.Equal(t, certification.RulebookVersion(20), fresh.Certifications[0].Version)
}
