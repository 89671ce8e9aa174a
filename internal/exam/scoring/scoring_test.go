package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
)

// question builds a fixture question with one correct answer (index 0) and
// two wrong ones.
func question(points int) models.Question {
	return models.Question{
		ID:     id.QuestionID(uuid.New()),
		Points: points,
		Answers: []models.Answer{
			{ID: id.AnswerID(uuid.New()), Correct: true},
			{ID: id.AnswerID(uuid.New())},
			{ID: id.AnswerID(uuid.New())},
		},
	}
}

func correct(q models.Question) SubmittedAnswer {
	return SubmittedAnswer{QuestionID: q.ID, AnswerID: q.Answers[0].ID}
}

func wrong(q models.Question) SubmittedAnswer {
	return SubmittedAnswer{QuestionID: q.ID, AnswerID: q.Answers[1].ID}
}

func TestScore_AllCorrect(t *testing.T) {
	questions := []models.Question{question(2), question(3)}
	outcome := Score(questions, []SubmittedAnswer{correct(questions[0]), correct(questions[1])}, 80)

	assert.Equal(t, 5, outcome.ScoredPoints)
	assert.Equal(t, 5, outcome.MaxPoints)
	assert.Equal(t, 100, outcome.Score)
	assert.True(t, outcome.Passed)
	assert.Len(t, outcome.Trail, 2)
}

func TestScore_FloorPercentage(t *testing.T) {
	// 20 of 25 points: floor(100*20/25) = 80.
	questions := []models.Question{question(20), question(5)}
	outcome := Score(questions, []SubmittedAnswer{correct(questions[0]), wrong(questions[1])}, 80)

	assert.Equal(t, 20, outcome.ScoredPoints)
	assert.Equal(t, 25, outcome.MaxPoints)
	assert.Equal(t, 80, outcome.Score)
	assert.True(t, outcome.Passed)

	outcome = Score(questions, []SubmittedAnswer{correct(questions[0]), wrong(questions[1])}, 81)
	assert.False(t, outcome.Passed)
}

func TestScore_Deterministic(t *testing.T) {
	questions := []models.Question{question(1), question(4), question(2)}
	submitted := []SubmittedAnswer{correct(questions[0]), wrong(questions[1]), correct(questions[2])}

	first := Score(questions, submitted, 50)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(questions, submitted, 50))
	}
}

func TestScore_MissingAnswerKeepsDenominatorStable(t *testing.T) {
	// N-1 of N answered: maxPoints = answered points + 1 per missing.
	questions := []models.Question{question(3), question(3), question(3)}
	outcome := Score(questions, []SubmittedAnswer{correct(questions[0]), correct(questions[1])}, 50)

	assert.Equal(t, 6, outcome.ScoredPoints)
	assert.Equal(t, 7, outcome.MaxPoints) // 3 + 3 answered, + 1 missing
	assert.Equal(t, 85, outcome.Score)    // floor(600/7)
}

func TestScore_EmptySubmission(t *testing.T) {
	questions := []models.Question{question(5), question(5)}
	outcome := Score(questions, nil, 50)

	assert.Equal(t, 0, outcome.ScoredPoints)
	assert.Equal(t, 2, outcome.MaxPoints) // one point per missing question
	assert.Equal(t, 0, outcome.Score)
	assert.False(t, outcome.Passed)
	assert.Empty(t, outcome.Trail)
}

func TestScore_DuplicateAnswersKeepFirst(t *testing.T) {
	questions := []models.Question{question(4)}
	outcome := Score(questions, []SubmittedAnswer{wrong(questions[0]), correct(questions[0])}, 50)

	// The first submission (wrong) wins; the duplicate is discarded.
	assert.Equal(t, 0, outcome.ScoredPoints)
	assert.Equal(t, 4, outcome.MaxPoints)
	require.Len(t, outcome.Trail, 1)
	assert.False(t, outcome.Trail[0].Correct)
}

func TestScore_OverSubmissionTruncatesToExpectedCount(t *testing.T) {
	// N+1 submissions across distinct questions: only the subset questions
	// count, and never more than N accepted answers.
	questions := []models.Question{question(1), question(1)}
	outside := question(1)
	submitted := []SubmittedAnswer{
		correct(questions[0]),
		correct(outside), // not part of the chosen subset
		correct(questions[1]),
	}

	outcome := Score(questions, submitted, 50)
	assert.Equal(t, 2, outcome.ScoredPoints)
	assert.Equal(t, 2, outcome.MaxPoints)
	assert.Len(t, outcome.Trail, 2)
}

func TestScore_AnswerFromAnotherQuestionDiscarded(t *testing.T) {
	questions := []models.Question{question(2), question(2)}
	// Valid question id, but the answer belongs to the other question.
	crossed := SubmittedAnswer{QuestionID: questions[0].ID, AnswerID: questions[1].Answers[0].ID}

	outcome := Score(questions, []SubmittedAnswer{crossed, correct(questions[1])}, 50)
	assert.Equal(t, 2, outcome.ScoredPoints)
	// Question 0 counts as unanswered: 2 answered points + 1 missing point.
	assert.Equal(t, 3, outcome.MaxPoints)
	require.Len(t, outcome.Trail, 1)
	assert.Equal(t, questions[1].ID, outcome.Trail[0].QuestionID)
}

func TestScore_UnknownQuestionDiscarded(t *testing.T) {
	questions := []models.Question{question(2)}
	unknown := SubmittedAnswer{QuestionID: id.QuestionID(uuid.New()), AnswerID: id.AnswerID(uuid.New())}

	outcome := Score(questions, []SubmittedAnswer{unknown, correct(questions[0])}, 50)
	assert.Equal(t, 2, outcome.ScoredPoints)
	assert.Equal(t, 2, outcome.MaxPoints)
	assert.Equal(t, 100, outcome.Score)
}
