// Package scoring turns a submitted answer set into a score. The pipeline is
// a pure computation over the attempt's chosen question subset; all I/O and
// state transitions live in the service layer.
package scoring

import (
	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
)

// SubmittedAnswer is one (question, answer) pair as sent by the caller.
// Submissions are untrusted: duplicates, unknown questions, and answers from
// other questions are all tolerated and filtered here.
type SubmittedAnswer struct {
	QuestionID id.QuestionID
	AnswerID   id.AnswerID
}

// GradedAnswer is one accepted submission after joining against the chosen
// subset. The trail is persisted alongside the finished attempt.
type GradedAnswer struct {
	QuestionID id.QuestionID
	AnswerID   id.AnswerID
	Correct    bool
	Points     int
}

// Outcome is the result of scoring one submission.
type Outcome struct {
	ScoredPoints int
	MaxPoints    int
	Score        int // floor(100 * scored / max)
	Passed       bool
	Trail        []GradedAnswer
}

// Score grades a submission against the attempt's chosen questions.
//
// The denominator stays stable when answers are missing: every unanswered
// question contributes one point to MaxPoints instead of its full value, so
// a skipped question is not penalized twice.
func Score(questions []models.Question, submitted []SubmittedAnswer, passPercentage int) Outcome {
	expected := len(questions)

	// Join submissions to the chosen questions, dropping anything that does
	// not reference a question of the subset or an answer of that question.
	// The first submission per question wins; later duplicates are ignored.
	answered := make(map[id.QuestionID]bool, expected)
	trail := make([]GradedAnswer, 0, expected)
	for _, sub := range submitted {
		if answered[sub.QuestionID] {
			continue
		}
		question := findQuestion(questions, sub.QuestionID)
		if question == nil {
			continue
		}
		answer := question.Answer(sub.AnswerID)
		if answer == nil {
			continue
		}
		answered[sub.QuestionID] = true
		trail = append(trail, GradedAnswer{
			QuestionID: sub.QuestionID,
			AnswerID:   sub.AnswerID,
			Correct:    answer.Correct,
			Points:     question.Points,
		})
		// Over-submission defense: never grade more than the expected count.
		if len(trail) == expected {
			break
		}
	}

	scored := 0
	maxPoints := 0
	for _, graded := range trail {
		maxPoints += graded.Points
		if graded.Correct {
			scored += graded.Points
		}
	}

	// One point per missing question keeps the denominator stable.
	if missing := expected - len(trail); missing > 0 {
		maxPoints += missing
	}

	// Should not occur given the steps above; defended against regardless.
	if scored > maxPoints {
		scored = maxPoints
	}

	score := 0
	if maxPoints > 0 {
		score = 100 * scored / maxPoints
	}

	return Outcome{
		ScoredPoints: scored,
		MaxPoints:    maxPoints,
		Score:        score,
		Passed:       score >= passPercentage,
		Trail:        trail,
	}
}

func findQuestion(questions []models.Question, qid id.QuestionID) *models.Question {
	for i := range questions {
		if questions[i].ID == qid {
			return &questions[i]
		}
	}
	return nil
}
