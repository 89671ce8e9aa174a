// Package questionchoice selects the question subset presented by one
// attempt. The choice is ephemeral: it lives only in the attempt's active
// record, never in the exam itself.
package questionchoice

import (
	"math/rand"

	"refcert/internal/exam/models"
	dErrors "refcert/pkg/domain-errors"
)

// Policy picks a deterministic-size subset of an exam's question pool.
type Policy interface {
	ChooseQuestions(pool []models.Question, count int) ([]models.Question, error)
}

// Shuffler abstracts rand.Shuffle so tests can pin the permutation.
type Shuffler func(n int, swap func(i, j int))

// Random chooses questions pseudo-randomly without repetition and shuffles
// each chosen question's answers.
type Random struct {
	shuffle Shuffler
}

type Option func(*Random)

// WithShuffler replaces the randomness source. A seeded rand.Rand's Shuffle
// makes the choice reproducible in tests.
func WithShuffler(s Shuffler) Option {
	return func(r *Random) {
		if s != nil {
			r.shuffle = s
		}
	}
}

func NewRandom(opts ...Option) *Random {
	r := &Random{shuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChooseQuestions returns exactly count questions from the pool. Questions
// and their answers are copied; the pool is never mutated.
func (r *Random) ChooseQuestions(pool []models.Question, count int) ([]models.Question, error) {
	if count <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question count must be positive")
	}
	if count > len(pool) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "question count exceeds pool size")
	}

	indexes := make([]int, len(pool))
	for i := range indexes {
		indexes[i] = i
	}
	r.shuffle(len(indexes), func(i, j int) {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	})

	chosen := make([]models.Question, 0, count)
	for _, idx := range indexes[:count] {
		q := pool[idx]
		answers := make([]models.Answer, len(q.Answers))
		copy(answers, q.Answers)
		r.shuffle(len(answers), func(i, j int) {
			answers[i], answers[j] = answers[j], answers[i]
		})
		q.Answers = answers
		chosen = append(chosen, q)
	}
	return chosen, nil
}
