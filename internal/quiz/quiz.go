// Package quiz runs the end-of-adventure quiz: one question at a time, a
// selection must be made before advancing, and each correct answer is worth
// a fixed number of points.
package quiz

import (
	"errors"
	"fmt"

	"storygeo/internal/models"
)

// PointsPerCorrect is awarded for every correctly answered question
const PointsPerCorrect = 10

var (
	ErrEmptyQuiz     = errors.New("quiz has no questions")
	ErrInvalidOption = errors.New("invalid option")
	ErrNoSelection   = errors.New("no option selected")
	ErrQuizDone      = errors.New("quiz already finished")
)

// Quiz is the state machine InProgress(index, score, selected) -> Done(score)
type Quiz struct {
	questions []models.QuizQuestion
	index     int
	score     int
	selected  int
	hasSel    bool
	done      bool
	reported  bool
}

// New starts a quiz at the first question with no score and no selection
func New(questions []models.QuizQuestion) (*Quiz, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Quiz{questions: questions}, nil
}

// Select records the chosen option for the current question, replacing any
// earlier choice
func (q *Quiz) Select(option int) error {
	if q.done {
		return ErrQuizDone
	}
	current := q.questions[q.index]
	if option < 0 || option >= len(current.Options) {
		return fmt.Errorf("%w: %d for question with %d options", ErrInvalidOption, option, len(current.Options))
	}
	q.selected = option
	q.hasSel = true
	return nil
}

// Advance scores the current selection and moves to the next question. It
// reports true once the last question has been answered.
func (q *Quiz) Advance() (bool, error) {
	if q.done {
		return true, ErrQuizDone
	}
	if !q.hasSel {
		return false, ErrNoSelection
	}

	current := q.questions[q.index]
	if current.IsCorrect(q.selected) {
		q.score += PointsPerCorrect
	}

	if q.index == len(q.questions)-1 {
		q.done = true
		return true, nil
	}

	q.index++
	q.hasSel = false
	return false, nil
}

// Result returns the final score. It reports ok only once, on the first call
// after the quiz is done.
func (q *Quiz) Result() (score int, ok bool) {
	if !q.done || q.reported {
		return 0, false
	}
	q.reported = true
	return q.score, true
}

// Current returns the question being asked (the last one once done)
func (q *Quiz) Current() models.QuizQuestion {
	return q.questions[q.index]
}

// Selected returns the current selection, if any
func (q *Quiz) Selected() (int, bool) {
	return q.selected, q.hasSel
}

// Index is the zero-based position of the current question
func (q *Quiz) Index() int { return q.index }

// Len is the number of questions
func (q *Quiz) Len() int { return len(q.questions) }

// Score is the score accumulated so far
func (q *Quiz) Score() int { return q.score }


// Done reports whether the quiz reached its terminal state
func (q *Quiz) Done() bool { return q.done }

// IsLast reports whether the current question is the final one
func (q *Quiz) IsLast() bool { return q.index == len(q.questions)-1 }
