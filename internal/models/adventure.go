package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidAdventure = errors.New("invalid adventure")

// Adventure is a complete educational story unit: narrative sections read in
// order, followed by a quiz
type Adventure struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Location   string         `json:"location"`
	Era        string         `json:"era"`
	Summary    string         `json:"summary"`
	Sections   []StorySection `json:"sections"`
	Quiz       []QuizQuestion `json:"quiz"`
	CoverImage string         `json:"coverImage,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// StorySection is one page of narrative text plus its illustration
type StorySection struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// QuizQuestion is a multiple choice question asked at the end of an adventure
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Validate checks the question has at least two options and a correct answer
// that indexes into them
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question %q has no text", ErrInvalidAdventure, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q needs at least 2 options, has %d", ErrInvalidAdventure, q.ID, len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("%w: question %q correct answer %d out of range", ErrInvalidAdventure, q.ID, q.CorrectAnswer)
	}
	return nil
}

// IsCorrect reports whether option is the correct answer
func (q *QuizQuestion) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// Validate checks the adventure invariants
func (a *Adventure) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAdventure)
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidAdventure)
	}
	if len(a.Sections) == 0 {
		return fmt.Errorf("%w: adventure %q has no sections", ErrInvalidAdventure, a.ID)
	}
	for i := range a.Quiz {
		if err := a.Quiz[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Section returns the section at idx
func (a *Adventure) Section(idx int) (StorySection, bool) {
	if idx < 0 || idx >= len(a.Sections) {
		return StorySection{}, false
	}
	return a.Sections[idx], true
}

// IsLastSection reports whether idx is the final section
func (a *Adventure) IsLastSection(idx int) bool {
	return idx == len(a.Sections)-1
}
