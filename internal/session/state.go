package session

import (
	"slices"

	"storygeo/internal/models"
)

// State is a copy of the session for the presentation layer
type State struct {
	View         models.View         `json:"view"`
	Profile      *models.UserProfile `json:"profile,omitempty"`
	Adventure    *models.Adventure   `json:"adventure,omitempty"`
	SectionIndex int                 `json:"sectionIndex"`
	Quiz         *QuizState          `json:"quiz,omitempty"`
	LastResult   *QuizResult         `json:"lastResult,omitempty"`
	Generating   bool                `json:"generating"`
	Speaking     bool                `json:"speaking"`
	Error        string              `json:"error,omitempty"`
}

// QuizState is the question being answered. The correct answer is not
// included.
type QuizState struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Score    int      `json:"score"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Selected *int     `json:"selected,omitempty"`
	IsLast   bool     `json:"isLast"`
}

// QuizResult is the outcome of the last finished quiz
type QuizResult struct {
	AdventureID string `json:"adventureId"`
	Title       string `json:"title"`
	Score       int    `json:"score"`
}

// Snapshot returns the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		View:         s.view,
		SectionIndex: s.section,
		Generating:   s.generating,
		Speaking:     s.speaking,
		Error:        s.lastError,
	}
	if s.profile != nil {
		p := *s.profile
		p.CompletedAdventures = slices.Clone(s.profile.CompletedAdventures)
		st.Profile = &p
	}
	if s.current != nil {
		adv := *s.current
		st.Adventure = &adv
	}
	if s.lastResult != nil {
		r := *s.lastResult
		st.LastResult = &r
	}
	if s.quiz != nil && !s.quiz.Done() {
		q := s.quiz.Current()
		qs := &QuizState{
			Index:    s.quiz.Index(),
			Total:    s.quiz.Len(),
			Score:    s.quiz.Score(),
			Question: q.Question,
			Options:  slices.Clone(q.Options),
			IsLast:   s.quiz.IsLast(),
		}
		if sel, ok := s.quiz.Selected(); ok {
			qs.Selected = &sel
		}
		st.Quiz = qs
	}
	return st
}
