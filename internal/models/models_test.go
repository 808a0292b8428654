package models

import (
	"errors"
	"testing"
)

func TestQuizQuestionValidate(t *testing.T) {
	tests := []struct {
		name     string
		question QuizQuestion
		wantErr  bool
	}{
		{
			name:     "valid question",
			question: QuizQuestion{ID: "q-0", Question: "Who?", Options: []string{"A", "B", "C"}, CorrectAnswer: 2},
			wantErr:  false,
		},
		{
			name:     "single option",
			question: QuizQuestion{ID: "q-0", Question: "Who?", Options: []string{"A"}, CorrectAnswer: 0},
			wantErr:  true,
		},
		{
			name:     "answer out of range",
			question: QuizQuestion{ID: "q-0", Question: "Who?", Options: []string{"A", "B"}, CorrectAnswer: 2},
			wantErr:  true,
		},
		{
			name:     "negative answer",
			question: QuizQuestion{ID: "q-0", Question: "Who?", Options: []string{"A", "B"}, CorrectAnswer: -1},
			wantErr:  true,
		},
		{
			name:     "blank question",
			question: QuizQuestion{ID: "q-0", Question: "  ", Options: []string{"A", "B"}, CorrectAnswer: 0},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAdventure) {
				t.Errorf("expected ErrInvalidAdventure, got %v", err)
			}
		})
	}
}

func TestAdventureValidate(t *testing.T) {
	valid := Adventure{
		ID:       "1",
		Title:    "The Great Pyramid Mystery",
		Sections: []StorySection{{ID: "s-0", Text: "Kheti stood before the pyramid."}},
		Quiz:     []QuizQuestion{{ID: "q-0", Question: "What?", Options: []string{"Water", "Oil"}, CorrectAnswer: 0}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid adventure, got %v", err)
	}

	noSections := valid
	noSections.Sections = nil
	if err := noSections.Validate(); !errors.Is(err, ErrInvalidAdventure) {
		t.Errorf("expected ErrInvalidAdventure for empty sections, got %v", err)
	}

	badQuiz := valid
	badQuiz.Quiz = []QuizQuestion{{ID: "q-0", Question: "What?", Options: []string{"Water"}, CorrectAnswer: 0}}
	if err := badQuiz.Validate(); !errors.Is(err, ErrInvalidAdventure) {
		t.Errorf("expected ErrInvalidAdventure for bad quiz, got %v", err)
	}
}

func TestAdventureSection(t *testing.T) {
	adv := Adventure{Sections: []StorySection{{ID: "s-0"}, {ID: "s-1"}}}

	if s, ok := adv.Section(1); !ok || s.ID != "s-1" {
		t.Errorf("Section(1) = %v, %v", s, ok)
	}
	if _, ok := adv.Section(2); ok {
		t.Error("Section(2) should be out of range")
	}
	if !adv.IsLastSection(1) || adv.IsLastSection(0) {
		t.Error("IsLastSection mismatch")
	}
}

func TestRecordCompletion(t *testing.T) {
	u := UserProfile{Name: "Ada", Role: RoleChild}

	u.RecordCompletion("adv-1", 30)
	u.RecordCompletion("adv-1", 20)
	u.RecordCompletion("adv-2", 0)

	if len(u.CompletedAdventures) != 2 {
		t.Fatalf("expected 2 completed adventures, got %v", u.CompletedAdventures)
	}
	if u.TotalScore != 50 {
		t.Errorf("TotalScore = %d, want 50", u.TotalScore)
	}
	if !u.HasCompleted("adv-2") {
		t.Error("expected adv-2 to be completed")
	}
}

func TestRecordCompletionIgnoresNegativeScore(t *testing.T) {
	u := UserProfile{TotalScore: 40}
	u.RecordCompletion("adv-1", -10)
	if u.TotalScore != 40 {
		t.Errorf("TotalScore = %d, want 40", u.TotalScore)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{350, 4},
	}
	for _, tt := range tests {
		u := UserProfile{TotalScore: tt.score}
		if got := u.Rank(); got != tt.want {
			t.Errorf("Rank() with score %d = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"child", RoleChild, false},
		{"Kid", RoleChild, false},
		{" parent ", RoleParent, false},
		{"admin", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRole(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView("globe"); err != nil || v != ViewGlobe {
		t.Errorf("ParseView(globe) = %q, %v", v, err)
	}
	if _, err := ParseView("settings"); err == nil {
		t.Error("expected error for unknown view")
	}
}
