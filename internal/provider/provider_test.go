package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseStory(t *testing.T) {
	data := []byte(`{
		"title": "Longships",
		"location": "Scandinavia",
		"era": "Viking Age",
		"summary": "Sail with Astrid.",
		"sections": [{"id": "x", "text": "Part one"}, {"text": "Part two"}],
		"quiz": [{"question": "Who?", "options": ["A", "B"], "correctAnswer": 1}]
	}`)

	draft, err := ParseStory(data)
	if err != nil {
		t.Fatalf("ParseStory() error = %v", err)
	}
	if draft.Title != "Longships" || len(draft.Sections) != 2 || len(draft.Quiz) != 1 {
		t.Errorf("unexpected draft %+v", draft)
	}
	if draft.Quiz[0].CorrectAnswer != 1 {
		t.Errorf("CorrectAnswer = %d, want 1", draft.Quiz[0].CorrectAnswer)
	}
}

func TestParseStoryErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "  ", ErrNoContent},
		{"not json", "{oops", ErrMalformedStory},
		{"missing title", `{"sections": [{"text": "a"}]}`, ErrMalformedStory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStory([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	p := StoryPrompt("Vikings", "Malay")
	if !strings.Contains(p, "Vikings") || !strings.Contains(p, "Malay language") {
		t.Errorf("story prompt missing topic or language: %q", p)
	}
	if !strings.Contains(IllustrationPrompt("a longship"), "a longship") {
		t.Error("illustration prompt missing scene")
	}
	if !strings.HasSuffix(NarrationPrompt("Once upon a time"), "Once upon a time") {
		t.Error("narration prompt missing text")
	}
}

func TestOfflineRefusesEverything(t *testing.T) {
	var p Provider = Offline{}
	ctx := context.Background()
	if _, err := p.GenerateStory(ctx, "Vikings", "English"); !errors.Is(err, ErrOffline) {
		t.Errorf("GenerateStory() error = %v", err)
	}
	if _, err := p.GenerateImage(ctx, "a longship"); !errors.Is(err, ErrOffline) {
		t.Errorf("GenerateImage() error = %v", err)
	}
	if _, err := p.GenerateSpeech(ctx, "Once"); !errors.Is(err, ErrOffline) {
		t.Errorf("GenerateSpeech() error = %v", err)
	}
}
