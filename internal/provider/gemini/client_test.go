package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestStorySchema(t *testing.T) {
	s := storySchema()
	if s.Type != genai.TypeObject {
		t.Fatalf("root type = %v, want object", s.Type)
	}
	for _, field := range []string{"title", "location", "era", "summary", "sections", "quiz"} {
		if _, ok := s.Properties[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}
	if len(s.Required) != 6 {
		t.Errorf("required = %v, want 6 fields", s.Required)
	}

	quiz := s.Properties["quiz"]
	if quiz.Type != genai.TypeArray || quiz.Items == nil {
		t.Fatal("quiz should be an array of objects")
	}
	if quiz.Items.Properties["correctAnswer"].Type != genai.TypeInteger {
		t.Error("correctAnswer should be an integer")
	}
}

func TestFirstInline(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "caption"},
				{InlineData: &genai.Blob{Data: []byte{1, 2}, MIMEType: "image/png"}},
			}}},
		},
	}
	blob := firstInline(resp)
	if blob == nil || blob.MIMEType != "image/png" {
		t.Fatalf("firstInline() = %+v", blob)
	}
	if firstInline(&genai.GenerateContentResponse{}) != nil {
		t.Error("expected nil for empty response")
	}
}
