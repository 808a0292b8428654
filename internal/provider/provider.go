// Package provider defines the boundary to the generative content service
// that writes stories, paints illustrations and reads sections aloud.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoContent      = errors.New("provider returned no content")
	ErrMalformedStory = errors.New("malformed story response")
)

// Provider is the narrow contract the application needs from the generative
// service
type Provider interface {
	// GenerateStory writes a structured story about topic in the named language
	GenerateStory(ctx context.Context, topic, language string) (*StoryDraft, error)
	// GenerateImage paints an illustration for prompt
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
	// GenerateSpeech reads text aloud, returning raw 16-bit PCM at 24 kHz mono
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

// StoryDraft is the provider's structured story. Identifiers it may carry are
// not trusted.
type StoryDraft struct {
	Title    string          `json:"title"`
	Location string          `json:"location"`
	Era      string          `json:"era"`
	Summary  string          `json:"summary"`
	Sections []SectionDraft  `json:"sections"`
	Quiz     []QuestionDraft `json:"quiz"`
}

// SectionDraft is one narrative part of a StoryDraft
type SectionDraft struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// QuestionDraft is one quiz question of a StoryDraft
type QuestionDraft struct {
	ID            string   `json:"id,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Image is generated picture data
type Image struct {
	Data     []byte
	MIMEType string
}

// ParseStory decodes the JSON story document returned by the provider
func ParseStory(data []byte) (*StoryDraft, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoContent
	}

	var draft StoryDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStory, err)
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedStory)
	}
	return &draft, nil
}
