package provider

import (
	"context"
	"errors"
)

var ErrOffline = errors.New("content provider not configured")

// Offline refuses every request. Commands that only read stored content run
// with it when no API key is configured.
type Offline struct{}

func (Offline) GenerateStory(ctx context.Context, topic, language string) (*StoryDraft, error) {
	return nil, ErrOffline
}

func (Offline) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	return nil, ErrOffline
}

func (Offline) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	return nil, ErrOffline
}
