// Package providertest offers a scriptable provider.Provider for tests
package providertest

import (
	"context"
	"sync"

	"storygeo/internal/provider"
)

// Fake records calls and returns canned results. Hooks take precedence over
// the static fields when set.
type Fake struct {
	mu sync.Mutex

	Story     *provider.StoryDraft
	StoryErr  error
	StoryHook func(ctx context.Context, topic, language string) (*provider.StoryDraft, error)

	Image     *provider.Image
	ImageErr  error
	ImageHook func(ctx context.Context, prompt string) (*provider.Image, error)

	Speech     []byte
	SpeechErr  error
	SpeechHook func(ctx context.Context, text string) ([]byte, error)

	StoryCalls   []StoryCall
	ImagePrompts []string
	SpeechTexts  []string
}

// StoryCall captures the arguments of one GenerateStory call
type StoryCall struct {
	Topic    string
	Language string
}

var _ provider.Provider = (*Fake)(nil)

func (f *Fake) GenerateStory(ctx context.Context, topic, language string) (*provider.StoryDraft, error) {
	f.mu.Lock()
	f.StoryCalls = append(f.StoryCalls, StoryCall{Topic: topic, Language: language})
	hook, story, err := f.StoryHook, f.Story, f.StoryErr
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, topic, language)
	}
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, provider.ErrNoContent
	}
	draft := *story
	return &draft, nil
}

func (f *Fake) GenerateImage(ctx context.Context, prompt string) (*provider.Image, error) {
	f.mu.Lock()
	f.ImagePrompts = append(f.ImagePrompts, prompt)
	hook, img, err := f.ImageHook, f.Image, f.ImageErr
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, provider.ErrNoContent
	}
	return img, nil
}

func (f *Fake) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	f.SpeechTexts = append(f.SpeechTexts, text)
	hook, speech, err := f.SpeechHook, f.Speech, f.SpeechErr
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, text)
	}
	if err != nil {
		return nil, err
	}
	return speech, nil
}

// Calls returns how many story, image and speech requests were made
func (f *Fake) Calls() (stories, images, speech int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.StoryCalls), len(f.ImagePrompts), len(f.SpeechTexts)
}

// Prompts returns a copy of the image prompts in call order
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ImagePrompts...)
}

// SampleStory is a well formed three part story with three questions
func SampleStory() *provider.StoryDraft {
	return &provider.StoryDraft{
		Title:    "Longships of the North",
		Location: "Scandinavia",
		Era:      "Viking Age",
		Summary:  "Sail with young Astrid across a stormy sea.",
		Sections: []provider.SectionDraft{
			{ID: "a", Text: "Astrid watched the longship being built."},
			{ID: "b", Text: "The crew rowed into the cold grey waves."},
			{ID: "c", Text: "At last they reached a new green land."},
		},
		Quiz: []provider.QuestionDraft{
			{Question: "What did Astrid watch being built?", Options: []string{"A longship", "A castle", "A bridge"}, CorrectAnswer: 0},
			{Question: "What were the waves like?", Options: []string{"Warm", "Cold and grey"}, CorrectAnswer: 1},
			{Question: "What did they find?", Options: []string{"Desert", "Ice", "A green land"}, CorrectAnswer: 2},
		},
	}
}
