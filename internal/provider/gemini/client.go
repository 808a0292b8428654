// Package gemini implements provider.Provider on the Gemini API
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"storygeo/internal/provider"
)

const (
	DefaultStoryModel  = "gemini-2.5-flash"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

var ErrMissingAPIKey = errors.New("gemini API key is not configured")

// Config selects the models used for each kind of content
type Config struct {
	APIKey      string
	StoryModel  string
	ImageModel  string
	SpeechModel string
	Voice       string
}

// Client talks to the Gemini API
type Client struct {
	models *genai.Models
	cfg    Config
}

var _ provider.Provider = (*Client)(nil)

// New creates a Gemini client. Empty model names fall back to the defaults.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.StoryModel == "" {
		cfg.StoryModel = DefaultStoryModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{models: client.Models, cfg: cfg}, nil
}

// GenerateStory requests a JSON story constrained by storySchema
func (c *Client) GenerateStory(ctx context.Context, topic, language string) (*provider.StoryDraft, error) {
	resp, err := c.models.GenerateContent(ctx, c.cfg.StoryModel,
		genai.Text(provider.StoryPrompt(topic, language)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   storySchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("story request failed: %w", err)
	}
	return provider.ParseStory([]byte(resp.Text()))
}

// GenerateImage returns the first inline image in the response
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*provider.Image, error) {
	resp, err := c.models.GenerateContent(ctx, c.cfg.ImageModel,
		genai.Text(provider.IllustrationPrompt(prompt)), nil)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}

	blob := firstInline(resp)
	if blob == nil {
		return nil, provider.ErrNoContent
	}
	mimeType := blob.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &provider.Image{Data: blob.Data, MIMEType: mimeType}, nil
}

// GenerateSpeech returns raw PCM audio for text
func (c *Client) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.models.GenerateContent(ctx, c.cfg.SpeechModel,
		genai.Text(provider.NarrationPrompt(text)),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}

	blob := firstInline(resp)
	if blob == nil {
		return nil, provider.ErrNoContent
	}
	return blob.Data, nil
}

func firstInline(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}

func storySchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	section := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":   str(),
			"text": str(),
		},
		Required: []string{"id", "text"},
	}
	question := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":            str(),
			"question":      str(),
			"options":       {Type: genai.TypeArray, Items: str()},
			"correctAnswer": {Type: genai.TypeInteger},
		},
		Required: []string{"id", "question", "options", "correctAnswer"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    str(),
			"location": str(),
			"era":      str(),
			"summary":  str(),
			"sections": {Type: genai.TypeArray, Items: section},
			"quiz":     {Type: genai.TypeArray, Items: question},
		},
		Required: []string{"title", "location", "era", "summary", "sections", "quiz"},
	}
}
