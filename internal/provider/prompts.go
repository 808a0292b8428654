package provider

import "fmt"

const (
	// StorySections is how many parts the story prompt asks for
	StorySections = 3
	// StoryQuestions is how many quiz questions the story prompt asks for
	StoryQuestions = 3
)

// StoryPrompt asks for a children's story about topic written in language
func StoryPrompt(topic, language string) string {
	return fmt.Sprintf(`Create an educational story for children (6-12) about %s.
CRITICAL: The entire response (title, summary, sections text, quiz questions, and options) MUST be written in the %s language.
The story should be divided into %d distinct parts.
Include %d quiz questions at the end based on the story.`, topic, language, StorySections, StoryQuestions)
}

// IllustrationPrompt wraps a scene description in the house illustration style
func IllustrationPrompt(scene string) string {
	return fmt.Sprintf("A vibrant, friendly, high-quality 3D digital art illustration for a children's history book: %s. "+
		"Bright colors, adventurous atmosphere. Wide 16:9 composition.", scene)
}

// NarrationPrompt asks the speech model to read text for a child
func NarrationPrompt(text string) string {
	return "Read this story part clearly for a child: " + text
}
