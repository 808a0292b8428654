// Package event publishes domain events about adventures and quiz results
package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies an event and doubles as its routing key
type Type string

const (
	TypeAdventureCreated Type = "adventure.created"
	TypeQuizCompleted    Type = "quiz.completed"
	TypeProfileSignedOut Type = "profile.signed_out"
)

// Publisher delivers events. Publishing failures never roll back the action
// that produced the event.
type Publisher interface {
	Publish(ctx context.Context, eventType Type, payload any) error
}

// Envelope is the wire form of every event
type Envelope struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEnvelope wraps payload with a fresh id and timestamp
func NewEnvelope(eventType Type, payload any) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AdventureCreated is published after a generated adventure is stored
type AdventureCreated struct {
	AdventureID string `json:"adventureId"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Language    string `json:"language"`
	Sections    int    `json:"sections"`
	Questions   int    `json:"questions"`
}

// QuizCompleted is published after a quiz result is recorded
type QuizCompleted struct {
	ProfileID   string `json:"profileId"`
	AdventureID string `json:"adventureId"`
	Score       int    `json:"score"`
	TotalScore  int    `json:"totalScore"`
}

// ProfileSignedOut is published when the stored profile is cleared
type ProfileSignedOut struct {
	ProfileID string `json:"profileId"`
}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(ctx context.Context, eventType Type, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NewEnvelope(eventType, payload))
	return nil
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}
