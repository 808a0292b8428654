package event

import (
	"context"
	"encoding/json"
	"log"
)

// LogPublisher writes events to the standard logger
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, eventType Type, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Event %s: %+v", eventType, payload)
		return nil
	}
	log.Printf("Event %s: %s", eventType, body)
	return nil
}
