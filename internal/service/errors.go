package service

import "errors"

var (
	ErrEmptyTopic        = errors.New("topic is required")
	ErrGenerationBusy    = errors.New("an adventure is already being generated")
	ErrGenerationFailed  = errors.New("adventure generation failed")
	ErrAdventureNotFound = errors.New("adventure not found")
	ErrDuplicateID       = errors.New("adventure already exists")

	// ErrImageUnavailable is logged and replaced by a placeholder, never returned
	ErrImageUnavailable = errors.New("illustration unavailable")

	ErrNarrationBusy        = errors.New("narration already in progress")
	ErrNarrationUnavailable = errors.New("narration unavailable")
)
