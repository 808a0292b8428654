package models

import "time"

// AdventureProgress records one finished quiz for the parent dashboard
type AdventureProgress struct {
	ID          int64     `json:"id"`
	ProfileID   string    `json:"profileId"`
	AdventureID string    `json:"adventureId"`
	Score       int       `json:"score"`
	Completed   bool      `json:"completed"`
	Date        time.Time `json:"date"`
}

// ProgressSummary aggregates a profile's progress rows
type ProgressSummary struct {
	StoriesCompleted int                 `json:"storiesCompleted"`
	TotalScore       int                 `json:"totalScore"`
	Rank             int                 `json:"rank"`
	Recent           []AdventureProgress `json:"recent"`
}
