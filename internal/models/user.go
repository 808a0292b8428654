package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidProfile = errors.New("invalid profile")

// Role distinguishes a child explorer from a parent
type Role string

const (
	RoleChild  Role = "child"
	RoleParent Role = "parent"
)

// PointsPerRank is the score needed to climb one explorer rank
const PointsPerRank = 100

// ParseRole converts user input into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleChild, "kid":
		return RoleChild, nil
	case RoleParent:
		return RoleParent, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, s)
	}
}

// UserProfile is the signed-in explorer. It is mirrored to the profile store
// on every mutation
type UserProfile struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Role                Role      `json:"type"`
	Avatar              string    `json:"avatar"`
	CompletedAdventures []string  `json:"completedAdventures"`
	TotalScore          int       `json:"totalScore"`
	LastLogin           time.Time `json:"lastLogin"`
	Language            string    `json:"language"`
}

// Validate checks the profile has a name and a known role
func (u *UserProfile) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if u.Role != RoleChild && u.Role != RoleParent {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, u.Role)
	}
	return nil
}

// RecordCompletion adds the adventure to the completed set and adds the quiz
// score to the running total. Repeating an adventure never duplicates its id
// but still earns points.
func (u *UserProfile) RecordCompletion(adventureID string, score int) {
	if !u.HasCompleted(adventureID) {
		u.CompletedAdventures = append(u.CompletedAdventures, adventureID)
	}
	if score > 0 {
		u.TotalScore += score
	}
}

// HasCompleted reports whether the adventure is in the completed set
func (u *UserProfile) HasCompleted(adventureID string) bool {
	return slices.Contains(u.CompletedAdventures, adventureID)
}

// Rank is the explorer rank shown on the parent dashboard
func (u *UserProfile) Rank() int {
	return 1 + u.TotalScore/PointsPerRank
}

// IsChild reports whether the profile belongs to a child
func (u *UserProfile) IsChild() bool {
	return u.Role == RoleChild
}
