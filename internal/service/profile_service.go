package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"storygeo/internal/event"
	"storygeo/internal/i18n"
	"storygeo/internal/metrics"
	"storygeo/internal/models"
	"storygeo/internal/storage"
)

// recentProgressLimit is how many quiz results the parent dashboard lists
const recentProgressLimit = 10

var ErrUnsupportedLanguage = errors.New("unsupported language")

// AvatarURL is the generated avatar for name
func AvatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}

// ProgressStore records quiz completions for the parent dashboard
type ProgressStore interface {
	Record(ctx context.Context, p *models.AdventureProgress) error
	ListByProfile(ctx context.Context, profileID string, limit int) ([]models.AdventureProgress, error)
	DeleteByProfile(ctx context.Context, profileID string) error
}

// ProgressMailer sends progress reports to a parent
type ProgressMailer interface {
	IsEnabled() bool
	SendProgressReport(ctx context.Context, toEmail string, r ProgressReport) error
}

// ProfileDeps are the collaborators of a ProfileService. Store is required.
type ProfileDeps struct {
	Store       storage.Store
	Progress    ProgressStore
	Events      event.Publisher
	Mailer      ProgressMailer
	ParentEmail string
	Metrics     *metrics.Metrics
}

// ProfileService keeps the signed-in profile in the profile store. Every
// mutation is written through immediately.
type ProfileService struct {
	store       storage.Store
	progress    ProgressStore
	events      event.Publisher
	mailer      ProgressMailer
	parentEmail string
	metrics     *metrics.Metrics
}

// NewProfileService creates a profile service
func NewProfileService(deps ProfileDeps) *ProfileService {
	s := &ProfileService{
		store:       deps.Store,
		progress:    deps.Progress,
		events:      deps.Events,
		mailer:      deps.Mailer,
		parentEmail: deps.ParentEmail,
		metrics:     deps.Metrics,
	}
	if s.events == nil {
		s.events = event.LogPublisher{}
	}
	return s
}

// Restore reads the stored profile. It returns nil when nobody is signed in
// or the stored blob cannot be decoded.
func (s *ProfileService) Restore(ctx context.Context) (*models.UserProfile, error) {
	data, err := s.store.Get(ctx, storage.ProfileKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Warning: ignoring unreadable stored profile: %v", err)
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		log.Printf("Warning: ignoring invalid stored profile: %v", err)
		return nil, nil
	}
	if !i18n.Supported(p.Language) {
		p.Language = i18n.DefaultCode
	}
	if p.CompletedAdventures == nil {
		p.CompletedAdventures = []string{}
	}
	return &p, nil
}

// Login creates a fresh profile and stores it. An unsupported language falls
// back to English.
func (s *ProfileService) Login(ctx context.Context, name string, role models.Role, language string) (*models.UserProfile, error) {
	if !i18n.Supported(language) {
		language = i18n.DefaultCode
	}
	name = strings.TrimSpace(name)
	p := &models.UserProfile{
		ID:                  uuid.NewString(),
		Name:                name,
		Role:                role,
		Avatar:              AvatarURL(name),
		CompletedAdventures: []string{},
		LastLogin:           time.Now().UTC(),
		Language:            strings.ToLower(language),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("Profile %s signed in as %s", p.ID, p.Role)
	return p, nil
}

// Save writes p to the store
func (s *ProfileService) Save(ctx context.Context, p *models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.store.Set(ctx, storage.ProfileKey, data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SetLanguage changes the profile's story and interface language
func (s *ProfileService) SetLanguage(ctx context.Context, p *models.UserProfile, code string) error {
	lang, ok := i18n.Lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	prev := p.Language
	p.Language = lang.Code
	if err := s.Save(ctx, p); err != nil {
		p.Language = prev
		return err
	}
	return nil
}

// RecordQuizResult merges a finished quiz into the profile and stores it.
// Progress rows, events and the parent email are best effort.
func (s *ProfileService) RecordQuizResult(ctx context.Context, p *models.UserProfile, adv *models.Adventure, score int) error {
	prevScore, prevCompleted := p.TotalScore, slices.Clone(p.CompletedAdventures)
	p.RecordCompletion(adv.ID, score)
	if err := s.Save(ctx, p); err != nil {
		p.TotalScore, p.CompletedAdventures = prevScore, prevCompleted
		return err
	}
	s.metrics.QuizCompleted(score)

	if s.progress != nil {
		row := &models.AdventureProgress{
			ProfileID:   p.ID,
			AdventureID: adv.ID,
			Score:       score,
			Completed:   true,
			Date:        time.Now().UTC(),
		}
		if err := s.progress.Record(ctx, row); err != nil {
			log.Printf("Warning: failed to record progress for %s: %v", adv.ID, err)
		}
	}

	payload := event.QuizCompleted{
		ProfileID:   p.ID,
		AdventureID: adv.ID,
		Score:       score,
		TotalScore:  p.TotalScore,
	}
	if err := s.events.Publish(ctx, event.TypeQuizCompleted, payload); err != nil {
		log.Printf("Warning: failed to publish %s: %v", event.TypeQuizCompleted, err)
	}

	if s.mailer != nil && s.mailer.IsEnabled() && s.parentEmail != "" {
		report := ProgressReport{
			ChildName:        p.Name,
			AdventureTitle:   adv.Title,
			Score:            score,
			TotalScore:       p.TotalScore,
			Rank:             p.Rank(),
			StoriesCompleted: len(p.CompletedAdventures),
			Language:         p.Language,
		}
		if err := s.mailer.SendProgressReport(ctx, s.parentEmail, report); err != nil {
			log.Printf("Warning: failed to send progress report: %v", err)
		}
	}
	return nil
}

// SignOut clears the stored profile
func (s *ProfileService) SignOut(ctx context.Context, p *models.UserProfile) error {
	if err := s.store.Remove(ctx, storage.ProfileKey); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	if p == nil {
		return nil
	}
	if s.progress != nil {
		if err := s.progress.DeleteByProfile(ctx, p.ID); err != nil {
			log.Printf("Warning: failed to delete progress for profile %s: %v", p.ID, err)
		}
	}
	if err := s.events.Publish(ctx, event.TypeProfileSignedOut, event.ProfileSignedOut{ProfileID: p.ID}); err != nil {
		log.Printf("Warning: failed to publish %s: %v", event.TypeProfileSignedOut, err)
	}
	return nil
}

// Progress summarises p for the parent dashboard
func (s *ProfileService) Progress(ctx context.Context, p *models.UserProfile) (*models.ProgressSummary, error) {
	summary := &models.ProgressSummary{
		StoriesCompleted: len(p.CompletedAdventures),
		TotalScore:       p.TotalScore,
		Rank:             p.Rank(),
		Recent:           []models.AdventureProgress{},
	}
	if s.progress == nil {
		return summary, nil
	}

	recent, err := s.progress.ListByProfile(ctx, p.ID, recentProgressLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if recent != nil {
		summary.Recent = recent
	}
	return summary, nil
}
