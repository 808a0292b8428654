package service

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"storygeo/internal/event"
	"storygeo/internal/imagestore"
	"storygeo/internal/metrics"
	"storygeo/internal/models"
	"storygeo/internal/provider"
)

// sectionPromptRunes caps how much of a section's text describes its illustration
const sectionPromptRunes = 100

// PlaceholderImage returns the stand-in illustration for seed
func PlaceholderImage(seed string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(seed) + "/800/450"
}

func randomSeed() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// AdventureStore persists generated adventures
type AdventureStore interface {
	Save(ctx context.Context, adv *models.Adventure) error
	List(ctx context.Context) ([]models.Adventure, error)
}

// AdventureDeps are the collaborators of an AdventureService. Provider and
// Images are required; the rest may be nil.
type AdventureDeps struct {
	Provider provider.Provider
	Images   imagestore.Store
	Store    AdventureStore
	Events   event.Publisher
	Metrics  *metrics.Metrics
	// Seed returns placeholder image seeds. Defaults to a random seed.
	Seed func() string
}

// AdventureService owns the adventure collection and generates new
// adventures through the provider
type AdventureService struct {
	provider provider.Provider
	images   imagestore.Store
	store    AdventureStore
	events   event.Publisher
	metrics  *metrics.Metrics
	seed     func() string

	generating atomic.Bool

	mu         sync.RWMutex
	adventures []models.Adventure
}

// NewAdventureService creates an adventure service with an empty collection
func NewAdventureService(deps AdventureDeps) *AdventureService {
	s := &AdventureService{
		provider: deps.Provider,
		images:   deps.Images,
		store:    deps.Store,
		events:   deps.Events,
		metrics:  deps.Metrics,
		seed:     deps.Seed,
	}
	if s.images == nil {
		s.images = imagestore.Inline{}
	}
	if s.events == nil {
		s.events = event.LogPublisher{}
	}
	if s.seed == nil {
		s.seed = randomSeed
	}
	return s
}

// Generating reports whether a generation is in flight
func (s *AdventureService) Generating() bool {
	return s.generating.Load()
}

// GenerateAdventure writes a story about topic in the named language,
// illustrates it and prepends it to the collection. Images are requested one
// at a time, cover first; a failed image becomes a placeholder.
func (s *AdventureService) GenerateAdventure(ctx context.Context, topic, languageName string) (*models.Adventure, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if !s.generating.CompareAndSwap(false, true) {
		return nil, ErrGenerationBusy
	}
	defer s.generating.Store(false)

	start := time.Now()
	adv, err := s.generate(ctx, topic, languageName)
	if err != nil {
		s.metrics.ObserveGeneration(metrics.ResultFailure, time.Since(start))
		log.Printf("Failed to generate adventure about %q: %v", topic, err)
		return nil, err
	}
	s.metrics.ObserveGeneration(metrics.ResultSuccess, time.Since(start))

	s.mu.Lock()
	s.adventures = append([]models.Adventure{*adv}, s.adventures...)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(ctx, adv); err != nil {
			log.Printf("Warning: failed to persist adventure %s: %v", adv.ID, err)
		}
	}

	payload := event.AdventureCreated{
		AdventureID: adv.ID,
		Title:       adv.Title,
		Topic:       topic,
		Language:    languageName,
		Sections:    len(adv.Sections),
		Questions:   len(adv.Quiz),
	}
	if err := s.events.Publish(ctx, event.TypeAdventureCreated, payload); err != nil {
		log.Printf("Warning: failed to publish %s: %v", event.TypeAdventureCreated, err)
	}

	log.Printf("Generated adventure %s %q in %s", adv.ID, adv.Title, time.Since(start).Round(time.Millisecond))
	return adv, nil
}

func (s *AdventureService) generate(ctx context.Context, topic, languageName string) (*models.Adventure, error) {
	draft, err := s.provider.GenerateStory(ctx, topic, languageName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	adv := adventureFromDraft(draft)
	if len(adv.Sections) == 0 {
		return nil, fmt.Errorf("%w: story has no sections", ErrGenerationFailed)
	}

	adv.CoverImage = s.illustrate(ctx, adv.ID, "cover", adv.Title+" "+adv.Location)
	for i := range adv.Sections {
		sec := &adv.Sections[i]
		sec.ImageURL = s.illustrate(ctx, adv.ID, sec.ID, truncateRunes(sec.Text, sectionPromptRunes))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if err := adv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return adv, nil
}

// adventureFromDraft assigns local identifiers and drops quiz questions that
// cannot be answered
func adventureFromDraft(d *provider.StoryDraft) *models.Adventure {
	adv := &models.Adventure{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(d.Title),
		Location:  d.Location,
		Era:       d.Era,
		Summary:   d.Summary,
		CreatedAt: time.Now().UTC(),
	}

	for i, sec := range d.Sections {
		adv.Sections = append(adv.Sections, models.StorySection{
			ID:   "s-" + strconv.Itoa(i),
			Text: sec.Text,
		})
	}

	for _, q := range d.Quiz {
		question := models.QuizQuestion{
			ID:            "q-" + strconv.Itoa(len(adv.Quiz)),
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
		if err := question.Validate(); err != nil {
			log.Printf("Warning: dropping quiz question %q: %v", q.Question, err)
			continue
		}
		adv.Quiz = append(adv.Quiz, question)
	}

	return adv
}

// illustrate returns an image reference for prompt, or a placeholder when the
// provider or the image store fails
func (s *AdventureService) illustrate(ctx context.Context, adventureID, name, prompt string) string {
	ref, err := s.tryIllustrate(ctx, adventureID, name, prompt)
	if err != nil {
		log.Printf("Warning: %v", err)
		s.metrics.ImageFallback()
		return PlaceholderImage(s.seed())
	}
	return ref
}

func (s *AdventureService) tryIllustrate(ctx context.Context, adventureID, name, prompt string) (string, error) {
	img, err := s.provider.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageUnavailable, name, err)
	}
	ref, err := s.images.Save(ctx, adventureID+"/"+name, img)
	if err != nil {
		return "", fmt.Errorf("%w: %s: store: %v", ErrImageUnavailable, name, err)
	}
	return ref, nil
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// List returns the collection, newest first
func (s *AdventureService) List() []models.Adventure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Adventure(nil), s.adventures...)
}

// Get returns the adventure with id
func (s *AdventureService) Get(id string) (*models.Adventure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.adventures {
		if s.adventures[i].ID == id {
			adv := s.adventures[i]
			return &adv, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAdventureNotFound, id)
}

// Add validates adv and prepends it to the collection
func (s *AdventureService) Add(adv models.Adventure) error {
	if err := adv.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.adventures {
		if existing.ID == adv.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, adv.ID)
		}
	}
	s.adventures = append([]models.Adventure{adv}, s.adventures...)
	return nil
}

// Seed loads the built-in adventure and anything previously persisted.
// Persisted adventures come first, newest first.
func (s *AdventureService) Seed(ctx context.Context) error {
	if err := s.Add(PyramidAdventure()); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}

	stored, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load adventures: %w", err)
	}
	for i := len(stored) - 1; i >= 0; i-- {
		if err := s.Add(stored[i]); err != nil {
			log.Printf("Warning: skipping stored adventure %s: %v", stored[i].ID, err)
		}
	}
	log.Printf("Loaded %d stored adventures", len(stored))
	return nil
}
