// Package session holds the state of the one household using StoryGeo: who
// is signed in, which adventure is open, where they are in it and which
// screen to show.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"storygeo/internal/audio"
	"storygeo/internal/globe"
	"storygeo/internal/i18n"
	"storygeo/internal/models"
	"storygeo/internal/quiz"
	"storygeo/internal/service"
)

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrNoAdventure       = errors.New("no adventure open")
	ErrInvalidTransition = errors.New("action not allowed in the current view")
	ErrUnknownRegion     = errors.New("unknown globe region")
)

// Adventures is the adventure collection and its generator
type Adventures interface {
	List() []models.Adventure
	Get(id string) (*models.Adventure, error)
	GenerateAdventure(ctx context.Context, topic, languageName string) (*models.Adventure, error)
}

// Profiles persists the signed-in profile
type Profiles interface {
	Restore(ctx context.Context) (*models.UserProfile, error)
	Login(ctx context.Context, name string, role models.Role, language string) (*models.UserProfile, error)
	SetLanguage(ctx context.Context, p *models.UserProfile, code string) error
	RecordQuizResult(ctx context.Context, p *models.UserProfile, adv *models.Adventure, score int) error
	SignOut(ctx context.Context, p *models.UserProfile) error
	Progress(ctx context.Context, p *models.UserProfile) (*models.ProgressSummary, error)
}

// Narrator reads text aloud
type Narrator interface {
	Narrate(ctx context.Context, text string) (<-chan audio.Outcome, error)
	Stop()
	Speaking() bool
}

// Session is safe for concurrent use. Its lock is never held while waiting
// on the story or speech provider.
type Session struct {
	adventures Adventures
	profiles   Profiles
	narrator   Narrator

	mu         sync.Mutex
	profile    *models.UserProfile
	current    *models.Adventure
	section    int
	quiz       *quiz.Quiz
	view       models.View
	generating bool
	speaking   bool
	playSeq    uint64
	lastResult *QuizResult
	lastError  string
}

// New creates a session on the welcome screen
func New(adventures Adventures, profiles Profiles, narrator Narrator) *Session {
	return &Session{
		adventures: adventures,
		profiles:   profiles,
		narrator:   narrator,
		view:       models.ViewWelcome,
	}
}

func homeView(p *models.UserProfile) models.View {
	if p == nil {
		return models.ViewWelcome
	}
	if p.IsChild() {
		return models.ViewExplorer
	}
	return models.ViewParent
}

// Restore loads the stored profile and shows its home screen
func (s *Session) Restore(ctx context.Context) error {
	p, err := s.profiles.Restore(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.view = homeView(p)
	if p != nil {
		log.Printf("Restored profile %s", p.ID)
	}
	return nil
}

// Login signs in a new explorer or parent
func (s *Session) Login(ctx context.Context, name string, role models.Role, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profiles.Login(ctx, name, role, language)
	if err != nil {
		return err
	}
	s.profile = p
	s.resetReaderLocked()
	s.lastResult = nil
	s.lastError = ""
	s.view = homeView(p)
	return nil
}

// SetLanguage changes the language of the interface and of new stories
func (s *Session) SetLanguage(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoggedIn
	}
	return s.profiles.SetLanguage(ctx, s.profile, code)
}

// SignOut stops narration, clears the stored profile and shows the welcome screen
func (s *Session) SignOut(ctx context.Context) error {
	s.narrator.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.profiles.SignOut(ctx, s.profile); err != nil {
		return err
	}
	s.profile = nil
	s.resetReaderLocked()
	s.lastResult = nil
	s.lastError = ""
	s.speaking = false
	s.view = models.ViewWelcome
	return nil
}

func (s *Session) resetReaderLocked() {
	s.current = nil
	s.section = 0
	s.quiz = nil
}

// OpenAdventure shows the first section of an adventure
func (s *Session) OpenAdventure(id string) error {
	adv, err := s.adventures.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoggedIn
	}
	s.current = adv
	s.section = 0
	s.quiz = nil
	s.lastResult = nil
	s.view = models.ViewReader
	return nil
}

func (s *Session) readerLocked() error {
	if s.profile == nil {
		return ErrNotLoggedIn
	}
	if s.current == nil {
		return ErrNoAdventure
	}
	if s.view != models.ViewReader {
		return fmt.Errorf("%w: not reading", ErrInvalidTransition)
	}
	return nil
}

// NextSection moves forward one section, stopping at the last
func (s *Session) NextSection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readerLocked(); err != nil {
		return err
	}
	if s.quiz != nil {
		return fmt.Errorf("%w: quiz in progress", ErrInvalidTransition)
	}
	if s.section < len(s.current.Sections)-1 {
		s.section++
	}
	return nil
}

// PrevSection moves back one section, stopping at the first
func (s *Session) PrevSection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readerLocked(); err != nil {
		return err
	}
	if s.quiz != nil {
		return fmt.Errorf("%w: quiz in progress", ErrInvalidTransition)
	}
	if s.section > 0 {
		s.section--
	}
	return nil
}

// StartQuiz begins the quiz from the last section. An adventure without
// questions is finished immediately with no points.
func (s *Session) StartQuiz(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readerLocked(); err != nil {
		return err
	}
	if s.quiz != nil {
		return fmt.Errorf("%w: quiz already started", ErrInvalidTransition)
	}
	if !s.current.IsLastSection(s.section) {
		return fmt.Errorf("%w: finish reading first", ErrInvalidTransition)
	}

	q, err := quiz.New(s.current.Quiz)
	if errors.Is(err, quiz.ErrEmptyQuiz) {
		return s.finishLocked(ctx, 0)
	}
	if err != nil {
		return err
	}
	s.quiz = q
	return nil
}

// SelectAnswer picks an option for the current question
func (s *Session) SelectAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return fmt.Errorf("%w: no quiz in progress", ErrInvalidTransition)
	}
	return s.quiz.Select(option)
}

// AdvanceQuiz confirms the selected answer. After the last question the
// result is recorded and the explorer screen is shown.
func (s *Session) AdvanceQuiz(ctx context.Context) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return false, fmt.Errorf("%w: no quiz in progress", ErrInvalidTransition)
	}

	done, err = s.quiz.Advance()
	if err != nil || !done {
		return done, err
	}
	score, _ := s.quiz.Result()
	return true, s.finishLocked(ctx, score)
}

func (s *Session) finishLocked(ctx context.Context, score int) error {
	adv := s.current
	s.lastResult = &QuizResult{AdventureID: adv.ID, Title: adv.Title, Score: score}
	s.resetReaderLocked()
	s.view = models.ViewExplorer

	if err := s.profiles.RecordQuizResult(ctx, s.profile, adv, score); err != nil {
		s.lastError = err.Error()
		return err
	}
	return nil
}

// Navigate switches to a top level screen
func (s *Session) Navigate(view models.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoggedIn
	}

	switch view {
	case models.ViewExplorer, models.ViewGlobe, models.ViewParent, models.ViewCreating:
	case models.ViewReader:
		if s.current == nil {
			return ErrNoAdventure
		}
	default:
		return fmt.Errorf("%w: cannot navigate to %s", ErrInvalidTransition, view)
	}
	if s.generating && view != models.ViewCreating {
		return fmt.Errorf("%w: generating an adventure", ErrInvalidTransition)
	}
	s.view = view
	return nil
}

func (s *Session) ShowExplorer() error { return s.Navigate(models.ViewExplorer) }
func (s *Session) ShowGlobe() error    { return s.Navigate(models.ViewGlobe) }
func (s *Session) ShowParent() error   { return s.Navigate(models.ViewParent) }

// CreateAdventure generates an adventure about topic in the profile's
// language. The creating screen shows while it runs; on failure the previous
// screen comes back.
func (s *Session) CreateAdventure(ctx context.Context, topic string) (*models.Adventure, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, service.ErrEmptyTopic
	}

	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	if s.generating {
		s.mu.Unlock()
		return nil, service.ErrGenerationBusy
	}
	prev := s.view
	language := i18n.LanguageName(s.profile.Language)
	s.view = models.ViewCreating
	s.generating = true
	s.lastError = ""
	s.mu.Unlock()

	adv, err := s.adventures.GenerateAdventure(ctx, topic, language)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if s.profile == nil {
		s.view = models.ViewWelcome
		return adv, err
	}
	if err != nil {
		s.view = prev
		s.lastError = err.Error()
		return nil, err
	}
	s.view = models.ViewExplorer
	return adv, nil
}

// CreateFromRegion generates an adventure about a globe region
func (s *Session) CreateFromRegion(ctx context.Context, regionID string) (*models.Adventure, error) {
	region, ok := globe.Lookup(regionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, regionID)
	}
	return s.CreateAdventure(ctx, region.Topic())
}

// ReadCurrentSection narrates the open section. The speaking flag clears
// when the playback ends or the narration fails.
func (s *Session) ReadCurrentSection(ctx context.Context) error {
	s.mu.Lock()
	if err := s.readerLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	text := s.current.Sections[s.section].Text
	wasSpeaking := s.speaking
	s.speaking = true
	s.mu.Unlock()

	ch, err := s.narrator.Narrate(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(err, service.ErrNarrationBusy) {
		// an earlier read still owns the flag; anything else is not ours
		s.speaking = wasSpeaking || s.narrator.Speaking()
		return err
	}
	if err != nil {
		s.speaking = s.narrator.Speaking()
		s.lastError = err.Error()
		return err
	}

	s.playSeq++
	seq := s.playSeq
	go func() {
		outcome := <-ch
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.playSeq == seq {
			s.speaking = false
		}
		log.Printf("Narration %s", outcome)
	}()
	return nil
}

// CurrentSectionText returns the text of the open section
func (s *Session) CurrentSectionText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readerLocked(); err != nil {
		return "", err
	}
	return s.current.Sections[s.section].Text, nil
}

// Progress summarises the signed-in profile for the parent dashboard
func (s *Session) Progress(ctx context.Context) (*models.ProgressSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, ErrNotLoggedIn
	}
	return s.profiles.Progress(ctx, s.profile)
}

// Language is the signed-in profile's language, or the default
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return i18n.DefaultCode
	}
	return s.profile.Language
}

// Adventures lists the collection, newest first
func (s *Session) Adventures() []models.Adventure {
	return s.adventures.List()
}
