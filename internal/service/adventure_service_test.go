package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"storygeo/internal/event"
	"storygeo/internal/imagestore"
	"storygeo/internal/models"
	"storygeo/internal/provider"
	"storygeo/internal/provider/providertest"
)

type memoryAdventureStore struct {
	mu    sync.Mutex
	saved []models.Adventure
	err   error
}

func (m *memoryAdventureStore) Save(ctx context.Context, adv *models.Adventure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *adv)
	return nil
}

func (m *memoryAdventureStore) List(ctx context.Context) ([]models.Adventure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Adventure, len(m.saved))
	for i := range m.saved {
		out[len(m.saved)-1-i] = m.saved[i]
	}
	return out, m.err
}

type failingImageStore struct{}

func (failingImageStore) Save(ctx context.Context, name string, img *provider.Image) (string, error) {
	return "", errors.New("bucket unavailable")
}

func fixedSeed() func() string {
	n := 0
	return func() string {
		n++
		return "seed" + string(rune('0'+n))
	}
}

func newTestAdventureService(fake *providertest.Fake) (*AdventureService, *event.Recorder, *memoryAdventureStore) {
	events := &event.Recorder{}
	store := &memoryAdventureStore{}
	svc := NewAdventureService(AdventureDeps{
		Provider: fake,
		Images:   imagestore.Inline{},
		Store:    store,
		Events:   events,
		Seed:     fixedSeed(),
	})
	return svc, events, store
}

func TestGenerateAdventure(t *testing.T) {
	fake := &providertest.Fake{
		Story: providertest.SampleStory(),
		Image: &provider.Image{Data: []byte("png"), MIMEType: "image/png"},
	}
	svc, events, store := newTestAdventureService(fake)
	ctx := context.Background()

	adv, err := svc.GenerateAdventure(ctx, "  Vikings ", "Malay")
	if err != nil {
		t.Fatalf("GenerateAdventure() error = %v", err)
	}

	t.Run("story request", func(t *testing.T) {
		if len(fake.StoryCalls) != 1 || fake.StoryCalls[0].Topic != "Vikings" || fake.StoryCalls[0].Language != "Malay" {
			t.Errorf("story calls = %+v", fake.StoryCalls)
		}
	})

	t.Run("local identifiers", func(t *testing.T) {
		if adv.ID == "" {
			t.Error("missing adventure id")
		}
		for i, sec := range adv.Sections {
			if want := "s-" + string(rune('0'+i)); sec.ID != want {
				t.Errorf("section %d id = %q, want %q", i, sec.ID, want)
			}
		}
		for i, q := range adv.Quiz {
			if want := "q-" + string(rune('0'+i)); q.ID != want {
				t.Errorf("question %d id = %q, want %q", i, q.ID, want)
			}
		}
	})

	t.Run("images requested cover first then sections in order", func(t *testing.T) {
		prompts := fake.Prompts()
		if len(prompts) != 1+len(adv.Sections) {
			t.Fatalf("got %d image requests, want %d", len(prompts), 1+len(adv.Sections))
		}
		if prompts[0] != "Longships of the North Scandinavia" {
			t.Errorf("cover prompt = %q", prompts[0])
		}
		for i, sec := range adv.Sections {
			if prompts[i+1] != sec.Text {
				t.Errorf("section %d prompt = %q, want %q", i, prompts[i+1], sec.Text)
			}
		}
	})

	t.Run("image references", func(t *testing.T) {
		if !strings.HasPrefix(adv.CoverImage, "data:image/png;base64,") {
			t.Errorf("cover = %q", adv.CoverImage)
		}
		for _, sec := range adv.Sections {
			if !strings.HasPrefix(sec.ImageURL, "data:image/png;base64,") {
				t.Errorf("section %s image = %q", sec.ID, sec.ImageURL)
			}
		}
	})

	t.Run("prepended and persisted", func(t *testing.T) {
		list := svc.List()
		if len(list) != 1 || list[0].ID != adv.ID {
			t.Errorf("List() = %v", list)
		}
		if len(store.saved) != 1 {
			t.Errorf("saved %d adventures, want 1", len(store.saved))
		}
		evs := events.Events()
		if len(evs) != 1 || evs[0].Type != event.TypeAdventureCreated {
			t.Errorf("events = %+v", evs)
		}
	})

	if svc.Generating() {
		t.Error("busy flag still set after generation")
	}
}

func TestGenerateAdventureImageFallback(t *testing.T) {
	fake := &providertest.Fake{Story: providertest.SampleStory()}
	fake.ImageHook = func(ctx context.Context, prompt string) (*provider.Image, error) {
		if strings.HasPrefix(prompt, "The crew") {
			return &provider.Image{Data: []byte("png"), MIMEType: "image/png"}, nil
		}
		return nil, errors.New("quota exceeded")
	}
	svc, _, _ := newTestAdventureService(fake)

	adv, err := svc.GenerateAdventure(context.Background(), "Vikings", "English")
	if err != nil {
		t.Fatalf("GenerateAdventure() error = %v", err)
	}

	if adv.CoverImage != "https://picsum.photos/seed/seed1/800/450" {
		t.Errorf("cover = %q", adv.CoverImage)
	}
	if adv.Sections[0].ImageURL != "https://picsum.photos/seed/seed2/800/450" {
		t.Errorf("section 0 image = %q", adv.Sections[0].ImageURL)
	}
	if !strings.HasPrefix(adv.Sections[1].ImageURL, "data:") {
		t.Errorf("section 1 should keep its generated image, got %q", adv.Sections[1].ImageURL)
	}
	if adv.Sections[2].ImageURL != "https://picsum.photos/seed/seed3/800/450" {
		t.Errorf("section 2 image = %q", adv.Sections[2].ImageURL)
	}
}

func TestGenerateAdventureImageStoreFailure(t *testing.T) {
	fake := &providertest.Fake{
		Story: providertest.SampleStory(),
		Image: &provider.Image{Data: []byte("png")},
	}
	svc := NewAdventureService(AdventureDeps{Provider: fake, Images: failingImageStore{}, Seed: func() string { return "x" }})

	adv, err := svc.GenerateAdventure(context.Background(), "Vikings", "English")
	if err != nil {
		t.Fatalf("GenerateAdventure() error = %v", err)
	}
	if adv.CoverImage != PlaceholderImage("x") {
		t.Errorf("cover = %q", adv.CoverImage)
	}
}

func TestGenerateAdventureErrors(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		fake  *providertest.Fake
		want  error
	}{
		{
			name:  "blank topic",
			topic: "   ",
			fake:  &providertest.Fake{Story: providertest.SampleStory()},
			want:  ErrEmptyTopic,
		},
		{
			name:  "story request fails",
			topic: "Vikings",
			fake:  &providertest.Fake{StoryErr: errors.New("503")},
			want:  ErrGenerationFailed,
		},
		{
			name:  "malformed story",
			topic: "Vikings",
			fake:  &providertest.Fake{StoryErr: provider.ErrMalformedStory},
			want:  ErrGenerationFailed,
		},
		{
			name:  "story without sections",
			topic: "Vikings",
			fake:  &providertest.Fake{Story: &provider.StoryDraft{Title: "Empty"}},
			want:  ErrGenerationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, events, store := newTestAdventureService(tt.fake)
			_, err := svc.GenerateAdventure(context.Background(), tt.topic, "English")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(svc.List()) != 0 || len(store.saved) != 0 || len(events.Events()) != 0 {
				t.Error("failed generation changed the collection")
			}
			if _, images, _ := tt.fake.Calls(); images != 0 {
				t.Errorf("requested %d images after failure", images)
			}
		})
	}
}

func TestGenerateAdventureBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	fake := &providertest.Fake{
		StoryHook: func(ctx context.Context, topic, language string) (*provider.StoryDraft, error) {
			close(entered)
			<-release
			return providertest.SampleStory(), nil
		},
		Image: &provider.Image{Data: []byte("png")},
	}
	svc, _, _ := newTestAdventureService(fake)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GenerateAdventure(context.Background(), "Vikings", "English")
		done <- err
	}()
	<-entered

	if !svc.Generating() {
		t.Error("Generating() = false during generation")
	}
	if _, err := svc.GenerateAdventure(context.Background(), "Romans", "English"); !errors.Is(err, ErrGenerationBusy) {
		t.Errorf("expected ErrGenerationBusy, got %v", err)
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first generation failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not finish")
	}
	if stories, _, _ := fake.Calls(); stories != 1 {
		t.Errorf("story requests = %d, want 1", stories)
	}
}

func TestAdventureFromDraftKeepsSectionsAndDropsBadQuestions(t *testing.T) {
	draft := providertest.SampleStory()
	draft.Quiz = append(draft.Quiz,
		provider.QuestionDraft{Question: "One option?", Options: []string{"Only"}, CorrectAnswer: 0},
		provider.QuestionDraft{Question: "Out of range?", Options: []string{"A", "B"}, CorrectAnswer: 5},
	)
	draft.Sections = append(draft.Sections, provider.SectionDraft{Text: "   "})

	adv := adventureFromDraft(draft)
	if len(adv.Quiz) != 3 {
		t.Errorf("kept %d questions, want 3", len(adv.Quiz))
	}
	if len(adv.Sections) != len(draft.Sections) {
		t.Fatalf("kept %d sections, want %d", len(adv.Sections), len(draft.Sections))
	}
	for i, sec := range adv.Sections {
		if want := "s-" + strconv.Itoa(i); sec.ID != want || sec.Text != draft.Sections[i].Text {
			t.Errorf("section %d = %+v, want id %s text %q", i, sec, want, draft.Sections[i].Text)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 100, "short"},
		{"abcdef", 3, "abc"},
		{"日本語のテキスト", 3, "日本語"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPlaceholderImageDeterministic(t *testing.T) {
	if PlaceholderImage("abc") != PlaceholderImage("abc") {
		t.Error("same seed gave different placeholders")
	}
	if PlaceholderImage("abc") != "https://picsum.photos/seed/abc/800/450" {
		t.Errorf("PlaceholderImage() = %q", PlaceholderImage("abc"))
	}
}

func TestSeedAndLookup(t *testing.T) {
	store := &memoryAdventureStore{}
	older := models.Adventure{ID: "a1", Title: "Older", Sections: []models.StorySection{{ID: "s-0", Text: "x"}}}
	newer := models.Adventure{ID: "a2", Title: "Newer", Sections: []models.StorySection{{ID: "s-0", Text: "y"}}}
	store.Save(context.Background(), &older)
	store.Save(context.Background(), &newer)

	svc := NewAdventureService(AdventureDeps{Provider: &providertest.Fake{}, Store: store})
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	list := svc.List()
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	if strings.Join(ids, ",") != "a2,a1,1" {
		t.Errorf("order = %v, want a2,a1,1", ids)
	}

	adv, err := svc.Get("1")
	if err != nil || adv.Title != "The Great Pyramid Mystery" {
		t.Errorf("Get(1) = %v, %v", adv, err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, ErrAdventureNotFound) {
		t.Errorf("expected ErrAdventureNotFound, got %v", err)
	}
	if err := svc.Add(PyramidAdventure()); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if err := svc.Add(models.Adventure{ID: "bad"}); !errors.Is(err, models.ErrInvalidAdventure) {
		t.Errorf("expected ErrInvalidAdventure, got %v", err)
	}
}

func TestPyramidAdventureIsValid(t *testing.T) {
	adv := PyramidAdventure()
	if err := adv.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if adv.Quiz[0].Options[adv.Quiz[0].CorrectAnswer] != "Water" {
		t.Error("correct answer should be Water")
	}
}
