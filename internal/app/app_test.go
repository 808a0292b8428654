package app

import (
	"context"
	"path/filepath"
	"testing"

	"storygeo/internal/config"
	"storygeo/internal/models"
	"storygeo/internal/provider/providertest"
)

type recordingProgress struct {
	completed []string
}

func (p *recordingProgress) SetCurrentStep(string) {}
func (p *recordingProgress) CompleteStep(step string) { p.completed = append(p.completed, step) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DatabaseType:      "sqlite3",
		DatabasePath:      filepath.Join(dir, "storygeo.db"),
		ProfileStore:      "memory",
		ImageStore:        "inline",
		AudioDir:          filepath.Join(dir, "audio"),
		PersistAdventures: false,
	}
}

func TestBuildWithoutDatabase(t *testing.T) {
	cfg := testConfig(t)
	progress := &recordingProgress{}

	a, err := Build(context.Background(), cfg, Options{Provider: &providertest.Fake{}, Progress: progress})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer a.Close()

	if a.DB != nil {
		t.Error("no database should be opened for memory profiles without persisted adventures")
	}
	if len(progress.completed) != len(Steps) {
		t.Errorf("completed steps = %v, want %v", progress.completed, Steps)
	}
	if got := a.Session.Snapshot().View; got != models.ViewWelcome {
		t.Errorf("view = %s, want welcome", got)
	}
	if list := a.Adventures.List(); len(list) != 1 || list[0].ID != "1" {
		t.Errorf("adventures = %+v, want the built-in adventure", list)
	}
}

func TestBuildWithSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	cfg := testConfig(t)
	cfg.ProfileStore = "sql"
	cfg.PersistAdventures = true
	ctx := context.Background()

	fake := &providertest.Fake{Story: providertest.SampleStory()}
	a, err := Build(ctx, cfg, Options{Provider: fake})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := a.Session.Login(ctx, "Leo", models.RoleChild, "en"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	adv, err := a.Session.CreateAdventure(ctx, "Vikings")
	if err != nil {
		t.Fatalf("CreateAdventure() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// a second start sees the stored profile and adventure
	b, err := Build(ctx, cfg, Options{Provider: fake})
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	defer b.Close()

	st := b.Session.Snapshot()
	if st.View != models.ViewExplorer || st.Profile == nil || st.Profile.Name != "Leo" {
		t.Errorf("restored state = %+v", st)
	}
	if _, err := b.Adventures.Get(adv.ID); err != nil {
		t.Errorf("stored adventure not loaded: %v", err)
	}
}

func TestBuildRequiresAPIKey(t *testing.T) {
	cfg := testConfig(t)
	a, err := Build(context.Background(), cfg, Options{})
	if err == nil {
		t.Fatal("Build() without a Gemini API key should fail")
	}
	a.Close()
}
