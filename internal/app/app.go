// Package app assembles the StoryGeo services from configuration. Both the
// HTTP server and the command line tool start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storygeo/internal/audio"
	"storygeo/internal/config"
	"storygeo/internal/database"
	"storygeo/internal/event"
	"storygeo/internal/imagestore"
	"storygeo/internal/metrics"
	"storygeo/internal/provider"
	"storygeo/internal/provider/gemini"
	"storygeo/internal/repository"
	"storygeo/internal/service"
	"storygeo/internal/session"
	"storygeo/internal/storage"
)

const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
	StepAdventures = "Loading adventures"
)

// Steps lists the startup steps in the order Build completes them
var Steps = []string{StepDatabase, StepMigrations, StepServices, StepAdventures}

// Progress receives startup progress
type Progress interface {
	SetCurrentStep(step string)
	CompleteStep(step string)
}

type noProgress struct{}

func (noProgress) SetCurrentStep(string) {}
func (noProgress) CompleteStep(string) {}

// Options override parts of the assembly. Every field is optional.
type Options struct {
	// Sink renders narration. Defaults to audio.ClockSink.
	Sink audio.Sink
	// Provider replaces the Gemini client
	Provider provider.Provider
	// Offline uses provider.Offline instead of failing when no API key is set
	Offline  bool
	Metrics  *metrics.Metrics
	Progress Progress
}

// App holds the assembled services
type App struct {
	Config     *config.Config
	DB         *database.DB
	Metrics    *metrics.Metrics
	Provider   provider.Provider
	Adventures *service.AdventureService
	Profiles   *service.ProfileService
	Narration  *service.NarrationService
	Session    *session.Session

	closers []func() error
}

// OpenDatabase connects to the configured database and applies migrations
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")
	return db, nil
}

// Build connects every configured backend and restores the saved session.
// Call Close when done, also after an error.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	progress := opts.Progress
	if progress == nil {
		progress = noProgress{}
	}
	a := &App{Config: cfg, Metrics: opts.Metrics}
	if a.Metrics == nil {
		a.Metrics = metrics.New()
	}

	progress.SetCurrentStep(StepDatabase)
	if cfg.NeedsDatabase() {
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return a, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
		log.Printf("Database connection established (type: %s)", cfg.DatabaseType)
	}
	progress.CompleteStep(StepDatabase)

	progress.SetCurrentStep(StepMigrations)
	if a.DB != nil {
		if err := a.DB.RunMigrations(ctx); err != nil {
			return a, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("Migrations completed successfully")
	}
	progress.CompleteStep(StepMigrations)

	progress.SetCurrentStep(StepServices)
	if err := a.buildServices(ctx, opts); err != nil {
		return a, err
	}
	progress.CompleteStep(StepServices)

	progress.SetCurrentStep(StepAdventures)
	if err := a.Adventures.Seed(ctx); err != nil {
		log.Printf("Warning: Failed to load stored adventures: %v", err)
	}
	if err := a.Session.Restore(ctx); err != nil {
		log.Printf("Warning: Failed to restore profile: %v", err)
	}
	progress.CompleteStep(StepAdventures)

	return a, nil
}

func (a *App) buildServices(ctx context.Context, opts Options) error {
	cfg := a.Config

	a.Provider = opts.Provider
	if a.Provider == nil && cfg.GeminiAPIKey == "" && opts.Offline {
		log.Println("Warning: GEMINI_API_KEY not set, new content is unavailable")
		a.Provider = provider.Offline{}
	}
	if a.Provider == nil {
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			StoryModel:  cfg.StoryModel,
			ImageModel:  cfg.ImageModel,
			SpeechModel: cfg.SpeechModel,
			Voice:       cfg.SpeechVoice,
		})
		if err != nil {
			return err
		}
		a.Provider = client
	}

	images, err := a.imageStore(ctx)
	if err != nil {
		return err
	}
	events, err := a.publisher()
	if err != nil {
		return err
	}
	profileStore, err := a.profileStore(ctx)
	if err != nil {
		return err
	}

	adventureDeps := service.AdventureDeps{
		Provider: a.Provider,
		Images:   images,
		Events:   events,
		Metrics:  a.Metrics,
	}
	if cfg.PersistAdventures && a.DB != nil {
		adventureDeps.Store = repository.NewAdventureRepository(a.DB)
	}
	a.Adventures = service.NewAdventureService(adventureDeps)

	profileDeps := service.ProfileDeps{
		Store:       profileStore,
		Events:      events,
		ParentEmail: cfg.ParentEmail,
		Metrics:     a.Metrics,
	}
	if a.DB != nil {
		profileDeps.Progress = repository.NewProgressRepository(a.DB)
	}
	if cfg.ParentEmail != "" {
		mailer, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
		if err != nil {
			log.Printf("Warning: Failed to initialize email service: %v", err)
		} else {
			profileDeps.Mailer = mailer
		}
	}
	a.Profiles = service.NewProfileService(profileDeps)

	cache, err := audio.NewCache(cfg.AudioDir)
	if err != nil {
		log.Printf("Warning: narration cache disabled: %v", err)
		cache = nil
	}
	sink := opts.Sink
	if sink == nil {
		sink = audio.ClockSink{}
	}
	a.Narration = service.NewNarrationService(a.Provider, audio.NewPlayer(sink), cache, a.Metrics)
	a.closers = append(a.closers, func() error { a.Narration.Stop(); return nil })

	a.Session = session.New(a.Adventures, a.Profiles, a.Narration)
	return nil
}

func (a *App) imageStore(ctx context.Context) (imagestore.Store, error) {
	cfg := a.Config
	if cfg.ImageStore != "minio" {
		return imagestore.Inline{}, nil
	}
	store, err := imagestore.NewMinIO(ctx, imagestore.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
		PublicURL: cfg.MinIOPublicURL,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Storing illustrations in bucket %s", cfg.MinIOBucket)
	return store, nil
}

func (a *App) publisher() (event.Publisher, error) {
	cfg := a.Config
	if cfg.AMQPURL == "" {
		return event.LogPublisher{}, nil
	}
	pub, err := event.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pub.Close)
	return pub, nil
}

func (a *App) profileStore(ctx context.Context) (storage.Store, error) {
	cfg := a.Config
	switch cfg.ProfileStore {
	case "redis":
		store, err := storage.NewRedis(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "storygeo:",
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case "memory":
		return storage.NewMemory(), nil
	default:
		if a.DB == nil {
			return nil, errors.New("PROFILE_STORE=sql needs a database")
		}
		return repository.NewKVRepository(a.DB), nil
	}
}

// Close releases every connection in reverse order of opening
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
