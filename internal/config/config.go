package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"storygeo/internal/validation"
)

// Config holds application configuration
type Config struct {
	ServerPort string `env:"PORT" envDefault:"8080"`
	Debug      bool   `env:"DEBUG"`

	DatabaseType string `env:"DB_TYPE" envDefault:"sqlite3"`
	DatabasePath string `env:"DB_PATH" envDefault:"./storygeo.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// ProfileStore is sql, redis or memory
	ProfileStore  string `env:"PROFILE_STORE" envDefault:"sql"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	StoryModel   string `env:"STORY_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	SpeechModel  string `env:"SPEECH_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	SpeechVoice  string `env:"SPEECH_VOICE" envDefault:"Kore"`

	// ImageStore is inline or minio
	ImageStore     string `env:"IMAGE_STORE" envDefault:"inline"`
	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"storygeo"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"`
	MinIOPublicURL string `env:"MINIO_PUBLIC_URL"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"storygeo.events"`

	AWSRegion    string `env:"AWS_REGION"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"StoryGeo"`
	AppBaseURL   string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	ParentEmail  string `env:"PARENT_EMAIL"`

	AudioDir          string `env:"AUDIO_DIR" envDefault:"./audio"`
	PersistAdventures bool   `env:"PERSIST_ADVENTURES" envDefault:"true"`

	// GenerationRateLimit of 0 disables the limit
	GenerationRateLimit  int           `env:"GENERATION_RATE_LIMIT" envDefault:"30"`
	GenerationRateWindow time.Duration `env:"GENERATION_RATE_WINDOW" envDefault:"1h"`
}

// Load reads a .env file when present, then parses environment variables
// with sensible defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}
	return Parse()
}

// Parse reads configuration from environment variables only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	c.DatabaseType = strings.ToLower(c.DatabaseType)
	switch c.DatabaseType {
	case "sqlite3", "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DatabaseType)
	}

	c.ProfileStore = strings.ToLower(c.ProfileStore)
	switch c.ProfileStore {
	case "sql", "redis", "memory":
	default:
		return fmt.Errorf("unsupported PROFILE_STORE %q", c.ProfileStore)
	}

	c.ImageStore = strings.ToLower(c.ImageStore)
	switch c.ImageStore {
	case "inline":
	case "minio":
		if c.MinIOEndpoint == "" {
			return errors.New("MINIO_ENDPOINT is required when IMAGE_STORE=minio")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore)
	}

	if c.GenerationRateLimit < 0 {
		return fmt.Errorf("GENERATION_RATE_LIMIT must not be negative, got %d", c.GenerationRateLimit)
	}
	if c.GenerationRateLimit > 0 && c.GenerationRateWindow <= 0 {
		return errors.New("GENERATION_RATE_WINDOW must be positive")
	}

	for key, email := range map[string]string{"PARENT_EMAIL": c.ParentEmail, "SES_FROM_EMAIL": c.SESFromEmail} {
		if email == "" {
			continue
		}
		if err := validation.ValidateEmail(email); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

// NeedsDatabase reports whether any component is backed by SQL
func (c *Config) NeedsDatabase() bool {
	return c.ProfileStore == "sql" || c.PersistAdventures
}
