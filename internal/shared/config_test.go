package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()
		if config.Database.Path != "./genrex.db" {
			t.Errorf("expected database path ./genrex.db, got %s", config.Database.Path)
		}
		if config.Credentials.LastFM.BaseURL != "https://ws.audioscrobbler.com/2.0/" {
			t.Errorf("unexpected lastfm base url %s", config.Credentials.LastFM.BaseURL)
		}
		if config.Credentials.LastFM.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.Credentials.LastFM.Timeout())
		}
		if config.Mongo.Collection != "best" {
			t.Errorf("expected collection best, got %s", config.Mongo.Collection)
		}
		if config.Batch.Workers != 1 {
			t.Errorf("expected a single worker by default, got %d", config.Batch.Workers)
		}
		if !config.Cache.Enabled || config.Cache.TTL() != 168*time.Hour {
			t.Errorf("unexpected cache defaults: %+v", config.Cache)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}
		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		testConfig := `[database]
path = "/custom/path.db"

[credentials.lastfm]
api_key = "file_key"
timeout_seconds = 3

[mongo]
uri = "mongodb://localhost:27017/bestai"

[batch]
workers = 4
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Credentials.LastFM.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.Credentials.LastFM.Timeout())
		}
		if config.Batch.Workers != 4 {
			t.Errorf("expected 4 workers, got %d", config.Batch.Workers)
		}
		if config.Mongo.Collection != "best" {
			t.Errorf("unset keys should keep defaults, got collection %q", config.Mongo.Collection)
		}
	})

	t.Run("LoadConfig rejects invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv overrides file values", func(t *testing.T) {
		t.Setenv("LASTFM_API_KEY", "env_key")
		t.Setenv("MONGODB_URI", "mongodb://env:27017/db")
		t.Setenv("GENREX_DB_PATH", "/tmp/env.db")

		config := DefaultConfig()
		config.Credentials.LastFM.APIKey = "file_key"
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Credentials.LastFM.APIKey != "env_key" {
			t.Errorf("expected env api key, got %s", config.Credentials.LastFM.APIKey)
		}
		if config.Mongo.URI != "mongodb://env:27017/db" {
			t.Errorf("expected env mongo uri, got %s", config.Mongo.URI)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env db path, got %s", config.Database.Path)
		}
	})

	t.Run("ResolveConfig without file uses defaults", func(t *testing.T) {
		t.Setenv("LASTFM_API_KEY", "")
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Database.Path != "./genrex.db" {
			t.Errorf("expected default database path, got %s", config.Database.Path)
		}
	})

	t.Run("Require credentials", func(t *testing.T) {
		config := DefaultConfig()

		if err := config.RequireLastFM(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for lastfm, got %v", err)
		}
		if err := config.RequireMongo(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for mongo, got %v", err)
		}
		if err := config.RequireSpotify(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for spotify, got %v", err)
		}

		config.Credentials.LastFM.APIKey = "key"
		config.Mongo.URI = "mongodb://localhost"
		config.Credentials.Spotify = SpotifyConfig{ClientID: "id", ClientSecret: "secret"}

		if err := config.RequireLastFM(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := config.RequireMongo(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := config.RequireSpotify(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
