package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Mongo       MongoConfig       `toml:"mongo"`
	Cache       CacheConfig       `toml:"cache"`
	Batch       BatchConfig       `toml:"batch"`
	Taxonomy    TaxonomyConfig    `toml:"taxonomy"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	LastFM  LastFMConfig  `toml:"lastfm"`
	Spotify SpotifyConfig `toml:"spotify"`
}

// LastFMConfig contains Last.fm API settings.
type LastFMConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call deadline, defaulting to 10 seconds.
func (c LastFMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Map returns the credentials in the shape expected by services.NewSpotifyService.
func (c SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
}

// DatabaseConfig contains SQLite connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// MongoConfig points at the document collection holding track records.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig controls tag memoization.
type CacheConfig struct {
	Enabled  bool `toml:"enabled"`
	TTLHours int  `toml:"ttl_hours"`
}

// TTL returns the cache entry lifetime. Zero means entries never expire.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 0
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// BatchConfig contains batch driver defaults.
type BatchConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// TaxonomyConfig optionally points at an alternate taxonomy definition.
type TaxonomyConfig struct {
	Path string `toml:"path"`
}

// EnvOverrides holds values read from the process environment.
//
// Non-empty values replace what the TOML file provided.
type EnvOverrides struct {
	LastFMAPIKey        string `envconfig:"LASTFM_API_KEY"`
	MongoURI            string `envconfig:"MONGODB_URI"`
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	DatabasePath        string `envconfig:"GENREX_DB_PATH"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads the config file at path when it exists (defaults otherwise),
// then applies a .env file from the working directory and the process environment.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays environment variables onto the config.
func (c *Config) ApplyEnv() error {
	var env EnvOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if env.LastFMAPIKey != "" {
		c.Credentials.LastFM.APIKey = env.LastFMAPIKey
	}
	if env.MongoURI != "" {
		c.Mongo.URI = env.MongoURI
	}
	if env.SpotifyClientID != "" {
		c.Credentials.Spotify.ClientID = env.SpotifyClientID
	}
	if env.SpotifyClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = env.SpotifyClientSecret
	}
	if env.DatabasePath != "" {
		c.Database.Path = env.DatabasePath
	}
	return nil
}

// RequireLastFM fails when no Last.fm API key is configured.
func (c *Config) RequireLastFM() error {
	if IsBlank(c.Credentials.LastFM.APIKey) {
		return fmt.Errorf("%w: LASTFM_API_KEY missing (set it in the environment, .env or config.toml)", ErrMissingCredentials)
	}
	return nil
}

// RequireMongo fails when no MongoDB connection string is configured.
func (c *Config) RequireMongo() error {
	if IsBlank(c.Mongo.URI) {
		return fmt.Errorf("%w: MONGODB_URI missing (set it in the environment, .env or config.toml)", ErrMissingCredentials)
	}
	return nil
}

// RequireSpotify fails when Spotify client credentials are incomplete.
func (c *Config) RequireSpotify() error {
	if IsBlank(c.Credentials.Spotify.ClientID) || IsBlank(c.Credentials.Spotify.ClientSecret) {
		return fmt.Errorf("%w: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set", ErrMissingCredentials)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
