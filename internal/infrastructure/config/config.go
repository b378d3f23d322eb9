package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional TOML file.
const FileEnv = "DESKD_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	AI        AIConfig        `toml:"ai"`
	Desktop   DesktopConfig   `toml:"desktop"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" toml:"host"`

	// Browser origins allowed by CORS. Empty allows any origin.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" toml:"cors_origins"`
}

// AIConfig holds remote generation service configuration.
type AIConfig struct {
	APIKey            string        `envconfig:"AI_API_KEY" toml:"api_key"`
	BaseURL           string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta" toml:"base_url"`
	TextModel         string        `envconfig:"AI_TEXT_MODEL" default:"gemini-2.5-flash" toml:"text_model"`
	ImageModel        string        `envconfig:"AI_IMAGE_MODEL" default:"imagen-4.0-generate-001" toml:"image_model"`
	VideoModel        string        `envconfig:"AI_VIDEO_MODEL" default:"veo-3.1-fast-generate-preview" toml:"video_model"`
	Timeout           time.Duration `envconfig:"AI_TIMEOUT" default:"2m" toml:"timeout"`
	RequestsPerSecond float64       `envconfig:"AI_RPS" default:"2" toml:"requests_per_second"`
	MaxRetries        int           `envconfig:"AI_MAX_RETRIES" default:"3" toml:"max_retries"`
	PollInterval      time.Duration `envconfig:"AI_POLL_INTERVAL" default:"10s" toml:"poll_interval"`
}

// Enabled reports whether a key is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// DesktopConfig holds window manager behaviour.
type DesktopConfig struct {
	CloseDelay time.Duration `envconfig:"DESKTOP_CLOSE_DELAY" default:"150ms" toml:"close_delay"`
	Jitter     bool          `envconfig:"DESKTOP_JITTER" default:"true" toml:"jitter"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`

	// Shared by every client of the /ai gateway.
	GatewayRPS   int `envconfig:"RATE_LIMIT_GATEWAY_RPS" default:"5" toml:"gateway_rps"`
	GatewayBurst int `envconfig:"RATE_LIMIT_GATEWAY_BURST" default:"10" toml:"gateway_burst"`
}

// Load loads configuration from environment variables, then applies the TOML
// file named by DESKD_CONFIG when set. File values win over the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// LoadFile overlays settings from a TOML file. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		AI: AIConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			TextModel:         "gemini-2.5-flash",
			ImageModel:        "imagen-4.0-generate-001",
			VideoModel:        "veo-3.1-fast-generate-preview",
			Timeout:           2 * time.Minute,
			RequestsPerSecond: 2,
			MaxRetries:        3,
			PollInterval:      10 * time.Second,
		},
		Desktop: DesktopConfig{
			CloseDelay: 150 * time.Millisecond,
			Jitter:     true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			GatewayRPS:        5,
			GatewayBurst:      10,
		},
	}
}
