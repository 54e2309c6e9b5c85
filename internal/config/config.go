package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort        = "5000"
	defaultJWTSecret   = "shopping-list-secret-key"
	defaultClientURL   = "http://localhost:5173"
	defaultCallbackURL = "/api/auth/google/callback"
	defaultGeminiModel = "gemini-2.0-flash"
	mockGeminiKey      = "mock-key"
)

// GoogleConfig holds the OAuth client registered in the Google console.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// GeminiConfig selects the model used by the AI suggestion endpoint.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DatabaseConfig tunes the pool kept by the database connector.
type DatabaseConfig struct {
	MaxPoolSize    int           `yaml:"max_pool_size"`
	MaxIdleTime    time.Duration `yaml:"max_idle_time"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Config holds environment-driven configuration.
type Config struct {
	Addr        string         `yaml:"addr"`
	Env         string         `yaml:"env"`
	Debug       bool           `yaml:"debug"`
	DatabaseURL string         `yaml:"database_url"`
	JWTSecret   string         `yaml:"jwt_secret"`
	ClientURL   string         `yaml:"client_url"`
	Google      GoogleConfig   `yaml:"google"`
	Gemini      GeminiConfig   `yaml:"gemini"`
	Database    DatabaseConfig `yaml:"database"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:      ":" + defaultPort,
		Env:       "development",
		JWTSecret: defaultJWTSecret,
		ClientURL: defaultClientURL,
		Google: GoogleConfig{
			CallbackURL: defaultCallbackURL,
		},
		Gemini: GeminiConfig{
			Model: defaultGeminiModel,
		},
		Database: DatabaseConfig{
			MaxPoolSize:    10,
			MaxIdleTime:    10 * time.Second,
			ConnectTimeout: 10 * time.Second,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of priority. A `.env` file in
// the working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Addr = normalizeAddr(cfg.Addr)
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	} else if v := os.Getenv("NODE_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.ClientURL, "CLIENT_URL")
	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Google.CallbackURL, "GOOGLE_CALLBACK_URL")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")

	if v := os.Getenv("DB_MAX_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_MAX_POOL_SIZE: %w", err)
		}
		cfg.Database.MaxPoolSize = n
	}
	durations := map[string]*time.Duration{
		"DB_MAX_IDLE_TIME":   &cfg.Database.MaxIdleTime,
		"DB_CONNECT_TIMEOUT": &cfg.Database.ConnectTimeout,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// normalizeAddr accepts "5000", ":5000" or "host:5000".
func normalizeAddr(addr string) string {
	if addr == "" {
		return ":" + defaultPort
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}

// MockAI reports whether suggestions are served without calling Gemini.
func (c Config) MockAI() bool {
	return c.Gemini.APIKey == "" || c.Gemini.APIKey == mockGeminiKey
}

// UsesDefaultSecret is true when JWT_SECRET was never configured.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}
