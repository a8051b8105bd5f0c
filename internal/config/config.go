package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	cenv "github.com/caarlos0/env/v11"
)

// Config holds the backend and analysis settings for teamscribe.
type Config struct {
	// BackendURL is the origin of the transcript backend, without a
	// trailing slash (e.g. "https://transcripts.example.com").
	BackendURL string

	// AnalyzeURLs is the ordered list of analyze candidate endpoints.
	// Candidates are attempted in this order; the first one that answers
	// at all (regardless of HTTP status) wins.
	AnalyzeURLs []string

	// TestMode controls whether the analyze endpoint returns preview
	// content instead of performing its production side effect.
	TestMode bool

	// LLMTimeout is forwarded to the analyze endpoint as llm_timeout.
	LLMTimeout time.Duration

	// UserLookupTimeout is forwarded to the analyze endpoint as
	// user_lookup_timeout.
	UserLookupTimeout time.Duration

	// RequestTimeout bounds individual backend HTTP requests.
	RequestTimeout time.Duration

	// SessionFile is the path of the persisted backend session cookie.
	SessionFile string

	LogLevel string
}

type envConfig struct {
	BackendURL               string   `env:"TEAMSCRIBE_BACKEND_URL" envDefault:"http://localhost:8000"`
	AnalyzeURLs              []string `env:"TEAMSCRIBE_ANALYZE_URLS" envSeparator:","`
	TestMode                 bool     `env:"TEAMSCRIBE_TEST_MODE" envDefault:"true"`
	LLMTimeoutSeconds        int      `env:"TEAMSCRIBE_LLM_TIMEOUT_SECONDS" envDefault:"60"`
	UserLookupTimeoutSeconds int      `env:"TEAMSCRIBE_USER_LOOKUP_TIMEOUT_SECONDS" envDefault:"30"`
	RequestTimeoutSeconds    int      `env:"TEAMSCRIBE_REQUEST_TIMEOUT_SECONDS" envDefault:"120"`
	SessionFile              string   `env:"TEAMSCRIBE_SESSION_FILE"`
	LogLevel                 string   `env:"TEAMSCRIBE_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var raw envConfig
	if err := cenv.Parse(&raw); err != nil {
		return Config{}, err
	}

	cfg := Config{
		BackendURL:        strings.TrimRight(strings.TrimSpace(raw.BackendURL), "/"),
		TestMode:          raw.TestMode,
		LLMTimeout:        time.Duration(raw.LLMTimeoutSeconds) * time.Second,
		UserLookupTimeout: time.Duration(raw.UserLookupTimeoutSeconds) * time.Second,
		RequestTimeout:    time.Duration(raw.RequestTimeoutSeconds) * time.Second,
		SessionFile:       strings.TrimSpace(raw.SessionFile),
		LogLevel:          strings.ToLower(strings.TrimSpace(raw.LogLevel)),
	}

	for _, u := range raw.AnalyzeURLs {
		u = strings.TrimSpace(u)
		if u != "" {
			cfg.AnalyzeURLs = append(cfg.AnalyzeURLs, u)
		}
	}
	if len(cfg.AnalyzeURLs) == 0 {
		cfg.AnalyzeURLs = DefaultAnalyzeURLs(cfg.BackendURL)
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultAnalyzeURLs returns the analyze candidates used when none are
// configured: the backend's own analyze route.
func DefaultAnalyzeURLs(backendURL string) []string {
	return []string{backendURL + "/analyze"}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("TEAMSCRIBE_BACKEND_URL must not be empty")
	}
	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		return fmt.Errorf("TEAMSCRIBE_BACKEND_URL is not a valid URL: %w", err)
	}
	for _, u := range c.AnalyzeURLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("analyze candidate %q is not a valid URL: %w", u, err)
		}
	}
	if c.LLMTimeout <= 0 {
		return errors.New("TEAMSCRIBE_LLM_TIMEOUT_SECONDS must be > 0")
	}
	if c.UserLookupTimeout <= 0 {
		return errors.New("TEAMSCRIBE_USER_LOOKUP_TIMEOUT_SECONDS must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("TEAMSCRIBE_REQUEST_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// defaultSessionFile places the session cookie under the user cache dir.
func defaultSessionFile() string {
	return filepath.Join(userCacheDir(), "teamscribe", "session.json")
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}
