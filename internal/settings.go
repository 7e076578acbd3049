package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment-provided defaults
type Env struct {
	Endpoint       string `env:"RAG_ENDPOINT"`
	APIKey         string `env:"RAG_API_KEY"`
	Streaming      bool   `env:"RAG_STREAMING" envDefault:"false"`
	TimeoutSeconds int    `env:"RAG_TIMEOUT_SECONDS" envDefault:"30"`
	HistoryLimit   int    `env:"RAG_HISTORY_LIMIT" envDefault:"20"`

	Storage string `env:"RAGCHAT_STORAGE"`
	Lang    string `env:"RAGCHAT_LANG" envDefault:"es"`
	Theme   string `env:"RAGCHAT_THEME" envDefault:"dark"`

	LogLevel string `env:"RAGCHAT_LOG_LEVEL"`
}

// LoadEnv parses the environment
func LoadEnv() (*Env, error) {
	cfg := &Env{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Settings is the persisted connection configuration
type Settings struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	APIKey         string `json:"apiKey" yaml:"api_key"`
	Streaming      bool   `json:"enableStreaming" yaml:"streaming"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty" yaml:"timeout_seconds,omitempty"`
	HistoryLimit   int    `json:"historyLimit,omitempty" yaml:"history_limit,omitempty"`
}

// SettingKeys lists the fields accepted by Settings.Set
var SettingKeys = []string{"endpoint", "api-key", "streaming", "timeout", "history-limit"}

// DefaultSettings builds settings from environment defaults
func DefaultSettings(e *Env) Settings {
	if e == nil {
		return Settings{TimeoutSeconds: 30, HistoryLimit: DefaultHistoryLimit}
	}
	return Settings{
		Endpoint:       e.Endpoint,
		APIKey:         e.APIKey,
		Streaming:      e.Streaming,
		TimeoutSeconds: e.TimeoutSeconds,
		HistoryLimit:   e.HistoryLimit,
	}
}

// LoadSettings overlays whatever was persisted on top of defaults
func LoadSettings(store *Store, defaults Settings) Settings {
	s := defaults
	raw, ok := store.Get(KeySettings)
	if !ok {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		configLog.Warnf("Ignoring invalid persisted settings: %v", err)
		return defaults
	}
	return s
}

// SaveSettings persists s
func SaveSettings(store *Store, s Settings) {
	store.SaveJSON(KeySettings, s)
}

// Timeout returns the request timeout
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Limit returns the history limit
func (s Settings) Limit() int {
	if s.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return s.HistoryLimit
}

// Offline reports whether requests are answered by the local stand-in
func (s Settings) Offline() bool {
	return strings.TrimSpace(s.Endpoint) == ""
}

// Set returns a copy of s with one field changed
func (s Settings) Set(key, value string) (Settings, error) {
	switch key {
	case "endpoint":
		s.Endpoint = strings.TrimSpace(value)
	case "api-key":
		s.APIKey = strings.TrimSpace(value)
	case "streaming":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("invalid streaming value %q: %w", value, err)
		}
		s.Streaming = b
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("invalid timeout %q: want a positive number of seconds", value)
		}
		s.TimeoutSeconds = n
	case "history-limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("invalid history limit %q: want a positive integer", value)
		}
		s.HistoryLimit = n
	default:
		return s, fmt.Errorf("unknown setting %q (supported: %s)", key, strings.Join(SettingKeys, ", "))
	}
	return s, nil
}

// MaskedAPIKey hides all but the last four characters of the key
func (s Settings) MaskedAPIKey() string {
	if s.APIKey == "" {
		return ""
	}
	if len(s.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s.APIKey)-4) + s.APIKey[len(s.APIKey)-4:]
}
