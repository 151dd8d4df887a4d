package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raine/listing-genius/internal/llm"
)

const (
	AppName     = "listing-genius"
	EnvFileName = "config.env"

	defaultGenerateTimeout = 90 * time.Second
)

// RequiredBotEnvVars lists the environment variables the Telegram bot needs.
var RequiredBotEnvVars = []string{"BOT_TOKEN", "GEMINI_API_KEY", "ADMIN_TELEGRAM_ID"}

// Config holds settings read from the environment.
type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	BotToken        string
	AdminID         int64
	AllowedIDs      []int64
	GenerateTimeout time.Duration
}

// LLM returns the model provider configuration.
func (c Config) LLM() llm.Config {
	return llm.Config{APIKey: c.GeminiAPIKey, Model: c.GeminiModel}
}

// ConfigDir returns the application's config directory path.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	configDir := filepath.Join(configBase, AppName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigFilePath returns the full path to the config file.
func ConfigFilePath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, EnvFileName), nil
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
// Variables already set in the environment take precedence.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// FromEnv reads the configuration from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		GeminiAPIKey:    Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		GenerateTimeout: defaultGenerateTimeout,
	}

	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("ADMIN_TELEGRAM_ID must be a valid integer: %w", err)
		}
		cfg.AdminID = id
	}

	if s := os.Getenv("ALLOWED_TELEGRAM_IDS"); s != "" {
		ids, err := ParseIDList(s)
		if err != nil {
			return cfg, fmt.Errorf("ALLOWED_TELEGRAM_IDS %w", err)
		}
		cfg.AllowedIDs = ids
	}

	if s := os.Getenv("GENERATE_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return cfg, fmt.Errorf("GENERATE_TIMEOUT must be a duration like 90s: %w", err)
		}
		cfg.GenerateTimeout = d
	}

	return cfg, nil
}

// ParseIDList parses a comma-separated list of Telegram user IDs. Blank
// entries are skipped.
func ParseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("contains invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// legacyEnvVars maps a variable to an older name that is still accepted.
var legacyEnvVars = map[string]string{"GEMINI_API_KEY": "API_KEY"}

// Getenv returns the variable, falling back to its legacy name when unset.
func Getenv(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if legacy, ok := legacyEnvVars[name]; ok {
		return os.Getenv(legacy)
	}
	return ""
}

// MissingForBot returns the names of required bot variables that are not set.
// A variable set under its legacy name counts as present.
func MissingForBot() []string {
	var missing []string
	for _, v := range RequiredBotEnvVars {
		if Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	return missing
}
