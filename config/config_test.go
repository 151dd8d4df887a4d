package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, v := range []string{"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "BOT_TOKEN", "ADMIN_TELEGRAM_ID", "ALLOWED_TELEGRAM_IDS", "GENERATE_TIMEOUT"} {
		t.Setenv(v, "")
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")
	t.Setenv("ALLOWED_TELEGRAM_IDS", "7, 8,,9")
	t.Setenv("GENERATE_TIMEOUT", "2m")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, Config{
		GeminiAPIKey:    "gemini-key",
		GeminiModel:     "gemini-2.5-pro",
		BotToken:        "123:abc",
		AdminID:         42,
		AllowedIDs:      []int64{7, 8, 9},
		GenerateTimeout: 2 * time.Minute,
	}, cfg)
	assert.Equal(t, "gemini-key", cfg.LLM().APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM().Model)
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, 90*time.Second, cfg.GenerateTimeout)
	assert.Nil(t, cfg.AllowedIDs)
}

func TestFromEnv_LegacyAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"ADMIN_TELEGRAM_ID":    "admin",
		"ALLOWED_TELEGRAM_IDS": "1,two",
		"GENERATE_TIMEOUT":     "90",
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, value)

			_, err := FromEnv()
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestMissingForBot(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	assert.Equal(t, []string{"GEMINI_API_KEY", "ADMIN_TELEGRAM_ID"}, MissingForBot())
}

func TestMissingForBot_LegacyAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "1")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Empty(t, MissingForBot())
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 7, 8,,9 ,")
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9}, ids)

	ids, err = ParseIDList(" , ")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIDList("1,two")
	assert.ErrorContains(t, err, `"two"`)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	path, err := ConfigFilePath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=\"from-file\"\n"), 0600))

	// godotenv does not override variables that are already set, and
	// t.Setenv("", ...) counts as set, so unset it for this test.
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	LoadEnvFile()
	defer os.Unsetenv("GEMINI_API_KEY")

	assert.Equal(t, "from-file", os.Getenv("GEMINI_API_KEY"))
	assert.Equal(t, filepath.Join(dir, AppName, EnvFileName), path)
}
