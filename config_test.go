package seotag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, 256, cfg.PageCacheSize)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SEOTAG_SITE_URL", "https://site.example/")
	t.Setenv("SEOTAG_BASE_URL", "/docs")
	t.Setenv("SEOTAG_DEFAULT_IMAGE", "/assets/card.png")
	t.Setenv("SEOTAG_COOKIE_SECURE", "true")
	t.Setenv("SEOTAG_PAGE_CACHE_TTL", "30s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://site.example", cfg.URL)
	assert.Equal(t, "/docs", cfg.BaseURL)
	assert.Equal(t, "/assets/card.png", cfg.DefaultImage)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.PageCacheTTL)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SEOTAG_SITE_URL":         "url",
		"SEOTAG_URL":              "url",
		"SEOTAG_SITE_NAME":        "name",
		"SEOTAG_BASE_URL":         "base_url",
		"SEOTAG_PAGE_CACHE_SIZE":  "page_cache_size",
		"SEOTAG_SITE_DESCRIPTION": "description",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEOTAG_NAME=From File\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SEOTAG_NAME") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.Name)
}

func TestLoadConfigMissingDotEnv(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())

	cfg.AdminPassword = "pw"
	cfg.SessionSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.URL = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, log.InfoLevel, ParseLogLevel("bogus"))
}
