package seotag

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable LoadConfig reads.
const EnvPrefix = "SEOTAG_"

// SiteConfig holds all configuration for a seotag site.
type SiteConfig struct {
	Name         string `koanf:"name"`                           // Site name (default "Blog")
	URL          string `koanf:"url" validate:"omitempty,url"`   // Canonical site URL (default "http://localhost:3000")
	BaseURL      string `koanf:"base_url"`                       // Path prefix the site is served under
	Description  string `koanf:"description"`                    // Site description for RSS and meta tags
	Author       string `koanf:"author"`                         // Author name for JSON-LD
	Twitter      string `koanf:"twitter"`                        // twitter:site handle, without "@"
	DefaultImage string `koanf:"default_image"`                  // Image used when a page sets none

	Addr         string `koanf:"addr"`          // Listen address (default ":3000")
	DatabasePath string `koanf:"database_path"` // SQLite path (default "data/blog.db")
	LogLevel     string `koanf:"log_level"`     // debug, info, warn or error (default "info")

	AdminPassword string `koanf:"admin_password" validate:"required"` // Required: admin login password
	SessionSecret string `koanf:"session_secret" validate:"required"` // Required: session encryption secret
	CookieSecure  bool   `koanf:"cookie_secure"`                      // Set true for HTTPS

	PageCacheSize int           `koanf:"page_cache_size"` // Cached pages (default 256)
	PageCacheTTL  time.Duration `koanf:"page_cache_ttl"`  // Page cache TTL (default 5min)
}

// DefaultConfig returns a SiteConfig with every default applied.
func DefaultConfig() SiteConfig {
	var c SiteConfig
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PageCacheSize <= 0 {
		c.PageCacheSize = 256
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
}

// Validate checks the fields a running server needs.
func (c SiteConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("seotag: config: %w", err)
	}
	return nil
}

// LoadConfig reads defaults, then an optional .env file at envFile, then
// SEOTAG_* environment variables. The prefix is stripped and the rest is
// lowercased, so SEOTAG_BASE_URL sets "base_url"; see envKey for the SITE_
// aliases such as SEOTAG_SITE_URL for "url".
func LoadConfig(envFile string) (SiteConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("seotag: load %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("seotag: load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key), value
		},
	}), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("seotag: load env: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("seotag: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// envKey maps SEOTAG_SITE_URL style names to config keys. SITE_ is accepted
// as an alias prefix so SEOTAG_SITE_NAME and SEOTAG_NAME both set "name".
func envKey(key string) string {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	switch k {
	case "site_url":
		return "url"
	case "site_name":
		return "name"
	case "site_description":
		return "description"
	case "site_author":
		return "author"
	}
	return k
}

// ParseLogLevel converts a config level name into a log.Level, defaulting to info.
func ParseLogLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the App's logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithStore uses an already opened store instead of opening Config.DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
