package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/liamso/folio/content"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Markdown directory (default "content/articles")
	ContentDB  string `yaml:"content_db"`  // SQLite path; when set, articles are served from it

	CacheTTL       time.Duration `yaml:"cache_ttl"`       // Only used for stores that cannot report a version (default 5min)
	HighlightStyle string        `yaml:"highlight_style"` // chroma style for code blocks, empty disables
	RecentArticles int           `yaml:"recent_articles"` // Articles listed on the home page (default 5)
	RateLimit      int           `yaml:"rate_limit"`      // /api/ requests per IP per minute (default 60)
	LogLevel       string        `yaml:"log_level"`       // debug, info, warn, error (default "info")
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
	if c.ContentDir == "" {
		c.ContentDir = "content/articles"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.RecentArticles == 0 {
		c.RecentArticles = 5
	}
	if c.RateLimit == 0 {
		c.RateLimit = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads a YAML config file and applies environment overrides.
// A missing file is not an error when path is empty.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("folio: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("folio: parse config %s: %w", path, err)
		}
	} else if data, err := os.ReadFile("folio.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("folio: parse config folio.yaml: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("folio: read config: %w", err)
	}

	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("FOLIO_ADDR", cfg.Addr)
	cfg.ContentDir = EnvOr("FOLIO_CONTENT_DIR", cfg.ContentDir)
	cfg.ContentDB = EnvOr("FOLIO_CONTENT_DB", cfg.ContentDB)
	cfg.LogLevel = EnvOr("FOLIO_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("FOLIO_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("folio: FOLIO_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	cfg.setDefaults()
	return cfg, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

// WithLibrary serves articles from lib instead of the store named in SiteConfig.
func WithLibrary(lib content.Library) Option {
	return func(a *App) {
		a.Library = lib
	}
}

// WithCloser registers fn to run when the App is closed.
func WithCloser(fn func() error) Option {
	return func(a *App) {
		a.closers = append(a.closers, fn)
	}
}
