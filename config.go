package philofeed

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage drivers.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverFile   = "file"
)

// SiteConfig holds all configuration for a philofeed site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Filosofía")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr     string     `yaml:"addr"`      // Listen address (default ":3000")
	LogLevel slog.Level `yaml:"log_level"` // default info

	Storage StorageConfig `yaml:"storage"`

	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	Locale        string `yaml:"locale"`          // Record date locale (default "es_ES")
	MaxUploadSize int64  `yaml:"max_upload_size"` // Bytes read from an image (default 10MB)
	MaxImageWidth int    `yaml:"max_image_width"` // Downscale wider images; 0 keeps them as sent

	SubmitLimit  int           `yaml:"submit_limit"`  // POSTs per IP per window (default 10)
	SubmitWindow time.Duration `yaml:"submit_window"` // default 1m
}

// StorageConfig selects where the persistent slot lives.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "file"
	Path   string `yaml:"path"`   // default data/philofeed.db or data/userContents.json
	Key    string `yaml:"key"`    // SQLite slot key (default "userContents")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Filosofía"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverSQLite
	}
	if c.Storage.Path == "" {
		if c.Storage.Driver == StorageDriverFile {
			c.Storage.Path = "data/" + DefaultSlotKey + ".json"
		} else {
			c.Storage.Path = "data/philofeed.db"
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultSlotKey
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = defaultMaxUploadSize
	}
	if c.SubmitLimit == 0 {
		c.SubmitLimit = 10
	}
	if c.SubmitWindow == 0 {
		c.SubmitWindow = time.Minute
	}
}

// Validate fills unset fields with their defaults and validates the result.
func (c *SiteConfig) Validate() error {
	c.setDefaults()
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.SessionSecret, validation.Required),
		validation.Field(&c.MaxUploadSize, validation.Min(int64(1))),
		validation.Field(&c.MaxImageWidth, validation.Min(0)),
		validation.Field(&c.SubmitLimit, validation.Min(1)),
	); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// ValidateStorage fills defaults and checks only what offline maintenance
// commands need: the storage settings. No session secret is required.
func (c *SiteConfig) ValidateStorage() error {
	c.setDefaults()
	return c.Storage.Validate()
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StorageDriverSQLite, StorageDriverFile)),
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
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

// WithSlot overrides the slot built from Storage, e.g. for tests.
func WithSlot(s Slot) Option {
	return func(a *App) {
		a.slot = s
	}
}

// WithAppLogger replaces the JSON stdout logger.
func WithAppLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithPipelineOptions passes extra options to the upload pipeline.
func WithPipelineOptions(opts ...PipelineOption) Option {
	return func(a *App) {
		a.pipelineOpts = append(a.pipelineOpts, opts...)
	}
}
