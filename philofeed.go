// Package philofeed is a small content service for a single-page philosophy
// site built with Go, Echo, and templ. Visitors submit titled, categorized
// text and image content; it is kept in a four-category store mirrored to a
// single persistent slot and rendered into per-category feeds.
package philofeed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/philofeed/views"
)

const shutdownTimeout = 10 * time.Second

// App is the central philofeed application. It wires together the slot,
// store, upload pipeline, renderer, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *ContentStore
	Pipeline *Pipeline
	Renderer *Renderer
	Logger   *slog.Logger

	slot          Slot
	submitLimiter *RateLimiter
	pipelineOpts  []PipelineOption
	customRoutes  []func(*App)
	staticDir     string
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}

	return a
}

// Init opens storage, hydrates the store, and registers middleware and
// routes. Start calls it; tests call it directly to drive a.Echo.
func (a *App) Init(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("philofeed: invalid config: %w", err)
	}

	if a.slot == nil {
		slot, err := OpenSlot(a.Config.Storage)
		if err != nil {
			return fmt.Errorf("philofeed: open slot: %w", err)
		}
		a.slot = slot
	}

	a.Store = NewContentStore(a.slot, a.Logger)
	if err := a.Store.Hydrate(ctx); err != nil {
		// Unreadable data is not fatal: the site starts empty and the
		// next successful write replaces the slot.
		a.Logger.Warn("philofeed: hydrate failed", slog.String("error", err.Error()))
	}

	pipelineOpts := []PipelineOption{
		WithLocale(a.Config.Locale),
		WithMaxUploadSize(a.Config.MaxUploadSize),
		WithMaxImageWidth(a.Config.MaxImageWidth),
		WithLogger(a.Logger),
	}
	a.Pipeline = NewPipeline(a.Store, append(pipelineOpts, a.pipelineOpts...)...)
	a.Renderer = NewRenderer(a.Store)
	a.submitLimiter = NewRateLimiter(a.Config.SubmitLimit, a.Config.SubmitWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.Logger.Info("philofeed: initialized",
		slog.String("addr", a.Config.Addr),
		slog.String("storage_driver", a.Config.Storage.Driver),
		slog.String("storage_path", a.Config.Storage.Path),
		slog.Int("records", a.Store.Len()))
	return nil
}

// Start initializes the app and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("philofeed: listening", slog.String("addr", a.Config.Addr))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Logger.Info("philofeed: shutting down")
		return a.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed/:category/", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/section/:id/", a.handleSection)
	e.GET("/category/:category/", a.handleCategory)

	submit := a.rateLimit(a.submitLimiter)
	e.POST("/upload/", a.handleUpload, submit)
	e.GET("/content/:category/:id/delete/", a.handleConfirmDelete)
	e.POST("/content/:category/:id/delete/", a.handleDelete)
	e.DELETE("/content/:category/:id/", a.handleDeleteFragment)

	e.POST("/search/", a.handleSearch)
	e.POST("/newsletter/", a.handleNewsletter, submit)

	e.GET("/api/contents/", a.handleAPIContents)
	e.GET("/api/contents/:category/", a.handleAPICategory)
}

// Close stops the rate limiter and releases the slot.
func (a *App) Close() error {
	if a.submitLimiter != nil {
		a.submitLimiter.Stop()
	}
	if a.slot != nil {
		return a.slot.Close()
	}
	return nil
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
