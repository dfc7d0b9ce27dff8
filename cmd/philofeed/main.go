package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/eringen/philofeed"
	pkgconfig "github.com/eringen/philofeed/pkg/config"
)

// version is set at build time via ldflags.
var version = "dev"

// envConfig seeds the config from the environment; the YAML file, if any,
// is overlaid on top.
func envConfig() *philofeed.SiteConfig {
	cfg := &philofeed.SiteConfig{
		URL:           os.Getenv("SITE_URL"),
		Addr:          os.Getenv("ADDR"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
	cfg.Storage.Path = os.Getenv("DATABASE_PATH")
	return cfg
}

func logMissing(found bool, path string) {
	if !found {
		slog.Info("config file not found, using environment", slog.String("path", path))
	}
}

// loadConfig loads and fully validates the server configuration.
func loadConfig(cmd *cli.Command) (*philofeed.SiteConfig, error) {
	cfg := envConfig()
	path := cmd.String("config")
	found, err := pkgconfig.LoadOptional(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	logMissing(found, path)
	return cfg, nil
}

// loadStorageConfig is loadConfig for offline commands, which only touch
// the slot and so do not need a session secret.
func loadStorageConfig(cmd *cli.Command) (*philofeed.SiteConfig, error) {
	cfg := envConfig()
	path := cmd.String("config")
	found, err := pkgconfig.ReadOptional(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	logMissing(found, path)
	if err := cfg.ValidateStorage(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app := philofeed.New(*cfg)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// openStore hydrates a store from the configured slot without starting the
// HTTP server. Unreadable slot data is logged and the store starts empty,
// as it does for serve, so import can replace it. The caller closes the
// returned slot.
func openStore(ctx context.Context, cmd *cli.Command) (*philofeed.ContentStore, philofeed.Slot, error) {
	cfg, err := loadStorageConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	slot, err := philofeed.OpenSlot(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open slot: %w", err)
	}
	store := philofeed.NewContentStore(slot, slog.Default())
	if err := store.Hydrate(ctx); err != nil {
		if !errors.Is(err, philofeed.ErrStorageRead) {
			slot.Close()
			return nil, nil, err
		}
		slog.Warn("stored content unreadable, starting empty", slog.String("error", err.Error()))
	}
	return store, slot, nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func export(ctx context.Context, cmd *cli.Command) error {
	store, slot, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer slot.Close()

	enc := json.NewEncoder(output(cmd))
	enc.SetIndent("", "  ")
	return enc.Encode(store.Snapshot())
}

func restore(ctx context.Context, cmd *cli.Command) error {
	file := cmd.Args().First()
	if file == "" {
		return fmt.Errorf("usage: philofeed import <file.json>")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	store, slot, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer slot.Close()

	if err := store.Restore(ctx, data); err != nil {
		return err
	}
	slog.Info("import complete", slog.String("file", file), slog.Int("records", store.Len()))
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "philofeed",
		Usage:  "Philosophy site with categorized, user-submitted content",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:   "export",
				Usage:  "Print the stored content as JSON",
				Action: export,
			},
			{
				Name:      "import",
				Usage:     "Replace the stored content with a JSON snapshot",
				ArgsUsage: "<file.json>",
				Action:    restore,
			},
			{
				Name:  "version",
				Usage: "Print the philofeed version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(output(cmd), "philofeed %s\n", version)
					return nil
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
