package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/application/settings"
	"github.com/tesso57/sutra/internal/infrastructure/ai/codexcli"
	"github.com/tesso57/sutra/internal/infrastructure/devserver"
)

// ServeCmd runs the development API server until interrupted.
type ServeCmd struct {
	Addr   string `help:"Listen address, overrides server.addr"`
	DBFile string `name:"db" help:"Server database path, overrides server.db_file" type:"path"`
}

func (c *ServeCmd) Run(ctx context.Context, app *App) error {
	cfg := app.Settings.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.DBFile != "" {
		cfg.DBFile = c.DBFile
	}

	db, err := devserver.OpenDB(cfg.DBFile)
	if err != nil {
		return fmt.Errorf("open server database: %w", err)
	}
	defer func() { _ = db.Close() }()

	fetchEvery, cleanupEvery := cfg.Intervals()
	srv := devserver.New(devserver.NewStore(db), generators(app.Settings, app.Logger), devserver.Config{
		ItemsPerRefresh: cfg.ItemsPerRefresh,
		FeedLimit:       cfg.FeedLimit,
		FetchInterval:   fetchEvery,
		CleanupInterval: cleanupEvery,
		Retention:       cfg.Retention(),
	}, app.Logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.RunScheduler(ctx)
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// generators routes internet feeds to the search feed and AI content to
// Codex when it is enabled. Everything else falls back to offline content.
func generators(cfg settings.Settings, logger zerolog.Logger) devserver.Sources {
	sources := devserver.Sources{
		Internet: devserver.FeedGenerator{
			URL:     cfg.Server.FeedURL,
			Timeout: cfg.API.Timeout(),
		},
		Fallback: devserver.OfflineGenerator{Now: func() time.Time { return time.Now().UTC() }},
		Logger:   logger,
	}
	if cfg.Codex.Enabled {
		sources.AI = devserver.PromptGenerator{Client: codexcli.NewClient(codexcli.ConfigFromSettings(cfg.Codex))}
		logger.Info().Str("model", cfg.Codex.Model).Msg("ai content via codex")
	}
	return sources
}
