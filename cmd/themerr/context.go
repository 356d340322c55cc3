package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"themerr/internal/config"
	"themerr/internal/database"
	"themerr/internal/fetch"
	"themerr/internal/logging"
	"themerr/internal/pipeline"
	"themerr/internal/providers/igdb"
	"themerr/internal/providers/tmdb"
	"themerr/internal/ratelimit"
	"themerr/internal/report"
	"themerr/internal/youtube"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime bundles the wired components one run needs. Clients are built per
// invocation; nothing here is shared across commands.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *database.Store
	reporter *report.Writer
	resolver *pipeline.Resolver
	youtube  *youtube.Client
}

func (c *commandContext) buildRuntime(needYouTube bool) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var outputs []string
	if cfg.Paths.LogDir != "" {
		outputs = []string{"stdout", filepath.Join(cfg.Paths.LogDir, "themerr.log")}
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(
		fetch.WithMaxAttempts(cfg.Updater.MaxAttempts),
		fetch.WithLogger(logger),
	)

	igdbLimiter, err := ratelimit.New(cfg.IGDB.RequestsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("igdb rate limit: %w", err)
	}
	tmdbLimiter, err := ratelimit.New(cfg.TMDB.RequestsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("tmdb rate limit: %w", err)
	}

	igdbClient, err := igdb.New(cfg.IGDB.ClientID, cfg.IGDB.ClientSecret, cfg.IGDB.BaseURL, cfg.IGDB.TokenURL,
		igdb.WithFetchClient(fetcher),
		igdb.WithLimiter(igdbLimiter),
	)
	if err != nil {
		return nil, fmt.Errorf("igdb client: %w (set igdb.client_id and igdb.client_secret, or export TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET)", err)
	}
	tmdbClient, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL,
		tmdb.WithFetchClient(fetcher),
		tmdb.WithLimiter(tmdbLimiter),
	)
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w (set tmdb.api_key or export TMDB_API_KEY)", err)
	}

	var youtubeClient *youtube.Client
	if needYouTube {
		youtubeLimiter, err := ratelimit.New(cfg.YouTube.RequestsPerSecond)
		if err != nil {
			return nil, fmt.Errorf("youtube rate limit: %w", err)
		}
		youtubeClient, err = youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL,
			youtube.WithFetchClient(fetcher),
			youtube.WithLimiter(youtubeLimiter),
		)
		if err != nil {
			return nil, fmt.Errorf("youtube client: %w (set youtube.api_key or export YOUTUBE_API_KEY)", err)
		}
	}

	store := database.NewStore(cfg.Paths.DatabaseDir, logger)
	return &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		reporter: report.NewWriter(cfg.Paths.ReportDir, logger),
		resolver: pipeline.NewResolver(igdbClient, tmdbClient, store, logger),
		youtube:  youtubeClient,
	}, nil
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
