package app

import (
	"context"
	"fmt"
	"log/slog"

	"gstskill/db"
	"gstskill/internal/config"
	"gstskill/internal/repository"
	"gstskill/internal/skill"
	"gstskill/pkg/news"
	"gstskill/pkg/rates"
)

// App holds the components shared by the webhook server and the CLI.
type App struct {
	Config    *config.Config
	Rates     *rates.Table
	News      *news.Fetcher
	Templates *skill.Templates
	Router    *skill.Router
}

// New wires the skill from cfg. The returned close func releases the
// database and Redis connections it opened.
func New(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	source, err := rateSource(cfg)
	if err != nil {
		return nil, closeAll, err
	}
	if cfg.DatabaseURL != "" {
		closers = append(closers, db.Close)
	}

	var cache news.Cache
	if cfg.RedisURL != "" {
		if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			slog.Warn("redis unavailable, headline cache disabled", "error", err)
		} else {
			cache = news.NewRedisCache(db.Redis)
			slog.Info("headline cache enabled", "ttl", cfg.NewsCacheTTL)
		}
		closers = append(closers, db.CloseRedis)
	}

	templates, err := skill.DefaultTemplates()
	if err != nil {
		return nil, closeAll, err
	}

	table := rates.NewTable(source)
	fetcher := newsFetcher(cfg, cache)

	return &App{
		Config:    cfg,
		Rates:     table,
		News:      fetcher,
		Templates: templates,
		Router:    skill.NewRouter(table, fetcher, templates, nil),
	}, closeAll, nil
}

func rateSource(cfg *config.Config) (rates.Source, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using csv rate source", "path", cfg.RatesCSV)
		return rates.NewCSVSource(cfg.RatesCSV), nil
	}

	if err := db.Connect(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to DB: %w", err)
	}
	slog.Info("using postgres rate source")
	return repository.NewRateRepository(db.DB), nil
}

func newsFetcher(cfg *config.Config, cache news.Cache) *news.Fetcher {
	var fallback news.HeadlineSource = news.NewFeedClient(cfg.NewsFeedURL, cfg.NewsFeedFormat, cfg.NewsTimeout)
	if cache != nil {
		fallback = news.NewCachedSource(fallback, cache, cfg.NewsCacheTTL)
	}

	var primary news.HeadlineSource
	if cfg.Reddit.Enabled {
		primary = news.NewRedditClient(news.RedditConfig{
			BaseURL:     cfg.Reddit.URL,
			Subreddit:   cfg.Reddit.Subreddit,
			Query:       cfg.NewsKeyword,
			UserAgent:   cfg.Reddit.UserAgent,
			InsecureTLS: cfg.Reddit.InsecureTLS,
			Timeout:     cfg.NewsTimeout,
		})
		if cache != nil {
			primary = news.NewCachedSource(primary, cache, cfg.NewsCacheTTL)
		}
	}

	return news.NewFetcher(primary, fallback, cfg.NewsKeyword, nil)
}
