package config

import (
	"log/slog"
	"testing"
	"time"

	"gstskill/pkg/news"

	"github.com/go-playground/assert/v2"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{
		"PORT", "ASK_VERIFY_REQUESTS", "ALEXA_APPLICATION_ID", "GST_RATES_CSV", "DATABASE_URL",
		"REDIS_URL", "NEWS_CACHE_TTL", "NEWS_TIMEOUT", "NEWS_FEED_URL", "NEWS_FEED_FORMAT",
		"NEWS_KEYWORD", "REDDIT_ENABLED", "REDDIT_URL", "REDDIT_SUBREDDIT", "REDDIT_USER_AGENT",
		"REDDIT_INSECURE_TLS", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, true, cfg.VerifyRequests)
	assert.Equal(t, "gst-rates.csv", cfg.RatesCSV)
	assert.Equal(t, 5*time.Minute, cfg.NewsCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.NewsTimeout)
	assert.Equal(t, news.DefaultFeedURL, cfg.NewsFeedURL)
	assert.Equal(t, news.FormatSJSON, cfg.NewsFeedFormat)
	assert.Equal(t, "gst", cfg.NewsKeyword)
	assert.Equal(t, true, cfg.Reddit.Enabled)
	assert.Equal(t, "india", cfg.Reddit.Subreddit)
	assert.Equal(t, false, cfg.Reddit.InsecureTLS)
	assert.Equal(t, 0, len(cfg.CORSAllowedOrigins))
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_VerifyToggle(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"false", false},
		{"FALSE", false},
		{" False ", false},
		{"true", true},
		{"0", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ASK_VERIFY_REQUESTS", tt.value)
			cfg, err := Load()
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, cfg.VerifyRequests)
		})
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("NEWS_CACHE_TTL", "soon")
	t.Setenv("REDDIT_ENABLED", "maybe")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 5*time.Minute, cfg.NewsCacheTTL)
	assert.Equal(t, true, cfg.Reddit.Enabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NEWS_FEED_FORMAT", "RSS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://console.example.com,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDDIT_ENABLED", "false")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, news.FormatRSS, cfg.NewsFeedFormat)
	assert.Equal(t, []string{"http://localhost:3000", "https://console.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, false, cfg.Reddit.Enabled)
}

func TestLoad_RejectsUnknownFeedFormat(t *testing.T) {
	t.Setenv("NEWS_FEED_FORMAT", "atom-ish")

	_, err := Load()

	assert.NotEqual(t, nil, err)
}
