package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gstskill/pkg/news"
)

type Config struct {
	Port               string
	VerifyRequests     bool
	ApplicationID      string
	RatesCSV           string
	DatabaseURL        string
	RedisURL           string
	NewsCacheTTL       time.Duration
	NewsTimeout        time.Duration
	NewsFeedURL        string
	NewsFeedFormat     string
	NewsKeyword        string
	Reddit             RedditConfig
	CORSAllowedOrigins []string
	LogLevel           slog.Level
}

type RedditConfig struct {
	Enabled     bool
	URL         string
	Subreddit   string
	UserAgent   string
	InsecureTLS bool
}

// Load reads the environment. Callers run godotenv.Load first so a .env
// file can supply any of these.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		VerifyRequests: !strings.EqualFold(strings.TrimSpace(os.Getenv("ASK_VERIFY_REQUESTS")), "false"),
		ApplicationID:  os.Getenv("ALEXA_APPLICATION_ID"),
		RatesCSV:       getEnv("GST_RATES_CSV", "gst-rates.csv"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		NewsCacheTTL:   getDuration("NEWS_CACHE_TTL", 5*time.Minute),
		NewsTimeout:    getDuration("NEWS_TIMEOUT", 10*time.Second),
		NewsFeedURL:    getEnv("NEWS_FEED_URL", news.DefaultFeedURL),
		NewsFeedFormat: strings.ToLower(getEnv("NEWS_FEED_FORMAT", news.FormatSJSON)),
		NewsKeyword:    getEnv("NEWS_KEYWORD", news.DefaultKeyword),
		Reddit: RedditConfig{
			Enabled:     getBool("REDDIT_ENABLED", true),
			URL:         getEnv("REDDIT_URL", news.DefaultRedditURL),
			Subreddit:   getEnv("REDDIT_SUBREDDIT", "india"),
			UserAgent:   getEnv("REDDIT_USER_AGENT", "gst-skill/1.0"),
			InsecureTLS: getBool("REDDIT_INSECURE_TLS", false),
		},
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.NewsFeedFormat != news.FormatSJSON && cfg.NewsFeedFormat != news.FormatRSS {
		return nil, fmt.Errorf("NEWS_FEED_FORMAT must be %q or %q, got %q", news.FormatSJSON, news.FormatRSS, cfg.NewsFeedFormat)
	}

	if cfg.NewsTimeout <= 0 {
		return nil, fmt.Errorf("NEWS_TIMEOUT must be positive, got %s", cfg.NewsTimeout)
	}

	return cfg, nil
}

func getEnv(name, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(name string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration, using default", "env", name, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getBool(name string, defaultValue bool) bool {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean, using default", "env", name, "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getList(name string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getLevel(name string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		slog.Warn("invalid log level, using default", "env", name, "value", value, "default", defaultValue)
		return defaultValue
	}
	return level
}
