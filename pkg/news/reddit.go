package news

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultRedditURL = "https://www.reddit.com"
	redditLimit      = 10
)

type RedditConfig struct {
	BaseURL     string
	Subreddit   string
	Query       string
	UserAgent   string
	InsecureTLS bool
	Timeout     time.Duration
}

// RedditClient searches one subreddit for a keyword. Reddit's public search
// endpoint needs no credentials, only a descriptive User-Agent.
type RedditClient struct {
	baseURL    string
	subreddit  string
	query      string
	userAgent  string
	httpClient *http.Client
}

func NewRedditClient(cfg RedditConfig) *RedditClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via REDDIT_INSECURE_TLS
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultRedditURL
	}

	return &RedditClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		subreddit:  cfg.Subreddit,
		query:      cfg.Query,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}
}

func (c *RedditClient) Name() string {
	return "Reddit"
}

func (c *RedditClient) Headlines(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("q", c.query)
	params.Set("restrict_sr", "on")
	params.Set("sort", "new")
	params.Set("limit", fmt.Sprint(redditLimit))

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(c.subreddit), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit fetch: unexpected status %d", resp.StatusCode)
	}

	var raw redditListing
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	titles := make([]string, 0, redditLimit)
	for _, child := range raw.Data.Children {
		title := strings.TrimSpace(child.Data.Title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == redditLimit {
			break
		}
	}

	return titles, nil
}

type redditListing struct {
	Data struct {
		Children []redditChild `json:"children"`
	} `json:"data"`
}

type redditChild struct {
	Data struct {
		Title string `json:"title"`
	} `json:"data"`
}
