package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const DefaultFeedURL = "https://timesofindia.indiatimes.com/rssfeeds/1898055.cms?feedtype=sjson"

const (
	FormatSJSON = "sjson"
	FormatRSS   = "rss"
)

// FeedClient reads a news feed either in the Times of India "sjson" shape
// ({"channel": {"item": [{"title": ...}]}}) or as RSS/Atom XML.
type FeedClient struct {
	url        string
	format     string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewFeedClient(feedURL, format string, timeout time.Duration) *FeedClient {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &FeedClient{
		url:        feedURL,
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
	}
}

func (c *FeedClient) Name() string {
	return "Feed"
}

func (c *FeedClient) Headlines(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, &FetchError{Source: c.Name(), Err: err}
	}

	if c.format == FormatRSS {
		return c.rssTitles(body)
	}
	return sjsonTitles(c.Name(), body)
}

func (c *FeedClient) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *FeedClient) rssTitles(body []byte) ([]string, error) {
	feed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: c.Name(), Err: err}
	}

	titles := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		titles = append(titles, item.Title)
	}
	return titles, nil
}

// sjsonTitles walks the decoded document by hand so that a missing channel,
// item list or title is reported as a ParseError rather than silently zeroed.
func sjsonTitles(source string, body []byte) ([]string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseError{Source: source, Err: errors.New("feed is not an object")}
	}

	channel, ok := root["channel"].(map[string]any)
	if !ok {
		return nil, &ParseError{Source: source, Err: errors.New("missing channel")}
	}

	items, ok := channel["item"].([]any)
	if !ok {
		return nil, &ParseError{Source: source, Err: errors.New("missing channel.item")}
	}

	titles := make([]string, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("item %d is not an object", i)}
		}
		title, ok := item["title"].(string)
		if !ok {
			return nil, &ParseError{Source: source, Err: fmt.Errorf("item %d has no title", i)}
		}
		titles = append(titles, title)
	}

	return titles, nil
}
