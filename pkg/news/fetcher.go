package news

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
)

const (
	DefaultKeyword  = "gst"
	headlineDivider = "; "
)

// Fetcher tries the primary source first and falls back to the feed. A
// primary failure is only logged; fallback failures are returned.
type Fetcher struct {
	primary  HeadlineSource
	fallback HeadlineSource
	keyword  string
	intn     func(n int) int
}

// NewFetcher builds a two-tier fetcher. primary may be nil, intn defaults to
// math/rand.Intn.
func NewFetcher(primary, fallback HeadlineSource, keyword string, intn func(n int) int) *Fetcher {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &Fetcher{
		primary:  primary,
		fallback: fallback,
		keyword:  keyword,
		intn:     intn,
	}
}

// Headline returns one random primary headline, or every fallback headline
// mentioning the keyword joined by "; ". An empty string with a nil error
// means the fallback had no matching news.
func (f *Fetcher) Headline(ctx context.Context) (string, error) {
	if f.primary != nil {
		titles, err := f.primary.Headlines(ctx)
		switch {
		case err != nil:
			slog.Warn("primary news source failed, falling back", "source", f.primary.Name(), "error", err)
		case len(titles) == 0:
			slog.Info("primary news source returned no headlines, falling back", "source", f.primary.Name())
		default:
			return titles[f.intn(len(titles))], nil
		}
	}

	titles, err := f.fallback.Headlines(ctx)
	if err != nil {
		slog.Error("fallback news source failed", "source", f.fallback.Name(), "error", err)
		return "", err
	}

	return strings.Join(MatchHeadlines(titles, f.keyword), headlineDivider), nil
}

// MatchHeadlines keeps titles containing keyword, ignoring case, in order.
func MatchHeadlines(titles []string, keyword string) []string {
	keyword = strings.ToLower(keyword)

	var matched []string
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), keyword) {
			matched = append(matched, title)
		}
	}
	return matched
}
