package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func redditPayload(titles ...string) map[string]interface{} {
	children := make([]map[string]interface{}, 0, len(titles))
	for _, title := range titles {
		children = append(children, map[string]interface{}{
			"kind": "t3",
			"data": map[string]interface{}{"title": title},
		})
	}
	return map[string]interface{}{
		"kind": "Listing",
		"data": map[string]interface{}{"children": children},
	}
}

func TestRedditHeadlines(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(redditPayload("GST on hostels explained", "  ", "New GST slab for cement"))
	}))
	defer srv.Close()

	client := NewRedditClient(RedditConfig{
		BaseURL:   srv.URL,
		Subreddit: "india",
		Query:     "gst",
		UserAgent: "gst-skill-test/1.0",
		Timeout:   time.Second,
	})

	titles, err := client.Headlines(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"GST on hostels explained", "New GST slab for cement"}, titles)
	assert.Equal(t, "/r/india/search.json", gotPath)
	assert.Equal(t, "limit=10&q=gst&restrict_sr=on&sort=new", gotQuery)
	assert.Equal(t, "gst-skill-test/1.0", gotUA)
}

func TestRedditHeadlines_CapsAtTen(t *testing.T) {
	titles := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		titles = append(titles, fmt.Sprintf("GST headline %d", i))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(redditPayload(titles...))
	}))
	defer srv.Close()

	client := NewRedditClient(RedditConfig{BaseURL: srv.URL, Subreddit: "india", Query: "gst", Timeout: time.Second})

	got, err := client.Headlines(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 10, len(got))
	assert.Equal(t, "GST headline 9", got[9])
}

func TestRedditHeadlines_DefaultHost(t *testing.T) {
	var gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		json.NewEncoder(w).Encode(redditPayload("GST"))
	}))
	defer srv.Close()

	client := NewRedditClient(RedditConfig{Subreddit: "india", Query: "gst", Timeout: time.Second})
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	_, err := client.Headlines(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, "www.reddit.com", gotHost)
}

func TestRedditHeadlines_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewRedditClient(RedditConfig{BaseURL: srv.URL, Subreddit: "india", Query: "gst", Timeout: time.Second})

	_, err := client.Headlines(context.Background())

	assert.NotEqual(t, nil, err)
}

// rewriteTransport redirects all requests to a fixed base URL (test server)
// while keeping the original Host header.
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.Host = req.URL.Host
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
