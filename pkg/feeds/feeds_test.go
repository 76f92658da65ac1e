package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachitx/ai-news-digest/pkg/config"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Fresh &amp; Important</title>
      <link>https://example.com/fresh</link>
      <description>&lt;p&gt;A fresh   article about LLM inference.&lt;/p&gt;</description>
      <category>research</category>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Stale Item</title>
      <link>https://example.com/stale</link>
      <description>Old news.</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	fresh := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC1123Z)
	stale := time.Now().UTC().Add(-90 * 24 * time.Hour).Format(time.RFC1123Z)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, fresh, stale)
	}))
}

func TestFetchAll(t *testing.T) {
	server := feedServer(t)
	defer server.Close()

	f := NewWithConfig(FetcherConfig{
		Sources:   []config.Source{{Name: "Test Feed", URL: server.URL}},
		Lookback:  25 * time.Hour,
		RateLimit: 50,
	})

	items, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Fresh & Important", item.Title)
	assert.Equal(t, "https://example.com/fresh", item.URL)
	assert.Equal(t, "Test Feed", item.Source)
	assert.Equal(t, "research", item.Category)
	assert.Equal(t, "A fresh article about LLM inference.", item.Content)
	assert.NotEmpty(t, item.ID)
}

func TestFetchAllSkipsBrokenSource(t *testing.T) {
	server := feedServer(t)
	defer server.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := NewWithConfig(FetcherConfig{
		Sources: []config.Source{
			{Name: "Broken", URL: broken.URL},
			{Name: "Test Feed", URL: server.URL},
		},
		RateLimit: 50,
	})

	items, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFetchAllAllSourcesFailed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := NewWithConfig(FetcherConfig{
		Sources:   []config.Source{{Name: "Broken", URL: broken.URL}},
		RateLimit: 50,
	})

	_, err := f.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>tagged</p>", "tagged"},
		{"a &amp; b", "a & b"},
		{"  spaced \n\t out  ", "spaced out"},
		{"<div><a href=\"x\">link</a> text</div>", "link text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestBuildItemIDDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := BuildItemID("Title", "https://example.com/a", ts)
	b := BuildItemID("Title", "https://example.com/a", ts)
	c := BuildItemID("Title", "https://example.com/b", ts)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 40)
}
