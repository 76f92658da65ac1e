package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraperConfig(t *testing.T) {
	config := ScraperConfig{
		RateLimit: 1.0,
		Timeout:   10 * time.Second,
		UserAgent: "test-agent",
	}

	s := NewWithConfig(config)
	assert.Equal(t, config.RateLimit, s.config.RateLimit)
	assert.Equal(t, config.Timeout, s.config.Timeout)

	defaults := New()
	assert.Equal(t, 30*time.Second, defaults.config.Timeout)
	assert.Equal(t, 2.0, defaults.config.RateLimit)
}

func TestExtractContentWithMockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<html>
				<head><title>Test Page</title><script>var x = 1;</script></head>
				<body>
					<nav>Navigation junk</nav>
					<main>
						<h1>Release Notes</h1>
						<p>This release improves the model.</p>
					</main>
					<footer>Privacy Policy</footer>
				</body>
			</html>
		`))
	}))
	defer server.Close()

	s := NewWithConfig(ScraperConfig{RateLimit: 50})

	content, err := s.ExtractContent(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, content, "Release Notes")
	assert.Contains(t, content, "This release improves the model.")
	assert.NotContains(t, content, "Navigation junk")
	assert.NotContains(t, content, "var x = 1")
}

func TestExtractContentFallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>No main element here.</p></body></html>`))
	}))
	defer server.Close()

	s := NewWithConfig(ScraperConfig{RateLimit: 50})

	content, err := s.ExtractContent(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "No main element here.", content)
}

func TestExtractContentBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewWithConfig(ScraperConfig{RateLimit: 50})

	_, err := s.ExtractContent(context.Background(), server.URL)
	assert.Error(t, err)
}
