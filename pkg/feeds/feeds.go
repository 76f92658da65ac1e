package feeds

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/rachitx/ai-news-digest/internal/models"
	"github.com/rachitx/ai-news-digest/pkg/config"
)

type FetcherConfig struct {
	Sources   []config.Source
	Lookback  time.Duration
	RateLimit float64 // requests per second
	Timeout   time.Duration
	UserAgent string
	Now       func() time.Time
}

type Fetcher struct {
	config  FetcherConfig
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

func NewWithConfig(config FetcherConfig) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.Lookback == 0 {
		config.Lookback = 25 * time.Hour
	}
	if config.UserAgent == "" {
		config.UserAgent = "ai-news-digest/1.0"
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	parser := gofeed.NewParser()
	parser.UserAgent = config.UserAgent

	return &Fetcher{
		config:  config,
		parser:  parser,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// FetchAll walks every configured source in order. A broken source is logged
// and skipped; the run only fails when no source could be read at all.
func (f *Fetcher) FetchAll(ctx context.Context) ([]models.NewsItem, error) {
	var items []models.NewsItem
	var failed int

	for _, src := range f.config.Sources {
		if err := f.limiter.Wait(ctx); err != nil {
			return items, err
		}

		fetched, err := f.fetchSource(ctx, src)
		if err != nil {
			failed++
			log.Printf("feeds: %s: %v", src.Name, err)
			continue
		}
		items = append(items, fetched...)
	}

	if failed > 0 && failed == len(f.config.Sources) {
		return nil, fmt.Errorf("all %d feed sources failed", failed)
	}

	return items, nil
}

func (f *Fetcher) fetchSource(ctx context.Context, src config.Source) ([]models.NewsItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(src.URL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	cutoff := f.config.Now().Add(-f.config.Lookback)

	var items []models.NewsItem
	for _, entry := range feed.Items {
		published := entryTime(entry)
		if published.Before(cutoff) {
			continue
		}

		title := CleanText(entry.Title)
		content := CleanText(entry.Content)
		if content == "" {
			content = CleanText(entry.Description)
		}
		if title == "" && content == "" {
			continue
		}

		item := models.NewsItem{
			ID:          BuildItemID(title, entry.Link, published),
			Source:      src.Name,
			Title:       title,
			URL:         entry.Link,
			Content:     content,
			Category:    firstCategory(entry),
			PublishedAt: published,
		}
		items = append(items, item)
	}

	return items, nil
}

func entryTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Now().UTC()
}

func firstCategory(entry *gofeed.Item) string {
	if len(entry.Categories) == 0 {
		return ""
	}
	return strings.TrimSpace(entry.Categories[0])
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips HTML tags and entities and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = tagPattern.ReplaceAllString(decoded, " ")
	decoded = whitespacePattern.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// BuildItemID hashes the stable fields so the same entry always maps to the
// same row, which keeps re-runs from inserting duplicates.
func BuildItemID(title, url string, published time.Time) string {
	s := sha1.Sum([]byte(title + "|" + url + "|" + published.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}
