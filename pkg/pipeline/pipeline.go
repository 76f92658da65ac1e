package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rachitx/ai-news-digest/internal/models"
	"github.com/rachitx/ai-news-digest/internal/types"
)

// ContentExtractor fills in article bodies for stub feed entries.
type ContentExtractor interface {
	ExtractContent(ctx context.Context, url string) (string, error)
}

type PipelineConfig struct {
	Lookback      time.Duration
	MinContentLen int
	DigestSize    int
	RecentLimit   int
	Now           func() time.Time
	OnProgress    func(stage string, done, total int)
}

// Pipeline runs one complete pass: fetch, enrich, summarize, persist,
// curate, email.
type Pipeline struct {
	config     PipelineConfig
	fetcher    types.Fetcher
	extractor  ContentExtractor
	summarizer types.Summarizer
	store      types.Store
	curator    types.Curator
	sender     types.Sender
}

func New(fetcher types.Fetcher, extractor ContentExtractor, summarizer types.Summarizer,
	store types.Store, curator types.Curator, sender types.Sender, config PipelineConfig) *Pipeline {

	if config.Lookback == 0 {
		config.Lookback = 25 * time.Hour
	}
	if config.MinContentLen == 0 {
		config.MinContentLen = 280
	}
	if config.DigestSize == 0 {
		config.DigestSize = 10
	}
	if config.RecentLimit == 0 {
		config.RecentLimit = 200
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Pipeline{
		config:     config,
		fetcher:    fetcher,
		extractor:  extractor,
		summarizer: summarizer,
		store:      store,
		curator:    curator,
		sender:     sender,
	}
}

// Run executes a single pass. Zero fetched items is a successful no-op:
// nothing is stored and no email goes out.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{StartedAt: p.config.Now().UTC()}
	defer func() {
		report.Duration = p.config.Now().UTC().Sub(report.StartedAt)
	}()

	items, err := p.fetcher.FetchAll(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch stage: %w", err)
	}
	report.Fetched = len(items)

	if len(items) == 0 {
		log.Printf("pipeline: no new items, skipping digest")
		return report, nil
	}

	for i := range items {
		p.enrich(ctx, &items[i])
		p.summarize(ctx, &items[i])
		p.progress("summarize", i+1, len(items))
	}

	stored, err := p.store.InsertItems(ctx, items)
	if err != nil {
		return report, fmt.Errorf("persist stage: %w", err)
	}
	report.Stored = stored

	ranked := p.curator.Rank(ctx, p.rankingWindow(ctx, items))
	if len(ranked) > p.config.DigestSize {
		ranked = ranked[:p.config.DigestSize]
	}
	report.Ranked = len(ranked)

	if err := p.sender.SendDigest(ranked); err != nil {
		return report, fmt.Errorf("email stage: %w", err)
	}
	report.EmailSent = true

	return report, nil
}

// enrich replaces a stub description with scraped article content.
func (p *Pipeline) enrich(ctx context.Context, item *models.NewsItem) {
	if p.extractor == nil || item.URL == "" || len(item.Content) >= p.config.MinContentLen {
		return
	}

	content, err := p.extractor.ExtractContent(ctx, item.URL)
	if err != nil {
		log.Printf("pipeline: enrich %s: %v", item.URL, err)
		return
	}
	if len(content) > len(item.Content) {
		item.Content = content
	}
}

// summarize asks the LLM for a digest; a failed call degrades to the
// cleaned feed content so the item is still persisted and rankable.
func (p *Pipeline) summarize(ctx context.Context, item *models.NewsItem) {
	digest, err := p.summarizer.Summarize(ctx, *item)
	if err != nil {
		log.Printf("pipeline: summarize %q: %v", item.Title, err)
		item.Summary = truncate(item.Content, 300)
		return
	}

	if digest.Title != "" {
		item.Title = digest.Title
	}
	item.Summary = digest.Summary
}

// rankingWindow prefers the stored lookback window so items persisted by an
// earlier pass still compete for the digest; on a read failure the current
// batch carries the ranking.
func (p *Pipeline) rankingWindow(ctx context.Context, fallback []models.NewsItem) []models.NewsItem {
	since := p.config.Now().UTC().Add(-p.config.Lookback)
	recent, err := p.store.RecentItems(ctx, since, p.config.RecentLimit)
	if err != nil {
		log.Printf("pipeline: recent items: %v", err)
		return fallback
	}
	if len(recent) == 0 {
		return fallback
	}
	return recent
}

func (p *Pipeline) progress(stage string, done, total int) {
	if p.config.OnProgress != nil {
		p.config.OnProgress(stage, done, total)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
