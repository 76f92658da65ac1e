package types

import (
	"context"
	"time"

	"github.com/rachitx/ai-news-digest/internal/models"
)

// Core interfaces wired together by the pipeline.

type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.NewsItem, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, item models.NewsItem) (models.Digest, error)
}

type Store interface {
	CreateTables(ctx context.Context) error
	InsertItems(ctx context.Context, items []models.NewsItem) (int, error)
	RecentItems(ctx context.Context, since time.Time, limit int) ([]models.NewsItem, error)
	Close()
}

type Curator interface {
	Rank(ctx context.Context, items []models.NewsItem) []models.RankedItem
}

type Sender interface {
	SendDigest(ranked []models.RankedItem) error
}
