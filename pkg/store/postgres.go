package store

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rachitx/ai-news-digest/internal/models"
)

type StoreConfig struct {
	ConnString string
	TableName  string
	BatchSize  int
}

// Store persists news records in Postgres for the lifetime of one run.
type Store struct {
	config StoreConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config StoreConfig) (*Store, error) {
	if config.TableName == "" {
		config.TableName = "news_items"
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &Store{
		config: config,
		pool:   pool,
	}, nil
}

// CreateTables sets up the schema. Safe to run on every start.
func (s *Store) CreateTables(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT,
			url TEXT,
			content TEXT,
			summary TEXT,
			category TEXT,
			relevance DOUBLE PRECISION,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.config.TableName)

	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_published_at_idx
		ON %s (published_at DESC)`,
		s.config.TableName, s.config.TableName)

	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// InsertItems writes the batch in one transaction. Item IDs are
// deterministic, so ON CONFLICT DO NOTHING makes re-runs idempotent.
// Returns the number of rows actually inserted.
func (s *Store) InsertItems(ctx context.Context, items []models.NewsItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, title, url, content, summary, category, relevance, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		s.config.TableName)

	inserted := 0
	for _, item := range items {
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		tag, err := tx.Exec(ctx, stmt,
			item.ID,
			item.Source,
			sanitizeUTF8(item.Title),
			item.URL,
			sanitizeUTF8(item.Content),
			sanitizeUTF8(item.Summary),
			item.Category,
			item.Relevance,
			item.PublishedAt,
			createdAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item: %v", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return inserted, nil
}

// RecentItems returns items published after the cutoff, newest first.
// The curator ranks over this window so a digest can include records
// stored by an earlier pass that never made it into an email.
func (s *Store) RecentItems(ctx context.Context, since time.Time, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = s.config.BatchSize
	}

	query := fmt.Sprintf(`
		SELECT id, source, title, url, content, summary, category, relevance, published_at, created_at
		FROM %s
		WHERE published_at >= $1
		ORDER BY published_at DESC
		LIMIT $2`,
		s.config.TableName)

	rows, err := s.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %v", err)
	}
	defer rows.Close()

	var items []models.NewsItem
	for rows.Next() {
		var item models.NewsItem
		err := rows.Scan(
			&item.ID,
			&item.Source,
			&item.Title,
			&item.URL,
			&item.Content,
			&item.Summary,
			&item.Category,
			&item.Relevance,
			&item.PublishedAt,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
