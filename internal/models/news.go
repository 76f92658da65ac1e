package models

import "time"

// NewsItem is one fetched news entry before and after summarization.
type NewsItem struct {
	ID          string
	Source      string
	Title       string
	URL         string
	Content     string
	Summary     string
	Category    string
	Relevance   float64
	PublishedAt time.Time
	CreatedAt   time.Time
}

// Digest is the LLM output for a single item.
type Digest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// RankedItem is a scored news item after curation.
type RankedItem struct {
	Item      NewsItem
	Score     float64
	Rank      int
	Reasoning string
}

// RunReport captures what a single pipeline pass did.
type RunReport struct {
	Fetched   int
	Stored    int
	Ranked    int
	EmailSent bool
	StartedAt time.Time
	Duration  time.Duration
}
