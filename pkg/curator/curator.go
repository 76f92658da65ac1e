package curator

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rachitx/ai-news-digest/internal/models"
)

// ShortlistScorer is the LLM stage; pkg/llm.Scorer implements it.
type ShortlistScorer interface {
	ScoreShortlist(ctx context.Context, profile string, items []models.NewsItem) (map[string]float64, error)
}

type CuratorConfig struct {
	Profile       Profile
	ShortlistSize int
	Now           func() time.Time
}

// Curator ranks items in three stages: deterministic heuristic pre-rank,
// LLM scoring on the shortlist, heuristic fallback when the LLM fails.
type Curator struct {
	config         CuratorConfig
	scorer         ShortlistScorer
	interestTokens map[string]struct{}
	boostTerms     map[string]struct{}
	downTerms      map[string]struct{}
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]{4,}`)

func NewWithConfig(scorer ShortlistScorer, config CuratorConfig) *Curator {
	if config.ShortlistSize == 0 {
		config.ShortlistSize = 25
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Profile.Name == "" {
		config.Profile = DefaultProfile()
	}

	c := &Curator{
		config:         config,
		scorer:         scorer,
		interestTokens: make(map[string]struct{}),
		boostTerms:     make(map[string]struct{}),
		downTerms:      make(map[string]struct{}),
	}

	for _, token := range tokenize(strings.Join(config.Profile.Interests, " ")) {
		c.interestTokens[token] = struct{}{}
	}

	prefs := config.Profile.Preferences
	if prefs.PreferSystemDesign {
		addAll(c.boostTerms, "architecture", "pipeline", "scalability", "latency", "reliability")
	}
	if prefs.PreferImplementation {
		addAll(c.boostTerms, "implementation", "benchmark", "evaluation", "metrics", "code")
	}
	if prefs.PreferProductionReal {
		addAll(c.boostTerms, "production", "deployment", "monitoring", "incident", "cost")
	}
	if prefs.AvoidMarketingHype {
		addAll(c.downTerms, "webinar", "register", "limited", "launch", "partnership")
	}

	return c
}

// Rank orders items by relevance and assigns dense ranks starting at 1.
// It never returns an error: when the LLM stage fails the heuristic scores
// carry the ranking, so the pipeline always gets a digest.
func (c *Curator) Rank(ctx context.Context, items []models.NewsItem) []models.RankedItem {
	if len(items) == 0 {
		return nil
	}

	keep := c.config.ShortlistSize
	if keep > len(items) {
		keep = len(items)
	}
	shortlist := c.preRank(items, keep)

	type row struct {
		item      models.NewsItem
		score     float64
		reasoning string
	}

	rows := make([]row, 0, len(shortlist))

	llmScores, err := c.scoreWithLLM(ctx, shortlist)
	if err != nil {
		log.Printf("curator: LLM ranking failed, falling back to heuristic ranking: %v", err)
	}

	for _, scored := range shortlist {
		if score, ok := llmScores[scored.item.ID]; ok {
			rows = append(rows, row{
				item:      scored.item,
				score:     score,
				reasoning: "LLM relevance score (shortlisted after heuristic pre-rank)",
			})
			continue
		}
		rows = append(rows, row{
			item:      scored.item,
			score:     heuristicToScale(scored.score),
			reasoning: fmt.Sprintf("Heuristic ranking: %s", scored.why),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	ranked := make([]models.RankedItem, 0, len(rows))
	for i, r := range rows {
		r.item.Relevance = r.score
		ranked = append(ranked, models.RankedItem{
			Item:      r.item,
			Score:     r.score,
			Rank:      i + 1,
			Reasoning: r.reasoning,
		})
	}

	return ranked
}

func (c *Curator) scoreWithLLM(ctx context.Context, shortlist []scoredItem) (map[string]float64, error) {
	if c.scorer == nil {
		return nil, fmt.Errorf("no scorer configured")
	}

	items := make([]models.NewsItem, 0, len(shortlist))
	for _, s := range shortlist {
		items = append(items, s.item)
	}

	return c.scorer.ScoreShortlist(ctx, c.config.Profile.Render(), items)
}

type scoredItem struct {
	item  models.NewsItem
	score float64
	why   string
}

func (c *Curator) preRank(items []models.NewsItem, keep int) []scoredItem {
	scored := make([]scoredItem, 0, len(items))
	for _, item := range items {
		score, why := c.heuristicScore(item)
		scored = append(scored, scoredItem{item: item, score: score, why: why})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return scored[:keep]
}

func (c *Curator) heuristicScore(item models.NewsItem) (float64, string) {
	text := item.Title + " " + item.Summary
	if item.Summary == "" {
		text = item.Title + " " + item.Content
	}

	tokens := make(map[string]struct{})
	for _, token := range tokenize(text) {
		tokens[token] = struct{}{}
	}

	interestHits := countHits(tokens, c.interestTokens)
	boostHits := countHits(tokens, c.boostTerms)
	downHits := countHits(tokens, c.downTerms)

	base := float64(interestHits)*1.2 + float64(boostHits)*0.8 - float64(downHits)*0.7

	recency := 0.0
	if !item.PublishedAt.IsZero() {
		ageHours := c.config.Now().UTC().Sub(item.PublishedAt.UTC()).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		recency = 1.5 - (ageHours/24.0)*1.5
		if recency < 0 {
			recency = 0
		}
	}

	score := base + recency
	why := fmt.Sprintf("interest=%d, boost=%d, recency=%.2f", interestHits, boostHits, recency)
	return score, why
}

// heuristicToScale maps a raw heuristic score onto the 0..10 LLM scale.
func heuristicToScale(raw float64) float64 {
	if raw > 7 {
		raw = 7
	}
	score := 3.0 + raw
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func countHits(tokens, terms map[string]struct{}) int {
	hits := 0
	for token := range tokens {
		if _, ok := terms[token]; ok {
			hits++
		}
	}
	return hits
}

func addAll(set map[string]struct{}, terms ...string) {
	for _, term := range terms {
		set[term] = struct{}{}
	}
}
