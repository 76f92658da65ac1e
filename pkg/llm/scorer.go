package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/rachitx/ai-news-digest/internal/models"
)

const scoreSystemPrompt = `You are an AI news curator.

You will receive a list of digests (id, title, summary, type) and a user profile.
Your job: assign a relevance_score (0.0 to 10.0) for EACH digest.

IMPORTANT OUTPUT RULES:
- Return ONLY valid JSON
- Do NOT include markdown
- Do NOT include explanations outside JSON
- Do NOT include rank
- JSON format must be EXACTLY:
{
  "articles": [
    {"digest_id": "...", "relevance_score": 7.5},
    ...
  ]
}`

// Scorer asks an LLM to rate a shortlist of items against a reader profile.
type Scorer struct {
	config DigestConfig
	llm    llms.Model
}

func NewScorer(model llms.Model, config DigestConfig) (*Scorer, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 450 // small JSON output only
	}
	if config.Temperature == 0 {
		config.Temperature = 0.2
	}

	return &Scorer{
		config: config,
		llm:    model,
	}, nil
}

type scoredArticle struct {
	DigestID       string  `json:"digest_id"`
	RelevanceScore float64 `json:"relevance_score"`
}

type scoreResponse struct {
	Articles []scoredArticle `json:"articles"`
}

// ScoreShortlist returns a relevance score per item ID. Items the model
// skipped are simply absent from the map; the caller decides the fallback.
func (s *Scorer) ScoreShortlist(ctx context.Context, profile string, items []models.NewsItem) (map[string]float64, error) {
	if len(items) == 0 {
		return map[string]float64{}, nil
	}

	var list strings.Builder
	for _, item := range items {
		fmt.Fprintf(&list, "ID: %s\nTitle: %s\nSummary: %s\nType: %s\n\n",
			item.ID, item.Title, item.Summary, item.Source)
	}

	system := fmt.Sprintf("%s\n\nUser Profile:\n%s", scoreSystemPrompt, profile)
	userPrompt := fmt.Sprintf("Score these %d digests by relevance. Return JSON only.\n\n%s", len(items), list.String())

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := s.llm.GenerateContent(ctx, content,
		llms.WithTemperature(s.config.Temperature),
		llms.WithMaxTokens(s.config.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("shortlist scoring: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("shortlist scoring: empty response")
	}

	raw, err := ExtractJSON(response.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("score parse: %w", err)
	}

	scores := make(map[string]float64, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.DigestID == "" {
			continue
		}
		scores[a.DigestID] = clampScore(a.RelevanceScore)
	}

	return scores, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
