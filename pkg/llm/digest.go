package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/rachitx/ai-news-digest/internal/models"
)

const digestSystemPrompt = `You are an expert AI news analyst specializing in summarizing technical articles, research papers, and video content about artificial intelligence.

Guidelines:
- Create a compelling title (5-10 words)
- Write a 2-3 sentence summary with key points + why it matters
- Avoid marketing fluff

Return ONLY valid JSON: {"title":"...","summary":"..."}`

// maxContentChars caps how much article body goes into a prompt.
const maxContentChars = 8000

// DigestConfig represents the configuration for a digest writer.
type DigestConfig struct {
	MaxTokens   int
	Temperature float64
}

// DigestWriter asks an LLM for a title and short summary of one news item.
type DigestWriter struct {
	config DigestConfig
	llm    llms.Model
}

// NewDigestWriter creates a DigestWriter backed by the given model.
func NewDigestWriter(model llms.Model, config DigestConfig) (*DigestWriter, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}

	return &DigestWriter{
		config: config,
		llm:    model,
	}, nil
}

// Summarize generates a digest for the item.
func (dw *DigestWriter) Summarize(ctx context.Context, item models.NewsItem) (models.Digest, error) {
	body := item.Content
	if len(body) > maxContentChars {
		body = body[:maxContentChars]
	}

	kind := item.Category
	if kind == "" {
		kind = "article"
	}

	userPrompt := fmt.Sprintf("Create a digest for this %s.\nTitle: %s\nContent:\n%s", kind, item.Title, body)

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, digestSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := dw.llm.GenerateContent(ctx, content,
		llms.WithTemperature(dw.config.Temperature),
		llms.WithMaxTokens(dw.config.MaxTokens),
	)
	if err != nil {
		return models.Digest{}, fmt.Errorf("digest generation: %w", err)
	}
	if len(response.Choices) == 0 {
		return models.Digest{}, fmt.Errorf("digest generation: empty response")
	}

	raw, err := ExtractJSON(response.Choices[0].Content)
	if err != nil {
		return models.Digest{}, err
	}

	var digest models.Digest
	if err := json.Unmarshal([]byte(raw), &digest); err != nil {
		return models.Digest{}, fmt.Errorf("digest parse: %w", err)
	}
	if digest.Summary == "" {
		return models.Digest{}, fmt.Errorf("digest parse: missing summary")
	}

	return digest, nil
}
