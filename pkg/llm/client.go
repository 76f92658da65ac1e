package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Groq exposes an OpenAI-compatible API.
const groqBaseURL = "https://api.groq.com/openai/v1"

const defaultGeminiModel = "gemini-1.5-flash"

type ClientConfig struct {
	GroqAPIKey    string
	GeminiAPIKey  string
	OllamaBaseURL string
	Model         string
}

// NewClient builds the chat model for the configured provider. Groq is the
// primary provider, Gemini the fallback, a local Ollama server the last
// resort for development.
func NewClient(ctx context.Context, config ClientConfig) (llms.Model, error) {
	switch {
	case config.GroqAPIKey != "":
		model := config.Model
		if model == "" {
			model = "llama-3.1-8b-instant"
		}
		llm, err := openai.New(
			openai.WithToken(config.GroqAPIKey),
			openai.WithBaseURL(groqBaseURL),
			openai.WithModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Groq client: %w", err)
		}
		return llm, nil

	case config.GeminiAPIKey != "":
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(config.GeminiAPIKey),
			googleai.WithDefaultModel(defaultGeminiModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return llm, nil

	case config.OllamaBaseURL != "":
		model := config.Model
		if model == "" {
			model = "llama3.1:8b"
		}
		llm, err := ollama.New(
			ollama.WithModel(model),
			ollama.WithServerURL(config.OllamaBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama client: %w", err)
		}
		return llm, nil
	}

	return nil, fmt.Errorf("no LLM provider configured")
}
