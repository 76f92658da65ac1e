package config

import (
	"fmt"
	"net/mail"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config. Any one provider is enough to run the agents.
	if c.LLM.GroqAPIKey == "" && c.LLM.GeminiAPIKey == "" && c.LLM.OllamaBaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm",
			Message: "GROQ_API_KEY, GEMINI_API_KEY or OLLAMA_BASE_URL is required",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.OllamaBaseURL != "" {
		if _, err := url.Parse(c.LLM.OllamaBaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "llm.ollama_base_url",
				Message: "invalid Ollama base URL",
			})
		}
	}

	// Validate Database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	} else if c.Database.Password == "" {
		errors = append(errors, ValidationError{
			Field:   "database.password",
			Message: "POSTGRES_PASSWORD is required when DATABASE_URL is not set",
		})
	}

	if c.Database.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.batch_size",
			Message: "batch_size must be positive",
		})
	}

	// Validate Feeds config
	if len(c.Feeds.Sources) == 0 {
		errors = append(errors, ValidationError{
			Field:   "feeds.sources",
			Message: "at least one feed source is required",
		})
	}
	for _, src := range c.Feeds.Sources {
		if _, err := url.ParseRequestURI(src.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "feeds.sources",
				Message: fmt.Sprintf("invalid feed URL for %q", src.Name),
			})
		}
	}

	if c.Feeds.LookbackHours < 1 {
		errors = append(errors, ValidationError{
			Field:   "feeds.lookback_hours",
			Message: "lookback_hours must be positive",
		})
	}

	if c.Feeds.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "feeds.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Email config
	if c.Email.From == "" {
		errors = append(errors, ValidationError{
			Field:   "email.from",
			Message: "MY_EMAIL is required",
		})
	} else if _, err := mail.ParseAddress(c.Email.From); err != nil {
		errors = append(errors, ValidationError{
			Field:   "email.from",
			Message: "MY_EMAIL is not a valid address",
		})
	}

	if c.Email.AppPassword == "" {
		errors = append(errors, ValidationError{
			Field:   "email.app_password",
			Message: "APP_PASSWORD is required",
		})
	}

	if c.Email.SMTPPort < 1 || c.Email.SMTPPort > 65535 {
		errors = append(errors, ValidationError{
			Field:   "email.smtp_port",
			Message: "smtp_port must be a valid port",
		})
	}

	// Validate Curator config
	if c.Curator.ShortlistSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "curator.shortlist_size",
			Message: "shortlist_size must be positive",
		})
	}

	if c.Curator.DigestSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "curator.digest_size",
			Message: "digest_size must be positive",
		})
	}

	return errors
}
