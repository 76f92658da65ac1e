package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Config struct {
	LLM struct {
		GroqAPIKey    string  `yaml:"groq_api_key"`
		GeminiAPIKey  string  `yaml:"gemini_api_key"`
		OllamaBaseURL string  `yaml:"ollama_base_url"`
		Model         string  `yaml:"model"`
		MaxTokens     int     `yaml:"max_tokens"`
		Temperature   float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Database struct {
		URL       string `yaml:"url"`
		Host      string `yaml:"host"`
		Port      string `yaml:"port"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		Name      string `yaml:"name"`
		TableName string `yaml:"table_name"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Feeds struct {
		Sources       []Source `yaml:"sources"`
		LookbackHours int      `yaml:"lookback_hours"`
		RateLimit     float64  `yaml:"rate_limit"`
		MinContentLen int      `yaml:"min_content_len"`
	} `yaml:"feeds"`

	Email struct {
		SMTPHost    string `yaml:"smtp_host"`
		SMTPPort    int    `yaml:"smtp_port"`
		From        string `yaml:"from"`
		To          string `yaml:"to"`
		AppPassword string `yaml:"app_password"`
	} `yaml:"email"`

	Curator struct {
		ShortlistSize int `yaml:"shortlist_size"`
		DigestSize    int `yaml:"digest_size"`
	} `yaml:"curator"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/ai-news-digest/config.yaml"),
			"/etc/ai-news-digest/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "llama-3.1-8b-instant"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}

	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == "" {
		config.Database.Port = "5432"
	}
	if config.Database.User == "" {
		config.Database.User = "postgres"
	}
	if config.Database.Name == "" {
		config.Database.Name = "ai_news_aggregator"
	}
	if config.Database.TableName == "" {
		config.Database.TableName = "news_items"
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if len(config.Feeds.Sources) == 0 {
		config.Feeds.Sources = DefaultSources()
	}
	if config.Feeds.LookbackHours == 0 {
		config.Feeds.LookbackHours = 25
	}
	if config.Feeds.RateLimit == 0 {
		config.Feeds.RateLimit = 2.0
	}
	if config.Feeds.MinContentLen == 0 {
		config.Feeds.MinContentLen = 280
	}

	if config.Email.SMTPHost == "" {
		config.Email.SMTPHost = "smtp.gmail.com"
	}
	if config.Email.SMTPPort == 0 {
		config.Email.SMTPPort = 587
	}
	if config.Email.To == "" {
		config.Email.To = config.Email.From
	}

	if config.Curator.ShortlistSize == 0 {
		config.Curator.ShortlistSize = 25
	}
	if config.Curator.DigestSize == 0 {
		config.Curator.DigestSize = 10
	}
}

func mergeWithEnv(config *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		config.LLM.GroqAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		config.LLM.OllamaBaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		config.Database.Port = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		config.Database.Name = v
	}
	if v := os.Getenv("MY_EMAIL"); v != "" {
		config.Email.From = v
	}
	if v := os.Getenv("DIGEST_TO"); v != "" {
		config.Email.To = v
	}
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		config.Email.AppPassword = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		config.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("LOOKBACK_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			config.Feeds.LookbackHours = hours
		}
	}
}

// DatabaseURL returns the full connection string, assembling it from the
// discrete POSTGRES_* parts when no DATABASE_URL was provided.
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// DefaultSources lists the publisher feeds a fresh install follows.
// YouTube channel feeds are plain Atom.
func DefaultSources() []Source {
	return []Source{
		{
			Name: "OpenAI News",
			URL:  "https://openai.com/news/rss.xml",
		},
		{
			Name: "Anthropic News",
			URL:  "https://www.anthropic.com/news/rss.xml",
		},
		{
			Name: "Two Minute Papers",
			URL:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCbfYPyITQ-7l4upoX8nvctg",
		},
		{
			Name: "AI Explained",
			URL:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCNJ1Ymd5yFuUPtn21xtRbbw",
		},
	}
}
