package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/rachitx/ai-news-digest/internal/models"
)

func rankedFixture() []models.RankedItem {
	return []models.RankedItem{
		{
			Rank:  1,
			Score: 9.2,
			Item: models.NewsItem{
				Title:   "Serving LLMs <cheaply>",
				URL:     "https://example.com/serving",
				Source:  "OpenAI News",
				Summary: "Latency halved in production.",
			},
		},
		{
			Rank:  2,
			Score: 6.0,
			Item: models.NewsItem{
				Title:   "New eval harness",
				URL:     "https://example.com/evals",
				Source:  "Anthropic News",
				Summary: "Better model comparisons.",
			},
		},
	}
}

func TestNewWithConfig(t *testing.T) {
	_, err := NewWithConfig(MailerConfig{})
	assert.Error(t, err)

	m, err := NewWithConfig(MailerConfig{From: "me@example.com", AppPassword: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", m.config.To)
	assert.Equal(t, "smtp.gmail.com", m.config.SMTPHost)
	assert.Equal(t, 587, m.config.SMTPPort)
}

func TestRenderDigest(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

	body, err := RenderDigest(rankedFixture(), now)
	require.NoError(t, err)

	assert.Contains(t, body, "Monday, 2 June 2025")
	assert.Contains(t, body, "2 items worth your time")
	assert.Contains(t, body, `<a href="https://example.com/serving">`)
	assert.Contains(t, body, "Latency halved in production.")
	assert.Contains(t, body, "relevance 9.2")
	// HTML in titles is escaped, not injected
	assert.Contains(t, body, "Serving LLMs &lt;cheaply&gt;")
	assert.NotContains(t, body, "<cheaply>")
}

func TestSendDigest(t *testing.T) {
	m, err := NewWithConfig(MailerConfig{From: "me@example.com", To: "you@example.com", AppPassword: "secret"})
	require.NoError(t, err)

	var sent []*gomail.Message
	m.send = func(msg *gomail.Message) error {
		sent = append(sent, msg)
		return nil
	}

	require.NoError(t, m.SendDigest(rankedFixture()))
	require.Len(t, sent, 1)

	msg := sent[0]
	assert.Equal(t, []string{"me@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"you@example.com"}, msg.GetHeader("To"))
	assert.Contains(t, msg.GetHeader("Subject")[0], "AI News Digest")
}

func TestSendDigestEmpty(t *testing.T) {
	m, err := NewWithConfig(MailerConfig{From: "me@example.com", AppPassword: "secret"})
	require.NoError(t, err)

	assert.Error(t, m.SendDigest(nil))
}
