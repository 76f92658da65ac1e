package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/rachitx/ai-news-digest/internal/models"
)

type MailerConfig struct {
	SMTPHost    string
	SMTPPort    int
	From        string
	To          string
	AppPassword string
}

// Mailer composes and delivers the digest email over SMTP.
type Mailer struct {
	config MailerConfig
	send   func(*gomail.Message) error
}

func NewWithConfig(config MailerConfig) (*Mailer, error) {
	if config.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if config.To == "" {
		config.To = config.From
	}
	if config.SMTPHost == "" {
		config.SMTPHost = "smtp.gmail.com"
	}
	if config.SMTPPort == 0 {
		config.SMTPPort = 587
	}

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.From, config.AppPassword)

	return &Mailer{
		config: config,
		send: func(msg *gomail.Message) error {
			return dialer.DialAndSend(msg)
		},
	}, nil
}

const digestTemplate = `<html>
<body style="font-family: sans-serif; max-width: 640px; margin: 0 auto;">
  <h2>AI News Digest &mdash; {{.Date}}</h2>
  <p>{{.Count}} items worth your time today.</p>
  {{range .Items}}
  <div style="margin-bottom: 18px;">
    <h3 style="margin-bottom: 4px;">{{.Rank}}. <a href="{{.URL}}">{{.Title}}</a></h3>
    <p style="margin: 0; color: #666; font-size: 13px;">{{.Source}} &middot; relevance {{printf "%.1f" .Score}}</p>
    <p style="margin-top: 6px;">{{.Summary}}</p>
  </div>
  {{end}}
</body>
</html>`

var digestTmpl = template.Must(template.New("digest").Parse(digestTemplate))

type digestEntry struct {
	Rank    int
	Title   string
	URL     string
	Source  string
	Score   float64
	Summary string
}

type digestData struct {
	Date  string
	Count int
	Items []digestEntry
}

// RenderDigest builds the HTML body for the ranked items.
func RenderDigest(ranked []models.RankedItem, now time.Time) (string, error) {
	data := digestData{
		Date:  now.Format("Monday, 2 January 2006"),
		Count: len(ranked),
	}

	for _, r := range ranked {
		title := r.Item.Title
		if title == "" {
			title = r.Item.URL
		}
		summary := r.Item.Summary
		if summary == "" {
			summary = r.Item.Content
		}
		data.Items = append(data.Items, digestEntry{
			Rank:    r.Rank,
			Title:   title,
			URL:     r.Item.URL,
			Source:  r.Item.Source,
			Score:   r.Score,
			Summary: summary,
		})
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}

	return buf.String(), nil
}

// SendDigest sends exactly one email for the run.
func (m *Mailer) SendDigest(ranked []models.RankedItem) error {
	if len(ranked) == 0 {
		return fmt.Errorf("nothing to send")
	}

	now := time.Now()
	body, err := RenderDigest(ranked, now)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", m.config.To)
	msg.SetHeader("Subject", fmt.Sprintf("AI News Digest - %s", now.Format("Jan 2, 2006")))
	msg.SetBody("text/html", body)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	return nil
}
