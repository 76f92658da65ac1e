package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/rachitx/ai-news-digest/internal/models"
	"github.com/rachitx/ai-news-digest/pkg/llm"
)

// fakeModel replays a canned response and records the prompt it saw.
type fakeModel struct {
	response string
	err      error
	lastMsgs []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.lastMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestNewDigestWriter(t *testing.T) {
	_, err := llm.NewDigestWriter(nil, llm.DigestConfig{})
	assert.Error(t, err)

	_, err = llm.NewDigestWriter(&fakeModel{}, llm.DigestConfig{Temperature: 3})
	assert.Error(t, err)

	dw, err := llm.NewDigestWriter(&fakeModel{}, llm.DigestConfig{Temperature: 0.7})
	require.NoError(t, err)
	assert.NotNil(t, dw)
}

func TestSummarize(t *testing.T) {
	model := &fakeModel{
		response: `{"title":"Model Gets Faster","summary":"Inference latency dropped by half. It matters for production serving."}`,
	}
	dw, err := llm.NewDigestWriter(model, llm.DigestConfig{Temperature: 0.7})
	require.NoError(t, err)

	item := models.NewsItem{
		Title:   "Raw feed title",
		Content: "Long article body about inference.",
		Source:  "OpenAI News",
	}

	digest, err := dw.Summarize(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "Model Gets Faster", digest.Title)
	assert.Contains(t, digest.Summary, "Inference latency")

	// System + human message, item fields in the human part
	require.Len(t, model.lastMsgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.lastMsgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.lastMsgs[1].Role)
}

func TestSummarizeFencedResponse(t *testing.T) {
	model := &fakeModel{
		response: "```json\n{\"title\":\"Fenced\",\"summary\":\"Still parses.\"}\n```",
	}
	dw, err := llm.NewDigestWriter(model, llm.DigestConfig{Temperature: 0.7})
	require.NoError(t, err)

	digest, err := dw.Summarize(context.Background(), models.NewsItem{Title: "x", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, "Fenced", digest.Title)
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"provider error", &fakeModel{err: errors.New("rate limited")}},
		{"not json", &fakeModel{response: "I cannot help with that."}},
		{"missing summary", &fakeModel{response: `{"title":"only a title"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dw, err := llm.NewDigestWriter(tt.model, llm.DigestConfig{Temperature: 0.7})
			require.NoError(t, err)

			_, err = dw.Summarize(context.Background(), models.NewsItem{Title: "x", Content: "y"})
			assert.Error(t, err)
		})
	}
}

func TestScoreShortlist(t *testing.T) {
	model := &fakeModel{
		response: `{"articles":[{"digest_id":"a","relevance_score":7.5},{"digest_id":"b","relevance_score":12.0}]}`,
	}
	scorer, err := llm.NewScorer(model, llm.DigestConfig{})
	require.NoError(t, err)

	items := []models.NewsItem{
		{ID: "a", Title: "A", Summary: "about pipelines"},
		{ID: "b", Title: "B", Summary: "about launches"},
		{ID: "c", Title: "C", Summary: "skipped by the model"},
	}

	scores, err := scorer.ScoreShortlist(context.Background(), "Background: engineer", items)
	require.NoError(t, err)

	assert.Equal(t, 7.5, scores["a"])
	assert.Equal(t, 10.0, scores["b"]) // clamped
	_, ok := scores["c"]
	assert.False(t, ok)
}

func TestScoreShortlistEmpty(t *testing.T) {
	scorer, err := llm.NewScorer(&fakeModel{}, llm.DigestConfig{})
	require.NoError(t, err)

	scores, err := scorer.ScoreShortlist(context.Background(), "profile", nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`, false},
		{"surrounded", `Sure! {"a":1} Hope that helps.`, `{"a":1}`, false},
		{"no object", "sorry, no", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := llm.ExtractJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientNoProvider(t *testing.T) {
	_, err := llm.NewClient(context.Background(), llm.ClientConfig{})
	assert.Error(t, err)
}

func TestNewClientGroq(t *testing.T) {
	model, err := llm.NewClient(context.Background(), llm.ClientConfig{GroqAPIKey: "gsk_test"})
	require.NoError(t, err)
	assert.NotNil(t, model)
}
