package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Writer produces short marketing copy for a rendered quote.
type Writer interface {
	// PitchQuote writes a one-sentence pitch for the quote summary in the given language.
	PitchQuote(ctx context.Context, summary, language string) (string, error)
}

// OpenAIClient implements Writer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
	Timeout time.Duration
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{client: c, model: cfg.Model, timeout: timeout}, nil
}

func (o *OpenAIClient) PitchQuote(ctx context.Context, summary, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", errors.New("openai: empty quote summary")
	}

	sys := fmt.Sprintf(`
		You write short travel marketing copy in %s.
		Return exactly one friendly sentence (10-30 words) inviting the reader to book the quoted trip.
		Do not invent prices, dates or places that are not in the summary.
		Plain text only, no links.
		`, langOrDefault(language))
	out, err := o.create(ctx, sys, "Quote summary:\n"+summary)
	if err != nil {
		slog.Error("openai: pitch quote error", "err", err)
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("openai: empty completion")
	}
	return out, nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
