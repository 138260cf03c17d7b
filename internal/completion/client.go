// Package completion talks to free-text AI completion services and turns
// their replies into validated structs.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("no completion provider configured")
	ErrUnavailable   = errors.New("completion service unavailable")
)

// Completer sends a prompt and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type provider interface {
	name() string
	complete(ctx context.Context, prompt string) (string, error)
}

// Client tries each configured provider in order and returns the first reply.
type Client struct {
	http      *resty.Client
	providers []provider
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	hc := resty.New().SetTimeout(timeout)

	c := &Client{http: hc}
	if cfg.AIResponseURL != "" {
		c.providers = append(c.providers, &textProvider{http: hc, url: cfg.AIResponseURL})
	}
	if cfg.GLMAPIKey != "" {
		c.providers = append(c.providers, &chatProvider{
			label: "glm", http: hc, url: cfg.GLMAPIURL, apiKey: cfg.GLMAPIKey, model: cfg.GLMModel,
		})
	}
	if cfg.DeepSeekAPIKey != "" {
		c.providers = append(c.providers, &chatProvider{
			label: "deepseek", http: hc, url: cfg.DeepSeekAPIURL, apiKey: cfg.DeepSeekAPIKey, model: cfg.DeepSeekModel,
		})
	}
	return c
}

// Configured reports whether at least one provider is available.
func (c *Client) Configured() bool { return len(c.providers) > 0 }

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNotConfigured
	}

	var lastErr error
	for _, p := range c.providers {
		text, err := p.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Warn("completion provider failed", "component", "completion", "provider", p.name(), "error", err)
		lastErr = err
	}
	return "", fmt.Errorf("%w: all providers failed: %w", ErrUnavailable, lastErr)
}

// Close releases idle connections held by the HTTP client.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// textProvider speaks the plain {prompt} -> {text} contract.
type textProvider struct {
	http *resty.Client
	url  string
}

type textRequest struct {
	Prompt string `json:"prompt"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (p *textProvider) name() string { return "text" }

func (p *textProvider) complete(ctx context.Context, prompt string) (string, error) {
	var out textResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(textRequest{Prompt: prompt}).
		SetResult(&out).
		Post(p.url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("empty response from API")
	}
	return out.Text, nil
}

// chatProvider speaks the OpenAI-style chat completions API.
type chatProvider struct {
	label  string
	http   *resty.Client
	url    string
	apiKey string
	model  string
}

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You assist a mentorship platform that pairs mentees with mentors and opportunities.
Follow the requested output format exactly. Return ONLY valid JSON, no markdown or explanation.`

func (p *chatProvider) name() string { return p.label }

func (p *chatProvider) complete(ctx context.Context, prompt string) (string, error) {
	var out llmResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetBody(llmRequest{
			Model: p.model,
			Messages: []llmMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: 0.3,
			MaxTokens:   1024,
		}).
		SetResult(&out).
		Post(p.url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
