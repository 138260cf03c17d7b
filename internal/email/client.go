// Package email sends transactional mail through a Resend-compatible API.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/go-resty/resty/v2"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type Client struct {
	http   *resty.Client
	url    string
	apiKey string
	from   string
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.HTTPClientTimeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		http:   resty.New().SetTimeout(timeout),
		url:    cfg.EmailAPIURL,
		apiKey: cfg.EmailAPIKey,
		from:   cfg.EmailFrom,
	}
}

// Enabled reports whether an API key is configured. Send is a no-op otherwise.
func (c *Client) Enabled() bool { return c.apiKey != "" && c.url != "" }

func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		slog.Debug("email skipped, no API key", "component", "email", "subject", msg.Subject)
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("send email: no recipients")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(sendRequest{From: c.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email: API returned %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
