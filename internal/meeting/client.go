// Package meeting schedules video meetings through the external meeting API.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("meeting service not configured")

type Request struct {
	Topic     string `json:"topic"`
	Agenda    string `json:"agenda"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

// Meeting is the scheduled meeting as returned by the service.
type Meeting struct {
	Topic     string `json:"topic"`
	Agenda    string `json:"agenda"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	JoinURL   string `json:"join_url"`
	StartURL  string `json:"start_url"`
	Password  string `json:"password"`
}

type Client struct {
	http   *resty.Client
	url    string
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.MeetingTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:   resty.New().SetTimeout(timeout),
		url:    cfg.MeetingAPIURL,
		apiKey: cfg.MeetingAPIKey,
	}
}

func (c *Client) Schedule(ctx context.Context, req Request) (*Meeting, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	r := c.http.R().SetContext(ctx).SetBody(req).SetResult(&Meeting{})
	if c.apiKey != "" {
		r.SetAuthToken(c.apiKey)
	}
	resp, err := r.Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("schedule meeting: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("schedule meeting: API returned %d", resp.StatusCode())
	}

	m := resp.Result().(*Meeting)
	if m.JoinURL == "" {
		return nil, fmt.Errorf("schedule meeting: response has no join_url")
	}
	return m, nil
}

func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
