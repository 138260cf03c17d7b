// Package rag talks to the retrieval service that trains on and answers
// questions about a mentor's resources.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("retrieval service not configured")

type TrainRequest struct {
	Type      string `json:"type"`
	SourceURL string `json:"source_url"`
	Query     string `json:"query"`
}

type trainResponse struct {
	TestResponse string `json:"test_response"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response string `json:"response"`
}

type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(cfg.RAGURL, "/"),
	}
}

// Train feeds a resource to the retrieval service and returns its answer to
// the test query.
func (c *Client) Train(ctx context.Context, req TrainRequest) (string, error) {
	var out trainResponse
	if err := c.post(ctx, "/train", req, &out); err != nil {
		return "", fmt.Errorf("train: %w", err)
	}
	return out.TestResponse, nil
}

func (c *Client) Query(ctx context.Context, query string) (string, error) {
	var out queryResponse
	if err := c.post(ctx, "/query", queryRequest{Query: query}, &out); err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	return out.Response, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(out).Post(c.baseURL + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("API returned %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
