// Package openai is a small chat-completions client. Only the parts of the
// API the synthesizers need are modelled.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-journal/pkg/httpclient"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

var ErrEmptyCompletion = errors.New("completion has no choices")

// Config configures the chat-completions client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Request is one system + user exchange.
type Request struct {
	System string
	User   string

	// JSON asks the model for a single JSON object.
	JSON bool
}

// Client calls POST /chat/completions.
type Client struct {
	cfg  Config
	http *httpclient.HTTPClient
}

// NewClient creates a client, filling in defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: httpclient.NewClient(cfg.BaseURL, cfg.APIKey, httpclient.BearerAuth, cfg.Timeout),
	}
}

// Model returns the model name sent with each request.
func (c *Client) Model() string {
	return c.cfg.Model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, "/chat/completions", body, &resp); err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
