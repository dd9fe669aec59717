package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenRouter-compatible chat-completions endpoint. The
// bearer credential is supplied per call, not held by the client, so every
// pipeline run is independently authenticated.
type Client struct {
	baseURL    string
	model      string
	maxTokens  int
	referer    string
	title      string
	httpClient *http.Client
}

func New(baseURL, model string, maxTokens int, timeout time.Duration, referer, title string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  maxTokens,
		referer:    referer,
		title:      title,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt as a single user message and returns the first
// completion's text content. One attempt only, no retries.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	}

	var response chatResponse
	if err := c.postJSON(ctx, "/chat/completions", apiKey, reqBody, &response, "completion"); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return response.Choices[0].Message.Content, nil
}
