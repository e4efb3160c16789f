// internal/gpt/client.go
package gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyResponse = errors.New("no response from GPT API")

// Client talks to OpenAI or any OpenAI-compatible chat completion endpoint.
type Client struct {
	client      *openai.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(apiKey string) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
		apiKey:      apiKey,
		model:       "gpt-4",
		maxTokens:   2500,
		temperature: 0.7,
	}
}

func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

// WithBaseURL points the client at a compatible endpoint, e.g. a local proxy.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL == "" {
		return c
	}
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	c.client = openai.NewClientWithConfig(cfg)
	c.baseURL = cfg.BaseURL
	return c
}

func (c *Client) WithMaxTokens(n int) *Client {
	if n > 0 {
		c.maxTokens = n
	}
	return c
}

func (c *Client) WithTemperature(t float32) *Client {
	c.temperature = t
	return c
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends one system instruction and one user prompt and returns the reply text.
func (c *Client) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", c.model, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
