// Package gemini summarizes prompts with Google's Gemini models.
package gemini

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/insight"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

var _ insight.Summarizer = (*Client)(nil) // interface compliance check

// New returns nil when no API key is configured, so that callers fall back to the demo texts.
func New(conf core.InsightConfig) *Client {
	apiKey := core.CleanString(conf.APIKey)
	if apiKey == "" {
		return nil
	}
	model := core.CleanString(conf.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{apiKey: apiKey, model: model}
}

func (c *Client) Model() string { return c.model }

// genaiClient creates the SDK client on first use.
func (c *Client) genaiClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, errors.Wrapf(insight.ErrUnavailable, "creating genai client: %v", err)
	}
	c.client = client
	return client, nil
}

func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", errors.Wrap(insight.ErrUnavailable, "missing API key")
	}
	client, err := c.genaiClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "generating content")
	}
	return strings.TrimSpace(resp.Text()), nil
}
