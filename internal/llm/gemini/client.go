// Package gemini implements llm.Generator on the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-formatter/internal/llm"
	"resume-formatter/internal/shared/telemetry"
)

// DefaultModel is used when LLM_MODEL is unset.
const DefaultModel = "gemini-2.5-flash"

// Options configures a Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint; used by tests.
	BaseURL string
}

// Client implements llm.Generator using the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required: %w", llm.ErrNotConfigured)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate sends the parts as one user turn and returns the text reply.
func (c *Client) Generate(ctx context.Context, parts []string) (string, error) {
	content := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		content = append(content, genai.NewPartFromText(p))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(content, genai.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate model=%s: %w", c.model, err)
	}

	if usage := resp.UsageMetadata; usage != nil {
		telemetry.Info("llm.usage", map[string]any{
			"provider":          "gemini",
			"model":             c.model,
			"prompt_tokens":     usage.PromptTokenCount,
			"completion_tokens": usage.CandidatesTokenCount,
			"total_tokens":      usage.TotalTokenCount,
		})
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
