// internal/common/genai/client.go
package genai

import (
	"context"
	"strings"

	"phone-assistant/internal/common/config"
	"phone-assistant/internal/common/logger"

	gen "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is the optional text-generation collaborator. The pipeline
// never depends on it producing a result: a nil Client and a failed
// call behave identically.
type Client struct {
	client  *gen.Client
	model   *gen.GenerativeModel
	timeout int // milliseconds
	logger  logger.Logger
}

// NewClient returns nil when generation is disabled or no API key is
// configured. Callers must treat a nil client as "no collaborator".
func NewClient(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) *Client {
	if !cfg.Enabled || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	client, err := gen.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		log.Warn("genai client unavailable, continuing without generation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	model := client.GenerativeModel(cfg.Model)

	return &Client{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

// MaybeGenerate asks the model for a short completion. Every failure
// mode (timeout, network, malformed response) is absorbed and reported
// as absent via ok=false.
func (c *Client) MaybeGenerate(ctx context.Context, prompt, system string) (string, bool) {
	if c == nil || c.model == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.timeout))
	defer cancel()

	parts := []gen.Part{}
	if system != "" {
		parts = append(parts, gen.Text(system))
	}
	parts = append(parts, gen.Text(prompt))

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		c.logger.Warn("generation failed, returning absent", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(gen.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", false
	}
	return out, true
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
