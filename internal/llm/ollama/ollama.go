package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"sparkacademy/internal/config"
	"sparkacademy/internal/logger"
)

const defaultHost = "http://localhost:11434"

type Client struct {
	client *api.Client
	model  string
	logger *logger.Logger
}

func NewClient(cfg config.AIConfig, log *logger.Logger) (*Client, error) {
	host := cfg.BaseURL
	if host == "" {
		host = defaultHost
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		client: api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:  cfg.Model,
		logger: log,
	}, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	shouldStream := false

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &shouldStream,
		Options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	}

	c.logger.Debug("generating response", "provider", "ollama", "model", c.model)

	var response string
	f := func(g api.GenerateResponse) error {
		response += g.Response
		return nil
	}

	if err := c.client.Generate(ctx, req, f); err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	return response, nil
}

func (c *Client) IsModelAvailable(ctx context.Context) error {
	models, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range models.Models {
		if model.Name == c.model {
			return nil
		}
	}

	return fmt.Errorf("model %s not found. Available models: %v", c.model, getModelNames(models.Models))
}

func getModelNames(models []api.ListModelResponse) []string {
	names := make([]string, len(models))
	for i, model := range models {
		names[i] = model.Name
	}
	return names
}
