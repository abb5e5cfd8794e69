package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"sparkacademy/internal/config"
	"sparkacademy/internal/logger"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client talks to any OpenAI-compatible chat completions endpoint. The API
// key is attached as a bearer token by an oauth2 transport.
type Client struct {
	baseURL    string
	model      string
	logger     *logger.Logger
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream"`
}

type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewClient(cfg config.AIConfig, log *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if log == nil {
		log = logger.NewNop()
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.APIKey,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:    baseURL,
		model:      cfg.Model,
		logger:     log,
		httpClient: httpClient,
	}, nil
}

func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	req := OpenAIRequest{
		Model:       c.model,
		Messages:    []OpenAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   200,
		Stream:      false,
	}

	c.logger.Debug("generating response", "provider", "openai", "model", c.model)

	requestBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("openai API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("openai API error: status %d", resp.StatusCode)
	}

	var openaiResp OpenAIResponse
	if err := json.Unmarshal(body, &openaiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if openaiResp.Error != nil {
		return "", fmt.Errorf("openai API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	c.logger.Debug("generated response", "tokens", openaiResp.Usage.TotalTokens)
	return openaiResp.Choices[0].Message.Content, nil
}

func (c *Client) IsModelAvailable(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+c.model, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to check model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model %s not available: status %d", c.model, resp.StatusCode)
	}
	return nil
}
