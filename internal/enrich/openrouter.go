package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// Enricher is one generative-text backend. The engine treats it as
// unreliable: any error or underspecified response degrades to templates.
type Enricher interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type openRouterEnricher struct {
	apiKey string
	model  string
	logger *utils.Logger
	client *http.Client
}

type openRouterRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

type choice struct {
	Message message `json:"message"`
}

func NewOpenRouterEnricher(apiKey, model string, logger *utils.Logger) Enricher {
	return &openRouterEnricher{
		apiKey: apiKey,
		model:  model,
		logger: logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (o *openRouterEnricher) Name() string { return "openrouter" }

func (o *openRouterEnricher) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := openRouterRequest{
		Model: o.model,
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://openrouter.ai/api/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		o.logger.Error("OpenRouter API error",
			"status", resp.StatusCode,
			"elapsed", time.Since(started).String(),
			"body", string(body))
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode)
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(body, &orResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if orResp.Error != nil {
		return "", fmt.Errorf("OpenRouter API error: %s", orResp.Error.Message)
	}

	if len(orResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return orResp.Choices[0].Message.Content, nil
}
