package enrich

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// geminiEnricher is the alternate backend. Rotates through the configured
// API keys on quota errors before giving up.
type geminiEnricher struct {
	apiKeys    []string
	model      string
	currentKey int
	logger     *utils.Logger
}

func NewGeminiEnricher(apiKeys []string, model string, logger *utils.Logger) Enricher {
	return &geminiEnricher{
		apiKeys: apiKeys,
		model:   model,
		logger:  logger,
	}
}

func (g *geminiEnricher) Name() string { return "gemini" }

func (g *geminiEnricher) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.apiKeys[g.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn("Gemini key rate limited, rotating", "key_index", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				return text.String(), nil
			}
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiEnricher) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
