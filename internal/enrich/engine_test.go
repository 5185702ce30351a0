package enrich

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

type stubEnricher struct {
	response string
	err      error
	calls    int
}

func (s *stubEnricher) Name() string { return "stub" }

func (s *stubEnricher) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func longContent() string {
	return strings.TrimSpace(strings.Repeat("insightful session material about platform strategy and teams ", 20))
}

func assertNoEmptyFields(t *testing.T, c *models.EnrichedContent) {
	t.Helper()
	assert.NotEmpty(t, c.Title)
	assert.NotEmpty(t, c.Summary)
	assert.NotEmpty(t, c.PodcastScript)
	assert.NotEmpty(t, c.BlogContent)
	assert.NotEmpty(t, c.SocialPosts["linkedin"])
	assert.NotEmpty(t, c.SocialPosts["twitter"])
	assert.NotEmpty(t, c.KeyQuotes)
}

func TestEnrichTitleOnlyResponseBackfillsRest(t *testing.T) {
	provider := &stubEnricher{response: "TITLE: Provider Gave Just This"}
	engine := NewEngineWithProvider(provider, utils.NewLogger("error"))

	enriched, err := engine.Enrich(context.Background(), longContent(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.True(t, enriched.AIEnhanced)
	assert.Equal(t, "Provider Gave Just This", enriched.Title)
	assertNoEmptyFields(t, enriched)
	// Backfilled fields come from the template layer
	assert.Contains(t, enriched.PodcastScript, "Provider Gave Just This")
}

func TestEnrichProviderFailureDegrades(t *testing.T) {
	provider := &stubEnricher{err: fmt.Errorf("connection refused")}
	engine := NewEngineWithProvider(provider, utils.NewLogger("error"))

	enriched, err := engine.Enrich(context.Background(), longContent(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.False(t, enriched.AIEnhanced)
	assertNoEmptyFields(t, enriched)
}

func TestEnrichUnstructuredResponseDegrades(t *testing.T) {
	provider := &stubEnricher{response: "Here is an essay without any of the labels you asked for."}
	engine := NewEngineWithProvider(provider, utils.NewLogger("error"))

	enriched, err := engine.Enrich(context.Background(), longContent(), "")
	require.NoError(t, err)

	assert.False(t, enriched.AIEnhanced)
	assertNoEmptyFields(t, enriched)
}

func TestEnrichThinContentSkipsProvider(t *testing.T) {
	provider := &stubEnricher{response: "TITLE: Should Never Be Used"}
	engine := NewEngineWithProvider(provider, utils.NewLogger("error"))

	content := "Fifty words is well below the enrichment gate."
	enriched, err := engine.Enrich(context.Background(), content, "")
	require.NoError(t, err)

	assert.Equal(t, 0, provider.calls, "provider must not be consulted for thin content")
	assert.False(t, enriched.AIEnhanced)
	assert.Equal(t, content, enriched.Summary, "short content becomes the summary verbatim")
}

func TestEnrichNoProviderIsDeterministic(t *testing.T) {
	engine := NewEngineWithProvider(nil, utils.NewLogger("error"))
	content := longContent()

	first, err := engine.Enrich(context.Background(), content, "Known Title")
	require.NoError(t, err)
	second, err := engine.Enrich(context.Background(), content, "Known Title")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.AIEnhanced)
}

func TestEnrichEmptyInputStillPopulatesEverything(t *testing.T) {
	engine := NewEngineWithProvider(nil, utils.NewLogger("error"))

	enriched, err := engine.Enrich(context.Background(), "", "")
	require.NoError(t, err)

	assertNoEmptyFields(t, enriched)
	assert.Equal(t, defaultTitle, enriched.Title)
}
