package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/sessionforge/session-enrichment-api/internal/config"
	"github.com/sessionforge/session-enrichment-api/internal/extractor"
	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// MinContentWords gates the generative path: thinner sources skip the
// provider and go straight to templates.
const MinContentWords = 100

const maxPromptChars = 6000

// Engine turns normalized session text into the full set of content
// artifacts. One provider call per run at most; every field is backfilled
// from the deterministic template layer so the result is never empty.
type Engine struct {
	provider Enricher
	logger   *utils.Logger
}

func NewEngine(cfg *config.Config, logger *utils.Logger) *Engine {
	var provider Enricher

	switch cfg.EnrichProvider {
	case "openrouter":
		if cfg.OpenRouterAPIKey != "" {
			provider = NewOpenRouterEnricher(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, logger)
		}
	case "gemini":
		if len(cfg.GeminiAPIKeys) > 0 {
			provider = NewGeminiEnricher(cfg.GeminiAPIKeys, cfg.GeminiModel, logger)
		}
	}

	if provider == nil {
		logger.Warn("No enrichment provider configured, running on fallback templates only",
			"provider", cfg.EnrichProvider)
	}

	return &Engine{provider: provider, logger: logger}
}

// NewEngineWithProvider wires an explicit backend; nil means fallback-only.
func NewEngineWithProvider(provider Enricher, logger *utils.Logger) *Engine {
	return &Engine{provider: provider, logger: logger}
}

// Enrich produces the content artifacts for one session. A provider failure
// or an underspecified response is never fatal; the only error path is the
// internal defect of a field left empty after all fallback layers, which
// should be unreachable.
func (e *Engine) Enrich(ctx context.Context, content, knownTitle string) (*models.EnrichedContent, error) {
	content = strings.TrimSpace(content)

	var sections Sections
	aiEnhanced := false

	if e.provider != nil && extractor.CountAlphaWords(content) >= MinContentWords {
		raw, err := e.provider.Generate(ctx, buildPrompt(content, knownTitle))
		switch {
		case err != nil:
			e.logger.Warn("Enrichment provider failed, falling back to templates",
				"provider", e.provider.Name(), "error", err)
		default:
			sections = ParseSections(raw)
			if sections.Usable() {
				aiEnhanced = true
			} else {
				e.logger.Warn("Enrichment response had insufficient structure, falling back",
					"provider", e.provider.Name(), "response_length", len(raw))
				sections = Sections{}
			}
		}
	}

	title := sections.Title
	if title == "" {
		title = FallbackTitle(knownTitle, content)
	}

	summary := sections.Summary
	if summary == "" {
		summary = FallbackSummary(content)
	}
	if summary == "" {
		summary = GenericSummary(title)
	}

	script := sections.PodcastScript
	if script == "" {
		script = PodcastScript(title, summary)
	}

	linkedin := sections.LinkedInPost
	if linkedin == "" {
		linkedin = LinkedInPost(title, summary)
	}

	twitter := sections.TwitterThread
	if twitter == "" {
		twitter = TwitterThread(title, summary)
	}

	blog := sections.BlogContent
	if blog == "" {
		blog = BlogContent(title, summary)
	}

	quotes := sections.KeyQuotes
	if len(quotes) < 3 {
		quotes = KeyQuotes(title, summary)
	}

	enriched := &models.EnrichedContent{
		Title:         title,
		Summary:       summary,
		PodcastScript: script,
		BlogContent:   blog,
		SocialPosts: map[string]string{
			"linkedin": linkedin,
			"twitter":  twitter,
		},
		KeyQuotes:  quotes,
		AIEnhanced: aiEnhanced,
	}

	if err := validateEnriched(enriched); err != nil {
		return nil, err
	}

	return enriched, nil
}

// validateEnriched is the no-empty-field guard. Tripping it means a defect in
// the fallback layering, not bad input.
func validateEnriched(c *models.EnrichedContent) error {
	checks := map[string]string{
		"title":          c.Title,
		"summary":        c.Summary,
		"podcast_script": c.PodcastScript,
		"blog_content":   c.BlogContent,
		"linkedin_post":  c.SocialPosts["linkedin"],
		"twitter_thread": c.SocialPosts["twitter"],
	}

	for field, value := range checks {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("internal defect: field %s empty after fallback layering", field)
		}
	}

	if len(c.KeyQuotes) == 0 {
		return fmt.Errorf("internal defect: key_quotes empty after fallback layering")
	}

	return nil
}

func buildPrompt(content, knownTitle string) string {
	if len(content) > maxPromptChars {
		content = content[:maxPromptChars] + "..."
	}

	titleHint := ""
	if knownTitle != "" {
		titleHint = fmt.Sprintf("The session is titled %q; keep the title consistent with it.\n", knownTitle)
	}

	return fmt.Sprintf(`You are a content strategist repurposing a recorded session into multiple formats.
%sBased on the session content below, produce ALL of the following sections, each introduced by its exact label on its own line:

TITLE:
A punchy title for the session, maximum 90 characters.

EXECUTIVE SUMMARY:
2-4 sentences capturing what the session covered and why it matters.

PODCAST SCRIPT:
A 400-500 word first-person narration recapping the session for an audio audience. Conversational, no stage directions.

LINKEDIN POST:
A professional post with a hook, 2-3 takeaways, and relevant hashtags.

TWITTER THREAD:
A numbered thread of 4-6 short tweets with hashtags.

BLOG CONTENT:
A 500-800 word article with markdown section headings.

KEY QUOTES:
3-5 short quotable lines, one per line.

Use only plain text labels exactly as written above. Session content:

%s`, titleHint, content)
}
