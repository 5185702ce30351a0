package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sessionforge/session-enrichment-api/internal/enrich"
	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/normalizer"
	"github.com/sessionforge/session-enrichment-api/internal/repository"
	"github.com/sessionforge/session-enrichment-api/internal/storage"
	"github.com/sessionforge/session-enrichment-api/internal/tts"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// Pipeline drives one session through normalization, enrichment, audio
// synthesis and persistence. Stage failures degrade to fallbacks; only an
// unreadable source or a persistence failure marks the session error.
type Pipeline struct {
	repo       repository.Repository
	storage    storage.Storage
	normalizer *normalizer.Normalizer
	engine     *enrich.Engine
	tts        *tts.Client
	logger     *utils.Logger
	now        func() time.Time
}

func New(
	repo repository.Repository,
	store storage.Storage,
	norm *normalizer.Normalizer,
	engine *enrich.Engine,
	ttsClient *tts.Client,
	logger *utils.Logger,
) *Pipeline {
	return &Pipeline{
		repo:       repo,
		storage:    store,
		normalizer: norm,
		engine:     engine,
		tts:        ttsClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Process runs the whole pipeline for one session. Re-invocation overwrites
// the previous bundle; guarding against concurrent runs for the same session
// is the caller's responsibility.
func (p *Pipeline) Process(ctx context.Context, req *models.ProcessRequest) (*models.ProcessResponse, error) {
	started := p.now()

	sess, err := p.repo.GetByID(ctx, req.SessionID)
	if err != nil {
		p.logger.Error("Failed to load session", "session_id", req.SessionID, "error", err)
		return nil, utils.NewInternalError("Failed to load session")
	}
	if sess == nil {
		return nil, utils.NewNotFoundError("Session not found")
	}

	if sess.ProcessingStatus != models.StatusProcessing {
		if err := p.repo.UpdateStatus(ctx, sess.ID, models.StatusProcessing); err != nil {
			return nil, p.fail(ctx, sess.ID, fmt.Errorf("failed to set processing status: %w", err))
		}
	}

	src, err := p.normalizer.Normalize(ctx, sess, req)
	if err != nil {
		return nil, p.fail(ctx, sess.ID, err)
	}

	p.logger.Info("Source normalized",
		"session_id", sess.ID,
		"method", src.Method,
		"text_length", len(src.Text))

	enriched, err := p.engine.Enrich(ctx, src.Text, src.Title)
	if err != nil {
		// Only the internal no-empty-field defect lands here.
		return nil, p.fail(ctx, sess.ID, err)
	}

	podcastURL, duration := p.synthesizeAudio(ctx, sess.ID, enriched.PodcastScript)

	bundle := &models.ArtifactBundle{
		Title:            enriched.Title,
		Summary:          enriched.Summary,
		Transcript:       src.Text,
		PodcastScript:    enriched.PodcastScript,
		PodcastURL:       podcastURL,
		BlogContent:      enriched.BlogContent,
		SocialPosts:      enriched.SocialPosts,
		KeyQuotes:        enriched.KeyQuotes,
		AIEnhanced:       enriched.AIEnhanced,
		ProcessingMethod: src.Method,
		AudioDuration:    duration,
	}

	if err := p.repo.SaveResults(ctx, sess.ID, bundle); err != nil {
		return nil, p.fail(ctx, sess.ID, fmt.Errorf("failed to persist artifact bundle: %w", err))
	}

	p.logger.Info("Pipeline run complete",
		"session_id", sess.ID,
		"method", src.Method,
		"ai_enhanced", enriched.AIEnhanced,
		"has_audio", podcastURL != nil,
		"elapsed", time.Since(started).String())

	return &models.ProcessResponse{
		Success:         true,
		Title:           enriched.Title,
		Summary:         enriched.Summary,
		PodcastURL:      podcastURL,
		PodcastScript:   enriched.PodcastScript,
		DurationSeconds: duration,
	}, nil
}

// fail marks the session error for operator visibility and surfaces the
// message. No automatic retry; the user re-invokes the same entry point.
func (p *Pipeline) fail(ctx context.Context, sessionID string, err error) error {
	p.logger.Error("Pipeline run failed", "session_id", sessionID, "error", err)

	if markErr := p.repo.MarkError(ctx, sessionID, err.Error()); markErr != nil {
		p.logger.Error("Failed to mark session error", "session_id", sessionID, "error", markErr)
	}

	return utils.NewInternalError(err.Error())
}

// synthesizeAudio is entirely best-effort: any failure returns a nil URL and
// the pipeline carries on.
func (p *Pipeline) synthesizeAudio(ctx context.Context, sessionID, script string) (*string, int) {
	duration := tts.EstimateDuration(script)

	if !p.tts.Enabled() || strings.TrimSpace(script) == "" {
		return nil, duration
	}

	audio, err := p.tts.Synthesize(ctx, script)
	if err != nil {
		p.logger.Warn("Audio synthesis failed, continuing without audio",
			"session_id", sessionID, "error", err)
		return nil, duration
	}

	key := fmt.Sprintf("audio/%s/%d.mp3", sessionID, p.now().Unix())
	if err := p.storage.Upload(ctx, key, audio, "audio/mpeg"); err != nil {
		p.logger.Warn("Audio upload failed, continuing without audio",
			"session_id", sessionID, "key", key, "error", err)
		return nil, duration
	}

	url := p.storage.PublicURL(key)
	return &url, duration
}
