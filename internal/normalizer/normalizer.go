package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sessionforge/session-enrichment-api/internal/enrich"
	"github.com/sessionforge/session-enrichment-api/internal/extractor"
	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/storage"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// Processing methods recorded in the artifact bundle.
const (
	MethodRawText           = "raw_text"
	MethodYouTubeMetadata   = "youtube_metadata"
	MethodURLPlaceholder    = "url_placeholder"
	MethodFilenameSynthesis = "filename_synthesis"
)

// NormalizedSource is what the rest of the pipeline consumes: one text blob
// plus whatever auxiliary metadata the source carried.
type NormalizedSource struct {
	Text             string
	Title            string
	VideoTitle       string
	VideoDescription string
	Method           string
}

// Normalizer decides, from the session's recorded source descriptor, what raw
// content to feed downstream. It owns no persistence; its only side effects
// are outbound fetches.
type Normalizer struct {
	storage storage.Storage
	cascade *extractor.Cascade
	youtube *YouTubeClient
	logger  *utils.Logger
}

func New(store storage.Storage, cascade *extractor.Cascade, logger *utils.Logger) *Normalizer {
	return &Normalizer{
		storage: store,
		cascade: cascade,
		youtube: NewYouTubeClient(nil),
		logger:  logger,
	}
}

// Normalize resolves the session source to text. Only an unreadable document
// source is fatal; URL and extraction failures degrade to placeholders or
// filename synthesis.
func (n *Normalizer) Normalize(ctx context.Context, sess *models.Session, req *models.ProcessRequest) (*NormalizedSource, error) {
	// Raw text passes through unchanged; request override wins.
	rawText := req.RawText
	if strings.TrimSpace(rawText) == "" && sess.RawText != nil {
		rawText = *sess.RawText
	}
	if strings.TrimSpace(rawText) != "" {
		return &NormalizedSource{Text: rawText, Title: sess.Title, Method: MethodRawText}, nil
	}

	if sess.SourceURL != nil && strings.TrimSpace(*sess.SourceURL) != "" {
		return n.normalizeURL(ctx, strings.TrimSpace(*sess.SourceURL)), nil
	}

	path := req.StoredFilePath
	if path == "" && sess.StoredFilePath != nil {
		path = *sess.StoredFilePath
	}
	if path == "" {
		return nil, fmt.Errorf("session has no readable source")
	}

	contentType := req.SourceMimeType
	if contentType == "" && sess.MimeType != nil {
		contentType = *sess.MimeType
	}

	return n.normalizeDocument(ctx, path, contentType)
}

func (n *Normalizer) normalizeURL(ctx context.Context, rawURL string) *NormalizedSource {
	videoID, ok := VideoID(rawURL)
	if !ok {
		n.logger.Info("URL source not recognized as video host, using placeholder", "url", rawURL)
		return n.urlPlaceholder(rawURL)
	}

	meta, err := n.youtube.FetchMetadata(ctx, rawURL, videoID)
	if err != nil {
		n.logger.Warn("Video metadata fetch failed, using placeholder", "url", rawURL, "error", err)
		return n.urlPlaceholder(rawURL)
	}

	var parts []string
	if meta.Title != "" {
		parts = append(parts, meta.Title)
	}
	if meta.Description != "" {
		parts = append(parts, meta.Description)
	}
	if meta.Transcript != "" {
		parts = append(parts, meta.Transcript)
	}

	return &NormalizedSource{
		Text:             strings.Join(parts, "\n\n"),
		Title:            meta.Title,
		VideoTitle:       meta.Title,
		VideoDescription: meta.Description,
		Method:           MethodYouTubeMetadata,
	}
}

// urlPlaceholder is intentionally low-value; the enrichment fallback layers
// are expected to supersede it.
func (n *Normalizer) urlPlaceholder(rawURL string) *NormalizedSource {
	return &NormalizedSource{
		Text:   fmt.Sprintf("Session content from URL: %s", rawURL),
		Method: MethodURLPlaceholder,
	}
}

func (n *Normalizer) normalizeDocument(ctx context.Context, path, contentType string) (*NormalizedSource, error) {
	data, err := n.storage.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download source document %s: %w", path, err)
	}

	if result := n.cascade.Extract(data, contentType); result != nil {
		return &NormalizedSource{
			Text:   result.Text,
			Method: extractor.MethodFor(contentType),
		}, nil
	}

	// Scanned images and encrypted streams yield nothing; synthesize a
	// content pack from the filename so the result is never empty.
	n.logger.Warn("All extraction strategies failed, synthesizing from filename",
		"path", path, "content_type", contentType)

	title, body := enrich.SynthesizeFromFilename(path)
	return &NormalizedSource{
		Text:   body,
		Title:  title,
		Method: MethodFilenameSynthesis,
	}, nil
}
