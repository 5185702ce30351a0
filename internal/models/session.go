package models

import (
	"time"
)

// Processing status state machine: uploaded -> processing -> complete | error.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Session is the unit of work: one uploaded document, video URL, or raw-text
// source. The enrichment pipeline reads the source descriptor and writes back
// the generated artifacts; it never creates or deletes sessions on its own.
type Session struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Title  string `json:"title" db:"title"`

	// Source descriptor: exactly one of the three is meaningful.
	StoredFilePath *string `json:"stored_file_path,omitempty" db:"stored_file_path"`
	MimeType       *string `json:"mime_type,omitempty" db:"mime_type"`
	SourceURL      *string `json:"source_url,omitempty" db:"source_url"`
	RawText        *string `json:"raw_text,omitempty" db:"raw_text"`

	ProcessingStatus  string       `json:"processing_status" db:"processing_status"`
	GeneratedTitle    *string      `json:"generated_title,omitempty" db:"generated_title"`
	GeneratedSummary  *string      `json:"generated_summary,omitempty" db:"generated_summary"`
	TranscriptSummary *string      `json:"transcript_summary,omitempty" db:"transcript_summary"`
	PodcastURL        *string      `json:"podcast_url,omitempty" db:"podcast_url"`
	AudioDuration     *int         `json:"audio_duration,omitempty" db:"audio_duration"`
	SessionData       *SessionData `json:"session_data,omitempty" db:"-"`
	ErrorMessage      *string      `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SessionData is the JSON blob column holding the long-form artifacts.
type SessionData struct {
	PodcastScript    string            `json:"podcast_script"`
	BlogContent      string            `json:"blog_content"`
	SocialPosts      map[string]string `json:"social_posts"`
	KeyQuotes        []string          `json:"key_quotes"`
	ExtractedText    string            `json:"extracted_text"`
	AIEnhanced       bool              `json:"ai_enhanced"`
	ProcessingMethod string            `json:"processing_method"`
}

// EnrichedContent is the transient output of the enrichment engine. Every
// field is guaranteed non-empty by the fallback layering; AIEnhanced records
// whether the generative provider contributed anything.
type EnrichedContent struct {
	Title         string
	Summary       string
	PodcastScript string
	BlogContent   string
	SocialPosts   map[string]string
	KeyQuotes     []string
	AIEnhanced    bool
}

// ArtifactBundle is the full result of one pipeline run, persisted together
// with the terminal status in a single atomic update.
type ArtifactBundle struct {
	Title            string
	Summary          string
	Transcript       string
	PodcastScript    string
	PodcastURL       *string
	BlogContent      string
	SocialPosts      map[string]string
	KeyQuotes        []string
	AIEnhanced       bool
	ProcessingMethod string
	AudioDuration    int
}

// CreateSessionRequest is the JSON body for URL / raw-text sessions.
type CreateSessionRequest struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
	RawText   string `json:"raw_text"`
}

// ProcessRequest is the entry-point contract for one pipeline invocation.
// The session's own source_url / raw_text are read from the datastore; the
// request carries only what the uploader knows at call time.
type ProcessRequest struct {
	SessionID      string `json:"session_id"`
	StoredFilePath string `json:"stored_file_path,omitempty"`
	SourceMimeType string `json:"source_mime_type,omitempty"`
	RawText        string `json:"raw_text,omitempty"`
}

// ProcessResponse is returned on a successful (possibly degraded) run.
type ProcessResponse struct {
	Success         bool    `json:"success"`
	Title           string  `json:"title"`
	Summary         string  `json:"summary"`
	PodcastURL      *string `json:"podcast_url"`
	PodcastScript   string  `json:"podcast_script"`
	DurationSeconds int     `json:"duration_seconds"`
}
