package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sessionforge/session-enrichment-api/internal/models"
)

type Repository interface {
	Create(ctx context.Context, sess *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkError(ctx context.Context, id, message string) error
	SaveResults(ctx context.Context, id string, bundle *models.ArtifactBundle) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sess *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, title, stored_file_path, mime_type, source_url, raw_text,
		                      processing_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.UserID,
		sess.Title,
		sess.StoredFilePath,
		sess.MimeType,
		sess.SourceURL,
		sess.RawText,
		sess.ProcessingStatus,
		sess.CreatedAt,
		sess.UpdatedAt,
	)

	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	var dataJSON sql.NullString

	query := `
		SELECT id, user_id, title, stored_file_path, mime_type, source_url, raw_text,
		       processing_status, generated_title, generated_summary, transcript_summary,
		       podcast_url, audio_duration, session_data, error_message, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Title,
		&sess.StoredFilePath,
		&sess.MimeType,
		&sess.SourceURL,
		&sess.RawText,
		&sess.ProcessingStatus,
		&sess.GeneratedTitle,
		&sess.GeneratedSummary,
		&sess.TranscriptSummary,
		&sess.PodcastURL,
		&sess.AudioDuration,
		&dataJSON,
		&sess.ErrorMessage,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if dataJSON.Valid && dataJSON.String != "" {
		var data models.SessionData
		if err := json.Unmarshal([]byte(dataJSON.String), &data); err != nil {
			return nil, err
		}
		sess.SessionData = &data
	}

	return &sess, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE sessions SET processing_status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *repository) MarkError(ctx context.Context, id, message string) error {
	query := `
		UPDATE sessions
		SET processing_status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, models.StatusError, message, time.Now())
	return err
}

// SaveResults writes the terminal status and the whole artifact bundle in one
// statement. A session must never end up complete without its artifacts, so
// there is no partial-write path here.
func (r *repository) SaveResults(ctx context.Context, id string, bundle *models.ArtifactBundle) error {
	data := models.SessionData{
		PodcastScript:    bundle.PodcastScript,
		BlogContent:      bundle.BlogContent,
		SocialPosts:      bundle.SocialPosts,
		KeyQuotes:        bundle.KeyQuotes,
		ExtractedText:    bundle.Transcript,
		AIEnhanced:       bundle.AIEnhanced,
		ProcessingMethod: bundle.ProcessingMethod,
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET processing_status = $2,
		    generated_title = $3,
		    generated_summary = $4,
		    transcript_summary = $5,
		    podcast_url = $6,
		    audio_duration = $7,
		    session_data = $8,
		    error_message = NULL,
		    updated_at = $9
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		models.StatusComplete,
		bundle.Title,
		bundle.Summary,
		bundle.Summary,
		bundle.PodcastURL,
		bundle.AudioDuration,
		string(dataJSON),
		time.Now(),
	)

	return err
}
