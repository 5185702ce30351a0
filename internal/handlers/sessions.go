package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/pipeline"
	"github.com/sessionforge/session-enrichment-api/internal/repository"
	"github.com/sessionforge/session-enrichment-api/internal/storage"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
	"github.com/gorilla/mux"
)

type SessionHandler struct {
	pipeline    *pipeline.Pipeline
	repo        repository.Repository
	storage     storage.Storage
	maxFileSize int64
	logger      *utils.Logger
}

func NewSessionHandler(
	pipe *pipeline.Pipeline,
	repo repository.Repository,
	store storage.Storage,
	maxFileSize int64,
	logger *utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		pipeline:    pipe,
		repo:        repo,
		storage:     store,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// UploadSession accepts either a multipart document upload or a JSON body
// with a source URL / raw text. Both create an uploaded session; processing is
// a separate call.
func (h *SessionHandler) UploadSession(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.uploadDocument(w, r)
		return
	}

	h.createFromJSON(w, r)
}

func (h *SessionHandler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File size exceeds limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError("File size exceeds limit"))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))
	if !isValidContentType(contentType) {
		h.respondError(w, utils.NewBadRequestError("Only PDF, DOCX and plain-text files are allowed"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File size exceeds limit"))
		return
	}
	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	id := utils.GenerateID()
	key := fmt.Sprintf("sessions/%s/%s", id, filepath.Base(header.Filename))

	if err := h.storage.Upload(r.Context(), key, data, contentType); err != nil {
		h.logger.Error("Failed to store uploaded document", "key", key, "error", err)
		h.respondError(w, utils.NewInternalError("Failed to store file"))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	now := time.Now()
	sess := &models.Session{
		ID:               id,
		UserID:           r.FormValue("user_id"),
		Title:            title,
		StoredFilePath:   &key,
		MimeType:         &contentType,
		ProcessingStatus: models.StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.repo.Create(r.Context(), sess); err != nil {
		h.logger.Error("Failed to create session", "session_id", id, "error", err)
		h.respondError(w, utils.NewInternalError("Failed to create session"))
		return
	}

	h.logger.Info("Session created from upload",
		"session_id", id,
		"filename", header.Filename,
		"content_type", contentType,
		"bytes", len(data))

	h.respondJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) createFromJSON(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	sourceURL := strings.TrimSpace(req.SourceURL)
	rawText := strings.TrimSpace(req.RawText)
	if sourceURL == "" && rawText == "" {
		h.respondError(w, utils.NewBadRequestError("Either source_url or raw_text is required"))
		return
	}

	now := time.Now()
	sess := &models.Session{
		ID:               utils.GenerateID(),
		UserID:           req.UserID,
		Title:            req.Title,
		ProcessingStatus: models.StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if sourceURL != "" {
		sess.SourceURL = &sourceURL
	}
	if rawText != "" {
		sess.RawText = &rawText
	}

	if err := h.repo.Create(r.Context(), sess); err != nil {
		h.logger.Error("Failed to create session", "session_id", sess.ID, "error", err)
		h.respondError(w, utils.NewInternalError("Failed to create session"))
		return
	}

	h.logger.Info("Session created from JSON",
		"session_id", sess.ID,
		"has_url", sourceURL != "",
		"has_raw_text", rawText != "")

	h.respondJSON(w, http.StatusCreated, sess)
}

// ProcessSession runs the enrichment pipeline for one session. The body is
// optional; the path identifier always wins over anything in it.
func (h *SessionHandler) ProcessSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Session ID is required"))
		return
	}

	var req models.ProcessRequest
	if r.Body != nil {
		// Ignore decode errors; an empty or absent body is valid.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	req.SessionID = id

	resp, err := h.pipeline.Process(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Session ID is required"))
		return
	}

	sess, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		h.respondError(w, utils.NewInternalError("Failed to load session"))
		return
	}
	if sess == nil {
		h.respondError(w, utils.NewNotFoundError("Session not found"))
		return
	}

	h.respondJSON(w, http.StatusOK, sess)
}

// determineContentType resolves the MIME type from the filename extension with
// fallback to the reported header value.
func determineContentType(filename, headerContentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt", ".md":
		return "text/plain"
	case ".doc":
		return "application/msword"
	}

	return headerContentType
}

func isValidContentType(contentType string) bool {
	validTypes := map[string]bool{
		"application/pdf": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml":          true,
		"text/plain":        true,
		"text/txt":          true,
		"application/txt":   true,
		"application/x-txt": true,
	}

	return validTypes[contentType]
}

func (h *SessionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *SessionHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
