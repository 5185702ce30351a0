package normalizer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sessionforge/session-enrichment-api/internal/extractor"
	"github.com/sessionforge/session-enrichment-api/internal/models"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

type fakeStorage struct {
	objects      map[string][]byte
	failDownload bool
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if f.failDownload {
		return nil, fmt.Errorf("object not reachable")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return data, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStorage) PublicURL(key string) string { return "http://storage.local/" + key }

func newTestNormalizer(store *fakeStorage) *Normalizer {
	logger := utils.NewLogger("error")
	return New(store, extractor.NewCascade(logger), logger)
}

func strPtr(s string) *string { return &s }

func TestVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"https://www.youtube.com/watch", "", false},
		{"not a url at all", "", false},
	}

	for _, tt := range tests {
		id, ok := VideoID(tt.url)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("VideoID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestNormalizeRawTextPassThrough(t *testing.T) {
	n := newTestNormalizer(&fakeStorage{})
	raw := "Fifty words of raw session notes passed through unchanged."

	sess := &models.Session{ID: "s1", RawText: strPtr(raw)}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Text != raw {
		t.Errorf("raw text must pass through unchanged, got %q", src.Text)
	}
	if src.Method != MethodRawText {
		t.Errorf("expected method %q, got %q", MethodRawText, src.Method)
	}
}

func TestNormalizeRequestRawTextOverridesSession(t *testing.T) {
	n := newTestNormalizer(&fakeStorage{})

	sess := &models.Session{ID: "s1", RawText: strPtr("stored text")}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{RawText: "request text"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Text != "request text" {
		t.Errorf("request raw text should win, got %q", src.Text)
	}
}

func TestNormalizeUnknownURLPlaceholder(t *testing.T) {
	n := newTestNormalizer(&fakeStorage{})

	sess := &models.Session{ID: "s1", SourceURL: strPtr("https://example.com/talks/42")}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Method != MethodURLPlaceholder {
		t.Errorf("expected method %q, got %q", MethodURLPlaceholder, src.Method)
	}
	if !strings.Contains(src.Text, "https://example.com/talks/42") {
		t.Errorf("placeholder must contain the bare URL, got %q", src.Text)
	}
}

func TestNormalizeDocumentExtraction(t *testing.T) {
	doc := []byte("%PDF-1.4\nBT (" + strings.TrimSpace(strings.Repeat("session ", 25)) + ") Tj ET\n")
	store := &fakeStorage{objects: map[string][]byte{"uploads/s1/deck.pdf": doc}}
	n := newTestNormalizer(store)

	sess := &models.Session{
		ID:             "s1",
		StoredFilePath: strPtr("uploads/s1/deck.pdf"),
		MimeType:       strPtr("application/pdf"),
	}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Method != "pdf_extraction" {
		t.Errorf("expected method pdf_extraction, got %q", src.Method)
	}
	if !strings.Contains(src.Text, "session") {
		t.Errorf("extracted text missing content: %q", src.Text)
	}
}

func TestNormalizeFilenameSynthesisWhenExtractionFails(t *testing.T) {
	garbage := make([]byte, 256)
	store := &fakeStorage{objects: map[string][]byte{"uploads/s1/Network_Effects_Strategy.pdf": garbage}}
	n := newTestNormalizer(store)

	sess := &models.Session{
		ID:             "s1",
		StoredFilePath: strPtr("uploads/s1/Network_Effects_Strategy.pdf"),
		MimeType:       strPtr("application/pdf"),
	}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Method != MethodFilenameSynthesis {
		t.Errorf("expected method %q, got %q", MethodFilenameSynthesis, src.Method)
	}
	if src.Title != "Network Effects and Platform Strategy" {
		t.Errorf("expected the network-effects topic template, got %q", src.Title)
	}
	if src.Text == "" {
		t.Error("synthesized content must not be empty")
	}
}

func TestNormalizeDownloadFailureIsFatal(t *testing.T) {
	n := newTestNormalizer(&fakeStorage{failDownload: true})

	sess := &models.Session{
		ID:             "s1",
		StoredFilePath: strPtr("uploads/s1/missing.pdf"),
		MimeType:       strPtr("application/pdf"),
	}
	if _, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{}); err == nil {
		t.Fatal("expected fatal error when the source document cannot be downloaded")
	}
}

func TestNormalizeNoSourceIsFatal(t *testing.T) {
	n := newTestNormalizer(&fakeStorage{})

	if _, err := n.Normalize(context.Background(), &models.Session{ID: "s1"}, &models.ProcessRequest{}); err == nil {
		t.Fatal("expected error for a session with no source descriptor")
	}
}

func TestNormalizeYouTubeMetadata(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title":"Scaling Platform Teams","author_name":"ConfChannel"}`)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:description" content="A talk about platform teams."></head><body></body></html>`)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, `<transcript><text start="0">Welcome everyone.</text><text start="4">Let&#39;s talk platforms.</text></transcript>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	n := newTestNormalizer(&fakeStorage{})
	n.youtube = &YouTubeClient{
		client:        srv.Client(),
		oembedBase:    srv.URL + "/oembed",
		watchBase:     srv.URL + "/watch",
		timedTextBase: srv.URL + "/timedtext",
	}

	sess := &models.Session{ID: "s1", SourceURL: strPtr("https://www.youtube.com/watch?v=dQw4w9WgXcQ")}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Method != MethodYouTubeMetadata {
		t.Errorf("expected method %q, got %q", MethodYouTubeMetadata, src.Method)
	}
	if src.VideoTitle != "Scaling Platform Teams" {
		t.Errorf("unexpected video title %q", src.VideoTitle)
	}
	if !strings.Contains(src.Text, "Scaling Platform Teams") ||
		!strings.Contains(src.Text, "A talk about platform teams.") {
		t.Errorf("normalized text missing title or description: %q", src.Text)
	}
	if !strings.Contains(src.Text, "Let's talk platforms.") {
		t.Errorf("caption text missing: %q", src.Text)
	}
}

func TestNormalizeYouTubeMetadataFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	n := newTestNormalizer(&fakeStorage{})
	n.youtube = &YouTubeClient{
		client:        srv.Client(),
		oembedBase:    srv.URL + "/oembed",
		watchBase:     srv.URL + "/watch",
		timedTextBase: srv.URL + "/timedtext",
	}

	sess := &models.Session{ID: "s1", SourceURL: strPtr("https://youtu.be/dQw4w9WgXcQ")}
	src, err := n.Normalize(context.Background(), sess, &models.ProcessRequest{})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if src.Method != MethodURLPlaceholder {
		t.Errorf("expected placeholder fallback, got %q", src.Method)
	}
	if !strings.Contains(src.Text, "https://youtu.be/dQw4w9WgXcQ") {
		t.Errorf("placeholder must contain the URL, got %q", src.Text)
	}
}
