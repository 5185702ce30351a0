package normalizer

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// VideoMetadata is what the video host exposes without credentials: oEmbed
// title, watch-page description, and best-effort caption text.
type VideoMetadata struct {
	Title       string
	Description string
	Transcript  string
}

type YouTubeClient struct {
	client        *http.Client
	oembedBase    string
	watchBase     string
	timedTextBase string
}

func NewYouTubeClient(client *http.Client) *YouTubeClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &YouTubeClient{
		client:        client,
		oembedBase:    "https://www.youtube.com/oembed",
		watchBase:     "https://www.youtube.com/watch",
		timedTextBase: "https://video.google.com/timedtext",
	}
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// VideoID recognizes the known video-hosting URL patterns and extracts the
// video identifier.
func VideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var id string

	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	id = strings.Trim(id, "/")
	if !videoIDRe.MatchString(id) {
		return "", false
	}
	return id, true
}

// FetchMetadata pulls title, description and captions. The title (oEmbed) is
// required; description and transcript are best-effort extras.
func (y *YouTubeClient) FetchMetadata(ctx context.Context, rawURL, videoID string) (*VideoMetadata, error) {
	title, err := y.fetchOEmbedTitle(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("oembed lookup: %w", err)
	}

	meta := &VideoMetadata{Title: title}

	if description, err := y.fetchDescription(ctx, videoID); err == nil {
		meta.Description = description
	}

	if transcript, err := y.fetchTranscript(ctx, videoID); err == nil {
		meta.Transcript = transcript
	}

	return meta, nil
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

func (y *YouTubeClient) fetchOEmbedTitle(ctx context.Context, rawURL string) (string, error) {
	endpoint := fmt.Sprintf("%s?url=%s&format=json", y.oembedBase, url.QueryEscape(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed returned %s", resp.Status)
	}

	var oe oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return "", fmt.Errorf("decode oembed: %w", err)
	}
	if strings.TrimSpace(oe.Title) == "" {
		return "", fmt.Errorf("oembed response had no title")
	}

	return oe.Title, nil
}

func (y *YouTubeClient) fetchDescription(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?v=%s", y.watchBase, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "session-enrichment-api/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}

	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(content), nil
	}
	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(content), nil
	}

	return "", fmt.Errorf("no description meta tag found")
}

type timedTextResponse struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (y *YouTubeClient) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=en&v=%s", y.timedTextBase, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned %s", resp.Status)
	}

	var tt timedTextResponse
	if err := xml.NewDecoder(resp.Body).Decode(&tt); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	var parts []string
	for _, text := range tt.Texts {
		if line := strings.TrimSpace(html.UnescapeString(text.Value)); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no caption text available")
	}

	return strings.Join(parts, " "), nil
}
