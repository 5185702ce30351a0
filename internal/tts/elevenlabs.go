package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// Provider input limit handling. Scripts over the safe limit are cut back
// with room to spare and closed with a fixed sentence so playback never ends
// mid-thought.
const (
	CharLimit       = 5000
	truncateMargin  = 200
	ClosingSentence = " That's all I have time for today. Thanks for listening, and catch you at the next session."
)

// The TTS call streams binary data, so it gets the most aggressive timeout
// of the pipeline's outbound calls.
const requestTimeout = 45 * time.Second

// Client is the ElevenLabs text-to-speech client. A zero API key disables
// synthesis entirely; audio is an enhancement, not a required artifact.
type Client struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	client  *http.Client
	logger  *utils.Logger
}

func NewClient(apiKey, voiceID, modelID string, logger *utils.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		modelID: modelID,
		baseURL: "https://api.elevenlabs.io/v1",
		client: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// PrepareScript enforces the provider input limit. The result never exceeds
// CharLimit and the cut never splits a multibyte rune.
func PrepareScript(script string) string {
	if len(script) <= CharLimit {
		return script
	}

	cut := CharLimit - truncateMargin
	for cut > 0 && !utf8.RuneStart(script[cut]) {
		cut--
	}

	return script[:cut] + ClosingSentence
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts the script to audio bytes. Every failure class is
// logged distinctly and returned as an error; callers treat all of them as
// non-fatal.
func (c *Client) Synthesize(ctx context.Context, script string) ([]byte, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("tts not configured")
	}
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("empty script")
	}

	script = PrepareScript(script)

	reqBody := synthesizeRequest{
		Text:    script,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("TTS request failed", "class", "network", "elapsed", time.Since(started).String(), "error", err)
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		class := failureClass(resp.StatusCode)
		c.logger.Error("TTS provider rejected request",
			"class", class,
			"status", resp.StatusCode,
			"elapsed", time.Since(started).String(),
			"body", string(body))
		return nil, fmt.Errorf("tts provider returned status %d (%s)", resp.StatusCode, class)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("TTS response read failed", "class", "network", "error", err)
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}

	if len(audio) == 0 {
		c.logger.Error("TTS returned empty audio body", "class", "empty_response")
		return nil, fmt.Errorf("tts returned empty audio")
	}

	c.logger.Info("TTS synthesis succeeded",
		"bytes", len(audio),
		"script_chars", len(script),
		"elapsed", time.Since(started).String())

	return audio, nil
}

func failureClass(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "auth"
	case http.StatusTooManyRequests:
		return "rate_limit"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "malformed_input"
	default:
		return "provider_error"
	}
}

// EstimateDuration approximates narration length from word count at a
// conversational ~150 words per minute.
func EstimateDuration(script string) int {
	words := len(strings.Fields(script))
	if words == 0 {
		return 0
	}
	seconds := words * 60 / 150
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
