package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-insight-nexus/internal/logger"
)

// TTSClient talks to the Sarvam text-to-speech API. The API accepts short
// inputs only, so callers pass pre-chunked text and receive concatenated
// audio back.
type TTSClient struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

func NewTTSClient(baseURL, apiKey, language string, timeout time.Duration) *TTSClient {
	return &TTSClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether the client is configured with credentials.
func (c *TTSClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type ttsRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker"`
	Model              string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize converts one text chunk to audio bytes.
func (c *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("tts client not configured")
	}

	body, err := json.Marshal(ttsRequest{
		Inputs:             []string{text},
		TargetLanguageCode: c.language,
		Speaker:            "meera",
		Model:              "bulbul:v1",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Warn("TTS upstream error", "status", resp.StatusCode, "body", string(payload))
		return nil, fmt.Errorf("tts service returned status %d", resp.StatusCode)
	}

	var out ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding tts response: %w", err)
	}
	if len(out.Audios) == 0 {
		return nil, fmt.Errorf("tts response carried no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(out.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("decoding tts audio: %w", err)
	}
	return audio, nil
}
