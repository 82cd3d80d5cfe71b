package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/models"

	"github.com/google/uuid"
)

// ttsChunkSize keeps each synthesis request under the upstream input limit.
const ttsChunkSize = 450

// PodcastService turns generated insights into a narrated audio overview.
// When no TTS credentials are configured the script alone is returned.
type PodcastService struct {
	llm       *ai.GeminiClient
	tts       *TTSClient
	audioDir  string
	publicURL string
}

func NewPodcastService(cfg *config.Config, llm *ai.GeminiClient, tts *TTSClient) *PodcastService {
	return &PodcastService{
		llm:       llm,
		tts:       tts,
		audioDir:  cfg.AudioDir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// Generate writes a short narration script from the insights and, when TTS
// is available, renders it to an audio file served under /static/audio.
func (s *PodcastService) Generate(ctx context.Context, req models.PodcastRequest) (models.PodcastResponse, error) {
	script, err := s.writeScript(ctx, req.Insights)
	if err != nil {
		return models.PodcastResponse{}, err
	}

	resp := models.PodcastResponse{Script: script}
	if !s.tts.Enabled() {
		logger.Info("TTS not configured, returning script only")
		return resp, nil
	}

	audioURL, err := s.renderAudio(ctx, script)
	if err != nil {
		// Audio is best-effort; the script is still useful on its own.
		logger.Warn("Podcast audio rendering failed", "error", err)
		return resp, nil
	}
	resp.AudioURL = audioURL
	return resp, nil
}

func (s *PodcastService) writeScript(ctx context.Context, insights models.Insights) (string, error) {
	var material strings.Builder
	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&material, "%s:\n", label)
		for _, item := range items {
			fmt.Fprintf(&material, "- %s\n", item)
		}
	}
	writeList("Key insights", insights.KeyInsights)
	writeList("Did you know", insights.DidYouKnow)
	writeList("Contradictions", insights.Contradictions)
	writeList("Inspirations", insights.Inspirations)

	if material.Len() == 0 {
		return "", fmt.Errorf("no insights to narrate")
	}

	prompt := fmt.Sprintf(`Write a 2-3 minute podcast narration covering the findings below.
Single narrator, conversational tone, plain spoken sentences. No stage directions, no markdown, no host names.

Findings:
%s`, material.String())

	script, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating podcast script: %w", err)
	}
	return strings.TrimSpace(script), nil
}

func (s *PodcastService) renderAudio(ctx context.Context, script string) (string, error) {
	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", err
	}

	var audio []byte
	for _, chunk := range chunkText(script, ttsChunkSize) {
		part, err := s.tts.Synthesize(ctx, chunk)
		if err != nil {
			return "", err
		}
		audio = append(audio, part...)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("tts produced no audio")
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ".mp3"
	if err := os.WriteFile(filepath.Join(s.audioDir, name), audio, 0o644); err != nil {
		return "", err
	}
	return s.publicURL + "/static/audio/" + name, nil
}

// chunkText splits on sentence ends where possible, falling back to a hard
// cut for run-on text.
func chunkText(text string, limit int) []string {
	var chunks []string
	remaining := strings.TrimSpace(text)
	for len(remaining) > limit {
		cut := strings.LastIndexAny(remaining[:limit], ".!?")
		if cut < limit/2 {
			cut = limit - 1
		}
		chunks = append(chunks, strings.TrimSpace(remaining[:cut+1]))
		remaining = strings.TrimSpace(remaining[cut+1:])
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}
