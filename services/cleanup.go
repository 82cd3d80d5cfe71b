package services

import (
	"os"
	"path/filepath"
	"time"

	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"

	"github.com/go-co-op/gocron"
)

// uploadMaxAge bounds how long an uploaded PDF may sit unprocessed before
// the sweep reclaims it.
const uploadMaxAge = 24 * time.Hour

// CleanupService sweeps generated podcast audio and abandoned uploads on a
// schedule so neither directory grows without bound.
type CleanupService struct {
	scheduler *gocron.Scheduler
	audioDir  string
	uploadDir string
	maxAge    time.Duration
	interval  time.Duration
}

func NewCleanupService(cfg *config.Config) *CleanupService {
	return &CleanupService{
		scheduler: gocron.NewScheduler(time.UTC),
		audioDir:  cfg.AudioDir,
		uploadDir: cfg.NewPDFDir,
		maxAge:    time.Duration(cfg.AudioMaxAge) * time.Minute,
		interval:  time.Duration(cfg.CleanupInterval) * time.Minute,
	}
}

// Start schedules the sweep and runs the scheduler in the background.
func (s *CleanupService) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.sweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Info("Audio cleanup scheduled",
		"interval", s.interval.String(), "max_age", s.maxAge.String())
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *CleanupService) Stop() {
	s.scheduler.Stop()
}

func (s *CleanupService) sweep() {
	s.sweepDir(s.audioDir, time.Now().Add(-s.maxAge))
	s.sweepDir(s.uploadDir, time.Now().Add(-uploadMaxAge))
}

func (s *CleanupService) sweepDir(dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Cleanup scan failed", "dir", dir, "error", err)
		}
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			logger.Warn("Stale file removal failed", "file", e.Name(), "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("Stale files removed", "dir", dir, "count", removed)
	}
}
