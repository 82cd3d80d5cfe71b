package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/models"
	"pdf-insight-nexus/services"
	"pdf-insight-nexus/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SetupDocumentRoutes registers upload, processing and cleanup endpoints
// plus the static mounts for served PDFs and generated audio.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, extractor *services.PDFExtractor, processor *services.Processor, store *services.DocumentStore) {

	// The fresh-upload slot holds exactly one document: a new upload
	// replaces whatever was there and invalidates the current corpus.
	router.POST("/upload/new", func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", gin.H{"error": err.Error()})
			return
		}
		if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
			utils.RespondWithBadRequest(c, "Only PDF files are allowed", nil)
			return
		}
		if file.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File too large", gin.H{
				"max_bytes": cfg.MaxFileSize,
				"got_bytes": file.Size,
			})
			return
		}

		if err := clearDirFiles(cfg.NewPDFDir); err != nil {
			utils.RespondWithInternalError(c, "Failed to prepare upload directory", gin.H{"error": err.Error()})
			return
		}

		name := filepath.Base(file.Filename)
		dest := filepath.Join(cfg.NewPDFDir, name)
		if err := c.SaveUploadedFile(file, dest); err != nil {
			utils.RespondWithInternalError(c, "Failed to save file", gin.H{"error": err.Error()})
			return
		}

		if err := store.ReplaceCurrent(nil); err != nil {
			logger.Warn("Failed to reset current document store", "error", err)
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Message: "PDF uploaded for analysis",
			File: models.UploadedFile{
				ID:        strings.ReplaceAll(uuid.New().String(), "-", ""),
				Name:      name,
				URL:       strings.TrimRight(cfg.PublicURL, "/") + "/newpdf/" + name,
				SizeBytes: file.Size,
				Pages:     extractor.PageCount(dest),
				DateISO:   time.Now().Format("2006-01-02T15:04:05"),
				Status:    "ready",
			},
		})
	})

	router.POST("/process", func(c *gin.Context) {
		ctx := c.Request.Context()

		if _, err := processor.ProcessPastLibrary(ctx, cfg.InputDir); err != nil {
			utils.RespondWithInternalError(c, "Processing past documents failed", gin.H{"error": err.Error()})
			return
		}
		if _, err := processor.ProcessCurrentDocument(ctx, cfg.NewPDFDir); err != nil {
			utils.RespondWithInternalError(c, "Processing current document failed", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.ProcessResponse{
			Message:     "Processing complete",
			OutputFiles: []string{store.PastPath(), store.CurrentPath()},
		})
	})

	router.DELETE("/delete/:filename", func(c *gin.Context) {
		name := filepath.Base(c.Param("filename"))
		path := filepath.Join(cfg.NewPDFDir, name)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			utils.RespondWithNotFound(c, "File not found")
			return
		}
		if err := os.Remove(path); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete file", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": name + " deleted."})
	})

	router.DELETE("/deletefolder", func(c *gin.Context) {
		for _, dir := range []string{cfg.NewPDFDir, cfg.InputDir, cfg.OutputDir} {
			if err := clearDirFiles(dir); err != nil {
				utils.RespondWithInternalError(c, "Failed to clean folders", gin.H{"error": err.Error()})
				return
			}
		}
		// Keep the in-memory corpora consistent with the emptied disk.
		if err := store.ReplacePast(nil); err != nil {
			logger.Warn("Failed to reset past store", "error", err)
		}
		if err := store.ReplaceCurrent(nil); err != nil {
			logger.Warn("Failed to reset current store", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Folders cleaned and recreated"})
	})

	router.Static("/newpdf", cfg.NewPDFDir)
	router.Static("/static", filepath.Dir(cfg.AudioDir))
}

func clearDirFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
