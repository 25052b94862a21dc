// internal/api/handlers/datasets.go
package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/service"
)

type DatasetHandler struct {
	datasets  *service.DatasetService
	exports   *service.ExportService
	uploadDir string
	dataDir   string
}

func NewDatasetHandler(datasets *service.DatasetService, exports *service.ExportService,
	app config.AppConfig) *DatasetHandler {
	return &DatasetHandler{
		datasets:  datasets,
		exports:   exports,
		uploadDir: app.UploadDir,
		dataDir:   app.DataDir,
	}
}

// Upload receives report files under the "files" form field, merges them
// into the current dataset and returns the per-file parse statuses.
func (h *DatasetHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		// Base strips any client-supplied directory part.
		path := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, path); err != nil {
			log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid files to process"})
		return
	}

	statuses, err := h.datasets.AddFiles(c.Request.Context(), paths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load uploaded files"})
		return
	}
	h.exports.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"files": statuses})
}

// Reload drops the current dataset and loads the data directory fresh.
func (h *DatasetHandler) Reload(c *gin.Context) {
	statuses, err := h.datasets.LoadDir(c.Request.Context(), h.dataDir)
	if err != nil {
		log.Error().Err(err).Str("dir", h.dataDir).Msg("dataset reload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload dataset"})
		return
	}
	h.exports.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"files": statuses})
}

// Status reports what is loaded and when.
func (h *DatasetHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasets.Status())
}
