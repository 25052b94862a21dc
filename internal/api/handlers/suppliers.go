// internal/api/handlers/suppliers.go
package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/suppliers"
)

type SupplierHandler struct {
	store *suppliers.Store
}

func NewSupplierHandler(store *suppliers.Store) *SupplierHandler {
	return &SupplierHandler{store: store}
}

type supplierListRequest struct {
	Suppliers []string `json:"suppliers" binding:"required"`
}

// List returns the current exclusion list.
func (h *SupplierHandler) List(c *gin.Context) {
	names := h.store.List()
	c.JSON(http.StatusOK, gin.H{"suppliers": names, "count": len(names)})
}

// Replace swaps the whole exclusion list for the posted one.
func (h *SupplierHandler) Replace(c *gin.Context) {
	var req supplierListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "suppliers field is required"})
		return
	}
	if err := h.store.Replace(req.Suppliers); err != nil {
		log.Error().Err(err).Msg("failed to replace supplier exclusions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save exclusions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.store.Count()})
}

// Merge unions the posted names into the exclusion list.
func (h *SupplierHandler) Merge(c *gin.Context) {
	var req supplierListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "suppliers field is required"})
		return
	}
	added, err := h.store.Merge(req.Suppliers)
	if err != nil {
		log.Error().Err(err).Msg("failed to merge supplier exclusions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save exclusions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "count": h.store.Count()})
}

// Upload merges a newline delimited exclusion file into the list.
func (h *SupplierHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	names, err := suppliers.ParseList(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	added, err := h.store.Merge(names)
	if err != nil {
		log.Error().Err(err).Msg("failed to merge uploaded exclusions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save exclusions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "count": h.store.Count()})
}

// Reset restores the built-in exclusion list.
func (h *SupplierHandler) Reset(c *gin.Context) {
	if err := h.store.Reset(); err != nil {
		log.Error().Err(err).Msg("failed to reset supplier exclusions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save exclusions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.store.Count()})
}

// Clear empties the exclusion list.
func (h *SupplierHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear supplier exclusions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save exclusions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": 0})
}

// Export streams the exclusion list as a plain text download.
func (h *SupplierHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.store.Export(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export exclusions"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="excluded_suppliers.txt"`)
	c.Data(http.StatusOK, "text/plain", buf.Bytes())
}
