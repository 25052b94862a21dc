// internal/api/handlers/po.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/engine"
	"github.com/stockops/stockorders/internal/service"
)

type POHandler struct {
	po      *service.POService
	exports *service.ExportService
}

func NewPOHandler(po *service.POService, exports *service.ExportService) *POHandler {
	return &POHandler{po: po, exports: exports}
}

// Generate sizes a purchase order for one warehouse.
func (h *POHandler) Generate(c *gin.Context) {
	warehouse := c.Param("warehouse")
	run, err := h.po.Generate(c.Request.Context(), warehouse)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownWarehouse):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case engine.IsMissingTable(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("warehouse", warehouse).Msg("po run failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate purchase order"})
		}
		return
	}
	c.JSON(http.StatusOK, run)
}

// Latest returns the most recent purchase order run for a warehouse.
func (h *POHandler) Latest(c *gin.Context) {
	run := h.po.Latest(c.Param("warehouse"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no purchase order generated for warehouse"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Export streams the latest purchase order as an import-ready CSV.
func (h *POHandler) Export(c *gin.Context) {
	warehouse := c.Param("warehouse")
	payload, filename, err := h.exports.Export(c.Request.Context(), service.ExportPO, warehouse)
	switch {
	case errors.Is(err, service.ErrNoRun):
		c.JSON(http.StatusNotFound, gin.H{"error": "no purchase order generated for warehouse"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export purchase order"})
		return
	}
	writeCSV(c, filename, payload)
}
