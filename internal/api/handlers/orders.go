// internal/api/handlers/orders.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/engine"
	"github.com/stockops/stockorders/internal/service"
)

type OrderHandler struct {
	orders  *service.OrderService
	exports *service.ExportService
}

func NewOrderHandler(orders *service.OrderService, exports *service.ExportService) *OrderHandler {
	return &OrderHandler{orders: orders, exports: exports}
}

// Generate runs the assembly analysis for one warehouse.
func (h *OrderHandler) Generate(c *gin.Context) {
	warehouse := c.Param("warehouse")
	run, err := h.orders.Generate(c.Request.Context(), warehouse)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownWarehouse):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case engine.IsMissingTable(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("warehouse", warehouse).Msg("assembly run failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate assembly run"})
		}
		return
	}
	c.JSON(http.StatusOK, run)
}

// Latest returns the most recent run for a warehouse.
func (h *OrderHandler) Latest(c *gin.Context) {
	run := h.orders.Latest(c.Param("warehouse"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run generated for warehouse"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Export streams one CSV of the latest run. The kind path segment picks
// which sheet: assembly-orders, cannot-assemble, transfers or abc.
func (h *OrderHandler) Export(c *gin.Context) {
	warehouse := c.Param("warehouse")
	kind := c.Param("kind")

	payload, filename, err := h.exports.Export(c.Request.Context(), kind, warehouse)
	switch {
	case errors.Is(err, service.ErrNoRun):
		c.JSON(http.StatusNotFound, gin.H{"error": "no run generated for warehouse"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	writeCSV(c, filename, payload)
}

func writeCSV(c *gin.Context, filename string, payload []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
