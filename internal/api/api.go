// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stockops/stockorders/internal/api/handlers"
	"github.com/stockops/stockorders/internal/api/middleware"
	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/service"
	"github.com/stockops/stockorders/internal/suppliers"
)

// Services bundles what the routes need. A nil service leaves its routes
// unregistered, which keeps partial deployments possible.
type Services struct {
	Config     *config.Config
	Datasets   *service.DatasetService
	Orders     *service.OrderService
	PO         *service.POService
	Exports    *service.ExportService
	Exclusions *suppliers.Store
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Config != nil {
			apiGroup.GET("/warehouses", warehousesHandler(services.Config))
		}

		if services.Datasets != nil && services.Config != nil {
			datasetHandler := handlers.NewDatasetHandler(services.Datasets, services.Exports, services.Config.App)
			datasetGroup := apiGroup.Group("/datasets")
			{
				datasetGroup.POST("/upload", datasetHandler.Upload)
				datasetGroup.POST("/reload", datasetHandler.Reload)
				datasetGroup.GET("/status", datasetHandler.Status)
			}
		}

		if services.Orders != nil {
			orderHandler := handlers.NewOrderHandler(services.Orders, services.Exports)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.POST("/:warehouse/generate", orderHandler.Generate)
				orderGroup.GET("/:warehouse", orderHandler.Latest)
				orderGroup.GET("/:warehouse/export/:kind", orderHandler.Export)
			}
		}

		if services.PO != nil {
			poHandler := handlers.NewPOHandler(services.PO, services.Exports)
			poGroup := apiGroup.Group("/po")
			{
				poGroup.POST("/:warehouse/generate", poHandler.Generate)
				poGroup.GET("/:warehouse", poHandler.Latest)
				poGroup.GET("/:warehouse/export", poHandler.Export)
			}
		}

		if services.Exports != nil && services.Config != nil {
			apiGroup.GET("/runs", runsHandler(services.Exports, services.Config))
		}

		if services.Exclusions != nil {
			supplierHandler := handlers.NewSupplierHandler(services.Exclusions)
			supplierGroup := apiGroup.Group("/suppliers/exclusions")
			{
				supplierGroup.GET("", supplierHandler.List)
				supplierGroup.PUT("", supplierHandler.Replace)
				supplierGroup.DELETE("", supplierHandler.Clear)
				supplierGroup.POST("/merge", supplierHandler.Merge)
				supplierGroup.POST("/upload", supplierHandler.Upload)
				supplierGroup.POST("/reset", supplierHandler.Reset)
				supplierGroup.GET("/export", supplierHandler.Export)
			}
		}
	}

	return router
}

func warehousesHandler(cfg *config.Config) gin.HandlerFunc {
	type warehouseView struct {
		Code         string   `json:"code"`
		Locations    []string `json:"locations"`
		TransferFrom string   `json:"transfer_from"`
		TransferTo   string   `json:"transfer_to"`
	}
	return func(c *gin.Context) {
		out := make([]warehouseView, 0, len(cfg.Warehouses))
		for _, wh := range cfg.Warehouses {
			out = append(out, warehouseView{
				Code:         wh.Code,
				Locations:    wh.Locations,
				TransferFrom: wh.TransferFrom,
				TransferTo:   wh.TransferTo,
			})
		}
		c.JSON(http.StatusOK, gin.H{"warehouses": out})
	}
}

func runsHandler(exports *service.ExportService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		codes := make([]string, 0, len(cfg.Warehouses))
		for _, wh := range cfg.Warehouses {
			codes = append(codes, wh.Code)
		}
		c.JSON(http.StatusOK, gin.H{"runs": exports.Summaries(codes)})
	}
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
