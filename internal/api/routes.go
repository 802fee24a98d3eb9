package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Mileage Collector API
// @version 1.0
// @description API for collecting sold-car mileage statistics from the AV API
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// @Summary Health check
	// @Tags health
	// @Produce json
	// @Success 200 {object} map[string]string
	// @Router /health [get]
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		brands := v1.Group("/brands")
		{
			// @Summary List AV brands
			// @Description List brands with their collection freshness, the first 24 unless all is set
			// @Tags brands
			// @Produce json
			// @Param all query bool false "Return every brand"
			// @Param limit query int false "Number of brands to return" default(24)
			// @Success 200 {array} models.BrandStatus
			// @Failure 400 {object} ErrorResponse
			// @Failure 502 {object} ErrorResponse
			// @Router /brands [get]
			brands.GET("", h.ListBrands)

			// @Summary Get brand models
			// @Description Get the model catalog of a brand, seeded from the AV API on first use
			// @Tags brands
			// @Produce json
			// @Param id path int true "Brand ID"
			// @Success 200 {array} models.ModelStatus
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 502 {object} ErrorResponse
			// @Router /brands/{id}/models [get]
			brands.GET("/:id/models", h.GetBrandModels)

			// @Summary Update brand model selection
			// @Tags brands
			// @Accept json
			// @Produce json
			// @Param id path int true "Brand ID"
			// @Param request body ModelSelectionRequest true "Checked models"
			// @Success 200 {object} models.BrandCatalog
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /brands/{id}/models [put]
			brands.PUT("/:id/models", h.UpdateBrandModels)
		}

		// @Summary Get saved brand selection
		// @Tags selection
		// @Produce json
		// @Success 200 {object} SelectionResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /selection [get]
		v1.GET("/selection", h.GetSelection)

		// @Summary Replace saved brand selection
		// @Tags selection
		// @Accept json
		// @Produce json
		// @Param request body SelectionRequest true "Brand ids"
		// @Success 200 {object} SelectionResponse
		// @Failure 400 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /selection [put]
		v1.PUT("/selection", h.UpdateSelection)

		collect := v1.Group("/collect")
		{
			// @Summary Start a collection run
			// @Description Collect mileage statistics for the given brands, or the saved selection
			// @Tags collect
			// @Accept json
			// @Produce json
			// @Param request body CollectRequest false "Brand ids"
			// @Success 202 {object} models.CollectionRun
			// @Failure 400 {object} ErrorResponse
			// @Failure 409 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /collect [post]
			collect.POST("", h.StartCollection)

			// @Summary Get the latest collection run
			// @Tags collect
			// @Produce json
			// @Success 200 {object} models.CollectionRun
			// @Failure 404 {object} ErrorResponse
			// @Router /collect/status [get]
			collect.GET("/status", h.GetCollectionStatus)

			// @Summary Get the latest collection progress
			// @Tags collect
			// @Produce json
			// @Success 200 {object} models.CollectionProgress
			// @Failure 404 {object} ErrorResponse
			// @Router /collect/progress [get]
			collect.GET("/progress", h.GetCollectionProgress)

			// @Summary Stream collection progress
			// @Description Server-sent "progress" events, starting with the latest snapshot
			// @Tags collect
			// @Produce text/event-stream
			// @Success 200 {object} models.CollectionProgress
			// @Router /collect/progress/stream [get]
			collect.GET("/progress/stream", h.StreamCollectionProgress)

			// @Summary Get a collection run
			// @Tags collect
			// @Produce json
			// @Param id path string true "Run ID"
			// @Success 200 {object} models.CollectionRun
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /collect/runs/{id} [get]
			collect.GET("/runs/:id", h.GetCollectionRun)
		}

		// @Summary Read and clear the refetch flag
		// @Tags collect
		// @Produce json
		// @Success 200 {object} RefetchResponse
		// @Router /refetch [get]
		v1.GET("/refetch", h.GetRefetch)

		mileage := v1.Group("/mileage-cars")
		{
			// @Summary Store an aggregate record
			// @Tags mileage-cars
			// @Accept json
			// @Produce json
			// @Param record body models.MileageCars true "Aggregate record"
			// @Success 201 {object} models.MileageCars
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /mileage-cars [post]
			mileage.POST("", h.CreateMileageCars)

			// @Summary List aggregate records
			// @Tags mileage-cars
			// @Produce json
			// @Param brand_id query int false "Brand ID"
			// @Param model_id query int false "Model ID"
			// @Param generation_id query int false "Generation ID"
			// @Param limit query int false "Number of records to return" default(50)
			// @Param offset query int false "Number of records to skip" default(0)
			// @Success 200 {object} MileageCarsListResponse
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /mileage-cars [get]
			mileage.GET("", h.ListMileageCars)
		}
	}

	return r
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Handled request")
	}
}

// WithCORS wraps the router for browser clients
func WithCORS(h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(h)
}
