package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// CatalogService serves the brand list, per-brand model catalogs and the saved selection
type CatalogService interface {
	ListBrands(ctx context.Context, all bool, limit int) ([]models.BrandStatus, error)
	Models(ctx context.Context, brandID int) ([]models.ModelStatus, error)
	UpdateModelSelection(ctx context.Context, brandID int, checkedIDs []int) (*models.BrandCatalog, error)
	Selection(ctx context.Context) ([]int, error)
	SaveSelection(ctx context.Context, brandIDs []int) ([]int, error)
}

// CollectionService starts collection runs and reports on them
type CollectionService interface {
	StartCollection(ctx context.Context, brandIDs []int) (*models.CollectionRun, error)
	LatestRun(ctx context.Context) (*models.CollectionRun, error)
	GetRun(ctx context.Context, id string) (*models.CollectionRun, error)
}

// MileageStore persists aggregate records
type MileageStore interface {
	CreateMileageCars(ctx context.Context, record *models.MileageCars) error
	ListMileageCars(ctx context.Context, filter models.MileageCarsFilter) ([]*models.MileageCars, error)
}

type RefetchState interface {
	ConsumeRefetch() bool
}

type ProgressSource interface {
	Latest() (models.CollectionProgress, bool)
	Subscribe() (<-chan models.CollectionProgress, func())
}

type Handler struct {
	catalog    CatalogService
	collection CollectionService
	store      MileageStore
	state      RefetchState
	progress   ProgressSource
	logger     *logrus.Logger
}

func NewHandler(
	catalog CatalogService,
	collection CollectionService,
	store MileageStore,
	state RefetchState,
	progress ProgressSource,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		catalog:    catalog,
		collection: collection,
		store:      store,
		state:      state,
		progress:   progress,
		logger:     logger,
	}
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListBrands(c *gin.Context) {
	all := false
	if raw := c.Query("all"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid all parameter"})
			return
		}
		all = parsed
	}

	limit, err := getIntQuery(c, "limit", 0)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit parameter"})
		return
	}

	brands, err := h.catalog.ListBrands(c.Request.Context(), all, limit)
	if err != nil {
		h.respondWithError(c, err, "failed to list brands")
		return
	}

	c.JSON(http.StatusOK, brands)
}

func (h *Handler) GetBrandModels(c *gin.Context) {
	brandID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid brand ID"})
		return
	}

	list, err := h.catalog.Models(c.Request.Context(), brandID)
	if err != nil {
		h.respondWithError(c, err, "failed to get brand models")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateBrandModels(c *gin.Context) {
	brandID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid brand ID"})
		return
	}

	var req ModelSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	catalog, err := h.catalog.UpdateModelSelection(c.Request.Context(), brandID, req.ModelIDs)
	if err != nil {
		h.respondWithError(c, err, "failed to update model selection")
		return
	}

	c.JSON(http.StatusOK, catalog)
}

func (h *Handler) GetSelection(c *gin.Context) {
	ids, err := h.catalog.Selection(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err, "failed to load selection")
		return
	}

	c.JSON(http.StatusOK, SelectionResponse{BrandIDs: ids})
}

func (h *Handler) UpdateSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ids, err := h.catalog.SaveSelection(c.Request.Context(), req.BrandIDs)
	if err != nil {
		h.respondWithError(c, err, "failed to save selection")
		return
	}

	c.JSON(http.StatusOK, SelectionResponse{BrandIDs: ids})
}

// StartCollection triggers a background collection run. An empty body collects the saved selection.
func (h *Handler) StartCollection(c *gin.Context) {
	var req CollectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	run, err := h.collection.StartCollection(c.Request.Context(), req.BrandIDs)
	if err != nil {
		h.respondWithError(c, err, "failed to start collection")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"brands": len(run.BrandIDs),
	}).Info("Collection started")
	c.JSON(http.StatusAccepted, run)
}

func (h *Handler) GetCollectionStatus(c *gin.Context) {
	run, err := h.collection.LatestRun(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err, "failed to get collection status")
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetCollectionRun returns one run by id
func (h *Handler) GetCollectionRun(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "run id is required"})
		return
	}

	run, err := h.collection.GetRun(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, err, "failed to get collection run")
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) GetCollectionProgress(c *gin.Context) {
	p, ok := h.progress.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no collection progress reported"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// StreamCollectionProgress pushes progress snapshots as server-sent events until the client goes away
func (h *Handler) StreamCollectionProgress(c *gin.Context) {
	updates, unsubscribe := h.progress.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("progress", p)
			c.Writer.Flush()
		}
	}
}

// GetRefetch returns the refetch flag and clears it
func (h *Handler) GetRefetch(c *gin.Context) {
	c.JSON(http.StatusOK, RefetchResponse{TriggerToRefetchCars: h.state.ConsumeRefetch()})
}

func (h *Handler) CreateMileageCars(c *gin.Context) {
	var record models.MileageCars
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	record.ID = 0
	if record.AdvertCount == 0 {
		record.AdvertCount = len(record.SoldAdverts)
	}

	if err := h.store.CreateMileageCars(c.Request.Context(), &record); err != nil {
		h.respondWithError(c, err, "failed to create mileage cars")
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) ListMileageCars(c *gin.Context) {
	var filter models.MileageCarsFilter
	for _, q := range []struct {
		name string
		dst  *int
	}{
		{"brand_id", &filter.BrandID},
		{"model_id", &filter.ModelID},
		{"generation_id", &filter.GenerationID},
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		v, err := getIntQuery(c, q.name, 0)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid %s parameter", q.name)})
			return
		}
		*q.dst = v
	}

	records, err := h.store.ListMileageCars(c.Request.Context(), filter)
	if err != nil {
		h.respondWithError(c, err, "failed to list mileage cars")
		return
	}
	if records == nil {
		records = []*models.MileageCars{}
	}

	c.JSON(http.StatusOK, MileageCarsListResponse{Data: records, Limit: filter.Limit, Offset: filter.Offset})
}

// respondWithError maps an error to its status code. Client errors carry their own message,
// everything else the fallback.
func (h *Handler) respondWithError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	message := fallback

	var appErr *errors.AppError
	var inProgress *errors.CollectionInProgressError
	switch {
	case stderrors.As(err, &inProgress):
		message = inProgress.Error()
	case status < http.StatusInternalServerError && stderrors.As(err, &appErr):
		message = appErr.Message
	}

	entry := h.logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error(fallback)
	} else {
		entry.Warn(fallback)
	}
	c.JSON(status, ErrorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.IsConflict(err):
		return http.StatusConflict
	case errors.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func getIntQuery(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
