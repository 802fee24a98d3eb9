package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/avapi"
	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
	"github.com/Kamar-Folarin/mileage-collector/internal/scrapestate"
)

// DefaultBrandLimit is the number of brands shown before "show more"
const DefaultBrandLimit = 24

const brandCacheTTL = time.Hour

// Client defines the AV API operations the catalog needs
type Client interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListModels(ctx context.Context, brandID int) ([]models.Model, error)
}

// Service serves the brand list, per-brand model catalogs and the saved selection
type Service struct {
	client Client
	states *scrapestate.Manager
	logger *logrus.Logger
	now    func() time.Time

	mu              sync.RWMutex
	brands          []models.Brand
	brandsFetchedAt time.Time
}

// NewService creates a new catalog service
func NewService(client Client, states *scrapestate.Manager, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		states: states,
		logger: logger,
		now:    time.Now,
	}
}

// ListBrands returns the AV brands with their freshness. Unless all is set only the first
// limit brands are returned; limit <= 0 means DefaultBrandLimit.
func (s *Service) ListBrands(ctx context.Context, all bool, limit int) ([]models.BrandStatus, error) {
	brands, err := s.cachedBrands(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultBrandLimit
	}
	if !all && len(brands) > limit {
		brands = brands[:limit]
	}

	selection, err := s.states.LoadSelection(ctx)
	if err != nil {
		return nil, err
	}
	selected := make(map[int]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	now := s.now()
	statuses := make([]models.BrandStatus, 0, len(brands))
	for _, b := range brands {
		state, err := s.states.BrandState(ctx, b.ID)
		if err != nil {
			return nil, err
		}

		status := models.BrandStatus{Brand: b, Selected: selected[b.ID]}
		if state != nil {
			last := state.LastParseDate
			status.LastParseDate = &last
		}
		status.Freshness = models.FreshnessAt(status.LastParseDate, now)
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (s *Service) cachedBrands(ctx context.Context) ([]models.Brand, error) {
	s.mu.RLock()
	if s.brands != nil && s.now().Sub(s.brandsFetchedAt) < brandCacheTTL {
		brands := s.brands
		s.mu.RUnlock()
		return brands, nil
	}
	s.mu.RUnlock()

	brands, err := s.client.ListBrands(ctx)
	if err != nil {
		return nil, upstreamError("failed to list brands", err)
	}

	s.mu.Lock()
	s.brands = brands
	s.brandsFetchedAt = s.now()
	s.mu.Unlock()

	return brands, nil
}

// Models returns the model catalog of a brand with each model's last collection time.
// A brand without a persisted catalog is seeded from the AV API with nothing checked.
func (s *Service) Models(ctx context.Context, brandID int) ([]models.ModelStatus, error) {
	catalog, err := s.loadOrSeed(ctx, brandID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(catalog.Models))
	for _, m := range catalog.Models {
		ids = append(ids, m.ID)
	}
	states, err := s.states.ModelStates(ctx, brandID, ids)
	if err != nil {
		return nil, err
	}

	result := make([]models.ModelStatus, 0, len(catalog.Models))
	for _, m := range catalog.Models {
		status := models.ModelStatus{Model: m}
		if state, ok := states[m.ID]; ok {
			last := state.LastParseDate
			status.LastParseDate = &last
		}
		result = append(result, status)
	}
	return result, nil
}

// UpdateModelSelection checks exactly the given models of a brand
func (s *Service) UpdateModelSelection(ctx context.Context, brandID int, checkedIDs []int) (*models.BrandCatalog, error) {
	catalog, err := s.loadOrSeed(ctx, brandID)
	if err != nil {
		return nil, err
	}

	known := make(map[int]bool, len(catalog.Models))
	for _, m := range catalog.Models {
		known[m.ID] = true
	}
	checked := make(map[int]bool, len(checkedIDs))
	for _, id := range checkedIDs {
		if !known[id] {
			return nil, errors.NewValidationError(fmt.Sprintf("model %d does not belong to brand %d", id, brandID), nil)
		}
		checked[id] = true
	}

	for i := range catalog.Models {
		catalog.Models[i].Checked = checked[catalog.Models[i].ID]
	}
	if err := s.states.SaveCatalog(ctx, catalog); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"brand_id": brandID,
		"checked":  len(checked),
	}).Info("Updated model selection")
	return catalog, nil
}

// Selection returns the saved brand selection
func (s *Service) Selection(ctx context.Context) ([]int, error) {
	return s.states.LoadSelection(ctx)
}

// SaveSelection replaces the saved brand selection
func (s *Service) SaveSelection(ctx context.Context, brandIDs []int) ([]int, error) {
	return s.states.SaveSelection(ctx, brandIDs)
}

func (s *Service) loadOrSeed(ctx context.Context, brandID int) (*models.BrandCatalog, error) {
	if brandID <= 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid brand id: %d", brandID), nil)
	}

	catalog, err := s.states.Catalog(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		return catalog, nil
	}

	list, err := s.client.ListModels(ctx, brandID)
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("failed to list models of brand %d", brandID), err)
	}
	for i := range list {
		list[i].Checked = false
	}

	catalog = &models.BrandCatalog{BrandID: brandID, Models: list}
	if err := s.states.SaveCatalog(ctx, catalog); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"brand_id": brandID,
		"models":   len(list),
	}).Info("Seeded model catalog from AV API")

	return catalog, nil
}

func upstreamError(message string, err error) error {
	if avapi.IsNotFound(err) {
		return errors.NewNotFoundError(message, err)
	}
	if avapi.IsValidationError(err) {
		return errors.NewValidationError(message, err)
	}
	return errors.NewUpstreamError(message, err)
}
