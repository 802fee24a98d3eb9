package scrapestate

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/kv"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
	"github.com/Kamar-Folarin/mileage-collector/internal/utils"
)

// SelectionKey holds the saved brand selection
const SelectionKey = "personalSavedBrandsOptions"

// CatalogKey returns the key of a brand's model catalog
func CatalogKey(brandID int) string {
	return fmt.Sprintf("catalog:%d", brandID)
}

// ModelStateKey returns the key of a model's scrape state
func ModelStateKey(brandID, modelID int) string {
	return fmt.Sprintf("scrape-state:%d:%d", brandID, modelID)
}

// BrandStateKey returns the key of a brand's scrape state
func BrandStateKey(brandID int) string {
	return fmt.Sprintf("scrape-state:%d", brandID)
}

// Manager reads and writes the persisted selection, model catalogs and scrape states.
// Catalogs and scrape states live under separate keys so stamping a model never
// rewrites the catalog a user may be editing.
type Manager struct {
	store  kv.Store
	logger *logrus.Logger
	now    func() time.Time
}

func NewManager(store kv.Store, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// LoadSelection returns the saved brand selection, empty when nothing was saved
func (m *Manager) LoadSelection(ctx context.Context) ([]int, error) {
	var ids []int
	if _, err := kv.GetJSON(ctx, m.store, SelectionKey, &ids); err != nil {
		return nil, fmt.Errorf("failed to load brand selection: %w", err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// SaveSelection replaces the saved brand selection. Duplicates are dropped, order is kept.
func (m *Manager) SaveSelection(ctx context.Context, brandIDs []int) ([]int, error) {
	ids, err := utils.UniqueIDs(brandIDs)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid brand selection: %v", err), err)
	}

	if err := kv.SetJSON(ctx, m.store, SelectionKey, ids); err != nil {
		return nil, fmt.Errorf("failed to save brand selection: %w", err)
	}
	return ids, nil
}

// Catalog returns the persisted model catalog of a brand, or nil when none exists
func (m *Manager) Catalog(ctx context.Context, brandID int) (*models.BrandCatalog, error) {
	var catalog models.BrandCatalog
	ok, err := kv.GetJSON(ctx, m.store, CatalogKey(brandID), &catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog of brand %d: %w", brandID, err)
	}
	if !ok {
		return nil, nil
	}
	catalog.BrandID = brandID
	return &catalog, nil
}

// SaveCatalog persists a brand's model catalog
func (m *Manager) SaveCatalog(ctx context.Context, catalog *models.BrandCatalog) error {
	if catalog == nil || catalog.BrandID <= 0 {
		return errors.NewValidationError("catalog must carry a brand id", nil)
	}
	catalog.UpdatedAt = m.now()
	if err := kv.SetJSON(ctx, m.store, CatalogKey(catalog.BrandID), catalog); err != nil {
		return fmt.Errorf("failed to save catalog of brand %d: %w", catalog.BrandID, err)
	}
	return nil
}

// SelectedModels returns the checked models of a brand. A brand without a catalog has none.
func (m *Manager) SelectedModels(ctx context.Context, brandID int) ([]models.Model, error) {
	catalog, err := m.Catalog(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		m.logger.WithField("brand_id", brandID).Debug("No catalog persisted for brand")
		return []models.Model{}, nil
	}
	return catalog.SelectedModels(), nil
}

// MarkParsed stamps a model and its brand as collected at the given time
func (m *Manager) MarkParsed(ctx context.Context, brandID, modelID int, at time.Time) error {
	modelState := models.ModelScrapeState{BrandID: brandID, ModelID: modelID, LastParseDate: at}
	if err := kv.SetJSON(ctx, m.store, ModelStateKey(brandID, modelID), modelState); err != nil {
		return fmt.Errorf("failed to stamp model %d: %w", modelID, err)
	}

	brandState := models.BrandScrapeState{BrandID: brandID, LastParseDate: at}
	if err := kv.SetJSON(ctx, m.store, BrandStateKey(brandID), brandState); err != nil {
		return fmt.Errorf("failed to stamp brand %d: %w", brandID, err)
	}

	m.logger.WithFields(logrus.Fields{
		"brand_id":        brandID,
		"model_id":        modelID,
		"last_parse_date": at,
	}).Debug("Stamped model as parsed")
	return nil
}

// ModelState returns the scrape state of one model, or nil when it was never collected
func (m *Manager) ModelState(ctx context.Context, brandID, modelID int) (*models.ModelScrapeState, error) {
	var state models.ModelScrapeState
	ok, err := kv.GetJSON(ctx, m.store, ModelStateKey(brandID, modelID), &state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// ModelStates returns the scrape states of the given models keyed by model id.
// Models never collected are absent from the map.
func (m *Manager) ModelStates(ctx context.Context, brandID int, modelIDs []int) (map[int]models.ModelScrapeState, error) {
	states := make(map[int]models.ModelScrapeState, len(modelIDs))
	for _, id := range modelIDs {
		state, err := m.ModelState(ctx, brandID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load scrape state of model %d: %w", id, err)
		}
		if state != nil {
			states[id] = *state
		}
	}
	return states, nil
}

// BrandState returns the scrape state of a brand, or nil when it was never collected
func (m *Manager) BrandState(ctx context.Context, brandID int) (*models.BrandScrapeState, error) {
	var state models.BrandScrapeState
	ok, err := kv.GetJSON(ctx, m.store, BrandStateKey(brandID), &state)
	if err != nil {
		return nil, fmt.Errorf("failed to load scrape state of brand %d: %w", brandID, err)
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}
