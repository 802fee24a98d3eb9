package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListBrands(ctx context.Context, all bool, limit int) ([]models.BrandStatus, error) {
	args := m.Called(ctx, all, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BrandStatus), args.Error(1)
}

func (m *MockCatalogService) Models(ctx context.Context, brandID int) ([]models.ModelStatus, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ModelStatus), args.Error(1)
}

func (m *MockCatalogService) UpdateModelSelection(ctx context.Context, brandID int, checkedIDs []int) (*models.BrandCatalog, error) {
	args := m.Called(ctx, brandID, checkedIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrandCatalog), args.Error(1)
}

func (m *MockCatalogService) Selection(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockCatalogService) SaveSelection(ctx context.Context, brandIDs []int) ([]int, error) {
	args := m.Called(ctx, brandIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// MockCollectionService is a mock implementation of CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) StartCollection(ctx context.Context, brandIDs []int) (*models.CollectionRun, error) {
	args := m.Called(ctx, brandIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectionRun), args.Error(1)
}

func (m *MockCollectionService) LatestRun(ctx context.Context) (*models.CollectionRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectionRun), args.Error(1)
}

func (m *MockCollectionService) GetRun(ctx context.Context, id string) (*models.CollectionRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectionRun), args.Error(1)
}

// MockMileageStore is a mock implementation of MileageStore
type MockMileageStore struct {
	mock.Mock
}

func (m *MockMileageStore) CreateMileageCars(ctx context.Context, record *models.MileageCars) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMileageStore) ListMileageCars(ctx context.Context, filter models.MileageCarsFilter) ([]*models.MileageCars, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MileageCars), args.Error(1)
}

type MockRefetchState struct {
	mock.Mock
}

func (m *MockRefetchState) ConsumeRefetch() bool {
	return m.Called().Bool(0)
}

type MockProgressSource struct {
	mock.Mock
}

func (m *MockProgressSource) Latest() (models.CollectionProgress, bool) {
	args := m.Called()
	return args.Get(0).(models.CollectionProgress), args.Bool(1)
}

func (m *MockProgressSource) Subscribe() (<-chan models.CollectionProgress, func()) {
	args := m.Called()
	return args.Get(0).(<-chan models.CollectionProgress), args.Get(1).(func())
}

type testMocks struct {
	catalog    *MockCatalogService
	collection *MockCollectionService
	store      *MockMileageStore
	state      *MockRefetchState
	progress   *MockProgressSource
}

func (m testMocks) assertExpectations(t *testing.T) {
	m.catalog.AssertExpectations(t)
	m.collection.AssertExpectations(t)
	m.store.AssertExpectations(t)
	m.state.AssertExpectations(t)
	m.progress.AssertExpectations(t)
}

func setupTestHandler() (*Handler, testMocks) {
	mocks := testMocks{
		catalog:    new(MockCatalogService),
		collection: new(MockCollectionService),
		store:      new(MockMileageStore),
		state:      new(MockRefetchState),
		progress:   new(MockProgressSource),
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(mocks.catalog, mocks.collection, mocks.store, mocks.state, mocks.progress, logger)
	return handler, mocks
}

func setupTestRouter(t *testing.T) (*gin.Engine, testMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, mocks := setupTestHandler()
	t.Cleanup(func() { mocks.assertExpectations(t) })
	return SetupRouter(handler), mocks
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewBuffer(data)
		}
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Error
}

func TestListBrands(t *testing.T) {
	parsed := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	brands := []models.BrandStatus{
		{Brand: models.Brand{ID: 6, Name: "Audi"}, LastParseDate: &parsed, Freshness: models.FreshnessFresh, Selected: true},
		{Brand: models.Brand{ID: 8, Name: "BMW"}, Freshness: models.FreshnessNever},
	}

	tests := []struct {
		name           string
		query          string
		all            bool
		limit          int
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "default page",
			query:          "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all brands with limit",
			query:          "?all=true&limit=10",
			all:            true,
			limit:          10,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "upstream failure",
			query:          "?limit=5",
			limit:          5,
			mockError:      errors.NewUpstreamError("failed to list brands", assert.AnError),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "failed to list brands",
		},
		{
			name:           "invalid limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid limit parameter",
		},
		{
			name:           "negative limit",
			query:          "?limit=-1",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid limit parameter",
		},
		{
			name:           "invalid all",
			query:          "?all=maybe",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid all parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter(t)
			if tt.expectedStatus != http.StatusBadRequest {
				if tt.mockError != nil {
					mocks.catalog.On("ListBrands", mock.Anything, tt.all, tt.limit).Return(nil, tt.mockError)
				} else {
					mocks.catalog.On("ListBrands", mock.Anything, tt.all, tt.limit).Return(brands, nil)
				}
			}

			w := doRequest(router, "GET", "/api/v1/brands"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			var response []models.BrandStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			require.Len(t, response, 2)
			assert.Equal(t, "Audi", response[0].Name)
			assert.Equal(t, models.FreshnessFresh, response[0].Freshness)
			assert.True(t, response[0].Selected)
			assert.Nil(t, response[1].LastParseDate)
		})
	}
}

func TestGetBrandModels(t *testing.T) {
	tests := []struct {
		name           string
		brandID        string
		mockResponse   []models.ModelStatus
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "successful retrieval",
			brandID: "6",
			mockResponse: []models.ModelStatus{
				{Model: models.Model{ID: 10, Name: "A4", Checked: true}},
				{Model: models.Model{ID: 11, Name: "A6"}},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "brand not found",
			brandID:        "9999",
			mockError:      errors.NewNotFoundError("brand 9999 not found", nil),
			expectedStatus: http.StatusNotFound,
			expectedError:  "brand 9999 not found",
		},
		{
			name:           "invalid brand ID",
			brandID:        "invalid",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid brand ID",
		},
		{
			name:           "zero brand ID",
			brandID:        "0",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid brand ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter(t)
			if tt.mockResponse != nil {
				mocks.catalog.On("Models", mock.Anything, 6).Return(tt.mockResponse, nil)
			}
			if tt.mockError != nil {
				mocks.catalog.On("Models", mock.Anything, 9999).Return(nil, tt.mockError)
			}

			w := doRequest(router, "GET", "/api/v1/brands/"+tt.brandID+"/models", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			var response []models.ModelStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.mockResponse, response)
		})
	}
}

func TestUpdateBrandModels(t *testing.T) {
	t.Run("successful update", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		catalog := &models.BrandCatalog{
			BrandID: 6,
			Models: []models.Model{
				{ID: 10, Name: "A4", Checked: true},
				{ID: 11, Name: "A6"},
			},
		}
		mocks.catalog.On("UpdateModelSelection", mock.Anything, 6, []int{10}).Return(catalog, nil)

		w := doRequest(router, "PUT", "/api/v1/brands/6/models", ModelSelectionRequest{ModelIDs: []int{10}})

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.BrandCatalog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, catalog.Models, response.Models)
	})

	t.Run("model of another brand", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.catalog.On("UpdateModelSelection", mock.Anything, 6, []int{99}).
			Return(nil, errors.NewValidationError("model 99 does not belong to brand 6", nil))

		w := doRequest(router, "PUT", "/api/v1/brands/6/models", ModelSelectionRequest{ModelIDs: []int{99}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "model 99 does not belong to brand 6", decodeError(t, w))
	})

	t.Run("non-positive model id", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "PUT", "/api/v1/brands/6/models", `{"model_ids":[0]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeError(t, w))
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "PUT", "/api/v1/brands/6/models", `{"model_ids":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSelection(t *testing.T) {
	t.Run("get saved selection", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.catalog.On("Selection", mock.Anything).Return([]int{6, 8}, nil)

		w := doRequest(router, "GET", "/api/v1/selection", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"brand_ids":[6,8]}`, w.Body.String())
	})

	t.Run("replace selection", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.catalog.On("SaveSelection", mock.Anything, []int{8, 6, 8}).Return([]int{8, 6}, nil)

		w := doRequest(router, "PUT", "/api/v1/selection", SelectionRequest{BrandIDs: []int{8, 6, 8}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"brand_ids":[8,6]}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.catalog.On("Selection", mock.Anything).Return(nil, assert.AnError)

		w := doRequest(router, "GET", "/api/v1/selection", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to load selection", decodeError(t, w))
	})

	t.Run("invalid brand id", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "PUT", "/api/v1/selection", `{"brand_ids":[6,-1]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStartCollection(t *testing.T) {
	started := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	run := &models.CollectionRun{
		ID:        "run-1",
		Status:    models.RunStatusRunning,
		BrandIDs:  []int{6},
		StartedAt: started,
	}

	tests := []struct {
		name           string
		body           interface{}
		brandIDs       []int
		mockResponse   *models.CollectionRun
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "saved selection without body",
			body:           nil,
			brandIDs:       nil,
			mockResponse:   run,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "explicit brands",
			body:           CollectRequest{BrandIDs: []int{6}},
			brandIDs:       []int{6},
			mockResponse:   run,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "already running",
			body:           CollectRequest{BrandIDs: []int{6}},
			brandIDs:       []int{6},
			mockError:      errors.NewCollectionInProgressError("run-0"),
			expectedStatus: http.StatusConflict,
			expectedError:  "collection already in progress: run run-0",
		},
		{
			name:           "invalid body",
			body:           `{"brand_ids":["audi"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter(t)
			if tt.mockResponse != nil || tt.mockError != nil {
				if tt.mockError != nil {
					mocks.collection.On("StartCollection", mock.Anything, tt.brandIDs).Return(nil, tt.mockError)
				} else {
					mocks.collection.On("StartCollection", mock.Anything, tt.brandIDs).Return(tt.mockResponse, nil)
				}
			}

			w := doRequest(router, "POST", "/api/v1/collect", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			var response models.CollectionRun
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "run-1", response.ID)
			assert.Equal(t, models.RunStatusRunning, response.Status)
		})
	}
}

func TestGetCollectionStatus(t *testing.T) {
	t.Run("latest run", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		finished := time.Date(2024, 3, 20, 12, 30, 0, 0, time.UTC)
		run := &models.CollectionRun{
			ID:         "run-1",
			Status:     models.RunStatusCompleted,
			FinishedAt: &finished,
			RunCounters: models.RunCounters{
				Attempts:       3,
				FailedAttempts: 1,
				Aggregates:     1,
			},
		}
		mocks.collection.On("LatestRun", mock.Anything).Return(run, nil)

		w := doRequest(router, "GET", "/api/v1/collect/status", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionRun
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, models.RunStatusCompleted, response.Status)
		assert.Equal(t, 3, response.Attempts)
		assert.Equal(t, 1, response.FailedAttempts)
	})

	t.Run("no run yet", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.collection.On("LatestRun", mock.Anything).Return(nil, errors.NewNotFoundError("no collection run recorded", nil))

		w := doRequest(router, "GET", "/api/v1/collect/status", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no collection run recorded", decodeError(t, w))
	})
}

func TestGetCollectionProgress(t *testing.T) {
	t.Run("latest snapshot", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.progress.On("Latest").Return(models.CollectionProgress{RunID: "run-1", BrandID: 6, Year: 2019, Attempts: 2}, true)

		w := doRequest(router, "GET", "/api/v1/collect/progress", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionProgress
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2019, response.Year)
		assert.Equal(t, 2, response.Attempts)
	})

	t.Run("nothing reported", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.progress.On("Latest").Return(models.CollectionProgress{}, false)

		w := doRequest(router, "GET", "/api/v1/collect/progress", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetCollectionRun(t *testing.T) {
	t.Run("known run", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		run := &models.CollectionRun{
			ID:       "run-7",
			Status:   models.RunStatusRunning,
			BrandIDs: []int{6},
		}
		mocks.collection.On("GetRun", mock.Anything, "run-7").Return(run, nil)

		w := doRequest(router, "GET", "/api/v1/collect/runs/run-7", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionRun
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "run-7", response.ID)
		assert.Equal(t, []int{6}, response.BrandIDs)
	})

	t.Run("unknown run", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.collection.On("GetRun", mock.Anything, "missing").
			Return(nil, errors.NewResourceNotFoundError("collection run", "missing"))

		w := doRequest(router, "GET", "/api/v1/collect/runs/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "collection run not found: missing", decodeError(t, w))
	})

	t.Run("blank id", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "GET", "/api/v1/collect/runs/%20", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.collection.On("GetRun", mock.Anything, "run-1").Return(nil, assert.AnError)

		w := doRequest(router, "GET", "/api/v1/collect/runs/run-1", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestStreamCollectionProgress(t *testing.T) {
	t.Run("writes each snapshot as an event", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		updates := make(chan models.CollectionProgress, 2)
		updates <- models.CollectionProgress{RunID: "run-1", Year: 2018}
		updates <- models.CollectionProgress{RunID: "run-1", Year: 2019}
		close(updates)

		unsubscribed := false
		mocks.progress.On("Subscribe").Return((<-chan models.CollectionProgress)(updates), func() { unsubscribed = true })

		w := doRequest(router, "GET", "/api/v1/collect/progress/stream", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		body := w.Body.String()
		assert.Equal(t, 2, strings.Count(body, "event:progress"))
		assert.Contains(t, body, `"year":2018`)
		assert.Contains(t, body, `"year":2019`)
		assert.True(t, unsubscribed)
	})

	t.Run("stops when the client goes away", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		updates := make(chan models.CollectionProgress)

		unsubscribed := false
		mocks.progress.On("Subscribe").Return((<-chan models.CollectionProgress)(updates), func() { unsubscribed = true })

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest("GET", "/api/v1/collect/progress/stream", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			router.ServeHTTP(w, req)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("stream did not stop after the client went away")
		}
		assert.True(t, unsubscribed)
	})
}

func TestGetRefetch(t *testing.T) {
	router, mocks := setupTestRouter(t)
	mocks.state.On("ConsumeRefetch").Return(true).Once()
	mocks.state.On("ConsumeRefetch").Return(false).Once()

	first := doRequest(router, "GET", "/api/v1/refetch", nil)
	second := doRequest(router, "GET", "/api/v1/refetch", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"trigger_to_refetch_cars":true}`, first.Body.String())
	assert.JSONEq(t, `{"trigger_to_refetch_cars":false}`, second.Body.String())
}

func TestCreateMileageCars(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		created := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
		mocks.store.On("CreateMileageCars", mock.Anything, mock.MatchedBy(func(r *models.MileageCars) bool {
			return r.BrandID == 6 && r.GenerationID == 100 && r.AdvertCount == 2
		})).Run(func(args mock.Arguments) {
			r := args.Get(1).(*models.MileageCars)
			r.ID = 7
			r.CreatedAt = created
		}).Return(nil)

		body := `{"brand_id":6,"model_id":10,"generation_id":100,"years":[2018],
			"sold_adverts":[{"id":1},{"id":2}],"payloads":{"2018":{"lastSoldAdverts":[{"id":1},{"id":2}]}}}`
		w := doRequest(router, "POST", "/api/v1/mileage-cars", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response models.MileageCars
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(7), response.ID)
		assert.Equal(t, 2, response.AdvertCount)
		assert.Contains(t, response.Payloads, 2018)
	})

	t.Run("missing generation", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "POST", "/api/v1/mileage-cars", `{"brand_id":6,"model_id":10}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeError(t, w))
	})

	t.Run("store failure", func(t *testing.T) {
		router, mocks := setupTestRouter(t)
		mocks.store.On("CreateMileageCars", mock.Anything, mock.Anything).Return(assert.AnError)

		w := doRequest(router, "POST", "/api/v1/mileage-cars", `{"brand_id":6,"model_id":10,"generation_id":100}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to create mileage cars", decodeError(t, w))
	})
}

func TestListMileageCars(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		filter         models.MileageCarsFilter
		mockResponse   []*models.MileageCars
		expectedStatus int
		expectedCount  int
	}{
		{
			name:  "filtered page",
			query: "?brand_id=6&model_id=10&generation_id=100&limit=5&offset=10",
			filter: models.MileageCarsFilter{
				BrandID: 6, ModelID: 10, GenerationID: 100, Limit: 5, Offset: 10,
			},
			mockResponse: []*models.MileageCars{
				{ID: 2, BrandID: 6, ModelID: 10, GenerationID: 100},
				{ID: 1, BrandID: 6, ModelID: 10, GenerationID: 100},
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "empty store",
			query:          "",
			filter:         models.MileageCarsFilter{},
			mockResponse:   nil,
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "invalid brand id",
			query:          "?brand_id=audi",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative offset",
			query:          "?offset=-5",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter(t)
			if tt.expectedStatus == http.StatusOK {
				mocks.store.On("ListMileageCars", mock.Anything, tt.filter).Return(tt.mockResponse, nil)
			}

			w := doRequest(router, "GET", "/api/v1/mileage-cars"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var response MileageCarsListResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotNil(t, response.Data)
			assert.Len(t, response.Data, tt.expectedCount)
			assert.Equal(t, tt.filter.Limit, response.Limit)
		})
	}
}
