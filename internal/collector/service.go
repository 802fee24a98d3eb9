package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Service runs collections one at a time, in the background or inline, and keeps their records
type Service struct {
	collector *Collector
	selection SelectionSource
	runs      RunStore
	logger    *logrus.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *models.CollectionRun

	// runs started in the background outlive the request that started them
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewService creates a collection service
func NewService(collector *Collector, selection SelectionSource, runs RunStore, logger *logrus.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		collector: collector,
		selection: selection,
		runs:      runs,
		logger:    logger,
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// StartCollection starts a collection in the background and returns its record.
// An empty brand list collects the saved selection.
func (s *Service) StartCollection(ctx context.Context, brandIDs []int) (*models.CollectionRun, error) {
	run, err := s.begin(ctx, brandIDs)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(s.baseCtx, run)
	}()

	return s.copyRun(run), nil
}

// RunCollection runs a collection and returns its finished record
func (s *Service) RunCollection(ctx context.Context, brandIDs []int) (*models.CollectionRun, error) {
	run, err := s.begin(ctx, brandIDs)
	if err != nil {
		return nil, err
	}
	s.execute(ctx, run)

	finished := s.copyRun(run)
	if finished.Status == models.RunStatusFailed {
		return finished, fmt.Errorf("collection run %s failed: %s", finished.ID, finished.LastError)
	}
	return finished, nil
}

// LatestRun returns the most recent run, from memory when this process started one
func (s *Service) LatestRun(ctx context.Context) (*models.CollectionRun, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil {
		return s.copyRun(current), nil
	}

	run, err := s.runs.GetLatestCollectionRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest collection run: %w", err)
	}
	if run == nil {
		return nil, errors.NewNotFoundError("no collection run recorded", nil)
	}
	return run, nil
}

// GetRun returns a run by id, from memory when it is the current one
func (s *Service) GetRun(ctx context.Context, id string) (*models.CollectionRun, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil && current.ID == id {
		return s.copyRun(current), nil
	}

	run, err := s.runs.GetCollectionRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection run %s: %w", id, err)
	}
	if run == nil {
		return nil, errors.NewResourceNotFoundError("collection run", id)
	}
	return run, nil
}

// StartScheduler collects the saved selection every interval until ctx is done.
// A tick that finds a run in progress is skipped.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	logger := s.logger.WithField("interval", interval)
	logger.Info("Starting collection scheduler")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping collection scheduler")
			return nil
		case <-ticker.C:
			run, err := s.StartCollection(ctx, nil)
			if err != nil {
				if errors.IsConflict(err) {
					logger.Warn("Collection already in progress, skipping scheduled run")
					continue
				}
				logger.WithError(err).Error("Failed to start scheduled collection")
				continue
			}
			logger.WithField("run_id", run.ID).Info("Scheduled collection started")
		}
	}
}

// Close cancels background runs and waits for them to finish
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// begin reserves the run slot under the lock and does the storage I/O after releasing it,
// so status readers are never held up by a slow store.
func (s *Service) begin(ctx context.Context, brandIDs []int) (*models.CollectionRun, error) {
	run := &models.CollectionRun{
		ID:        uuid.NewString(),
		Status:    models.RunStatusRunning,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	if s.current.IsRunning() {
		runningID := s.current.ID
		s.mu.Unlock()
		return nil, errors.NewCollectionInProgressError(runningID)
	}
	previous := s.current
	s.current = run
	s.mu.Unlock()

	if err := s.prepare(ctx, run, brandIDs); err != nil {
		s.mu.Lock()
		if s.current == run {
			s.current = previous
		}
		s.mu.Unlock()
		return nil, err
	}
	return run, nil
}

func (s *Service) prepare(ctx context.Context, run *models.CollectionRun, brandIDs []int) error {
	if len(brandIDs) == 0 {
		saved, err := s.selection.LoadSelection(ctx)
		if err != nil {
			return fmt.Errorf("failed to load brand selection: %w", err)
		}
		brandIDs = saved
	}

	s.mu.Lock()
	run.BrandIDs = append([]int{}, brandIDs...)
	s.mu.Unlock()

	if err := s.runs.SaveCollectionRun(ctx, s.copyRun(run)); err != nil {
		return fmt.Errorf("failed to save collection run: %w", err)
	}
	return nil
}

func (s *Service) execute(ctx context.Context, run *models.CollectionRun) {
	logger := s.logger.WithField("run_id", run.ID)

	counters, err := s.collector.Run(ctx, run.ID, run.BrandIDs)
	if err != nil {
		logger.WithError(err).Error("Collection run failed")
	}

	s.mu.Lock()
	run.RunCounters = counters
	run.Finish(s.now(), err)
	s.mu.Unlock()
	final := s.copyRun(run)

	// the run's own context may be gone by now
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.runs.SaveCollectionRun(saveCtx, final); err != nil {
		logger.WithError(err).Error("Failed to save finished collection run")
	}
}

// copyRun returns a copy of run that is safe to hand out while the run is still being updated
func (s *Service) copyRun(run *models.CollectionRun) *models.CollectionRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *run
	cp.BrandIDs = append([]int{}, run.BrandIDs...)
	return &cp
}
