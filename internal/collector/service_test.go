package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/mileage-collector/internal/errors"
	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

type memoryRuns struct {
	mu     sync.Mutex
	runs   map[string]models.CollectionRun
	latest string

	// when set, saves signal saving and wait for release
	saving  chan struct{}
	release chan struct{}
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: make(map[string]models.CollectionRun)}
}

func (m *memoryRuns) SaveCollectionRun(_ context.Context, run *models.CollectionRun) error {
	if m.release != nil {
		select {
		case m.saving <- struct{}{}:
		default:
		}
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	m.latest = run.ID
	return nil
}

func (m *memoryRuns) GetLatestCollectionRun(_ context.Context) (*models.CollectionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == "" {
		return nil, nil
	}
	run := m.runs[m.latest]
	return &run, nil
}

func (m *memoryRuns) GetCollectionRun(_ context.Context, id string) (*models.CollectionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (m *memoryRuns) get(id string) (models.CollectionRun, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	return run, ok
}

func newTestService(t *testing.T, source *fakeSource) (*Service, *testEnv, *memoryRuns) {
	t.Helper()
	env := newTestEnv(t, source, audiCatalog(10))
	runs := newMemoryRuns()
	svc := NewService(env.collector, env.states, runs, newTestLogger())
	t.Cleanup(svc.Close)
	return svc, env, runs
}

func oneYearSource() *fakeSource {
	return &fakeSource{
		generations: map[int][]models.Generation{
			10: {{ID: 100, YearFrom: models.IntPtr(2018)}},
		},
		payloads: map[int]string{2018: `{"lastSoldAdverts":[{"id":1}]}`},
	}
}

func TestService_RunCollectionUsesSavedSelection(t *testing.T) {
	ctx := context.Background()
	svc, env, runs := newTestService(t, oneYearSource())

	_, err := env.states.SaveSelection(ctx, []int{1})
	require.NoError(t, err)

	run, err := svc.RunCollection(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, []int{1}, run.BrandIDs)
	assert.Equal(t, 1, run.Aggregates)
	require.NotNil(t, run.FinishedAt)

	stored, ok := runs.get(run.ID)
	require.True(t, ok)
	assert.Equal(t, models.RunStatusCompleted, stored.Status)

	latest, err := svc.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
}

func TestService_RunCollectionReportsFailure(t *testing.T) {
	source := oneYearSource()
	source.genErr = assert.AnError
	svc, _, runs := newTestService(t, source)

	run, err := svc.RunCollection(context.Background(), []int{1})
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusFailed, run.Status)

	stored, ok := runs.get(run.ID)
	require.True(t, ok)
	assert.Equal(t, models.RunStatusFailed, stored.Status)
	assert.NotEmpty(t, stored.LastError)
}

func TestService_StartCollectionRejectsConcurrentRun(t *testing.T) {
	ctx := context.Background()
	source := oneYearSource()
	source.block = make(chan struct{})
	svc, env, _ := newTestService(t, source)

	run, err := svc.StartCollection(ctx, []int{1})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, run.Status)

	_, err = svc.StartCollection(ctx, []int{1})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	close(source.block)

	require.Eventually(t, func() bool {
		latest, err := svc.LatestRun(ctx)
		return err == nil && latest.Status == models.RunStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	assert.Len(t, env.sink.saved(), 1)

	again, err := svc.StartCollection(ctx, []int{1})
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, again.ID)
}

func TestService_StatusReadsDoNotWaitForRunStore(t *testing.T) {
	ctx := context.Background()
	svc, _, runs := newTestService(t, oneYearSource())
	runs.saving = make(chan struct{}, 1)
	runs.release = make(chan struct{})

	started := make(chan error, 1)
	go func() {
		_, err := svc.StartCollection(ctx, []int{1})
		started <- err
	}()

	select {
	case <-runs.saving:
	case <-time.After(5 * time.Second):
		t.Fatal("run was never saved")
	}

	// the first save is still blocked; readers and a second trigger must not be
	read := make(chan *models.CollectionRun, 1)
	go func() {
		latest, err := svc.LatestRun(ctx)
		assert.NoError(t, err)
		read <- latest
	}()
	select {
	case latest := <-read:
		assert.Equal(t, models.RunStatusRunning, latest.Status)
	case <-time.After(time.Second):
		t.Fatal("LatestRun waited for the run store")
	}

	_, err := svc.StartCollection(ctx, []int{1})
	assert.True(t, errors.IsConflict(err))

	close(runs.release)
	require.NoError(t, <-started)
}

func TestService_GetRun(t *testing.T) {
	ctx := context.Background()
	svc, env, runs := newTestService(t, oneYearSource())

	run, err := svc.RunCollection(ctx, []int{1})
	require.NoError(t, err)

	current, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, current.Status)

	// a fresh process only has the stored record
	restarted := NewService(env.collector, env.states, runs, newTestLogger())
	t.Cleanup(restarted.Close)

	stored, err := restarted.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)
	assert.Equal(t, []int{1}, stored.BrandIDs)
	assert.Equal(t, 1, stored.Aggregates)

	_, err = restarted.GetRun(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestService_FailedStartFreesSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, oneYearSource())

	// an unreadable selection fails before the run is recorded
	svc.selection = failingSelection{}
	_, err := svc.StartCollection(ctx, nil)
	require.Error(t, err)

	_, err = svc.LatestRun(ctx)
	assert.True(t, errors.IsNotFound(err))

	run, err := svc.RunCollection(ctx, []int{1})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
}

type failingSelection struct{}

func (failingSelection) LoadSelection(context.Context) ([]int, error) {
	return nil, assert.AnError
}

func TestService_LatestRunNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, oneYearSource())

	_, err := svc.LatestRun(context.Background())
	assert.True(t, errors.IsNotFound(err))
}

func TestService_CloseCancelsBackgroundRun(t *testing.T) {
	source := oneYearSource()
	source.block = make(chan struct{})
	svc, env, runs := newTestService(t, source)

	run, err := svc.StartCollection(context.Background(), []int{1})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(source.mileageCalls()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	svc.Close()

	stored, ok := runs.get(run.ID)
	require.True(t, ok)
	assert.Equal(t, models.RunStatusFailed, stored.Status)
	assert.False(t, env.appState.TriggerToRefetchCars())
}

func TestService_Scheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, env, _ := newTestService(t, oneYearSource())

	_, err := env.states.SaveSelection(ctx, []int{1})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.StartScheduler(ctx, 20*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return len(env.sink.saved()) > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestService_SchedulerDisabled(t *testing.T) {
	svc, _, _ := newTestService(t, oneYearSource())
	assert.NoError(t, svc.StartScheduler(context.Background(), 0))
}
