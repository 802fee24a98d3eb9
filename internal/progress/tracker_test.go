package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

func TestTracker_Latest(t *testing.T) {
	tracker := NewTracker()

	_, ok := tracker.Latest()
	assert.False(t, ok)

	tracker.Report(models.CollectionProgress{RunID: "run-1", Year: 2018, Attempts: 1})
	tracker.Report(models.CollectionProgress{RunID: "run-1", Year: 2019, Attempts: 2})

	latest, ok := tracker.Latest()
	require.True(t, ok)
	assert.Equal(t, 2019, latest.Year)
	assert.Equal(t, 2, latest.Attempts)
}

func TestTracker_SubscribeKeepsNewest(t *testing.T) {
	tracker := NewTracker()
	first, unsubFirst := tracker.Subscribe()
	defer unsubFirst()
	second, unsubSecond := tracker.Subscribe()
	defer unsubSecond()

	for year := 2015; year <= 2020; year++ {
		tracker.Report(models.CollectionProgress{Year: year})
	}

	// every subscriber sees the newest snapshot, not just one of them
	for _, updates := range []<-chan models.CollectionProgress{first, second} {
		select {
		case p := <-updates:
			assert.Equal(t, 2020, p.Year)
		default:
			t.Fatal("expected a pending update")
		}

		select {
		case p := <-updates:
			t.Fatalf("unexpected update: %+v", p)
		default:
		}
	}
}

func TestTracker_SubscribeSeedsLatest(t *testing.T) {
	tracker := NewTracker()

	empty, unsubEmpty := tracker.Subscribe()
	defer unsubEmpty()
	select {
	case p := <-empty:
		t.Fatalf("unexpected update: %+v", p)
	default:
	}

	tracker.Report(models.CollectionProgress{RunID: "run-1", Year: 2018})

	late, unsubLate := tracker.Subscribe()
	defer unsubLate()
	select {
	case p := <-late:
		assert.Equal(t, "run-1", p.RunID)
		assert.Equal(t, 2018, p.Year)
	default:
		t.Fatal("expected the latest snapshot")
	}
}

func TestTracker_UnsubscribeClosesChannel(t *testing.T) {
	tracker := NewTracker()
	updates, unsubscribe := tracker.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-updates
	assert.False(t, open)

	assert.NotPanics(t, func() {
		tracker.Report(models.CollectionProgress{Year: 2020})
	})
}
