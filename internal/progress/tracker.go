package progress

import (
	"sync"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Tracker keeps the most recent progress snapshot of a collection run and fans it out to subscribers.
// Each subscriber gets a latest-value channel: a reader that falls behind only sees the newest snapshot.
type Tracker struct {
	mu          sync.RWMutex
	latest      *models.CollectionProgress
	subscribers map[chan models.CollectionProgress]struct{}
}

// NewTracker creates a new progress tracker
func NewTracker() *Tracker {
	return &Tracker{
		subscribers: make(map[chan models.CollectionProgress]struct{}),
	}
}

// Report records a new snapshot
func (t *Tracker) Report(p models.CollectionProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := p
	t.latest = &snapshot

	for ch := range t.subscribers {
		replace(ch, p)
	}
}

// Latest returns the most recent snapshot, false when nothing was reported yet
func (t *Tracker) Latest() (models.CollectionProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.latest == nil {
		return models.CollectionProgress{}, false
	}
	return *t.latest, true
}

// Subscribe returns a channel of snapshots, seeded with the latest one, and a func that
// unsubscribes and closes the channel. The func is safe to call more than once.
func (t *Tracker) Subscribe() (<-chan models.CollectionProgress, func()) {
	ch := make(chan models.CollectionProgress, 1)

	t.mu.Lock()
	if t.latest != nil {
		ch <- *t.latest
	}
	t.subscribers[ch] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subscribers, ch)
			close(ch)
			t.mu.Unlock()
		})
	}
}

// replace puts p in ch, dropping a pending value the reader has not taken yet.
// Callers hold the tracker lock, so Report is the only writer.
func replace(ch chan models.CollectionProgress, p models.CollectionProgress) {
	select {
	case ch <- p:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- p
	}
}
