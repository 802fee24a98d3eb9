package state

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// AppState is the process-wide state shared between the collector and the API
type AppState struct {
	mu                   sync.RWMutex
	triggerToRefetchCars bool
	logger               *logrus.Logger
}

func NewAppState(logger *logrus.Logger) *AppState {
	return &AppState{logger: logger}
}

// SetTriggerToRefetchCars sets the flag telling dependent views to reload stored cars
func (s *AppState) SetTriggerToRefetchCars(v bool) {
	s.mu.Lock()
	s.triggerToRefetchCars = v
	s.mu.Unlock()

	s.logger.WithField("trigger_to_refetch_cars", v).Debug("Refetch flag updated")
}

// TriggerRefetch raises the refetch flag
func (s *AppState) TriggerRefetch() {
	s.SetTriggerToRefetchCars(true)
}

// TriggerToRefetchCars reports the current flag value
func (s *AppState) TriggerToRefetchCars() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.triggerToRefetchCars
}

// ConsumeRefetch returns the flag and clears it
func (s *AppState) ConsumeRefetch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.triggerToRefetchCars
	s.triggerToRefetchCars = false
	return v
}
