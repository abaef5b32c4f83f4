package model

import (
	"sync"
)

// StateManager tracks whether a model has completed training and the shape
// of the data it last trained on. It is safe for concurrent use.
type StateManager struct {
	mu sync.RWMutex

	fitted    bool
	nFeatures int
	nSamples  int
	epochs    int
}

// NewStateManager creates a StateManager in the untrained state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether training has completed at least once.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as trained.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// Reset returns to the untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
	s.epochs = 0
}

// RecordTraining stores the shape of a completed training run and adds its
// epochs to the running total.
func (s *StateManager) RecordTraining(nFeatures, nSamples, epochs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
	s.epochs += epochs
}

// GetDimensions returns the features and samples of the last training run.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// ModelState is a snapshot of a StateManager.
type ModelState struct {
	Fitted      bool `json:"fitted"`
	NFeatures   int  `json:"n_features,omitempty"`
	NSamples    int  `json:"n_samples,omitempty"`
	EpochsTotal int  `json:"epochs_total,omitempty"`
}

// GetState returns a snapshot of the current state.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Fitted:      s.fitted,
		NFeatures:   s.nFeatures,
		NSamples:    s.nSamples,
		EpochsTotal: s.epochs,
	}
}

// SetState restores a snapshot.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = state.Fitted
	s.nFeatures = state.NFeatures
	s.nSamples = state.NSamples
	s.epochs = state.EpochsTotal
}
