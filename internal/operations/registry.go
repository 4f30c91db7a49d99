package operations

import (
	"fmt"
	"sync"
)

// Registry holds the known stages in execution order.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	order  []string
}

// NewRegistry creates an empty stage registry
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// Register adds a stage. Registration order is execution order.
func (r *Registry) Register(stage Stage) error {
	if stage == nil {
		return fmt.Errorf("cannot register nil stage")
	}
	if stage.ID() == "" {
		return fmt.Errorf("cannot register stage with empty ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stages[stage.ID()]; exists {
		return fmt.Errorf("stage already registered: %s", stage.ID())
	}
	r.stages[stage.ID()] = stage
	r.order = append(r.order, stage.ID())
	return nil
}

// Get returns a stage by ID
func (r *Registry) Get(id string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stage, ok := r.stages[id]
	if !ok {
		return nil, fmt.Errorf("stage not found: %s", id)
	}
	return stage, nil
}

// All returns the stages in registration order.
func (r *Registry) All() []Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stages := make([]Stage, 0, len(r.order))
	for _, id := range r.order {
		stages = append(stages, r.stages[id])
	}
	return stages
}

// IDs returns the registered stage IDs in execution order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
