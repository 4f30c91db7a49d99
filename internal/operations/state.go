package operations

import (
	"sync"
	"time"
)

// OperationStatus represents the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState is the complete state of one pipeline run. The context map
// is how stages hand results to their successors.
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	Stages map[string]*StageState `json:"stages"`

	// Values passed between stages
	ctx map[string]interface{}

	err error
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Stages:    make(map[string]*StageState),
		ctx:       make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (o *OperationState) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Status = OperationStatusRunning
	o.StartTime = time.Now()
}

// Complete marks the operation as completed
func (o *OperationState) Complete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (o *OperationState) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusFailed
	o.err = err
}

// Cancel marks the operation as cancelled
func (o *OperationState) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCancelled
}

// Err returns the failure cause, if any.
func (o *OperationState) Err() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// GetStage returns the state of a specific stage
func (o *OperationState) GetStage(stageID string) *StageState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Stages[stageID]
}

// SetStage updates the state of a specific stage
func (o *OperationState) SetStage(stageID string, state *StageState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Stages[stageID] = state
}

// GetContext retrieves a value from the operation context
func (o *OperationState) GetContext(key string) (interface{}, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	val, ok := o.ctx[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (o *OperationState) SetContext(key string, value interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ctx[key] = value
}

// Duration returns the duration of the operation execution
func (o *OperationState) Duration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.EndTime != nil {
		return o.EndTime.Sub(o.StartTime)
	}
	return time.Since(o.StartTime)
}

// HasFailures returns true if any stage has failed
func (o *OperationState) HasFailures() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, stage := range o.Stages {
		if stage.Status == StageStatusFailed {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy for serving over the API while the
// operation keeps running.
func (o *OperationState) Snapshot() *OperationState {
	o.mu.RLock()
	defer o.mu.RUnlock()

	clone := &OperationState{
		ID:        o.ID,
		Status:    o.Status,
		StartTime: o.StartTime,
		Stages:    make(map[string]*StageState, len(o.Stages)),
		ctx:       make(map[string]interface{}),
		err:       o.err,
	}
	if o.EndTime != nil {
		t := *o.EndTime
		clone.EndTime = &t
	}
	for id, stage := range o.Stages {
		clone.Stages[id] = stage.snapshot()
	}
	return clone
}
