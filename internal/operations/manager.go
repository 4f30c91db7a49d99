package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cyberlens/internal/config"
)

// Hub pushes operation events to connected dashboard clients.
type Hub interface {
	BroadcastUpdate(eventType, stage, status string, metadata interface{})
}

// noopHub swallows events when no hub is attached (CLI runs).
type noopHub struct{}

func (noopHub) BroadcastUpdate(string, string, string, interface{}) {}

// Manager orchestrates pipeline execution and tracks active operations.
type Manager struct {
	registry *Registry
	cfg      config.PipelineConfig
	hub      Hub
	logger   *slog.Logger

	mu         sync.RWMutex
	operations map[string]*OperationState
}

// NewManager creates an operation manager. hub may be nil when no clients
// need progress events.
func NewManager(registry *Registry, cfg config.PipelineConfig, hub Hub, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if hub == nil {
		hub = noopHub{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry:   registry,
		cfg:        cfg,
		hub:        hub,
		logger:     logger.With(slog.String("component", "operations")),
		operations: make(map[string]*OperationState),
	}
}

// Registry returns the stage registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Execute runs the requested stage, or the full pipeline when the request
// names none. It blocks until the operation finishes.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	state := NewOperationState(req.ID)
	for k, v := range req.Parameters {
		state.SetContext(k, v)
	}

	var stages []Stage
	if req.Stage != "" {
		stage, err := m.registry.Get(req.Stage)
		if err != nil {
			state.Fail(err)
			return m.response(state), err
		}
		stages = []Stage{stage}
		m.logger.InfoContext(ctx, "executing single stage",
			slog.String("stage_id", req.Stage),
			slog.String("operation_id", req.ID))
	} else {
		stages = m.registry.All()
		m.logger.InfoContext(ctx, "executing full pipeline",
			slog.Int("stage_count", len(stages)),
			slog.String("operation_id", req.ID))
	}
	if len(stages) == 0 {
		err := fmt.Errorf("no stages registered")
		state.Fail(err)
		return m.response(state), err
	}

	for _, stage := range stages {
		state.SetStage(stage.ID(), NewStageState(stage.ID(), stage.Name()))
	}

	m.storeOperation(state)
	defer m.expireOperation(req.ID)

	state.Start()
	m.hub.BroadcastUpdate(EventTypeOperationStatus, "", string(OperationStatusRunning),
		map[string]interface{}{"operation_id": req.ID})

	err := m.executeSequential(ctx, state, stages)
	if err != nil {
		state.Fail(err)
		m.hub.BroadcastUpdate(EventTypeOperationError, "", string(OperationStatusFailed),
			map[string]interface{}{"operation_id": req.ID, "error": err.Error()})
	} else {
		state.Complete()
		m.hub.BroadcastUpdate(EventTypeOperationComplete, "", string(OperationStatusCompleted),
			map[string]interface{}{"operation_id": req.ID, "duration": state.Duration().String()})
	}
	return m.response(state), err
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState, stages []Stage) error {
	for _, stage := range stages {
		select {
		case <-ctx.Done():
			state.Cancel()
			return ctx.Err()
		default:
		}

		if err := m.executeStage(ctx, state, stage); err != nil {
			if m.cfg.ContinueOnError {
				m.logger.WarnContext(ctx, "stage failed, continuing",
					slog.String("stage_id", stage.ID()),
					slog.String("error", err.Error()))
				continue
			}
			return fmt.Errorf("stage %s: %w", stage.ID(), err)
		}
	}
	if state.HasFailures() {
		return fmt.Errorf("operation %s finished with stage failures", state.ID)
	}
	return nil
}

func (m *Manager) executeStage(ctx context.Context, state *OperationState, stage Stage) error {
	stageState := state.GetStage(stage.ID())

	if err := stage.Validate(state); err != nil {
		stageState.Skip(err.Error())
		m.broadcastStage(state.ID, stage.ID(), stageState)
		return fmt.Errorf("validation: %w", err)
	}

	stageCtx := ctx
	if m.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, m.cfg.StageTimeout)
		defer cancel()
	}

	stageState.Start()
	m.broadcastStage(state.ID, stage.ID(), stageState)

	start := time.Now()
	err := stage.Execute(stageCtx, state)
	elapsed := time.Since(start)

	if err != nil {
		stageState.Fail(err)
		m.broadcastStage(state.ID, stage.ID(), stageState)
		m.logger.ErrorContext(ctx, "stage failed",
			slog.String("stage_id", stage.ID()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return err
	}

	stageState.Complete()
	m.broadcastStage(state.ID, stage.ID(), stageState)
	m.logger.InfoContext(ctx, "stage completed",
		slog.String("stage_id", stage.ID()),
		slog.Duration("elapsed", elapsed))
	return nil
}

func (m *Manager) broadcastStage(operationID, stageID string, stageState *StageState) {
	m.hub.BroadcastUpdate(EventTypeOperationProgress, stageID, string(stageState.Status), ProgressUpdate{
		OperationID: operationID,
		StageID:     stageID,
		Progress:    stageState.Progress,
		Message:     stageState.Message,
	})
}

func (m *Manager) response(state *OperationState) *OperationResponse {
	snapshot := state.Snapshot()
	resp := &OperationResponse{
		ID:       snapshot.ID,
		Status:   snapshot.Status,
		Duration: snapshot.Duration(),
		Stages:   snapshot.Stages,
	}
	if err := snapshot.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// GetOperation returns a snapshot of a tracked operation.
func (m *Manager) GetOperation(id string) (*OperationState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.operations[id]
	if !ok {
		return nil, false
	}
	return state.Snapshot(), true
}

// ListOperations returns snapshots of all tracked operations.
func (m *Manager) ListOperations() []*OperationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*OperationState, 0, len(m.operations))
	for _, state := range m.operations {
		out = append(out, state.Snapshot())
	}
	return out
}

func (m *Manager) storeOperation(state *OperationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[state.ID] = state
}

// expireOperation keeps finished operations queryable for a while, then
// drops them to bound memory.
func (m *Manager) expireOperation(id string) {
	time.AfterFunc(10*time.Minute, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.operations, id)
	})
}
