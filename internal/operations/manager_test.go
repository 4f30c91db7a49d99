package operations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
)

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) BroadcastUpdate(eventType, stage, status string, metadata interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, eventType)
}

func (h *recordingHub) count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type fakeStage struct {
	BaseStage
	execute  func(ctx context.Context, state *OperationState) error
	validate func(state *OperationState) error
}

func (s *fakeStage) Execute(ctx context.Context, state *OperationState) error {
	if s.execute == nil {
		return nil
	}
	return s.execute(ctx, state)
}

func (s *fakeStage) Validate(state *OperationState) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(state)
}

func newFakeStage(id string, execute func(ctx context.Context, state *OperationState) error) *fakeStage {
	return &fakeStage{BaseStage: NewBaseStage(id, id), execute: execute}
}

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{StageTimeout: time.Minute}
}

func TestRegistryOrder(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("a", nil)))
	require.NoError(t, registry.Register(newFakeStage("b", nil)))
	require.NoError(t, registry.Register(newFakeStage("c", nil)))

	assert.Equal(t, []string{"a", "b", "c"}, registry.IDs())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("a", nil)))
	assert.Error(t, registry.Register(newFakeStage("a", nil)))
	assert.Error(t, registry.Register(nil))
}

func TestManagerExecutesFullPipeline(t *testing.T) {
	var order []string
	registry := NewRegistry()
	for _, id := range []string{"first", "second"} {
		id := id
		require.NoError(t, registry.Register(newFakeStage(id, func(ctx context.Context, state *OperationState) error {
			order = append(order, id)
			return nil
		})))
	}

	hub := &recordingHub{}
	manager := NewManager(registry, pipelineConfig(), hub, nil)

	resp, err := manager.Execute(context.Background(), OperationRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, OperationStatusCompleted, resp.Status)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Stages, 2)
	assert.Equal(t, StageStatusCompleted, resp.Stages["first"].Status)
	assert.Equal(t, 1, hub.count(EventTypeOperationComplete))
	assert.Positive(t, hub.count(EventTypeOperationProgress))
}

func TestManagerSingleStage(t *testing.T) {
	ran := false
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("only", func(ctx context.Context, state *OperationState) error {
		ran = true
		return nil
	})))
	require.NoError(t, registry.Register(newFakeStage("never", func(ctx context.Context, state *OperationState) error {
		t.Fatal("should not run")
		return nil
	})))

	manager := NewManager(registry, pipelineConfig(), nil, nil)
	resp, err := manager.Execute(context.Background(), OperationRequest{Stage: "only"})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, resp.Stages, 1)
}

func TestManagerUnknownStage(t *testing.T) {
	manager := NewManager(NewRegistry(), pipelineConfig(), nil, nil)
	resp, err := manager.Execute(context.Background(), OperationRequest{Stage: "nope"})
	assert.Error(t, err)
	assert.Equal(t, OperationStatusFailed, resp.Status)
}

func TestManagerStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	secondRan := false

	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("bad", func(ctx context.Context, state *OperationState) error {
		return boom
	})))
	require.NoError(t, registry.Register(newFakeStage("after", func(ctx context.Context, state *OperationState) error {
		secondRan = true
		return nil
	})))

	hub := &recordingHub{}
	manager := NewManager(registry, pipelineConfig(), hub, nil)

	resp, err := manager.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, secondRan)
	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Equal(t, StageStatusFailed, resp.Stages["bad"].Status)
	assert.Equal(t, StageStatusPending, resp.Stages["after"].Status)
	assert.Equal(t, 1, hub.count(EventTypeOperationError))
}

func TestManagerContinueOnError(t *testing.T) {
	secondRan := false
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("bad", func(ctx context.Context, state *OperationState) error {
		return errors.New("boom")
	})))
	require.NoError(t, registry.Register(newFakeStage("after", func(ctx context.Context, state *OperationState) error {
		secondRan = true
		return nil
	})))

	cfg := pipelineConfig()
	cfg.ContinueOnError = true
	manager := NewManager(registry, cfg, nil, nil)

	_, err := manager.Execute(context.Background(), OperationRequest{})
	assert.Error(t, err, "failed stage still fails the operation")
	assert.True(t, secondRan)
}

func TestManagerValidationSkips(t *testing.T) {
	registry := NewRegistry()
	stage := newFakeStage("guarded", nil)
	stage.validate = func(state *OperationState) error {
		return errors.New("missing input")
	}
	require.NoError(t, registry.Register(stage))

	manager := NewManager(registry, pipelineConfig(), nil, nil)
	resp, err := manager.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, StageStatusSkipped, resp.Stages["guarded"].Status)
}

func TestManagerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("canceller", func(ctx context.Context, state *OperationState) error {
		cancel()
		return nil
	})))
	require.NoError(t, registry.Register(newFakeStage("after", func(ctx context.Context, state *OperationState) error {
		t.Fatal("should not run after cancellation")
		return nil
	})))

	manager := NewManager(registry, pipelineConfig(), nil, nil)
	_, err := manager.Execute(ctx, OperationRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerTracksOperations(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeStage("slow", func(ctx context.Context, state *OperationState) error {
		close(started)
		<-release
		return nil
	})))

	manager := NewManager(registry, pipelineConfig(), nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = manager.Execute(context.Background(), OperationRequest{ID: "op-1"})
	}()

	<-started
	state, ok := manager.GetOperation("op-1")
	require.True(t, ok)
	assert.Equal(t, OperationStatusRunning, state.Status)
	assert.Len(t, manager.ListOperations(), 1)

	close(release)
	<-done
}

func TestOperationStateParameters(t *testing.T) {
	registry := NewRegistry()
	var seen string
	require.NoError(t, registry.Register(newFakeStage("reader", func(ctx context.Context, state *OperationState) error {
		v, _ := state.GetContext("cutoff_date")
		seen, _ = v.(string)
		return nil
	})))

	manager := NewManager(registry, pipelineConfig(), nil, nil)
	_, err := manager.Execute(context.Background(), OperationRequest{
		Parameters: map[string]interface{}{"cutoff_date": "2024-06-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", seen)
}
