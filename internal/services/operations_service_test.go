package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
	"cyberlens/internal/operations"
)

type noopStage struct {
	operations.BaseStage
	done chan struct{}
}

func (s *noopStage) Execute(ctx context.Context, state *operations.OperationState) error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}

func testOperationsService(t *testing.T) (*OperationsService, *noopStage) {
	t.Helper()
	stage := &noopStage{BaseStage: operations.NewBaseStage("noop", "Noop"), done: make(chan struct{})}
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(stage))
	manager := operations.NewManager(registry, config.PipelineConfig{StageTimeout: time.Minute}, nil, nil)
	return NewOperationsService(manager, nil), stage
}

func TestStartRunsOperation(t *testing.T) {
	svc, stage := testOperationsService(t)

	id, err := svc.Start(context.Background(), operations.OperationRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-stage.done:
	case <-time.After(5 * time.Second):
		t.Fatal("stage never ran")
	}
}

func TestStartRejectsUnknownStage(t *testing.T) {
	svc, _ := testOperationsService(t)

	_, err := svc.Start(context.Background(), operations.OperationRequest{Stage: "nope"})
	assert.Error(t, err)
}

func TestStagesList(t *testing.T) {
	svc, _ := testOperationsService(t)
	assert.Equal(t, []string{"noop"}, svc.Stages())
}

func TestHealthServiceCheck(t *testing.T) {
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	svc := NewHealthService("1.0.0", paths, nil, nil)
	status := svc.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, "ok", status.Checks["data_dir"])
	assert.Equal(t, "ok", status.Checks["reports_dir"])
}

func TestHealthServiceDegraded(t *testing.T) {
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	// directories intentionally not created

	svc := NewHealthService("1.0.0", paths, nil, nil)
	status := svc.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
}
