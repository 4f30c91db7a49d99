package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"cyberlens/internal/operations"
)

// OperationsService exposes pipeline execution to the HTTP layer. Starts
// are asynchronous; callers poll or subscribe to the websocket hub for
// completion.
type OperationsService struct {
	manager *operations.Manager
	logger  *slog.Logger
}

func NewOperationsService(manager *operations.Manager, logger *slog.Logger) *OperationsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsService{
		manager: manager,
		logger:  logger.With(slog.String("component", "operations_service")),
	}
}

// Start launches an operation in the background and returns its ID.
func (s *OperationsService) Start(ctx context.Context, req operations.OperationRequest) (string, error) {
	if req.Stage != "" {
		if _, err := s.manager.Registry().Get(req.Stage); err != nil {
			return "", fmt.Errorf("unknown stage %q", req.Stage)
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	// detach from the request context so the pipeline survives the
	// HTTP response
	go func() {
		if _, err := s.manager.Execute(context.Background(), req); err != nil {
			s.logger.Error("operation failed",
				slog.String("operation_id", req.ID),
				slog.String("error", err.Error()))
		}
	}()

	s.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", req.ID),
		slog.String("stage", req.Stage))
	return req.ID, nil
}

// Get returns a snapshot of one operation.
func (s *OperationsService) Get(id string) (*operations.OperationState, bool) {
	return s.manager.GetOperation(id)
}

// List returns snapshots of all tracked operations.
func (s *OperationsService) List() []*operations.OperationState {
	return s.manager.ListOperations()
}

// Stages returns the registered stage IDs in execution order.
func (s *OperationsService) Stages() []string {
	return s.manager.Registry().IDs()
}
