package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cyberlens/internal/errors"
	"cyberlens/internal/operations"
	"cyberlens/internal/services"
)

// OperationsHandler exposes pipeline execution over HTTP.
type OperationsHandler struct {
	service      *services.OperationsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

func NewOperationsHandler(service *services.OperationsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *OperationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "operations_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the operation routes.
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartOperation)
	r.Get("/", h.ListOperations)
	r.Get("/stages", h.ListStages)
	r.Get("/{operationID}", h.GetOperation)

	return r
}

// startRequest is the POST body for launching an operation.
type startRequest struct {
	Stage      string                 `json:"stage,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

func (s *startRequest) Bind(r *http.Request) error {
	return nil
}

// StartOperation launches a pipeline run and returns 202 with its ID.
func (h *OperationsHandler) StartOperation(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "invalid request body"))
		return
	}

	id, err := h.service.Start(r.Context(), operations.OperationRequest{
		Stage:      req.Stage,
		Parameters: req.Parameters,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("stage", err.Error()))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{
		"operation_id": id,
		"status":       "accepted",
	})
}

// ListOperations returns snapshots of all tracked operations.
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"operations": h.service.List(),
	})
}

// ListStages returns the registered stage IDs in execution order.
func (h *OperationsHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"stages": h.service.Stages(),
	})
}

// GetOperation returns one operation's state.
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "operationID")
	state, ok := h.service.Get(id)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrOperationNotFound)
		return
	}
	render.JSON(w, r, state)
}
