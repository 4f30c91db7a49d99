package http

import (
	"net/http"

	"github.com/go-chi/render"

	"cyberlens/internal/services"
)

// HealthHandler serves liveness and readiness information.
type HealthHandler struct {
	service *services.HealthService
}

func NewHealthHandler(service *services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports component status. Degraded checks return 503 so load
// balancers can pull the instance.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	render.Status(r, code)
	render.JSON(w, r, status)
}
