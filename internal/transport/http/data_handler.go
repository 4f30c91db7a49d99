package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cyberlens/internal/errors"
	"cyberlens/internal/files"
	"cyberlens/internal/kpi"
	"cyberlens/internal/services"
)

// DataHandler serves the generated analytics reports.
type DataHandler struct {
	service      *services.DataService
	analytics    *services.AnalyticsService
	inventory    *files.Inventory
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

func NewDataHandler(service *services.DataService, analytics *services.AnalyticsService, inventory *files.Inventory, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		analytics:    analytics,
		inventory:    inventory,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/kpis", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Get("/monthly", h.GetMonthlyKPIs)
		r.Get("/quarterly", h.GetQuarterlyKPIs)
		r.Get("/failure-rate", h.GetFailureRate)
	})
	r.Route("/segments", func(r chi.Router) {
		r.Get("/companies", h.GetCompanySegments)
		r.Get("/users", h.GetUserSegments)
	})
	r.Get("/risk/top", h.GetTopRisks)
	r.Get("/reports", h.GetReports)

	return r
}

// GetReports lists the raw inputs and generated report files on disk.
func (h *DataHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"raw_inputs": h.inventory.RawInputs(),
		"reports":    h.inventory.Reports(),
	})
}

// GetSummary serves the executive summary block.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, warnings := h.service.ExecutiveSummary(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"summary":  summary,
		"warnings": warnings,
	})
}

// GetMonthlyKPIs serves the merged monthly incident and failure-rate series.
func (h *DataHandler) GetMonthlyKPIs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.MonthlyKPIs(r.Context()))
}

// GetQuarterlyKPIs serves the quarterly financial impact series.
func (h *DataHandler) GetQuarterlyKPIs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.QuarterlyKPIs(r.Context()))
}

// GetCompanySegments serves the company segmentation output.
func (h *DataHandler) GetCompanySegments(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.CompanySegments(r.Context()))
}

// GetUserSegments serves the user segmentation output.
func (h *DataHandler) GetUserSegments(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.UserSegments(r.Context()))
}

// GetFailureRate recomputes the monthly login failure rate from the raw
// data under optional filters: ?roles=a,b&sector=x&types=t1,t2&from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *DataHandler) GetFailureRate(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rates, loadErr := h.analytics.FailureRates(r.Context(), filter)
	if loadErr != nil {
		// The raw drops are absent until data is provisioned; answer
		// with a warning the way the report endpoints do.
		render.JSON(w, r, map[string]interface{}{
			"rows":     []interface{}{},
			"warnings": []string{loadErr.Error()},
		})
		return
	}
	render.JSON(w, r, map[string]interface{}{"rows": rates})
}

func parseFilter(r *http.Request) (kpi.Filter, error) {
	q := r.URL.Query()
	filter := kpi.Filter{
		Sector:      q.Get("sector"),
		AttackTypes: splitList(q.Get("types")),
		Roles:       splitList(q.Get("roles")),
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apierrors.ErrValidation("from", "expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apierrors.ErrValidation("to", "expected YYYY-MM-DD")
		}
		filter.To = t
	}
	return filter, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetTopRisks serves the highest risk scores. Accepts ?limit=N, default 20.
func (h *DataHandler) GetTopRisks(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a positive integer"))
			return
		}
		limit = v
	}
	render.JSON(w, r, h.service.UserRisks(r.Context(), limit))
}
