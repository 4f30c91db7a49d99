package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"cyberlens/internal/config"
	apierrors "cyberlens/internal/errors"
	"cyberlens/internal/files"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/middleware"
	"cyberlens/internal/services"
	ws "cyberlens/internal/websocket"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Providers  *infrastructure.OTelProviders
	Hub        *ws.Hub
	Inventory  *files.Inventory
	Data       *services.DataService
	Analytics  *services.AnalyticsService
	Operations *services.OperationsService
	Health     *services.HealthService
}

// NewRouter assembles the full middleware chain and route tree.
func NewRouter(deps RouterDeps) (chi.Router, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.DefaultSecureHeaders().Handler)

	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.Security.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}
	if deps.Providers != nil {
		otelMW, err := middleware.NewOTelMiddleware(deps.Providers)
		if err != nil {
			return nil, err
		}
		r.Use(otelMW.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(logger, false)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.Server.WriteTimeout, logger))
		api.Mount("/data", NewDataHandler(deps.Data, deps.Analytics, deps.Inventory, logger, errorHandler).Routes())
		api.Mount("/operations", NewOperationsHandler(deps.Operations, logger, errorHandler).Routes())
	})

	r.Get("/health", NewHealthHandler(deps.Health).Health)

	if deps.Providers != nil && deps.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", deps.Providers.PrometheusHTTP)
	}

	if deps.Hub != nil {
		upgrader := websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Security.AllowedOrigins),
		}
		r.Get("/ws", ws.ServeWS(deps.Hub, upgrader, logger))
	}

	return r, nil
}

// originChecker allows websocket upgrades only from configured origins.
// Requests without an Origin header (same host, CLI tools) pass.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
