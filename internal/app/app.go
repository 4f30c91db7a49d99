package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyberlens/internal/config"
	"cyberlens/internal/files"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/operations"
	"cyberlens/internal/services"
	handlers "cyberlens/internal/transport/http"
	"cyberlens/internal/updater"
	ws "cyberlens/internal/websocket"
)

const (
	Version = "v1.0.0"
	RepoURL = "https://github.com/cyberlens/cyberlens"
	AppName = "CyberLens Security Analytics"
)

// Application wires every component of the web server together.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Hub           *ws.Hub
	Manager       *operations.Manager
	Server        *http.Server
	UpdateChecker *updater.Checker
}

// NewApplication loads configuration and builds the full dependency graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	hub := ws.NewHub(logger)

	registry, err := operations.NewPipelineRegistry(cfg, paths, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	manager := operations.NewManager(registry, cfg.Pipeline, hub, logger)

	inventory := files.NewInventory(paths)
	dataService := services.NewDataService(paths, logger)
	analyticsService := services.NewAnalyticsService(paths, logger)
	operationsService := services.NewOperationsService(manager, logger)
	healthService := services.NewHealthService(Version, paths, hub, logger)

	router, err := handlers.NewRouter(handlers.RouterDeps{
		Config:     cfg,
		Logger:     logger,
		Providers:  providers,
		Hub:        hub,
		Inventory:  inventory,
		Data:       dataService,
		Analytics:  analyticsService,
		Operations: operationsService,
		Health:     healthService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Hub:           hub,
		Manager:       manager,
		UpdateChecker: updater.NewChecker(Version, RepoURL, 24*time.Hour, logger),
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// Start launches the hub, update checker, and HTTP listener. A listener
// failure cancels the supplied context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Hub.Start()
	a.UpdateChecker.Start()

	go func() {
		a.Logger.InfoContext(ctx, "http server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("data_dir", a.Paths.DataDir),
			slog.String("reports_dir", a.Paths.ReportsDir))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop drains the server and background components.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.UpdateChecker.Stop()
	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error", slog.String("error", err.Error()))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "log file close error", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt or a fatal
// listener error, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case sig := <-sigChan:
		a.Logger.Info("received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
