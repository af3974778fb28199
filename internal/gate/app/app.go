package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/biometric"
	httpapi "github.com/millhouse-dev/taskgate/internal/gate/http"
	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/internal/gate/store/drivers/sqlite"
	"github.com/millhouse-dev/taskgate/pkg/cryptox"
	"github.com/millhouse-dev/taskgate/pkg/jwtx"
	"github.com/millhouse-dev/taskgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gate daemon with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.Signer

	// Services
	authService         *service.AuthService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "taskgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// The device key seals the store and signs session tokens.
	deviceKey, err := cryptox.LoadOrCreateDeviceKey(cfg.DeviceKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load device key: %w", err)
	}

	sealer, err := cryptox.NewSealer(deviceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store sealer: %w", err)
	}

	if err := app.initDatabase(sealer); err != nil {
		return nil, err
	}

	signer, err := jwtx.NewSigner(deviceKey, cfg.Issuer)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.sessionService.Start()
	app.housekeepingService.Start()

	app.logger.Info("taskgate starting",
		"addr", app.server.Addr,
		"version", BuildVersion,
		"biometrics", app.cfg.BiometricHelper != "",
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taskgate...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the background workers
	app.housekeepingService.Stop()
	app.sessionService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("taskgate stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase(sealer *cryptox.Sealer) error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host, sealer)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	var prompter biometric.Prompter = biometric.Unsupported{}
	if app.cfg.BiometricHelper != "" {
		prompter = &biometric.HelperPrompter{Path: app.cfg.BiometricHelper}
	}

	app.authService = &service.AuthService{
		Credentials:     app.db.Credentials(),
		Events:          app.db.AuthEvents(),
		Prompter:        prompter,
		Logger:          app.logger,
		SessionDuration: app.cfg.SessionDuration,
	}

	app.sessionService = service.NewSessionService(
		app.authService,
		app.logger,
		app.cfg.TickInterval,
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.authService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	// Loopback only; the gate never serves off-host clients.
	addr := net.JoinHostPort(app.cfg.BindAddress, strconv.Itoa(app.cfg.Port))

	app.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
