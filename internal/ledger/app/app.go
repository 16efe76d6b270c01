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

	ledgerhttp "github.com/aussiebroadwan/ledger/internal/ledger/http"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/jsonfile"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/internal/ledger/telegram"
	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the ledger service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	hasher   *cryptox.Argon2Hasher
	gateway  *telegram.Gateway // nil without a bot token
	notifier *service.Notifier

	// Services
	registrarService  *service.RegistrarService
	proofService      *service.ProofService
	withdrawalService *service.WithdrawalService
	adminService      *service.AdminService
	digestService     *service.DigestService

	// Background command loop
	cancel    context.CancelFunc
	adminDone chan struct{}

	// HTTP server
	server *http.Server
	router *ledgerhttp.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ledger-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewArgon2Hasher(cfg.PepperFile)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = hasher

	if err := app.initMessaging(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	app.digestService.Start()

	if app.gateway != nil {
		app.adminDone = make(chan struct{})
		go func() {
			defer close(app.adminDone)
			app.adminService.Run(slogx.WithContext(ctx, app.logger), app.gateway.Commands(ctx))
		}()
		app.logger.Info("admin command loop started")
	}

	app.logger.Info("ledger service starting", "port", app.cfg.Port, "version", BuildVersion, "store", app.cfg.StoreDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			_ = app.Shutdown()
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ledger service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop accepting admin commands and let the one in flight finish.
	if app.cancel != nil {
		app.cancel()
	}
	if app.adminDone != nil {
		select {
		case <-app.adminDone:
		case <-ctx.Done():
			app.logger.Warn("admin command loop did not stop in time")
		}
	}

	app.digestService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("ledger service stopped")
	return nil
}

// initStore opens the configured store driver.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case DriverJSONFile:
		db, err := jsonfile.NewStore(app.cfg.JSONFile)
		if err != nil {
			return fmt.Errorf("failed to open ledger file: %w", err)
		}
		app.db = db
		app.logger.Info("json ledger opened", "path", app.cfg.JSONFile)

	default:
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db

		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.logger.Info("database migrations applied successfully")
	}
	return nil
}

// initMessaging connects the admin channel. Without a bot token messages go
// to the log.
func (app *Application) initMessaging() error {
	app.notifier = &service.Notifier{
		Messenger: service.LogMessenger{Logger: app.logger},
		Recipient: "admin",
		Timeout:   app.cfg.NotifyTimeout,
	}

	if app.cfg.TelegramToken == "" {
		app.logger.Warn("TELEGRAM_BOT_TOKEN not set: admin messages are logged only and no commands will be received")
		return nil
	}

	gw, err := telegram.New(app.cfg.TelegramToken, app.cfg.TelegramAdminID, app.logger)
	if err != nil {
		return fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	app.gateway = gw
	app.notifier.Messenger = gw
	app.notifier.Recipient = gw.AdminRecipient()
	app.logger.Info("telegram gateway connected", "admin_id", app.cfg.TelegramAdminID)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	policy := app.cfg.Policy()

	app.registrarService = &service.RegistrarService{
		Store:    app.db,
		Hasher:   app.hasher,
		Policy:   policy,
		Notifier: app.notifier,
	}
	app.proofService = &service.ProofService{
		Store:    app.db,
		Notifier: app.notifier,
	}
	app.withdrawalService = &service.WithdrawalService{
		Store:    app.db,
		Policy:   policy,
		Notifier: app.notifier,
	}
	app.adminService = &service.AdminService{
		Store:    app.db,
		Policy:   policy,
		Notifier: app.notifier,
	}

	app.digestService = service.NewDigestService(
		app.db,
		app.notifier,
		policy,
		app.logger,
		app.cfg.DigestInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := ledgerhttp.NewRouter(BuildVersion, app.db, app.logger)

	router.RegistrarService = app.registrarService
	router.ProofService = app.proofService
	router.WithdrawalService = app.withdrawalService
	router.UploadDir = app.cfg.UploadDir
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
