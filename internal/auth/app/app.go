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

	"github.com/rs/cors"

	httpapi "github.com/strataworks/gatehouse/internal/auth/http"
	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/internal/auth/store"
	redisdriver "github.com/strataworks/gatehouse/internal/auth/store/drivers/redis"
	"github.com/strataworks/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/strataworks/gatehouse/pkg/jwtx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db           store.Store
	revoked      store.RevokedTokens
	revokedRedis *redisdriver.RevocationList // nil on the sqlite backend

	tokenService        *service.TokenService
	accountService      *service.AccountService
	notificationService *service.NotificationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The config
// is validated first; a weak or missing signing secret is fatal.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRevocationList(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.accountService.Bootstrap(ctx, app.cfg.BootstrapEmail, app.cfg.BootstrapPassword); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	app.housekeepingService.Start()

	app.logger.Info("gatehouse starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"revocation_backend", app.cfg.RevocationBackend,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully stops the server, the housekeeping worker and every
// store connection.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.revokedRedis != nil {
		if err := app.revokedRedis.Close(); err != nil {
			app.logger.Error("error closing revocation backend", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gatehouse stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

func (app *Application) initRevocationList() error {
	if app.cfg.RevocationBackend != "redis" {
		app.revoked = app.db.RevokedTokens()
		return nil
	}

	list := redisdriver.NewRevocationList(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := list.Ping(ctx); err != nil {
		_ = list.Close()
		return fmt.Errorf("redis revocation backend unreachable: %w", err)
	}

	app.revoked = list
	app.revokedRedis = list
	return nil
}

func (app *Application) initServices() error {
	access, err := jwtx.NewCodec(jwtx.TokenTypeAccess, []byte(app.cfg.AccessTokenSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("access token codec: %w", err)
	}
	refresh, err := jwtx.NewCodec(jwtx.TokenTypeRefresh, []byte(app.cfg.RefreshTokenSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("refresh token codec: %w", err)
	}

	app.tokenService = &service.TokenService{
		Access:        access,
		Refresh:       refresh,
		Store:         app.db,
		Revoked:       app.revoked,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
		RememberMeTTL: app.cfg.RememberMeTTL,
	}
	app.accountService = &service.AccountService{Store: app.db}
	app.notificationService = &service.NotificationService{Store: app.db}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.revoked,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

func (app *Application) initHTTP() {
	// A typed nil must not leak into the Pinger interface.
	var revokedPing httpapi.Pinger
	if app.revokedRedis != nil {
		revokedPing = app.revokedRedis
	}

	// The guard verifies through the token service, not the bare codec, so
	// role validation applies on every guarded request.
	router := httpapi.NewRouter(
		app.tokenService,
		BuildVersion,
		app.cfg.SecureCookies(),
		app.db,
		revokedPing,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.NotificationService = app.notificationService
	router.ApplyRoutes()

	app.router = router

	var handler http.Handler = router
	if len(app.cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   app.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(router)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
