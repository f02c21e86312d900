package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/cache"
	"autopost-dashboard/infrastructure/clients/backend"
	youtubeclient "autopost-dashboard/infrastructure/clients/youtube"
	"autopost-dashboard/infrastructure/configuration"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/infrastructure/persistence"
	"autopost-dashboard/infrastructure/realtime"
	httpHandler "autopost-dashboard/interfaces/http"
	"autopost-dashboard/server"
	"autopost-dashboard/usecase"

	"golang.org/x/sync/errgroup"
)

const kvPrefix = "autopost:"

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	cfg := configuration.C

	kv := initiateKeyValue(ctx, cfg.RedisClient)

	db, vendor, err := InitiateDatabase(cfg.Database.Vendor)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Database not available - connections kept in the key/value store")
	}
	connections, tokens := initiateRepositories(db, vendor, kv)

	hub := realtime.NewNotificationHub()
	queue := usecase.NewNotificationQueue(cfg.Notification.TTL()).WithBroadcaster(hub)

	upstream := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout())
	var exchanger repository.ICodeExchanger = backend.NewUpstreamExchanger(upstream, cfg.YouTube.RedirectURI)
	if cfg.YouTube.DirectExchangeEnabled() {
		exchanger = youtubeclient.NewDirectExchanger(youtubeclient.Config{
			ClientID:     cfg.YouTube.ClientID,
			ClientSecret: cfg.YouTube.ClientSecret,
			RedirectURL:  cfg.YouTube.RedirectURI,
		}, tokens, exchanger)
		logger.GetLogger().Info("YouTube codes are exchanged directly with Google")
	}

	sessionStore := usecase.NewSessionStore()
	profileUsecase := usecase.NewProfileUsecase(persistence.NewProfileRepository(kv), queue)
	poller := usecase.NewConnectionPoller(upstream, connections, queue, cfg.Poller.MaxAttempts, cfg.Poller.Delays())
	flow := usecase.NewOAuthFlowController(upstream, exchanger, connections, kv, queue, cfg.Backend.CallbackPath, cfg.Backend.DashboardPath)
	pipeline := usecase.NewPublishPipeline(upstream, kv, queue)

	loginPath := cfg.Backend.LoginPath
	router := server.InitiateRouter(
		sessionStore,
		httpHandler.NewHealthHandler(),
		httpHandler.NewOAuthHandler(flow, loginPath),
		httpHandler.NewConnectionHandler(poller, profileUsecase, pipeline, queue, loginPath),
		httpHandler.NewProfileHandler(profileUsecase, loginPath),
		httpHandler.NewContentHandler(pipeline, profileUsecase, poller, queue, loginPath),
		httpHandler.NewNotificationHandler(queue, hub),
	)

	app := cfg.App
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled, "backend": cfg.Backend.BaseURL}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", app.Port),
			Handler: router,
		}
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if db != nil {
		_ = db.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateKeyValue uses Redis when a host is configured and reachable,
// otherwise an in-process store that is lost on restart.
func initiateKeyValue(ctx context.Context, rc configuration.RedisClient) repository.IKeyValue {
	if rc.Host == "" {
		logger.GetLogger().Info("Redis host not configured - using in-memory key/value store")
		return cache.NewMemoryKeyValue()
	}
	client, err := cache.NewRedisClient(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password, rc.DB)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - using in-memory key/value store")
		return cache.NewMemoryKeyValue()
	}
	return cache.NewRedisKeyValue(client, kvPrefix)
}

// InitiateDatabase opens the SQL store chosen by vendor ("postgres" or
// "mssql"). An empty vendor means no SQL store.
func InitiateDatabase(vendor string) (*sql.DB, string, error) {
	switch vendor {
	case "":
		return nil, "", nil
	case "mssql":
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, "", fmt.Errorf("connect mssql: %w", err)
		}
		if err := persistence.EnsureSchemaMSSQL(db); err != nil {
			return nil, "", fmt.Errorf("ensure mssql schema: %w", err)
		}
		return db, vendor, nil
	case "postgres", "psql":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, "", fmt.Errorf("connect postgres: %w", err)
		}
		if err := persistence.EnsureSchema(db); err != nil {
			return nil, "", fmt.Errorf("ensure postgres schema: %w", err)
		}
		return db, "postgres", nil
	}
	return nil, "", fmt.Errorf("unknown database vendor %q", vendor)
}

func initiateRepositories(db *sql.DB, vendor string, kv repository.IKeyValue) (repository.IConnection, repository.IOAuthToken) {
	switch {
	case db != nil && vendor == "mssql":
		return persistence.NewConnectionRepositoryMSSQL(db), persistence.NewOAuthTokenRepositoryMSSQL(db)
	case db != nil:
		return persistence.NewConnectionRepository(db), persistence.NewOAuthTokenRepository(db)
	}
	return persistence.NewKVConnectionRepository(kv), persistence.NewKVTokenRepository(kv)
}
