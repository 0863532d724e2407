package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "auth_portal/docs"
	"auth_portal/internal/config"
	"auth_portal/internal/handlers"
	"auth_portal/internal/logger"
	"auth_portal/internal/repository"
	"auth_portal/internal/repository/db"
	"auth_portal/internal/server"
	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title        Auth Portal API
// @version      1.0
// @description  Registration, login and session endpoints backing the auth pages.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml, .env and APP_* overrides
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Sync() }()

	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// purge expired refresh tokens
	go services.Janitor.Run(ctx, cfg.JanitorInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
