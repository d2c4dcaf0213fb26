// @title           Student Task Manager API
// @version         1.0
// @description     Personal task management: accounts, bearer-token auth, per-user task CRUD.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HailuBoc/student-task-manager/internal/app"
	"github.com/HailuBoc/student-task-manager/internal/config"
	"github.com/HailuBoc/student-task-manager/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("dev")
		l.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.App.Env)
	if cfg.Auth.IsDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the dev default")
	}

	log.Info().Msg("config loaded, connecting to stores")
	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("app init")
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("app close")
	}
}
