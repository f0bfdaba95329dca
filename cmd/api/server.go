// cmd/api/server.go
// This file contains the serve() method which starts the HTTP server and
// handles graceful shutdown when the command context is cancelled.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
)

// serve builds the HTTP server, starts it in a background goroutine, then
// blocks until ctx is cancelled (SIGINT or SIGTERM). In-flight requests are
// then given the configured shutdown window to complete.
func (app *applicationDependencies) serve(ctx context.Context) error {
	apiServer := &http.Server{
		Addr:         app.config.Server.Addr(),
		Handler:      app.routes(ctx),
		IdleTimeout:  app.config.Server.IdleTimeout,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		ErrorLog:     log.New(app.logger.With().Str("component", "http").Logger(), "", 0),
	}

	// shutdownErr receives any error returned by Shutdown().
	shutdownErr := make(chan error)

	go func() {
		<-ctx.Done()
		app.logger.Info().Msg("shutting down server")

		// Active requests must complete within this window or they will be
		// abandoned.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		shutdownErr <- apiServer.Shutdown(shutdownCtx)
	}()

	app.logger.Info().
		Str("address", apiServer.Addr).
		Str("environment", app.config.Env).
		Str("version", appVersion).
		Msg("starting server")

	// ListenAndServe always returns a non-nil error; ErrServerClosed means
	// Shutdown was called.
	err := apiServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownErr
	if err != nil {
		return err
	}

	app.logger.Info().Str("address", apiServer.Addr).Msg("server stopped")
	return nil
}
