// cmd/api/routes.go
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
)

// routes registers all HTTP endpoints and returns the configured router.
// Background work started for the router, such as the rate limiter's
// cleanup, stops when ctx is done.
//
// Middleware chain (outermost → innermost):
//
//	logger → recoverPanic → requestID → accessLog → cors → rateLimit → router
//
// Endpoints:
//
//	POST   /books                 – create a book
//	PUT    /books/{ISBN}          – replace a book
//	GET    /books/{ISBN}          – retrieve a book
//	GET    /books/isbn/{ISBN}     – same handler as above
//	POST   /customers             – create a customer
//	GET    /customers/{id}        – retrieve a customer by numeric id
//	GET    /customers?userId=...  – retrieve a customer by user id
//	GET    /healthcheck           – service status
func (app *applicationDependencies) routes(ctx context.Context) http.Handler {
	router := chi.NewRouter()

	router.Use(hlog.NewHandler(app.logger))
	router.Use(app.recoverPanic)
	router.Use(app.requestID)
	router.Use(app.accessLog())
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Location", requestIDHeader},
		MaxAge:         300,
	}))
	if app.config.Limiter.Enabled {
		router.Use(app.rateLimit(ctx))
	}

	// Return JSON instead of chi's plain-text defaults.
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	router.Get("/healthcheck", app.healthcheckHandler)

	router.Post("/books", app.createBookHandler)
	router.Put("/books/{ISBN}", app.updateBookHandler)
	router.Get("/books/{ISBN}", app.showBookHandler)
	router.Get("/books/isbn/{ISBN}", app.showBookHandler)

	router.Post("/customers", app.createCustomerHandler)
	router.Get("/customers", app.showCustomerByUserIDHandler)
	router.Get("/customers/{id}", app.showCustomerHandler)

	return router
}
