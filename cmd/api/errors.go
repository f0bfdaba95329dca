// cmd/api/errors.go
// This file contains all error-response helpers for the application.
// Every error body has the shape {"message": "..."}.
package main

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/aoideee/bookstore/internal/validator"
)

const (
	msgServerError     = "Internal Server Error"
	msgBookNotFound    = "ISBN not found"
	msgBookExists      = "This ISBN already exists in the system."
	msgCustomerExists  = "This user ID already exists in the system."
	msgCustomerNoID    = "ID does not exist in the system"
	msgCustomerNoUser  = "User-ID does not exist in the system"
	msgRouteNotFound   = "the requested resource could not be found"
	msgTooManyRequests = "rate limit exceeded"
)

// logError logs an internal error through the request-scoped logger, which
// already carries the request id.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	hlog.FromRequest(r).Error().
		Err(err).
		Str("request_method", r.Method).
		Str("request_url", r.URL.String()).
		Msg("request failed")
}

// errorResponse sends a JSON error envelope with the given status code and message.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := app.writeJSON(w, status, envelope{"message": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs the cause and sends a generic 500. Internal
// details never reach the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, msgServerError)
}

// notFoundResponse sends a 404 for an unknown route.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, msgRouteNotFound)
}

// recordNotFoundResponse sends a 404 for a lookup key that has no row.
func (app *applicationDependencies) recordNotFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusNotFound, message)
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 with the error message from the caller.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 with the validator's message. The
// per-field detail is only logged.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, v *validator.Validator) {
	hlog.FromRequest(r).Debug().Interface("errors", v.Errors).Msg("validation failed")
	app.errorResponse(w, r, http.StatusBadRequest, v.Message())
}

// conflictResponse sends a 422 when a create would duplicate an existing key.
func (app *applicationDependencies) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, msgTooManyRequests)
}
