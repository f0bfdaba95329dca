// cmd/api/customers.go
// This file contains the HTTP handlers for the customers resource.
// Customers can be created and looked up; there is no update or delete.
package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/aoideee/bookstore/internal/data"
	"github.com/aoideee/bookstore/internal/validator"
)

// createCustomerHandler handles POST /customers.
// It responds 201 with the customer and its store-assigned id, or 422 if the
// userId is already registered.
func (app *applicationDependencies) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CustomerInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateCustomerInput(v, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	customer := input.Customer()

	_, err = app.models.Customers.GetByUserID(r.Context(), customer.UserID)
	switch {
	case err == nil:
		app.conflictResponse(w, r, msgCustomerExists)
		return
	case !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	// Insert writes the generated id back into customer.
	err = app.models.Customers.Insert(r.Context(), customer)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("customer_id", customer.ID).Msg("customer created")

	headers := make(http.Header)
	headers.Set("Location", "/customers/"+strconv.FormatInt(customer.ID, 10))

	err = app.writeJSON(w, http.StatusCreated, customer, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showCustomerHandler handles GET /customers/{id}.
// Any integral number is accepted as the id, so "3.0" finds customer 3.
func (app *applicationDependencies) showCustomerHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	id := data.ValidateCustomerID(v, chi.URLParam(r, "id"))
	if !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	customer, err := app.models.Customers.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, msgCustomerNoID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, customer, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showCustomerByUserIDHandler handles GET /customers?userId=...
func (app *applicationDependencies) showCustomerByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	v := validator.New()
	if data.ValidateUserID(v, userID); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	customer, err := app.models.Customers.GetByUserID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, msgCustomerNoUser)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, customer, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
