// cmd/api/books.go
// This file contains the HTTP handlers for the books resource. Each one
// validates, checks the key against the store, then reads or writes.
package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/aoideee/bookstore/internal/data"
	"github.com/aoideee/bookstore/internal/validator"
)

// createBookHandler handles POST /books.
// It responds 201 with the submitted book and a Location header, or 422 if
// the ISBN is already taken.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.BookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBookInput(v, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	book, err := input.Book()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = app.models.Books.Get(r.Context(), book.ISBN)
	switch {
	case err == nil:
		app.conflictResponse(w, r, msgBookExists)
		return
	case !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	// A concurrent create can still win between the lookup and this insert;
	// the unique key then fails the insert and the client gets a 500.
	err = app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("isbn", book.ISBN).Msg("book created")

	headers := make(http.Header)
	headers.Set("Location", "/books/"+book.ISBN)

	err = app.writeJSON(w, http.StatusCreated, book, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /books/{ISBN}.
// Every column is replaced, ISBN included, so the body's ISBN becomes the
// book's new key. Responds 404 if nothing is stored under the path ISBN.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "ISBN")

	var input data.BookInput
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBookUpdate(v, isbn, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	book, err := input.Book()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = app.models.Books.Get(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, msgBookNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	affected, err := app.models.Books.Update(r.Context(), isbn, book)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	// The row was there a moment ago; treat a concurrent change of key the
	// same as never having found it.
	if affected == 0 {
		app.recordNotFoundResponse(w, r, msgBookNotFound)
		return
	}

	hlog.FromRequest(r).Info().Str("isbn", isbn).Str("new_isbn", book.ISBN).Msg("book updated")

	err = app.writeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/{ISBN} and GET /books/isbn/{ISBN}.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "ISBN")

	book, err := app.models.Books.Get(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r, msgBookNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
