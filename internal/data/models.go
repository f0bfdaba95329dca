// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
)

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// BookStore is the persistence capability the book handlers need.
type BookStore interface {
	// Get returns the book with the given ISBN, or ErrRecordNotFound.
	Get(ctx context.Context, isbn string) (*Book, error)
	// Insert adds a new book row.
	Insert(ctx context.Context, book *Book) error
	// Update replaces every column of the row keyed by isbn and reports the
	// number of affected rows.
	Update(ctx context.Context, isbn string, book *Book) (int64, error)
}

// CustomerStore is the persistence capability the customer handlers need.
type CustomerStore interface {
	// Get returns the customer with the given numeric id, or ErrRecordNotFound.
	Get(ctx context.Context, id int64) (*Customer, error)
	// GetByUserID returns the customer with the given user id, or ErrRecordNotFound.
	GetByUserID(ctx context.Context, userID string) (*Customer, error)
	// Insert adds a new customer row and writes the generated id back into customer.
	Insert(ctx context.Context, customer *Customer) error
}

// Models is a top-level container that groups all the stores together.
// It is passed around the application via applicationDependencies so every handler
// has access to persistence without importing sql directly.
type Models struct {
	Books     BookStore
	Customers CustomerStore

	reset func(ctx context.Context) error
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB, dialect Dialect) Models {
	return Models{
		Books:     BookModel{DB: db, dialect: dialect},
		Customers: CustomerModel{DB: db, dialect: dialect},
		reset: func(ctx context.Context) error {
			return resetSchema(ctx, db, dialect)
		},
	}
}

// ResetSchema drops and recreates the books and customers tables. All rows
// are lost. It is never called implicitly.
func (m Models) ResetSchema(ctx context.Context) error {
	if m.reset == nil {
		return errors.New("schema reset is not supported by these models")
	}
	return m.reset(ctx)
}
