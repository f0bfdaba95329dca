// Package data provides the data models and database interaction logic
// for the bookstore: books, customers, their validation rules and the
// stores that persist them.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aoideee/bookstore/internal/validator"
)

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ISBN        string `json:"ISBN"`        // Primary key, any format
	Title       string `json:"title"`       // Title of the book
	Author      string `json:"Author"`      // Capitalised on the wire, unlike its neighbours
	Description string `json:"description"` // Free text description
	Genre       string `json:"genre"`       // Genre label
	Price       Price  `json:"price"`       // Two decimal places, written to JSON as a number
	Quantity    int    `json:"quantity"`    // Copies in stock
}

// BookInput holds the fields a client must supply when creating or
// replacing a book. Every field is required and "required" means non-zero:
// an empty string, a zero quantity or a zero price all count as missing.
type BookInput struct {
	ISBN        string    `json:"ISBN"        validate:"required"`
	Title       string    `json:"title"       validate:"required"`
	Author      string    `json:"Author"      validate:"required"`
	Description string    `json:"description" validate:"required"`
	Genre       string    `json:"genre"       validate:"required"`
	Price       PriceText `json:"price"       validate:"required" format:"price"`
	Quantity    Quantity  `json:"quantity"    validate:"required"`
}

// Client-facing validation messages for books.
const (
	MsgBookFieldsMandatory = "All fields in the request body are mandatory."
	MsgBookPriceFormat     = "Price must be a valid number with 2 decimal places"
	MsgMalformedInput      = "Illegal, missing, or malformed input"
)

// Book maps a validated input onto a Book. It fails only if the price does
// not parse, which ValidateBookInput already rules out.
func (in BookInput) Book() (*Book, error) {
	price, err := in.Price.Decimal()
	if err != nil {
		return nil, err
	}

	return &Book{
		ISBN:        in.ISBN,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Genre:       in.Genre,
		Price:       NewPrice(price),
		Quantity:    int(in.Quantity),
	}, nil
}

// ValidateBookInput checks a create request: all seven fields present, then
// a price with at most two decimal places.
func ValidateBookInput(v *validator.Validator, in *BookInput) {
	v.Struct(in)

	if f, ok := v.First(); ok {
		if f.Rule == "required" {
			v.Summarize(MsgBookFieldsMandatory)
		} else {
			v.Summarize(MsgBookPriceFormat + ".")
		}
	}
}

// ValidateBookUpdate checks a full-replace request for the book at isbn:
// body fields present, then the path key, then the price format.
func ValidateBookUpdate(v *validator.Validator, isbn string, in *BookInput) {
	v.Presence(in)
	v.Check(isbn != "", "path", "must include an ISBN")
	v.Format(in)

	if f, ok := v.First(); ok {
		switch {
		case f.Rule == "required":
			v.Summarize("Missing required field: " + f.Field)
		case f.Field == "path":
			v.Summarize(MsgMalformedInput)
		default:
			v.Summarize(MsgBookPriceFormat)
		}
	}
}

// BookModel wraps a *sql.DB connection and provides methods for
// reading, creating and replacing book records.
type BookModel struct {
	DB      *sql.DB // Shared database connection pool
	dialect Dialect
}

// Get retrieves a single book by its ISBN.
// Returns ErrRecordNotFound if no book with the given ISBN exists.
func (m BookModel) Get(ctx context.Context, isbn string) (*Book, error) {
	query := `
		SELECT isbn, title, author, description, genre, price, quantity
		FROM books
		WHERE isbn = $1`

	var book Book
	err := m.DB.QueryRowContext(ctx, m.dialect.rebind(query), isbn).Scan(
		&book.ISBN,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Genre,
		&book.Price,
		&book.Quantity,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("select book: %w", err)
		}
	}
	return &book, nil
}

// Insert adds a new book record to the database.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (isbn, title, author, description, genre, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := m.DB.ExecContext(ctx, m.dialect.rebind(query),
		book.ISBN,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.Price,
		book.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Update overwrites every column, ISBN included, of the row currently keyed
// by isbn. It returns the number of rows affected.
func (m BookModel) Update(ctx context.Context, isbn string, book *Book) (int64, error) {
	query := `
		UPDATE books
		SET isbn = $1, title = $2, author = $3, description = $4,
		    genre = $5, price = $6, quantity = $7
		WHERE isbn = $8`

	// Collect all arguments in order matching the $N placeholders above.
	args := []any{
		book.ISBN,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.Price,
		book.Quantity,
		isbn,
	}

	result, err := m.DB.ExecContext(ctx, m.dialect.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}
	return rowsAffected, nil
}
