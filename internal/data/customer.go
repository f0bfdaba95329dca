package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aoideee/bookstore/internal/validator"
)

// Customer represents a row in the "customers" table.
type Customer struct {
	ID       int64   `json:"id"`       // Assigned by the database
	UserID   string  `json:"userId"`   // Unique, email shaped
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Address2 *string `json:"address2"` // Optional; null when not supplied
	City     string  `json:"city"`
	State    string  `json:"state"` // Stored as sent; only the check is case-insensitive
	Zipcode  string  `json:"zipcode"`
}

// CustomerInput holds the fields a client supplies when creating a customer.
// Everything except Address2 is required.
// Phone and Zipcode also accept JSON numbers.
type CustomerInput struct {
	UserID   string  `json:"userId"   validate:"required" format:"userid"`
	Name     string  `json:"name"     validate:"required"`
	Phone    Text    `json:"phone"    validate:"required" format:"max=15"`
	Address  string  `json:"address"  validate:"required"`
	Address2 *string `json:"address2"`
	City     string  `json:"city"     validate:"required"`
	State    string  `json:"state"    validate:"required" format:"usstate"`
	Zipcode  Text    `json:"zipcode"  validate:"required" format:"max=10"`
}

// Customer maps the input onto a Customer with no id yet.
func (in CustomerInput) Customer() *Customer {
	return &Customer{
		UserID:   in.UserID,
		Name:     in.Name,
		Phone:    string(in.Phone),
		Address:  in.Address,
		Address2: in.Address2,
		City:     in.City,
		State:    in.State,
		Zipcode:  string(in.Zipcode),
	}
}

// ValidateCustomerInput checks a create request. Every customer failure
// shares one client-facing message; the per-field detail stays in Errors.
func ValidateCustomerInput(v *validator.Validator, in *CustomerInput) {
	v.Struct(in)
	v.Summarize(MsgMalformedInput)
}

// ValidateCustomerID parses the id path value. Any finite number with no
// fractional part is accepted, so "3" and "3.0" both give 3.
func ValidateCustomerID(v *validator.Validator, raw string) int64 {
	defer v.Summarize(MsgMalformedInput)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.AddError("id", "must be provided")
		return 0
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		v.AddError("id", "must be an integer")
		return 0
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		v.AddError("id", "is out of range")
		return 0
	}

	return int64(f)
}

// ValidateUserID checks the userId query parameter.
func ValidateUserID(v *validator.Validator, userID string) {
	defer v.Summarize(MsgMalformedInput)

	v.Check(userID != "", "userId", "must be provided")
	if userID != "" {
		v.Check(validator.Matches(userID, validator.UserIDRX), "userId", "must be a valid email address")
	}
}

// CustomerModel wraps a *sql.DB connection and provides methods for
// reading and creating customer records.
type CustomerModel struct {
	DB      *sql.DB
	dialect Dialect
}

const customerColumns = `id, user_id, name, phone, address, address2, city, state, zipcode`

// Get retrieves a customer by numeric id.
// Returns ErrRecordNotFound if no customer with that id exists.
func (m CustomerModel) Get(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return m.getOne(ctx, query, id)
}

// GetByUserID retrieves a customer by user id.
// Returns ErrRecordNotFound if no customer with that user id exists.
func (m CustomerModel) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`
	return m.getOne(ctx, query, userID)
}

func (m CustomerModel) getOne(ctx context.Context, query string, arg any) (*Customer, error) {
	var (
		customer Customer
		address2 sql.NullString
	)

	err := m.DB.QueryRowContext(ctx, m.dialect.rebind(query), arg).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Name,
		&customer.Phone,
		&customer.Address,
		&address2,
		&customer.City,
		&customer.State,
		&customer.Zipcode,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("select customer: %w", err)
		}
	}

	if address2.Valid {
		customer.Address2 = &address2.String
	}
	return &customer, nil
}

// Insert adds a new customer record to the database.
// After a successful insert, the database-assigned id is written back into
// the customer struct.
func (m CustomerModel) Insert(ctx context.Context, customer *Customer) error {
	query := `
		INSERT INTO customers (user_id, name, phone, address, address2, city, state, zipcode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := m.DB.QueryRowContext(ctx, m.dialect.rebind(query),
		customer.UserID,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.Address2,
		customer.City,
		customer.State,
		customer.Zipcode,
	).Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}
