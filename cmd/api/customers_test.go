package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookstore/internal/data"
)

const msgMalformed = "Illegal, missing, or malformed input"

func customerJSON(userID, state string) string {
	return fmt.Sprintf(`{
		"userId": %q,
		"name": "Star Lord",
		"phone": "+14122144122",
		"address": "48 Galaxy Rd",
		"city": "Fargo",
		"state": %q,
		"zipcode": "58102"
	}`, userID, state)
}

func TestCreateCustomer(t *testing.T) {
	app := newTestApplication(t)

	rr := send(t, app.routes(testContext(t)), http.MethodPost, "/customers", customerJSON("starlord2002@gmail.com", "ND"))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/customers/1", rr.Header().Get("Location"))

	body := decode(t, rr)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "starlord2002@gmail.com", body["userId"])
	assert.Nil(t, body["address2"])
}

func TestCreateCustomer_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"not an email", customerJSON("not-an-email", "CA"), http.StatusBadRequest, msgMalformed},
		{"unknown state", customerJSON("a@example.com", "ZZ"), http.StatusBadRequest, msgMalformed},
		{"territory", customerJSON("a@example.com", "PR"), http.StatusBadRequest, msgMalformed},
		{"lowercase state", customerJSON("a@example.com", "ca"), http.StatusCreated, ""},
		{"missing name", `{"userId":"a@example.com","phone":"1","address":"a","city":"c","state":"CA","zipcode":"1"}`, http.StatusBadRequest, msgMalformed},
		{"long zipcode", `{"userId":"a@example.com","name":"n","phone":"1","address":"a","city":"c","state":"CA","zipcode":"12345678901"}`, http.StatusBadRequest, msgMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(t)

			rr := send(t, app.routes(testContext(t)), http.MethodPost, "/customers", tt.body)
			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decode(t, rr)["message"])

				_, err := app.models.Customers.GetByUserID(context.Background(), "a@example.com")
				assert.ErrorIs(t, err, data.ErrRecordNotFound)
			}
		})
	}
}

func TestCreateCustomer_NumericPhoneAndZipcode(t *testing.T) {
	app := newTestApplication(t)
	body := `{"userId":"a@example.com","name":"n","phone":14122144122,"address":"a","city":"c","state":"CA","zipcode":12345}`

	rr := send(t, app.routes(testContext(t)), http.MethodPost, "/customers", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	out := decode(t, rr)
	assert.Equal(t, "12345", out["zipcode"])
	assert.Equal(t, "14122144122", out["phone"])

	stored, err := app.models.Customers.GetByUserID(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "12345", stored.Zipcode)
}

func TestCreateCustomer_StateStoredAsSent(t *testing.T) {
	app := newTestApplication(t)

	rr := send(t, app.routes(testContext(t)), http.MethodPost, "/customers", customerJSON("a@example.com", "ca"))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "ca", decode(t, rr)["state"])

	stored, err := app.models.Customers.GetByUserID(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ca", stored.State)
}

func TestCreateCustomer_Duplicate(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes(testContext(t))

	require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/customers", customerJSON("a@example.com", "ND")).Code)

	rr := send(t, h, http.MethodPost, "/customers", customerJSON("a@example.com", "CA"))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "This user ID already exists in the system.", decode(t, rr)["message"])

	stored, err := app.models.Customers.GetByUserID(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.ID)
	assert.Equal(t, "ND", stored.State)
}

func TestShowCustomer(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes(testContext(t))

	for i := 1; i <= 12; i++ {
		userID := fmt.Sprintf("user%d@example.com", i)
		require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/customers", customerJSON(userID, "ND")).Code)
	}

	tests := []struct {
		id       string
		wantCode int
		wantMsg  string
	}{
		{"12", http.StatusOK, ""},
		{"12.0", http.StatusOK, ""},
		{"13", http.StatusNotFound, "ID does not exist in the system"},
		{"abc", http.StatusBadRequest, msgMalformed},
		{"1.5", http.StatusBadRequest, msgMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rr := send(t, h, http.MethodGet, "/customers/"+tt.id, "")
			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())

			body := decode(t, rr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
				return
			}
			assert.Equal(t, float64(12), body["id"])
			assert.Equal(t, "user12@example.com", body["userId"])
		})
	}
}

func TestShowCustomerByUserID(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes(testContext(t))

	require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/customers", customerJSON("a@example.com", "ND")).Code)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantMsg  string
	}{
		{"found", "/customers?userId=a@example.com", http.StatusOK, ""},
		{"no parameter", "/customers", http.StatusBadRequest, msgMalformed},
		{"not an email", "/customers?userId=nobody", http.StatusBadRequest, msgMalformed},
		{"unknown", "/customers?userId=b@example.com", http.StatusNotFound, "User-ID does not exist in the system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := send(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())

			body := decode(t, rr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
				return
			}
			assert.Equal(t, float64(1), body["id"])
		})
	}
}

func TestCustomers_StoreFailure(t *testing.T) {
	app := newTestApplication(t)
	app.models = data.Models{Books: brokenBooks{}, Customers: brokenCustomers{}}
	h := app.routes(testContext(t))

	requests := []struct{ method, path, body string }{
		{http.MethodPost, "/customers", customerJSON("a@example.com", "ND")},
		{http.MethodGet, "/customers/1", ""},
		{http.MethodGet, "/customers?userId=a@example.com", ""},
	}

	for _, req := range requests {
		rr := send(t, h, req.method, req.path, req.body)
		assert.Equal(t, http.StatusInternalServerError, rr.Code, req.path)
		assert.Equal(t, "Internal Server Error", decode(t, rr)["message"])
	}
}
