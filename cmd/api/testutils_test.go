package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookstore/internal/config"
	"github.com/aoideee/bookstore/internal/data"
)

// newTestApplication returns dependencies backed by the in-memory store and
// a silent logger.
func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	return &applicationDependencies{
		config: config.Default(),
		logger: zerolog.Nop(),
		models: data.NewMemoryModels(),
	}
}

// testContext returns a context that is canceled when the test finishes
// (equivalent to t.Context on Go 1.24+).
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// send runs one request through the full router.
func send(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

var errStoreDown = errors.New("connection refused")

// brokenBooks and brokenCustomers fail every call the way an unreachable
// database would.
type brokenBooks struct{}

func (brokenBooks) Get(context.Context, string) (*data.Book, error) { return nil, errStoreDown }
func (brokenBooks) Insert(context.Context, *data.Book) error      { return errStoreDown }
func (brokenBooks) Update(context.Context, string, *data.Book) (int64, error) {
	return 0, errStoreDown
}

type brokenCustomers struct{}

func (brokenCustomers) Get(context.Context, int64) (*data.Customer, error) { return nil, errStoreDown }
func (brokenCustomers) GetByUserID(context.Context, string) (*data.Customer, error) {
	return nil, errStoreDown
}
func (brokenCustomers) Insert(context.Context, *data.Customer) error { return errStoreDown }
