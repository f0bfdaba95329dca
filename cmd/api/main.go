// Package main is the entry point for the bookstore API server.
// It wires together configuration, the store, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aoideee/bookstore/internal/config"
	"github.com/aoideee/bookstore/internal/data"

	_ "github.com/lib/pq"  // Register the PostgreSQL driver with database/sql.
	_ "modernc.org/sqlite" // Register the pure Go SQLite driver.
)

// appVersion is the current version of the API, shown in logs and the
// healthcheck.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config config.Config  // Settings loaded from the environment
	logger zerolog.Logger // Structured logger; handlers use the request-scoped copy
	models data.Models    // Book and customer stores
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore builds the Models for the configured driver. The returned
// cleanup func closes the underlying pool, if any.
func openStore(cfg config.DatabaseConfig) (data.Models, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return data.NewMemoryModels(), func() error { return nil }, nil

	case "sqlite":
		db, err := openDB("sqlite", sqliteDSN(cfg.Path), cfg.MaxOpenConns)
		if err != nil {
			return data.Models{}, nil, err
		}
		return data.NewModels(db, data.SQLite), db.Close, nil

	case "postgres":
		db, err := openDB("postgres", cfg.DSN(), cfg.MaxOpenConns)
		if err != nil {
			return data.Models{}, nil, err
		}
		return data.NewModels(db, data.Postgres), db.Close, nil
	}

	return data.Models{}, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// sqliteDSN turns on foreign keys and a busy timeout for the file at path.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// openDB opens a connection pool for driver, caps it at maxOpen connections,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(driver, dsn string, maxOpen int) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// PingContext performs a real round-trip to verify the database is reachable.
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}
