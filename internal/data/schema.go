package data

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"regexp"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect names the SQL flavour behind a *sql.DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var placeholderRX = regexp.MustCompile(`\$(\d+)`)

// rebind rewrites $N placeholders for drivers that do not understand them.
// Queries are written once, in Postgres form.
func (d Dialect) rebind(query string) string {
	if d == SQLite {
		return placeholderRX.ReplaceAllString(query, "?${1}")
	}
	return query
}

// resetSchema drops both tables if they exist and creates them again.
func resetSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	script, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}

	if _, err := db.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}
