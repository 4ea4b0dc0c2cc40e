package db

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

var schemaNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the schema and tables if they do not exist yet. It is idempotent.
func EnsureSchema(ctx context.Context, db *sqlx.DB, schema string) error {
	if !schemaNamePattern.MatchString(schema) {
		return fmt.Errorf("invalid database schema name: %q", schema)
	}

	query := strings.ReplaceAll(schemaSQL, "{{schema}}", schema)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	return nil
}
