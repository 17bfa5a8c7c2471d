package db

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// NewConnection opens a postgres pool whose sessions resolve unqualified
// names in schema, so migrations and repositories agree on table location.
func NewConnection(databaseURL, schema string) (*sqlx.DB, error) {
	dsn, err := withSearchPath(databaseURL, schema)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// withSearchPath adds a search_path runtime parameter to a URL or key=value DSN
func withSearchPath(databaseURL, schema string) (string, error) {
	if schema == "" {
		return databaseURL, nil
	}
	searchPath := pq.QuoteIdentifier(schema)

	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return fmt.Sprintf("%s search_path='%s'", databaseURL, strings.ReplaceAll(searchPath, `'`, `\'`)), nil
	}

	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database url: %w", err)
	}
	query := parsed.Query()
	query.Set("search_path", searchPath)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
