// Package store persists planner runs to Postgres or SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultTimeout bounds a single persistence call when the caller's
// context carries no deadline.
const DefaultTimeout = 12 * time.Second

var (
	// ErrInvalidSchema is returned for schema names that are not plain identifiers.
	ErrInvalidSchema = errors.New("invalid schema name")
	// ErrUnknownDriver is returned by Open for drivers other than postgres and sqlite.
	ErrUnknownDriver = errors.New("unknown database driver")

	schemaPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Store writes planner runs into one schema of a database.
type Store struct {
	db      *sql.DB
	driver  string
	schema  string
	builder sq.StatementBuilderType
}

// Open connects to the database and verifies the connection.
// For postgres dsn is a connection URL, for sqlite it is a file path.
func Open(ctx context.Context, driver, dsn, schema string) (*Store, error) {
	schema, err := SanitizeSchema(schema)
	if err != nil {
		return nil, err
	}

	var (
		driverName  string
		placeholder sq.PlaceholderFormat
	)
	switch driver {
	case DriverPostgres:
		driverName, placeholder = "pgx", sq.Dollar
	case DriverSQLite:
		driverName, placeholder = "sqlite", sq.Question
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &Store{
		db:      db,
		driver:  driver,
		schema:  schema,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Schema returns the schema the store writes to.
func (s *Store) Schema() string {
	return s.schema
}

// table qualifies name with the schema. SQLite has no schemas, so the
// schema becomes a table prefix instead.
func (s *Store) table(name string) string {
	if s.driver == DriverSQLite {
		return s.schema + "_" + name
	}
	return s.schema + "." + name
}

func sqliteDSN(path string) string {
	path = filepath.Clean(path)
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// SanitizeSchema trims a schema name and rejects anything that is not a bare identifier.
func SanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: schema is required", ErrInvalidSchema)
	}
	if !schemaPattern.MatchString(value) {
		return "", fmt.Errorf("%w: %s", ErrInvalidSchema, value)
	}
	return value, nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
