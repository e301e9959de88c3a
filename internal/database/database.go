package database

import (
	"context"
	"errors"
)

// Sentinel errors returned by Database implementations. Callers match
// them with errors.Is.
var (
	// ErrNotFound means the query matched no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means a unique index rejected the write (trainer email,
	// refresh-token hash).
	ErrDuplicate = errors.New("duplicate record")

	// ErrLimitExceeded means a THROW guard aborted a transaction, such as
	// adding to a full team or consuming exhausted stock.
	ErrLimitExceeded = errors.New("capacity limit exceeded")

	// ErrConnection covers dial, auth and session failures.
	ErrConnection = errors.New("database connection error")

	// ErrQuery covers statement-level failures: bad syntax, schema
	// assertions, invalid record references.
	ErrQuery = errors.New("query error")
)

// Database is the storage contract the repositories depend on. Only the
// SurrealDB implementation exists; the interface keeps repository tests
// free of a live server.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query runs one or more statements and returns a result entry per
	// statement.
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne runs a query expected to produce a single row and returns
	// that row, or ErrNotFound when the result set is empty.
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a mutation and discards its output.
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config carries the connection settings for a Database.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
