package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB backs the Database interface with a websocket SurrealDB
// session. A zero SurrealDB is not usable; construct with NewSurrealDB
// and call Connect before issuing queries.
type SurrealDB struct {
	conn *surrealdb.DB
	cfg  Config
}

// NewSurrealDB returns an unconnected SurrealDB handle.
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{cfg: cfg}
}

// Connect dials the server, signs in as a root-level user and selects
// the configured namespace and database.
func (s *SurrealDB) Connect(ctx context.Context) error {
	conn, err := surrealdb.FromEndpointURLString(ctx, fmt.Sprintf("ws://%s:%s", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := conn.SignIn(ctx, &surrealdb.Auth{Username: s.cfg.User, Password: s.cfg.Password}); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}
	if err := conn.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.conn = conn
	return nil
}

// Close tears down the websocket session. Safe to call when never
// connected.
func (s *SurrealDB) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}

// Ping verifies the session is alive by asking for the server version.
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.conn == nil {
		return ErrConnection
	}
	if _, err := s.conn.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs the statements and normalizes every per-statement result to
// a {status, result} map, the one shape the repository parsers handle. A
// non-OK statement fails the whole call; SurrealQL THROW messages come
// back through the wrapped error text.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.conn == nil {
		return nil, ErrConnection
	}

	raw, err := surrealdb.Query[interface{}](ctx, s.conn, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if raw == nil {
		return nil, nil
	}

	out := make([]interface{}, 0, len(*raw))
	for _, res := range *raw {
		if res.Status != "OK" {
			if res.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, res.Error.Message)
			}
			return nil, ErrQuery
		}
		out = append(out, map[string]interface{}{"status": res.Status, "result": res.Result})
	}
	return out, nil
}

// QueryOne runs a single-row query. Row-set results yield their first
// row; scalar results (counts, booleans) pass through as-is. An empty
// row set is ErrNotFound.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return results[0], nil
	}
	if status, _ := resp["status"].(string); status != "OK" {
		return results[0], nil
	}

	rows, ok := resp["result"].([]interface{})
	if !ok {
		return resp["result"], nil
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Execute runs a mutation for its side effects only.
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}
