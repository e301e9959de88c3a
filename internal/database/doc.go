// Package database provides the SurrealDB access layer for the trainer API.
//
// The Database interface exposes three query methods:
//   - Query: multiple results (SELECT lists)
//   - QueryOne: a single record (SELECT by id)
//   - Execute: mutations with no return value
//
// Transactions are batch-based: queries accumulate and are wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION at commit time, so they succeed or
// fail together. The roster capacity guard, reorder renumbering, and item
// consumption rely on this to keep their read-then-write sequences atomic.
//
// Standard errors (check with errors.Is):
//   - ErrNotFound: record does not exist
//   - ErrDuplicate: unique constraint violation (e.g. trainer email)
//   - ErrConnection: connection failure
//   - ErrQuery: query execution failure
package database
