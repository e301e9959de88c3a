package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// AtomicBatch collects statements and runs them inside one SurrealQL
// BEGIN/COMMIT block, so a multi-record write (team renumbering, item
// consumption) either lands whole or not at all.
//
// Each statement keeps its own variable map. Because SurrealQL variables
// share one namespace per request, Execute rewrites every variable with
// a per-statement prefix ($team_id in statement 3 becomes $s3_team_id)
// before merging the maps. Callers never see the rewritten names.
type AtomicBatch struct {
	statements []string
	vars       []map[string]interface{}
}

// NewAtomicBatch returns an empty batch.
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{}
}

// Add appends a statement and its variables. Returns the batch for
// chaining.
func (b *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	b.statements = append(b.statements, query)
	b.vars = append(b.vars, vars)
	return b
}

// Query runs the batch as a single transaction and returns the
// per-statement results in the order the statements were added. An
// empty batch is a no-op.
func (b *AtomicBatch) Query(ctx context.Context, db Database) ([]interface{}, error) {
	if len(b.statements) == 0 {
		return nil, nil
	}

	merged := make(map[string]interface{})
	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for i, stmt := range b.statements {
		for name, value := range b.vars[i] {
			scoped := fmt.Sprintf("s%d_%s", i+1, name)
			// Word-bounded so $id never matches inside $id_list
			re := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
			stmt = re.ReplaceAllLiteralString(stmt, "$"+scoped)
			merged[scoped] = value
		}
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return db.Query(ctx, sb.String(), merged)
}

// Execute runs the batch for its side effects only.
func (b *AtomicBatch) Execute(ctx context.Context, db Database) error {
	_, err := b.Query(ctx, db)
	return err
}
