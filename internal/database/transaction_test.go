package database

import (
	"context"
	"strings"
	"testing"
)

// fakeDB records the query it receives and returns canned results.
type fakeDB struct {
	gotQuery string
	gotVars  map[string]interface{}
	results  []interface{}
	err      error
}

func (f *fakeDB) Connect(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                      { return nil }
func (f *fakeDB) Ping(ctx context.Context) error    { return nil }

func (f *fakeDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	f.gotQuery = query
	f.gotVars = vars
	return f.results, f.err
}

func (f *fakeDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	return nil, nil
}

func (f *fakeDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := f.Query(ctx, query, vars)
	return err
}

func TestAtomicBatch_Query_WrapsStatementsInTransaction(t *testing.T) {
	t.Parallel()
	db := &fakeDB{results: []interface{}{
		map[string]interface{}{"status": "OK", "result": []interface{}{}},
		map[string]interface{}{"status": "OK", "result": []interface{}{map[string]interface{}{"id": "team:kanto"}}},
	}}

	results, err := NewAtomicBatch().
		Add(`UPDATE pokemon SET team_id = NONE WHERE team_id = type::record($team_id)`,
			map[string]interface{}{"team_id": "team:kanto"}).
		Add(`DELETE type::record($id) RETURN BEFORE`,
			map[string]interface{}{"id": "team:kanto"}).
		Query(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 per-statement results, got %d", len(results))
	}
	if !strings.HasPrefix(db.gotQuery, "BEGIN TRANSACTION;") {
		t.Errorf("expected BEGIN TRANSACTION prefix, got %q", db.gotQuery)
	}
	if !strings.HasSuffix(db.gotQuery, "COMMIT TRANSACTION;") {
		t.Errorf("expected COMMIT TRANSACTION suffix, got %q", db.gotQuery)
	}
	if !strings.Contains(db.gotQuery, "$s1_team_id") || !strings.Contains(db.gotQuery, "$s2_id") {
		t.Errorf("expected per-statement variable prefixes, got %q", db.gotQuery)
	}
	if db.gotVars["s1_team_id"] != "team:kanto" || db.gotVars["s2_id"] != "team:kanto" {
		t.Errorf("expected scoped variables merged, got %v", db.gotVars)
	}
}

func TestAtomicBatch_Query_EmptyBatch_NoOp(t *testing.T) {
	t.Parallel()
	db := &fakeDB{}

	results, err := NewAtomicBatch().Query(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty batch, got %v", results)
	}
	if db.gotQuery != "" {
		t.Errorf("expected no query issued, got %q", db.gotQuery)
	}
}

func TestAtomicBatch_Execute_DelegatesToQuery(t *testing.T) {
	t.Parallel()
	db := &fakeDB{}

	err := NewAtomicBatch().
		Add(`UPDATE pokemon SET team_position = 1 WHERE id = type::record($id)`,
			map[string]interface{}{"id": "pokemon:pika"}).
		Execute(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.gotQuery, "$s1_id") {
		t.Errorf("expected scoped variable in query, got %q", db.gotQuery)
	}
}

func TestAtomicBatch_Query_PrefixVariableNamesStayDistinct(t *testing.T) {
	t.Parallel()
	db := &fakeDB{}

	_, err := NewAtomicBatch().
		Add(`UPDATE type::record($id) SET order = $id_list`,
			map[string]interface{}{"id": "team:kanto", "id_list": []string{"pokemon:a"}}).
		Query(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(db.gotQuery, "$s1_id_list") {
		t.Errorf("expected $s1_id_list to survive intact, got %q", db.gotQuery)
	}
	if strings.Contains(db.gotQuery, "$s1_s1_") || strings.Contains(db.gotQuery, "$s1_id_list_list") {
		t.Errorf("variable rewrite corrupted the statement: %q", db.gotQuery)
	}
	if !strings.Contains(db.gotQuery, "type::record($s1_id)") {
		t.Errorf("expected $s1_id rewrite, got %q", db.gotQuery)
	}
	if _, ok := db.gotVars["s1_id"]; !ok {
		t.Errorf("expected s1_id variable, got %v", db.gotVars)
	}
	if _, ok := db.gotVars["s1_id_list"]; !ok {
		t.Errorf("expected s1_id_list variable, got %v", db.gotVars)
	}
}
