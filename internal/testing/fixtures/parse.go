package fixtures

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// mustRecordID extracts the record id from a CREATE statement result,
// failing the test if the result has an unexpected shape.
func mustRecordID(t *testing.T, results []interface{}) string {
	t.Helper()

	if len(results) == 0 {
		t.Fatal("fixtures: empty query result")
	}

	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if rows, ok := resp["result"].([]interface{}); ok && len(rows) > 0 {
			first = rows[0]
		}
	}

	data, ok := first.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result format: %T", first)
	}

	id := recordIDString(data["id"])
	if id == "" {
		t.Fatalf("fixtures: created record has no id: %+v", data)
	}
	return id
}

// recordIDString converts the driver's record id representation to a string
func recordIDString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		if tb, ok := v["tb"].(string); ok {
			if id, ok := v["id"].(string); ok {
				return tb + ":" + id
			}
		}
	}

	if data, err := json.Marshal(id); err == nil {
		var recordID models.RecordID
		if err := json.Unmarshal(data, &recordID); err == nil {
			return recordID.String()
		}
	}

	return ""
}
