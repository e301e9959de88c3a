package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poketrainer/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
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

// parseTimeValue parses a timestamp from the formats the driver returns
func parseTimeValue(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

type createdRecord struct {
	ID        string
	CreatedOn time.Time
	UpdatedOn time.Time
}

// extractCreatedRecord pulls the id and timestamps of the record a CREATE
// statement returned.
func extractCreatedRecord(result []interface{}) (*createdRecord, error) {
	if len(result) == 0 {
		return nil, errors.New("no result returned")
	}

	first := result[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if resultData, ok := resp["result"].([]interface{}); ok && len(resultData) > 0 {
			first = resultData[0]
		}
	}

	data, ok := first.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	record := &createdRecord{}
	if id, ok := data["id"]; ok {
		record.ID = convertSurrealID(id)
	}
	if v, ok := data["created_on"]; ok {
		record.CreatedOn = parseTimeValue(v)
	}
	if v, ok := data["updated_on"]; ok {
		record.UpdatedOn = parseTimeValue(v)
	}

	return record, nil
}

// unwrapRecord unwraps a QueryOne result down to the record map,
// normalizing the driver's response wrapper and converting the id.
func unwrapRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	if v, ok := data["created_on"]; ok {
		data["created_on"] = parseTimeValue(v).Format(time.RFC3339Nano)
	}
	if v, ok := data["updated_on"]; ok {
		data["updated_on"] = parseTimeValue(v).Format(time.RFC3339Nano)
	}
	for _, key := range []string{"trainer_id", "box_id", "team_id"} {
		if v, ok := data[key]; ok && v != nil {
			data[key] = convertSurrealID(v)
		}
	}

	return data, nil
}

// unwrapRecords unwraps a Query result into its record maps
func unwrapRecords(result []interface{}) ([]map[string]interface{}, error) {
	if len(result) == 0 {
		return nil, nil
	}

	first := result[0]
	resp, ok := first.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	rows, ok := resp["result"].([]interface{})
	if !ok {
		return nil, nil
	}

	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		data, err := unwrapRecord(row)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, data)
	}
	return records, nil
}

// decodeRecord converts a record map into a typed model via JSON round-trip
func decodeRecord(data map[string]interface{}, dst interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, dst)
}

// extractCountValue converts the driver's numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// extractCount extracts a count from a `SELECT count() ... GROUP ALL` result
func extractCount(result []interface{}) int {
	if len(result) == 0 {
		return 0
	}
	resp, ok := result[0].(map[string]interface{})
	if !ok {
		return 0
	}
	rows, ok := resp["result"].([]interface{})
	if !ok || len(rows) == 0 {
		return 0
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		return extractCountValue(data["count"])
	}
	return extractCountValue(rows[0])
}

// deletedAny reports whether a `DELETE ... RETURN BEFORE` removed anything
func deletedAny(result []interface{}) bool {
	if len(result) == 0 {
		return false
	}
	resp, ok := result[0].(map[string]interface{})
	if !ok {
		return false
	}
	rows, ok := resp["result"].([]interface{})
	return ok && len(rows) > 0
}
