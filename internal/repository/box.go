package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// BoxRepository handles storage box data access
type BoxRepository struct {
	db database.Database
}

// NewBoxRepository creates a new box repository
func NewBoxRepository(db database.Database) *BoxRepository {
	return &BoxRepository{db: db}
}

// Create creates a new box
func (r *BoxRepository) Create(ctx context.Context, box *model.Box) error {
	query := `
		CREATE box CONTENT {
			name: $name,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":       box.Name,
		"trainer_id": box.TrainerID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	box.ID = created.ID
	box.CreatedOn = created.CreatedOn
	box.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a box by ID. Returns (nil, nil) if absent.
func (r *BoxRepository) GetByID(ctx context.Context, id string) (*model.Box, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseBoxResult(result)
}

// List retrieves boxes matching the filter, plus the total match count
func (r *BoxRepository) List(ctx context.Context, filter model.ListQuery) ([]*model.Box, int, error) {
	filter = filter.Normalize()

	where := `WHERE $name = NONE OR string::contains(string::lowercase(name), string::lowercase($name))`
	vars := map[string]interface{}{
		"name":  emptyToNone(filter.Name),
		"limit": filter.Limit,
		"start": filter.Start(),
	}

	query := `SELECT * FROM box ` + where + ` ORDER BY name LIMIT $limit START $start`
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	boxes, err := parseBoxesResult(result)
	if err != nil {
		return nil, 0, err
	}

	countResult, err := r.db.Query(ctx, `SELECT count() FROM box `+where+` GROUP ALL`, map[string]interface{}{
		"name": emptyToNone(filter.Name),
	})
	if err != nil {
		return nil, 0, err
	}

	return boxes, extractCount(countResult), nil
}

// ListByTrainer retrieves all boxes owned by a trainer
func (r *BoxRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Box, error) {
	query := `SELECT * FROM box WHERE trainer_id = type::record($trainer_id) ORDER BY name`
	vars := map[string]interface{}{"trainer_id": trainerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseBoxesResult(result)
}

// Update applies a partial update and returns the updated box.
// Returns (nil, nil) if the box does not exist.
func (r *BoxRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Box, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for _, field := range []string{"name"} {
		value, ok := updates[field]
		if !ok {
			continue
		}
		if !first {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%s", field, field)
		vars[field] = value
		first = false
	}
	query += ", updated_on = time::now() RETURN AFTER"

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseBoxResult(result)
}

// Delete removes a box and clears the box reference of its occupants in
// one transaction. Returns false if no box record existed.
func (r *BoxRepository) Delete(ctx context.Context, id string) (bool, error) {
	batch := database.NewAtomicBatch().
		Add(
			`UPDATE pokemon SET box_id = NONE, updated_on = time::now() WHERE box_id = type::record($box_id)`,
			map[string]interface{}{"box_id": id},
		).
		Add(
			`DELETE type::record($id) RETURN BEFORE`,
			map[string]interface{}{"id": id},
		)

	result, err := batch.Query(ctx, r.db)
	if err != nil {
		return false, err
	}
	if len(result) < 2 {
		return false, nil
	}
	return deletedAny(result[1:]), nil
}

func parseBoxResult(result interface{}) (*model.Box, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var box model.Box
	if err := decodeRecord(data, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func parseBoxesResult(result []interface{}) ([]*model.Box, error) {
	records, err := unwrapRecords(result)
	if err != nil {
		return nil, err
	}

	boxes := make([]*model.Box, 0, len(records))
	for _, data := range records {
		var box model.Box
		if err := decodeRecord(data, &box); err != nil {
			return nil, err
		}
		boxes = append(boxes, &box)
	}
	return boxes, nil
}
