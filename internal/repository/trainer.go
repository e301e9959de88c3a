package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// TrainerRepository handles trainer data access
type TrainerRepository struct {
	db database.Database
}

// NewTrainerRepository creates a new trainer repository
func NewTrainerRepository(db database.Database) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// Create creates a new trainer
func (r *TrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	role := trainer.Role
	if role == "" {
		role = model.TrainerRoleTrainer
	}
	level := trainer.Level
	if level == 0 {
		level = 1
	}

	query := `
		CREATE trainer CONTENT {
			name: $name,
			email: $email,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			role: $role,
			level: $level,
			experience: $experience,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":       trainer.Name,
		"email":      trainer.Email,
		"hash":       ptrToNone(trainer.Hash),
		"role":       role,
		"level":      level,
		"experience": trainer.Experience,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	trainer.ID = created.ID
	trainer.Role = role
	trainer.Level = level
	trainer.CreatedOn = created.CreatedOn
	trainer.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a trainer by ID. Returns (nil, nil) if absent.
func (r *TrainerRepository) GetByID(ctx context.Context, id string) (*model.Trainer, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTrainerResult(result)
}

// GetByEmail retrieves a trainer by email. Returns (nil, nil) if absent.
func (r *TrainerRepository) GetByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	query := `SELECT * FROM trainer WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTrainerResult(result)
}

// List retrieves trainers matching the filter, plus the total match count
func (r *TrainerRepository) List(ctx context.Context, filter model.ListQuery) ([]*model.Trainer, int, error) {
	filter = filter.Normalize()

	where := `WHERE $name = NONE OR string::contains(string::lowercase(name), string::lowercase($name))`
	vars := map[string]interface{}{
		"name":  emptyToNone(filter.Name),
		"limit": filter.Limit,
		"start": filter.Start(),
	}

	query := `SELECT * FROM trainer ` + where + ` ORDER BY name LIMIT $limit START $start`
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	records, err := unwrapRecords(result)
	if err != nil {
		return nil, 0, err
	}

	trainers := make([]*model.Trainer, 0, len(records))
	for _, data := range records {
		trainer, err := trainerFromRecord(data)
		if err != nil {
			return nil, 0, err
		}
		trainers = append(trainers, trainer)
	}

	countResult, err := r.db.Query(ctx, `SELECT count() FROM trainer `+where+` GROUP ALL`, map[string]interface{}{
		"name": emptyToNone(filter.Name),
	})
	if err != nil {
		return nil, 0, err
	}

	return trainers, extractCount(countResult), nil
}

// Update applies a partial update and returns the updated trainer.
// Returns (nil, nil) if the trainer does not exist.
func (r *TrainerRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Trainer, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for _, field := range []string{"name", "email", "hash", "role"} {
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
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return nil, err
	}

	return parseTrainerResult(result)
}

// AddExperience atomically awards experience points and recomputes the
// trainer's level (one level per 100 XP). The SET clauses apply in order,
// so the level expression sees the incremented experience.
func (r *TrainerRepository) AddExperience(ctx context.Context, id string, points int) (*model.Trainer, error) {
	query := `
		UPDATE type::record($id) SET
			experience += $points,
			level = math::floor(experience / 100) + 1,
			updated_on = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":     id,
		"points": points,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTrainerResult(result)
}

// Delete removes a trainer. Returns false if no record existed.
func (r *TrainerRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return deletedAny(result), nil
}

func parseTrainerResult(result interface{}) (*model.Trainer, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return trainerFromRecord(data)
}

func trainerFromRecord(data map[string]interface{}) (*model.Trainer, error) {
	// Extract hash before the JSON round-trip (Trainer.Hash has json:"-")
	var hash *string
	if h, ok := data["hash"].(string); ok {
		hash = &h
	}

	var trainer model.Trainer
	if err := decodeRecord(data, &trainer); err != nil {
		return nil, err
	}
	trainer.Hash = hash
	return &trainer, nil
}

// ptrToNone maps nil pointers to nil for NONE handling in queries
func ptrToNone(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// emptyToNone maps empty strings to nil so optional filters read as NONE
func emptyToNone(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
