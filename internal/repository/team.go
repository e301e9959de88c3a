package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db database.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db database.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	query := `
		CREATE team CONTENT {
			name: $name,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":       team.Name,
		"trainer_id": team.TrainerID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	team.ID = created.ID
	team.CreatedOn = created.CreatedOn
	team.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a team by ID. Returns (nil, nil) if absent.
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*model.Team, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTeamResult(result)
}

// List retrieves teams matching the filter, plus the total match count
func (r *TeamRepository) List(ctx context.Context, filter model.ListQuery) ([]*model.Team, int, error) {
	filter = filter.Normalize()

	where := `WHERE $name = NONE OR string::contains(string::lowercase(name), string::lowercase($name))`
	vars := map[string]interface{}{
		"name":  emptyToNone(filter.Name),
		"limit": filter.Limit,
		"start": filter.Start(),
	}

	query := `SELECT * FROM team ` + where + ` ORDER BY name LIMIT $limit START $start`
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	teams, err := parseTeamsResult(result)
	if err != nil {
		return nil, 0, err
	}

	countResult, err := r.db.Query(ctx, `SELECT count() FROM team `+where+` GROUP ALL`, map[string]interface{}{
		"name": emptyToNone(filter.Name),
	})
	if err != nil {
		return nil, 0, err
	}

	return teams, extractCount(countResult), nil
}

// ListByTrainer retrieves all teams owned by a trainer
func (r *TeamRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Team, error) {
	query := `SELECT * FROM team WHERE trainer_id = type::record($trainer_id) ORDER BY name`
	vars := map[string]interface{}{"trainer_id": trainerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseTeamsResult(result)
}

// Update applies a partial update and returns the updated team.
// Returns (nil, nil) if the team does not exist.
func (r *TeamRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Team, error) {
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

	return parseTeamResult(result)
}

// Delete removes a team and clears the placement of its members in one
// transaction. Returns false if no team record existed.
func (r *TeamRepository) Delete(ctx context.Context, id string) (bool, error) {
	// Orphaned roster rows would report a stale team_id, so the member
	// updates ride in the same transaction as the delete.
	batch := database.NewAtomicBatch().
		Add(
			`UPDATE pokemon SET team_id = NONE, team_position = NONE, updated_on = time::now() WHERE team_id = type::record($team_id)`,
			map[string]interface{}{"team_id": id},
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

func parseTeamResult(result interface{}) (*model.Team, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var team model.Team
	if err := decodeRecord(data, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func parseTeamsResult(result []interface{}) ([]*model.Team, error) {
	records, err := unwrapRecords(result)
	if err != nil {
		return nil, err
	}

	teams := make([]*model.Team, 0, len(records))
	for _, data := range records {
		var team model.Team
		if err := decodeRecord(data, &team); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}
	return teams, nil
}
