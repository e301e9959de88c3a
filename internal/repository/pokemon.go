package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// throwTeamFull is the THROW message used inside capacity transactions
const throwTeamFull = "team_full"

// PokemonRepository handles pokémon data access
type PokemonRepository struct {
	db database.Database
}

// NewPokemonRepository creates a new pokémon repository
func NewPokemonRepository(db database.Database) *PokemonRepository {
	return &PokemonRepository{db: db}
}

// Create creates a new pokémon
func (r *PokemonRepository) Create(ctx context.Context, p *model.Pokemon) error {
	query := `
		CREATE pokemon CONTENT {
			name: $name,
			type: $type,
			level: $level,
			hp: $hp,
			attack: $attack,
			defense: $defense,
			sp_atk: $sp_atk,
			sp_def: $sp_def,
			speed: $speed,
			trainer_id: type::record($trainer_id),
			box_id: IF $box_id IS NOT NULL THEN type::record($box_id) ELSE NONE END,
			team_id: IF $team_id IS NOT NULL THEN type::record($team_id) ELSE NONE END,
			team_position: IF $team_position IS NOT NULL THEN $team_position ELSE NONE END,
			evolves_to: IF $evolves_to IS NOT NULL THEN $evolves_to ELSE NONE END,
			evolution_level: IF $evolution_level IS NOT NULL THEN $evolution_level ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":            p.Name,
		"type":            p.Type,
		"level":           p.Level,
		"hp":              p.HP,
		"attack":          p.Attack,
		"defense":         p.Defense,
		"sp_atk":          p.SpAtk,
		"sp_def":          p.SpDef,
		"speed":           p.Speed,
		"trainer_id":      p.TrainerID,
		"box_id":          ptrToNone(p.BoxID),
		"team_id":         ptrToNone(p.TeamID),
		"team_position":   intPtrToNone(p.TeamPosition),
		"evolves_to":      ptrToNone(p.EvolvesTo),
		"evolution_level": intPtrToNone(p.EvolutionLevel),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	p.ID = created.ID
	p.CreatedOn = created.CreatedOn
	p.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a pokémon by ID. Returns (nil, nil) if absent.
func (r *PokemonRepository) GetByID(ctx context.Context, id string) (*model.Pokemon, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parsePokemonResult(result)
}

// List retrieves pokémon matching the filter, plus the total match count
func (r *PokemonRepository) List(ctx context.Context, filter model.ListQuery) ([]*model.Pokemon, int, error) {
	filter = filter.Normalize()

	where := `WHERE ($name = NONE OR string::contains(string::lowercase(name), string::lowercase($name)))
		AND ($type = NONE OR type = $type)`
	filterVars := map[string]interface{}{
		"name": emptyToNone(filter.Name),
		"type": emptyToNone(filter.Type),
	}

	vars := map[string]interface{}{
		"name":  filterVars["name"],
		"type":  filterVars["type"],
		"limit": filter.Limit,
		"start": filter.Start(),
	}

	query := `SELECT * FROM pokemon ` + where + ` ORDER BY name LIMIT $limit START $start`
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	pokemons, err := parsePokemonsResult(result)
	if err != nil {
		return nil, 0, err
	}

	countResult, err := r.db.Query(ctx, `SELECT count() FROM pokemon `+where+` GROUP ALL`, filterVars)
	if err != nil {
		return nil, 0, err
	}

	return pokemons, extractCount(countResult), nil
}

// ListByTrainer retrieves all pokémon owned by a trainer
func (r *PokemonRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Pokemon, error) {
	query := `SELECT * FROM pokemon WHERE trainer_id = type::record($trainer_id) ORDER BY name`
	vars := map[string]interface{}{"trainer_id": trainerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parsePokemonsResult(result)
}

// ListByTeam retrieves the roster of a team in position order
func (r *PokemonRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Pokemon, error) {
	query := `SELECT * FROM pokemon WHERE team_id = type::record($team_id) ORDER BY team_position`
	vars := map[string]interface{}{"team_id": teamID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parsePokemonsResult(result)
}

// ListByBox retrieves all pokémon stored in a box
func (r *PokemonRepository) ListByBox(ctx context.Context, boxID string) ([]*model.Pokemon, error) {
	query := `SELECT * FROM pokemon WHERE box_id = type::record($box_id) ORDER BY name`
	vars := map[string]interface{}{"box_id": boxID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parsePokemonsResult(result)
}

// CountByTeam counts the current occupants of a team
func (r *PokemonRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	query := `SELECT count() FROM pokemon WHERE team_id = type::record($team_id) GROUP ALL`
	vars := map[string]interface{}{"team_id": teamID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

// Update applies a partial update and returns the updated pokémon.
// Returns (nil, nil) if the pokémon does not exist.
func (r *PokemonRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Pokemon, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for _, field := range []string{
		"name", "type", "level", "hp", "attack", "defense", "sp_atk", "sp_def",
		"speed", "evolves_to", "evolution_level",
	} {
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

	return parsePokemonResult(result)
}

// AssignToTeam moves a pokémon onto a team, appending it at position
// count+1. The capacity check and the write run in one transaction; a
// THROW aborts the whole block when the team already holds six, so two
// concurrent transfers cannot both observe a free slot.
func (r *PokemonRepository) AssignToTeam(ctx context.Context, pokemonID, teamID string) (*model.Pokemon, error) {
	query := fmt.Sprintf(`
		BEGIN TRANSACTION;
		LET $occupants = (SELECT count() FROM pokemon WHERE team_id = type::record($team_id) GROUP ALL)[0].count ?? 0;
		IF $occupants >= %d { THROW "%s" };
		UPDATE type::record($pokemon_id) SET
			team_id = type::record($team_id),
			box_id = NONE,
			team_position = $occupants + 1,
			updated_on = time::now()
		RETURN AFTER;
		COMMIT TRANSACTION;
	`, model.TeamCapacity, throwTeamFull)

	vars := map[string]interface{}{
		"pokemon_id": pokemonID,
		"team_id":    teamID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if strings.Contains(err.Error(), throwTeamFull) {
			return nil, fmt.Errorf("%w: team is full", database.ErrLimitExceeded)
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parsePokemonResult(result)
}

// AssignToBox moves a pokémon into a box, clearing any team membership.
// Boxes have no capacity limit so no guard is needed.
func (r *PokemonRepository) AssignToBox(ctx context.Context, pokemonID, boxID string) (*model.Pokemon, error) {
	query := `
		UPDATE type::record($pokemon_id) SET
			box_id = type::record($box_id),
			team_id = NONE,
			team_position = NONE,
			updated_on = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"pokemon_id": pokemonID,
		"box_id":     boxID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parsePokemonResult(result)
}

// ClearTeam removes a pokémon from its team, clearing id and position
func (r *PokemonRepository) ClearTeam(ctx context.Context, pokemonID string) (*model.Pokemon, error) {
	query := `
		UPDATE type::record($pokemon_id) SET
			team_id = NONE,
			team_position = NONE,
			updated_on = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{"pokemon_id": pokemonID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parsePokemonResult(result)
}

// ReorderTeam renumbers the team positions of the given pokémon in list
// order (position = index+1). All writes go through one atomic batch so a
// failure leaves no partial renumbering. The WHERE clause restricts every
// write to members of the team.
func (r *PokemonRepository) ReorderTeam(ctx context.Context, teamID string, orderedIDs []string) error {
	batch := database.NewAtomicBatch()
	for i, id := range orderedIDs {
		batch.Add(
			`UPDATE type::record($pokemon_id) SET team_position = $position, updated_on = time::now() WHERE team_id = type::record($team_id)`,
			map[string]interface{}{
				"pokemon_id": id,
				"position":   i + 1,
				"team_id":    teamID,
			},
		)
	}
	return batch.Execute(ctx, r.db)
}

// Delete removes a pokémon. Returns false if no record existed.
func (r *PokemonRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return deletedAny(result), nil
}

func parsePokemonResult(result interface{}) (*model.Pokemon, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var p model.Pokemon
	if err := decodeRecord(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parsePokemonsResult(result []interface{}) ([]*model.Pokemon, error) {
	records, err := unwrapRecords(result)
	if err != nil {
		return nil, err
	}

	pokemons := make([]*model.Pokemon, 0, len(records))
	for _, data := range records {
		var p model.Pokemon
		if err := decodeRecord(data, &p); err != nil {
			return nil, err
		}
		pokemons = append(pokemons, &p)
	}
	return pokemons, nil
}

// intPtrToNone maps nil int pointers to nil for NONE handling in queries
func intPtrToNone(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
