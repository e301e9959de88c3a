// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	trainer := f.CreateTrainer(t)
//	team := f.CreateTeam(t, trainer)
//	pokemon := f.CreatePokemon(t, trainer)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// Trainer Fixtures
// ============================================================================

// TrainerOpts customizes trainer creation
type TrainerOpts struct {
	Name       string
	Email      string
	Password   string
	Role       model.TrainerRole
	Level      int
	Experience int
}

// CreateTrainer creates a trainer with optional customizations
func (f *Factory) CreateTrainer(t *testing.T, opts ...func(*TrainerOpts)) *model.Trainer {
	t.Helper()

	o := &TrainerOpts{
		Name:     fmt.Sprintf("Trainer %s", randomID()),
		Email:    fmt.Sprintf("trainer_%s@test.local", randomID()),
		Password: "testpass123",
		Role:     model.TrainerRoleTrainer,
		Level:    1,
	}
	for _, fn := range opts {
		fn(o)
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE trainer CONTENT {
			name: $name,
			email: $email,
			hash: $hash,
			role: $role,
			level: $level,
			experience: $experience,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":       o.Name,
		"email":      o.Email,
		"hash":       string(hash),
		"role":       string(o.Role),
		"level":      o.Level,
		"experience": o.Experience,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create trainer: %v", err)
	}

	return &model.Trainer{
		ID:         mustRecordID(t, results),
		Name:       o.Name,
		Email:      o.Email,
		Role:       o.Role,
		Level:      o.Level,
		Experience: o.Experience,
	}
}

// CreateAdmin creates an admin trainer
func (f *Factory) CreateAdmin(t *testing.T) *model.Trainer {
	return f.CreateTrainer(t, func(o *TrainerOpts) {
		o.Role = model.TrainerRoleAdmin
	})
}

// ============================================================================
// Pokémon Fixtures
// ============================================================================

// PokemonOpts customizes pokémon creation
type PokemonOpts struct {
	Name           string
	Type           string
	Level          int
	HP             int
	Attack         int
	Defense        int
	SpAtk          int
	SpDef          int
	Speed          int
	BoxID          *string
	TeamID         *string
	TeamPosition   *int
	EvolvesTo      *string
	EvolutionLevel *int
}

// WithEvolution configures the evolution target and threshold level
func WithEvolution(target string, level int) func(*PokemonOpts) {
	return func(o *PokemonOpts) {
		o.EvolvesTo = &target
		o.EvolutionLevel = &level
	}
}

// InBox places the pokémon in the given box
func InBox(box *model.Box) func(*PokemonOpts) {
	return func(o *PokemonOpts) {
		o.BoxID = &box.ID
	}
}

// OnTeam places the pokémon on the given team at the given slot
func OnTeam(team *model.Team, position int) func(*PokemonOpts) {
	return func(o *PokemonOpts) {
		o.TeamID = &team.ID
		o.TeamPosition = &position
	}
}

// CreatePokemon creates a pokémon owned by the given trainer
func (f *Factory) CreatePokemon(t *testing.T, owner *model.Trainer, opts ...func(*PokemonOpts)) *model.Pokemon {
	t.Helper()

	o := &PokemonOpts{
		Name:    fmt.Sprintf("Pokemon %s", randomID()),
		Type:    "Normal",
		Level:   5,
		HP:      20,
		Attack:  10,
		Defense: 10,
		SpAtk:   10,
		SpDef:   10,
		Speed:   10,
	}
	for _, fn := range opts {
		fn(o)
	}

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
			team_position: $team_position,
			evolves_to: $evolves_to,
			evolution_level: $evolution_level,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":            o.Name,
		"type":            o.Type,
		"level":           o.Level,
		"hp":              o.HP,
		"attack":          o.Attack,
		"defense":         o.Defense,
		"sp_atk":          o.SpAtk,
		"sp_def":          o.SpDef,
		"speed":           o.Speed,
		"trainer_id":      owner.ID,
		"box_id":          o.BoxID,
		"team_id":         o.TeamID,
		"team_position":   o.TeamPosition,
		"evolves_to":      o.EvolvesTo,
		"evolution_level": o.EvolutionLevel,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create pokemon: %v", err)
	}

	return &model.Pokemon{
		ID:             mustRecordID(t, results),
		Name:           o.Name,
		Type:           o.Type,
		Level:          o.Level,
		HP:             o.HP,
		Attack:         o.Attack,
		Defense:        o.Defense,
		SpAtk:          o.SpAtk,
		SpDef:          o.SpDef,
		Speed:          o.Speed,
		TrainerID:      owner.ID,
		BoxID:          o.BoxID,
		TeamID:         o.TeamID,
		TeamPosition:   o.TeamPosition,
		EvolvesTo:      o.EvolvesTo,
		EvolutionLevel: o.EvolutionLevel,
	}
}

// ============================================================================
// Team Fixtures
// ============================================================================

// TeamOpts customizes team creation
type TeamOpts struct {
	Name string
}

// CreateTeam creates a team owned by the given trainer
func (f *Factory) CreateTeam(t *testing.T, owner *model.Trainer, opts ...func(*TeamOpts)) *model.Team {
	t.Helper()

	o := &TeamOpts{
		Name: fmt.Sprintf("Team %s", randomID()),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE team CONTENT {
			name: $name,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":       o.Name,
		"trainer_id": owner.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create team: %v", err)
	}

	return &model.Team{
		ID:        mustRecordID(t, results),
		Name:      o.Name,
		TrainerID: owner.ID,
	}
}

// FillTeam adds pokémon to the team until it holds the full six slots.
// Returns the created pokémon in slot order.
func (f *Factory) FillTeam(t *testing.T, owner *model.Trainer, team *model.Team) []*model.Pokemon {
	t.Helper()

	roster := make([]*model.Pokemon, 0, model.TeamCapacity)
	for i := 1; i <= model.TeamCapacity; i++ {
		roster = append(roster, f.CreatePokemon(t, owner, OnTeam(team, i)))
	}
	return roster
}

// ============================================================================
// Box Fixtures
// ============================================================================

// BoxOpts customizes box creation
type BoxOpts struct {
	Name string
}

// CreateBox creates a storage box owned by the given trainer
func (f *Factory) CreateBox(t *testing.T, owner *model.Trainer, opts ...func(*BoxOpts)) *model.Box {
	t.Helper()

	o := &BoxOpts{
		Name: fmt.Sprintf("Box %s", randomID()),
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE box CONTENT {
			name: $name,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":       o.Name,
		"trainer_id": owner.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create box: %v", err)
	}

	return &model.Box{
		ID:        mustRecordID(t, results),
		Name:      o.Name,
		TrainerID: owner.ID,
	}
}

// ============================================================================
// Item Fixtures
// ============================================================================

// ItemOpts customizes item creation
type ItemOpts struct {
	Name        string
	Description string
	Category    string
	Quantity    int
}

// WithCategory sets the item category
func WithCategory(category string) func(*ItemOpts) {
	return func(o *ItemOpts) {
		o.Category = category
	}
}

// WithQuantity sets the item quantity
func WithQuantity(quantity int) func(*ItemOpts) {
	return func(o *ItemOpts) {
		o.Quantity = quantity
	}
}

// CreateItem creates an inventory item owned by the given trainer
func (f *Factory) CreateItem(t *testing.T, owner *model.Trainer, opts ...func(*ItemOpts)) *model.Item {
	t.Helper()

	o := &ItemOpts{
		Name:        fmt.Sprintf("Item %s", randomID()),
		Description: "Test item description",
		Category:    "General",
		Quantity:    1,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE item CONTENT {
			name: $name,
			description: $description,
			category: $category,
			quantity: $quantity,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":        o.Name,
		"description": o.Description,
		"category":    o.Category,
		"quantity":    o.Quantity,
		"trainer_id":  owner.ID,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create item: %v", err)
	}

	return &model.Item{
		ID:          mustRecordID(t, results),
		Name:        o.Name,
		Description: o.Description,
		Category:    o.Category,
		Quantity:    o.Quantity,
		TrainerID:   owner.ID,
	}
}
