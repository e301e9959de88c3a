// Package tests contains end-to-end acceptance tests for the trainer API.
package tests

import (
	"context"
	"testing"

	"github.com/poketrainer/api/internal/repository"
	"github.com/poketrainer/api/internal/service"
	"github.com/poketrainer/api/internal/testing/fixtures"
	"github.com/poketrainer/api/internal/testing/helpers"
	"github.com/poketrainer/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: Pokémon Progression
DOMAIN: Training

ACCEPTANCE CRITERIA:
===================

AC-PROG-001: Level Up
  GIVEN a pokémon owned by the trainer
  WHEN the trainer levels it up
  THEN it gains one level, +2 HP and +1 to every other stat
  AND the trainer earns experience

AC-PROG-002: Level Up Signals Evolution Readiness
  GIVEN a pokémon one level below its evolution threshold
  WHEN the trainer levels it up
  THEN the result reports it can evolve

AC-PROG-003: Evolve
  GIVEN a pokémon at or past its evolution level
  WHEN the trainer evolves it
  THEN it takes the evolved name, gains +20 HP and +15 to the other stats
  AND its evolution data is cleared

AC-PROG-004: Evolve - No Evolution Data
  GIVEN a pokémon without a registered evolution
  WHEN the trainer tries to evolve it
  THEN the request fails with no evolution

AC-PROG-005: Evolve - Level Not Reached
  GIVEN a pokémon below its evolution level
  WHEN the trainer tries to evolve it
  THEN the request fails with level not reached

AC-PROG-006: Ownership Gate
  GIVEN a pokémon owned by another trainer
  WHEN a trainer tries to level it up
  THEN the request fails with not owner
*/

// createPokemonService creates a PokemonService instance for testing
func createPokemonService(t *testing.T, tdb *testdb.TestDB) *service.PokemonService {
	t.Helper()

	return service.NewPokemonService(service.PokemonServiceConfig{
		PokemonRepo: repository.NewPokemonRepository(tdb.DB),
		BoxRepo:     repository.NewBoxRepository(tdb.DB),
		TrainerRepo: repository.NewTrainerRepository(tdb.DB),
	})
}

func TestProgression_LevelUp(t *testing.T) {
	// AC-PROG-001: Level Up
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)
	trainerService := service.NewTrainerService(service.TrainerServiceConfig{
		TrainerRepo: repository.NewTrainerRepository(tdb.DB),
	})
	ctx := context.Background()

	trainer := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, trainer)

	result, err := pokemonService.LevelUp(ctx, claimsFor(trainer), pokemon.ID)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, pokemon.Level+1, result.Pokemon.Level)
	assert.Equal(t, pokemon.HP+2, result.Pokemon.HP)
	assert.Equal(t, pokemon.Attack+1, result.Pokemon.Attack)
	assert.Equal(t, pokemon.Defense+1, result.Pokemon.Defense)
	assert.Equal(t, pokemon.SpAtk+1, result.Pokemon.SpAtk)
	assert.Equal(t, pokemon.SpDef+1, result.Pokemon.SpDef)
	assert.Equal(t, pokemon.Speed+1, result.Pokemon.Speed)
	assert.False(t, result.CanEvolve)

	refreshed, err := trainerService.GetTrainer(ctx, trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, service.ExperienceLevelUp, refreshed.Experience)
}

func TestProgression_LevelUpSignalsEvolution(t *testing.T) {
	// AC-PROG-002: Level Up Signals Evolution Readiness
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)
	ctx := context.Background()

	trainer := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, trainer, func(o *fixtures.PokemonOpts) {
		o.Name = "Charmander"
		o.Type = "Fire"
		o.Level = 15
	}, fixtures.WithEvolution("Charmeleon", 16))

	result, err := pokemonService.LevelUp(ctx, claimsFor(trainer), pokemon.ID)

	require.NoError(t, err)
	assert.Equal(t, 16, result.Pokemon.Level)
	assert.True(t, result.CanEvolve, "hitting the threshold must report evolution readiness")
}

func TestProgression_Evolve(t *testing.T) {
	// AC-PROG-003: Evolve
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)
	ctx := context.Background()

	trainer := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, trainer, func(o *fixtures.PokemonOpts) {
		o.Name = "Charmeleon"
		o.Type = "Fire"
		o.Level = 36
		o.HP = 58
		o.Attack = 64
	}, fixtures.WithEvolution("Charizard", 36))

	evolved, err := pokemonService.Evolve(ctx, claimsFor(trainer), pokemon.ID)

	require.NoError(t, err)
	require.NotNil(t, evolved)
	assert.Equal(t, "Charizard", evolved.Name)
	assert.Equal(t, pokemon.HP+20, evolved.HP)
	assert.Equal(t, pokemon.Attack+15, evolved.Attack)
	assert.Nil(t, evolved.EvolvesTo, "evolution data must be cleared")
	assert.Nil(t, evolved.EvolutionLevel)
	assert.False(t, evolved.CanEvolve())
}

func TestProgression_EvolveWithoutEvolutionData(t *testing.T) {
	// AC-PROG-004: Evolve - No Evolution Data
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)

	trainer := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, trainer, func(o *fixtures.PokemonOpts) {
		o.Name = "Tauros"
		o.Level = 50
	})

	_, err := pokemonService.Evolve(context.Background(), claimsFor(trainer), pokemon.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNoEvolution)
}

func TestProgression_EvolveBelowThreshold(t *testing.T) {
	// AC-PROG-005: Evolve - Level Not Reached
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)

	trainer := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, trainer, func(o *fixtures.PokemonOpts) {
		o.Name = "Magikarp"
		o.Level = 10
	}, fixtures.WithEvolution("Gyarados", 20))

	_, err := pokemonService.Evolve(context.Background(), claimsFor(trainer), pokemon.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrEvolutionLevelNotReached)
	assert.Contains(t, err.Error(), "20", "error should name the required level")
}

func TestProgression_LevelUpOwnershipGate(t *testing.T) {
	// AC-PROG-006: Ownership Gate
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)

	owner := f.CreateTrainer(t)
	intruder := f.CreateTrainer(t)
	pokemon := f.CreatePokemon(t, owner)

	_, err := pokemonService.LevelUp(context.Background(), claimsFor(intruder), pokemon.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotOwner)
}

func TestProgression_CreateAndRelease(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	pokemonService := createPokemonService(t, tdb)
	ctx := context.Background()

	trainer := f.CreateTrainer(t)

	created, err := pokemonService.CreatePokemon(ctx, claimsFor(trainer), service.CreatePokemonRequest{
		Name:    "Pikachu",
		Type:    "Electric",
		Level:   5,
		HP:      35,
		Attack:  55,
		Defense: 40,
		SpAtk:   50,
		SpDef:   50,
		Speed:   90,
	})
	require.NoError(t, err)
	assert.Equal(t, trainer.ID, created.TrainerID)
	helpers.AssertRecordExists(t, tdb.DB, "pokemon", created.ID)

	require.NoError(t, pokemonService.DeletePokemon(ctx, claimsFor(trainer), created.ID))
	helpers.AssertRecordNotExists(t, tdb.DB, "pokemon", created.ID)

	// Releasing twice reports not found
	err = pokemonService.DeletePokemon(ctx, claimsFor(trainer), created.ID)
	assert.ErrorIs(t, err, service.ErrPokemonNotFound)
}
