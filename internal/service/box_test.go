package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

func newBoxService(boxRepo *mockBoxRepo, teamRepo *mockTeamRepo, pokemonRepo *mockPokemonRepo) *BoxService {
	if boxRepo == nil {
		boxRepo = &mockBoxRepo{}
	}
	if teamRepo == nil {
		teamRepo = &mockTeamRepo{}
	}
	if pokemonRepo == nil {
		pokemonRepo = &mockPokemonRepo{}
	}
	return NewBoxService(BoxServiceConfig{
		BoxRepo:     boxRepo,
		TeamRepo:    teamRepo,
		PokemonRepo: pokemonRepo,
	})
}

func ownedBox() *model.Box {
	return &model.Box{ID: "box:storage", Name: "Storage", TrainerID: "trainer:ash"}
}

// ============================================================================
// Transfer Tests
// ============================================================================

func TestTransfer_ToBox_ClearsTeamPlacement(t *testing.T) {
	t.Parallel()
	boxRepo := &mockBoxRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Box, error) {
			return ownedBox(), nil
		},
	}
	pokemonRepo := &mockPokemonRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Pokemon, error) {
			teamID := "team:kanto"
			return &model.Pokemon{ID: id, TrainerID: "trainer:ash", TeamID: &teamID}, nil
		},
		assignToBoxFunc: func(ctx context.Context, pokemonID, boxID string) (*model.Pokemon, error) {
			return &model.Pokemon{ID: pokemonID, TrainerID: "trainer:ash", BoxID: &boxID}, nil
		},
	}
	svc := newBoxService(boxRepo, nil, pokemonRepo)

	moved, err := svc.Transfer(context.Background(), trainerClaims("trainer:ash"), TransferRequest{
		PokemonID:   "pokemon:pika",
		Destination: model.TransferTargetBox,
		TargetID:    "box:storage",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved.InBox() || moved.OnTeam() {
		t.Error("expected pokemon in box and off any team")
	}
}

func TestTransfer_ToTeam_FullTeam_ReturnsErrTeamFull(t *testing.T) {
	t.Parallel()
	teamRepo := &mockTeamRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, TrainerID: "trainer:ash"}, nil
		},
	}
	pokemonRepo := &mockPokemonRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Pokemon, error) {
			return &model.Pokemon{ID: id, TrainerID: "trainer:ash"}, nil
		},
		assignToTeamFunc: func(ctx context.Context, pokemonID, teamID string) (*model.Pokemon, error) {
			return nil, fmt.Errorf("%w: team is full", database.ErrLimitExceeded)
		},
	}
	svc := newBoxService(nil, teamRepo, pokemonRepo)

	_, err := svc.Transfer(context.Background(), trainerClaims("trainer:ash"), TransferRequest{
		PokemonID:   "pokemon:pika",
		Destination: model.TransferTargetTeam,
		TargetID:    "team:kanto",
	})
	if err != ErrTeamFull {
		t.Errorf("expected ErrTeamFull, got %v", err)
	}
}

func TestTransfer_ForeignBox_Denied(t *testing.T) {
	t.Parallel()
	boxRepo := &mockBoxRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Box, error) {
			return &model.Box{ID: id, TrainerID: "trainer:gary"}, nil
		},
	}
	pokemonRepo := &mockPokemonRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Pokemon, error) {
			return &model.Pokemon{ID: id, TrainerID: "trainer:ash"}, nil
		},
	}
	svc := newBoxService(boxRepo, nil, pokemonRepo)

	_, err := svc.Transfer(context.Background(), trainerClaims("trainer:ash"), TransferRequest{
		PokemonID:   "pokemon:pika",
		Destination: model.TransferTargetBox,
		TargetID:    "box:garys",
	})
	if err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestTransfer_UnknownDestination_Fails(t *testing.T) {
	t.Parallel()
	pokemonRepo := &mockPokemonRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Pokemon, error) {
			return &model.Pokemon{ID: id, TrainerID: "trainer:ash"}, nil
		},
	}
	svc := newBoxService(nil, nil, pokemonRepo)

	_, err := svc.Transfer(context.Background(), trainerClaims("trainer:ash"), TransferRequest{
		PokemonID:   "pokemon:pika",
		Destination: "pocket",
		TargetID:    "somewhere",
	})
	if err != ErrInvalidDestination {
		t.Errorf("expected ErrInvalidDestination, got %v", err)
	}
}

// ============================================================================
// Box CRUD Tests
// ============================================================================

func TestCreateBox_MissingName_Fails(t *testing.T) {
	t.Parallel()
	svc := newBoxService(nil, nil, nil)

	_, err := svc.CreateBox(context.Background(), trainerClaims("trainer:ash"), CreateBoxRequest{})
	if err != ErrBoxNameRequired {
		t.Errorf("expected ErrBoxNameRequired, got %v", err)
	}
}

func TestUpdateBox_NotOwner_Denied(t *testing.T) {
	t.Parallel()
	boxRepo := &mockBoxRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Box, error) {
			return ownedBox(), nil
		},
	}
	svc := newBoxService(boxRepo, nil, nil)

	_, err := svc.UpdateBox(context.Background(), trainerClaims("trainer:gary"), "box:storage", UpdateBoxRequest{Name: strPtr("Mine Now")})
	if err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeleteBox_SecondDelete_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	deleted := false
	boxRepo := &mockBoxRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Box, error) {
			if deleted {
				return nil, nil
			}
			return ownedBox(), nil
		},
		deleteFunc: func(ctx context.Context, id string) (bool, error) {
			if deleted {
				return false, nil
			}
			deleted = true
			return true, nil
		},
	}
	svc := newBoxService(boxRepo, nil, nil)
	claims := trainerClaims("trainer:ash")

	if err := svc.DeleteBox(context.Background(), claims, "box:storage"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.DeleteBox(context.Background(), claims, "box:storage"); err != ErrBoxNotFound {
		t.Errorf("expected ErrBoxNotFound on second delete, got %v", err)
	}
}

func TestGetBoxContents_MissingBox_Fails(t *testing.T) {
	t.Parallel()
	svc := newBoxService(nil, nil, nil)

	_, err := svc.GetBoxContents(context.Background(), "box:ghost")
	if err != ErrBoxNotFound {
		t.Errorf("expected ErrBoxNotFound, got %v", err)
	}
}
