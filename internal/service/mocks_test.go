package service

import (
	"context"

	"github.com/poketrainer/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockTrainerRepo struct {
	createFunc        func(ctx context.Context, trainer *model.Trainer) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Trainer, error)
	getByEmailFunc    func(ctx context.Context, email string) (*model.Trainer, error)
	listFunc          func(ctx context.Context, filter model.ListQuery) ([]*model.Trainer, int, error)
	updateFunc        func(ctx context.Context, id string, updates map[string]interface{}) (*model.Trainer, error)
	addExperienceFunc func(ctx context.Context, id string, points int) (*model.Trainer, error)
	deleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockTrainerRepo) Create(ctx context.Context, trainer *model.Trainer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, trainer)
	}
	return nil
}

func (m *mockTrainerRepo) GetByID(ctx context.Context, id string) (*model.Trainer, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTrainerRepo) GetByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockTrainerRepo) List(ctx context.Context, filter model.ListQuery) ([]*model.Trainer, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTrainerRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Trainer, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockTrainerRepo) AddExperience(ctx context.Context, id string, points int) (*model.Trainer, error) {
	if m.addExperienceFunc != nil {
		return m.addExperienceFunc(ctx, id, points)
	}
	return &model.Trainer{ID: id}, nil
}

func (m *mockTrainerRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

type mockPokemonRepo struct {
	createFunc        func(ctx context.Context, p *model.Pokemon) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Pokemon, error)
	listFunc          func(ctx context.Context, filter model.ListQuery) ([]*model.Pokemon, int, error)
	listByTrainerFunc func(ctx context.Context, trainerID string) ([]*model.Pokemon, error)
	listByTeamFunc    func(ctx context.Context, teamID string) ([]*model.Pokemon, error)
	listByBoxFunc     func(ctx context.Context, boxID string) ([]*model.Pokemon, error)
	countByTeamFunc   func(ctx context.Context, teamID string) (int, error)
	updateFunc        func(ctx context.Context, id string, updates map[string]interface{}) (*model.Pokemon, error)
	assignToTeamFunc  func(ctx context.Context, pokemonID, teamID string) (*model.Pokemon, error)
	assignToBoxFunc   func(ctx context.Context, pokemonID, boxID string) (*model.Pokemon, error)
	clearTeamFunc     func(ctx context.Context, pokemonID string) (*model.Pokemon, error)
	reorderTeamFunc   func(ctx context.Context, teamID string, orderedIDs []string) error
	deleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockPokemonRepo) Create(ctx context.Context, p *model.Pokemon) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPokemonRepo) GetByID(ctx context.Context, id string) (*model.Pokemon, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPokemonRepo) List(ctx context.Context, filter model.ListQuery) ([]*model.Pokemon, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockPokemonRepo) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Pokemon, error) {
	if m.listByTrainerFunc != nil {
		return m.listByTrainerFunc(ctx, trainerID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) ListByTeam(ctx context.Context, teamID string) ([]*model.Pokemon, error) {
	if m.listByTeamFunc != nil {
		return m.listByTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) ListByBox(ctx context.Context, boxID string) ([]*model.Pokemon, error) {
	if m.listByBoxFunc != nil {
		return m.listByBoxFunc(ctx, boxID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) CountByTeam(ctx context.Context, teamID string) (int, error) {
	if m.countByTeamFunc != nil {
		return m.countByTeamFunc(ctx, teamID)
	}
	return 0, nil
}

func (m *mockPokemonRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Pokemon, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockPokemonRepo) AssignToTeam(ctx context.Context, pokemonID, teamID string) (*model.Pokemon, error) {
	if m.assignToTeamFunc != nil {
		return m.assignToTeamFunc(ctx, pokemonID, teamID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) AssignToBox(ctx context.Context, pokemonID, boxID string) (*model.Pokemon, error) {
	if m.assignToBoxFunc != nil {
		return m.assignToBoxFunc(ctx, pokemonID, boxID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) ClearTeam(ctx context.Context, pokemonID string) (*model.Pokemon, error) {
	if m.clearTeamFunc != nil {
		return m.clearTeamFunc(ctx, pokemonID)
	}
	return nil, nil
}

func (m *mockPokemonRepo) ReorderTeam(ctx context.Context, teamID string, orderedIDs []string) error {
	if m.reorderTeamFunc != nil {
		return m.reorderTeamFunc(ctx, teamID, orderedIDs)
	}
	return nil
}

func (m *mockPokemonRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

type mockTeamRepo struct {
	createFunc        func(ctx context.Context, team *model.Team) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Team, error)
	listFunc          func(ctx context.Context, filter model.ListQuery) ([]*model.Team, int, error)
	listByTrainerFunc func(ctx context.Context, trainerID string) ([]*model.Team, error)
	updateFunc        func(ctx context.Context, id string, updates map[string]interface{}) (*model.Team, error)
	deleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, team *model.Team) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, team)
	}
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTeamRepo) List(ctx context.Context, filter model.ListQuery) ([]*model.Team, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTeamRepo) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Team, error) {
	if m.listByTrainerFunc != nil {
		return m.listByTrainerFunc(ctx, trainerID)
	}
	return nil, nil
}

func (m *mockTeamRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Team, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockTeamRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

type mockBoxRepo struct {
	createFunc        func(ctx context.Context, box *model.Box) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Box, error)
	listFunc          func(ctx context.Context, filter model.ListQuery) ([]*model.Box, int, error)
	listByTrainerFunc func(ctx context.Context, trainerID string) ([]*model.Box, error)
	updateFunc        func(ctx context.Context, id string, updates map[string]interface{}) (*model.Box, error)
	deleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockBoxRepo) Create(ctx context.Context, box *model.Box) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, box)
	}
	return nil
}

func (m *mockBoxRepo) GetByID(ctx context.Context, id string) (*model.Box, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBoxRepo) List(ctx context.Context, filter model.ListQuery) ([]*model.Box, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockBoxRepo) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Box, error) {
	if m.listByTrainerFunc != nil {
		return m.listByTrainerFunc(ctx, trainerID)
	}
	return nil, nil
}

func (m *mockBoxRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Box, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockBoxRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

type mockItemRepo struct {
	createFunc        func(ctx context.Context, item *model.Item) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Item, error)
	listFunc          func(ctx context.Context, filter model.ListQuery) ([]*model.Item, int, error)
	listByTrainerFunc func(ctx context.Context, trainerID string) ([]*model.Item, error)
	updateFunc        func(ctx context.Context, id string, updates map[string]interface{}) (*model.Item, error)
	consumeFunc       func(ctx context.Context, itemID, pokemonID string, heal int) error
	deleteFunc        func(ctx context.Context, id string) (bool, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item *model.Item) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) List(ctx context.Context, filter model.ListQuery) ([]*model.Item, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockItemRepo) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Item, error) {
	if m.listByTrainerFunc != nil {
		return m.listByTrainerFunc(ctx, trainerID)
	}
	return nil, nil
}

func (m *mockItemRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Item, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *mockItemRepo) Consume(ctx context.Context, itemID, pokemonID string, heal int) error {
	if m.consumeFunc != nil {
		return m.consumeFunc(ctx, itemID, pokemonID, heal)
	}
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

type mockTokenRepo struct {
	createRefreshTokenFunc     func(ctx context.Context, token *RefreshToken) error
	getRefreshTokenByHashFunc  func(ctx context.Context, hash string) (*RefreshToken, error)
	revokeRefreshTokenFunc     func(ctx context.Context, hash string) error
	revokeAllTrainerTokensFunc func(ctx context.Context, trainerID string) error
	deleteExpiredTokensFunc    func(ctx context.Context) error
}

func (m *mockTokenRepo) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	if m.createRefreshTokenFunc != nil {
		return m.createRefreshTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	if m.getRefreshTokenByHashFunc != nil {
		return m.getRefreshTokenByHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *mockTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	if m.revokeRefreshTokenFunc != nil {
		return m.revokeRefreshTokenFunc(ctx, hash)
	}
	return nil
}

func (m *mockTokenRepo) RevokeAllTrainerTokens(ctx context.Context, trainerID string) error {
	if m.revokeAllTrainerTokensFunc != nil {
		return m.revokeAllTrainerTokensFunc(ctx, trainerID)
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	if m.deleteExpiredTokensFunc != nil {
		return m.deleteExpiredTokensFunc(ctx)
	}
	return nil
}

// ============================================================================
// Shared Fixtures
// ============================================================================

func trainerClaims(id string) *model.TokenClaims {
	return &model.TokenClaims{
		TrainerID: id,
		Email:     "trainer@example.com",
		Role:      string(model.TrainerRoleTrainer),
	}
}

func adminClaims() *model.TokenClaims {
	return &model.TokenClaims{
		TrainerID: "trainer:admin",
		Email:     "admin@example.com",
		Role:      string(model.TrainerRoleAdmin),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
