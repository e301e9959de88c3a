package service

import (
	"context"
	"strings"

	"github.com/poketrainer/api/internal/model"
)

// Experience awards for trainer progression milestones.
const (
	ExperienceTeamCreated  = 20
	ExperienceTeamAddition = 5
	ExperienceLevelUp      = 10
	ExperienceEvolution    = 50
)

// TrainerRepository defines the interface for trainer storage
type TrainerRepository interface {
	Create(ctx context.Context, trainer *model.Trainer) error
	GetByID(ctx context.Context, id string) (*model.Trainer, error)
	GetByEmail(ctx context.Context, email string) (*model.Trainer, error)
	List(ctx context.Context, filter ListQuery) ([]*model.Trainer, int, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Trainer, error)
	AddExperience(ctx context.Context, id string, points int) (*model.Trainer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TrainerService handles trainer business logic
type TrainerService struct {
	trainerRepo TrainerRepository
}

// TrainerServiceConfig holds configuration for the trainer service
type TrainerServiceConfig struct {
	TrainerRepo TrainerRepository
}

// NewTrainerService creates a new trainer service
func NewTrainerService(cfg TrainerServiceConfig) *TrainerService {
	return &TrainerService{
		trainerRepo: cfg.TrainerRepo,
	}
}

// GetTrainer retrieves a trainer by ID
func (s *TrainerService) GetTrainer(ctx context.Context, id string) (*model.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// ListTrainers retrieves trainers matching the query
func (s *TrainerService) ListTrainers(ctx context.Context, query ListQuery) ([]*model.Trainer, int, error) {
	return s.trainerRepo.List(ctx, query)
}

// UpdateTrainerRequest represents a partial trainer update
type UpdateTrainerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateTrainer updates a trainer's profile. Only the trainer themselves
// or an admin may do this.
func (s *TrainerService) UpdateTrainer(ctx context.Context, actor *model.TokenClaims, id string, req UpdateTrainerRequest) (*model.Trainer, error) {
	if !actorCanAccess(actor, id) {
		return nil, ErrNotOwner
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrTrainerNameRequired
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if !isValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		existing, err := s.trainerRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailAlreadyExists
		}
		updates["email"] = email
	}

	trainer, err := s.trainerRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// SetRole changes a trainer's role. Admin only.
func (s *TrainerService) SetRole(ctx context.Context, actor *model.TokenClaims, id string, role model.TrainerRole) (*model.Trainer, error) {
	if !actorIsAdmin(actor) {
		return nil, ErrNotOwner
	}
	if role != model.TrainerRoleTrainer && role != model.TrainerRoleAdmin {
		return nil, ErrInvalidRole
	}

	trainer, err := s.trainerRepo.Update(ctx, id, map[string]interface{}{"role": string(role)})
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// DeleteTrainer removes a trainer account. Only the trainer themselves
// or an admin may do this.
func (s *TrainerService) DeleteTrainer(ctx context.Context, actor *model.TokenClaims, id string) error {
	if !actorCanAccess(actor, id) {
		return ErrNotOwner
	}

	deleted, err := s.trainerRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTrainerNotFound
	}
	return nil
}

// AwardExperience grants experience points to a trainer and recomputes
// their level. Returns the updated trainer.
func (s *TrainerService) AwardExperience(ctx context.Context, trainerID string, points int) (*model.Trainer, error) {
	trainer, err := s.trainerRepo.AddExperience(ctx, trainerID, points)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// actorCanAccess reports whether the actor may act on a resource owned
// by ownerID: admins may act on anything, everyone else only on their own.
func actorCanAccess(actor *model.TokenClaims, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actorIsAdmin(actor) || actor.TrainerID == ownerID
}

// actorIsAdmin reports whether the actor holds the admin role
func actorIsAdmin(actor *model.TokenClaims) bool {
	return actor != nil && actor.Role == string(model.TrainerRoleAdmin)
}
