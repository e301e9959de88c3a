package model

import "time"

// TrainerRole represents the role of a trainer in the system
type TrainerRole string

const (
	TrainerRoleTrainer TrainerRole = "TRAINER" // Default role
	TrainerRoleAdmin   TrainerRole = "ADMIN"   // Full access to every resource
)

// Trainer represents a trainer account. A trainer owns pokémon, boxes,
// teams and items.
type Trainer struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Hash       *string     `json:"-"` // Never expose password hash
	Role       TrainerRole `json:"role"`
	Level      int         `json:"level"`
	Experience int         `json:"experience"`
	CreatedOn  time.Time   `json:"created_on"`
	UpdatedOn  time.Time   `json:"updated_on"`
}

// IsAdmin returns true if the trainer has admin role
func (t *Trainer) IsAdmin() bool {
	return t.Role == TrainerRoleAdmin
}

// CanAccess returns true if the trainer may act on a resource owned by
// ownerID: admins may act on anything, everyone else only on their own.
func (t *Trainer) CanAccess(ownerID string) bool {
	return t.IsAdmin() || t.ID == ownerID
}

// TokenClaims represents extracted JWT claims for a trainer
type TokenClaims struct {
	TrainerID string `json:"trainer_id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}
