package model

import "time"

// Pokemon represents a captured pokémon instance with its battle stats.
//
// Placement invariant: BoxID and TeamID are never both set. TeamPosition is
// set if and only if TeamID is set, and is unique within that team.
type Pokemon struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Level     int    `json:"level"`
	HP        int    `json:"hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	SpAtk     int    `json:"sp_atk"`
	SpDef     int    `json:"sp_def"`
	Speed     int    `json:"speed"`
	TrainerID string `json:"trainer_id"`

	BoxID        *string `json:"box_id,omitempty"`
	TeamID       *string `json:"team_id,omitempty"`
	TeamPosition *int    `json:"team_position,omitempty"`

	EvolvesTo      *string `json:"evolves_to,omitempty"`
	EvolutionLevel *int    `json:"evolution_level,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// InBox returns true if the pokémon is currently stored in a box
func (p *Pokemon) InBox() bool {
	return p.BoxID != nil
}

// OnTeam returns true if the pokémon is currently on a team
func (p *Pokemon) OnTeam() bool {
	return p.TeamID != nil
}

// CanEvolve returns true if the pokémon has evolution data registered and
// has reached the required level.
func (p *Pokemon) CanEvolve() bool {
	return p.EvolvesTo != nil && p.EvolutionLevel != nil && p.Level >= *p.EvolutionLevel
}
