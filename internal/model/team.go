package model

import "time"

// TeamCapacity is the maximum number of pokémon a team can hold.
const TeamCapacity = 6

// Team represents an active roster of up to six pokémon with ordered
// positions.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrainerID string    `json:"trainer_id"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// TeamWithRoster includes a team with its pokémon in position order
type TeamWithRoster struct {
	Team   *Team      `json:"team"`
	Roster []*Pokemon `json:"roster"`
}
