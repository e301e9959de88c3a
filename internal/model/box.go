package model

import "time"

// Box represents an unbounded storage container for pokémon that are not
// on an active team.
type Box struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrainerID string    `json:"trainer_id"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// TransferTarget identifies the destination of a pokémon transfer
type TransferTarget string

const (
	TransferTargetBox  TransferTarget = "box"
	TransferTargetTeam TransferTarget = "team"
)
