package model

import "time"

// ItemCategoryHealing is the category tag of consumables that restore HP.
const ItemCategoryHealing = "Cura"

// HealingAmount is the HP restored by a healing item.
const HealingAmount = 20

// Item represents a stackable inventory item owned by a trainer.
// Quantity is always at least 1; consuming the last unit deletes the record.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Quantity    int       `json:"quantity"`
	TrainerID   string    `json:"trainer_id"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// IsHealing returns true if using the item restores HP
func (i *Item) IsHealing() bool {
	return i.Category == ItemCategoryHealing
}
