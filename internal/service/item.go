package service

import (
	"context"
	"errors"
	"strings"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// ItemRepository defines the interface for item storage
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	List(ctx context.Context, filter model.ListQuery) ([]*model.Item, int, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*model.Item, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Item, error)
	Consume(ctx context.Context, itemID, pokemonID string, heal int) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ItemService handles inventory business logic
type ItemService struct {
	itemRepo    ItemRepository
	pokemonRepo PokemonRepository
}

// ItemServiceConfig holds configuration for the item service
type ItemServiceConfig struct {
	ItemRepo    ItemRepository
	PokemonRepo PokemonRepository
}

// NewItemService creates a new item service
func NewItemService(cfg ItemServiceConfig) *ItemService {
	return &ItemService{
		itemRepo:    cfg.ItemRepo,
		pokemonRepo: cfg.PokemonRepo,
	}
}

// CreateItemRequest represents an item creation request. Quantity is a
// pointer so an omitted quantity (one unit) stays distinguishable from
// an explicit zero, which is invalid.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Quantity    *int   `json:"quantity,omitempty"`
	TrainerID   string `json:"trainer_id,omitempty"` // Optional; defaults to the actor. Admin only otherwise.
}

// CreateItem adds an item to a trainer's inventory
func (s *ItemService) CreateItem(ctx context.Context, actor *model.TokenClaims, req CreateItemRequest) (*model.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrItemNameRequired
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, ErrItemCategoryRequired
	}
	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		quantity = *req.Quantity
	}

	trainerID := req.TrainerID
	if trainerID == "" {
		trainerID = actor.TrainerID
	}
	if !actorCanAccess(actor, trainerID) {
		return nil, ErrNotOwner
	}

	item := &model.Item{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    quantity,
		TrainerID:   trainerID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ListItems retrieves items matching the query
func (s *ItemService) ListItems(ctx context.Context, query ListQuery) ([]*model.Item, int, error) {
	return s.itemRepo.List(ctx, query)
}

// ListByTrainer retrieves a trainer's inventory
func (s *ItemService) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Item, error) {
	return s.itemRepo.ListByTrainer(ctx, trainerID)
}

// UpdateItemRequest represents a partial item update
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
}

// UpdateItem updates an item's attributes
func (s *ItemService) UpdateItem(ctx context.Context, actor *model.TokenClaims, id string, req UpdateItemRequest) (*model.Item, error) {
	item, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrItemNameRequired
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		updates["quantity"] = *req.Quantity
	}

	if len(updates) == 0 {
		return item, nil
	}

	updated, err := s.itemRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrItemNotFound
	}
	return updated, nil
}

// DeleteItem removes an item from the inventory
func (s *ItemService) DeleteItem(ctx context.Context, actor *model.TokenClaims, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.itemRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}

// UseItemResult carries the outcome of using an item. Item is nil when
// the last unit was consumed.
type UseItemResult struct {
	Item    *model.Item    `json:"item,omitempty"`
	Pokemon *model.Pokemon `json:"pokemon,omitempty"`
}

// UseItem consumes one unit of an item. Healing items restore HP to the
// target pokémon; other items are spent with no effect. The quantity
// decrement, the heal, and the last-unit delete run atomically.
func (s *ItemService) UseItem(ctx context.Context, actor *model.TokenClaims, itemID, pokemonID string) (*UseItemResult, error) {
	item, err := s.getItemOwned(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity < 1 {
		return nil, ErrItemOutOfStock
	}

	heal := 0
	if item.IsHealing() {
		if pokemonID == "" {
			return nil, ErrItemTargetMissing
		}
		heal = model.HealingAmount
	}

	if pokemonID != "" {
		pokemon, err := s.pokemonRepo.GetByID(ctx, pokemonID)
		if err != nil {
			return nil, err
		}
		if pokemon == nil {
			return nil, ErrPokemonNotFound
		}
		// Items only work on the owner's pokémon
		if pokemon.TrainerID != item.TrainerID {
			return nil, ErrNotOwner
		}
	}

	if err := s.itemRepo.Consume(ctx, itemID, pokemonID, heal); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	result := &UseItemResult{}
	// The item record is gone when the last unit was spent
	remaining, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result.Item = remaining

	if pokemonID != "" {
		pokemon, err := s.pokemonRepo.GetByID(ctx, pokemonID)
		if err != nil {
			return nil, err
		}
		result.Pokemon = pokemon
	}

	return result, nil
}

// getOwned fetches an item and enforces the ownership gate
func (s *ItemService) getOwned(ctx context.Context, actor *model.TokenClaims, id string) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !actorCanAccess(actor, item.TrainerID) {
		return nil, ErrNotOwner
	}
	return item, nil
}

// getItemOwned is like getOwned but reports the item-specific ownership
// error used by the use-item flow.
func (s *ItemService) getItemOwned(ctx context.Context, actor *model.TokenClaims, id string) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !actorCanAccess(actor, item.TrainerID) {
		return nil, ErrNotItemOwner
	}
	return item, nil
}
