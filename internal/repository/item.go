package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// throwItemGone is the THROW message raised when a consume transaction
// finds the item already removed.
const throwItemGone = "item_gone"

// ItemRepository handles item data access
type ItemRepository struct {
	db database.Database
}

// NewItemRepository creates a new item repository
func NewItemRepository(db database.Database) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
		CREATE item CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			category: $category,
			quantity: $quantity,
			trainer_id: type::record($trainer_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":        item.Name,
		"description": emptyToNone(item.Description),
		"category":    item.Category,
		"quantity":    item.Quantity,
		"trainer_id":  item.TrainerID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	item.ID = created.ID
	item.CreatedOn = created.CreatedOn
	item.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves an item by ID. Returns (nil, nil) if absent.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseItemResult(result)
}

// List retrieves items matching the filter, plus the total match count
func (r *ItemRepository) List(ctx context.Context, filter model.ListQuery) ([]*model.Item, int, error) {
	filter = filter.Normalize()

	where := `WHERE ($name = NONE OR string::contains(string::lowercase(name), string::lowercase($name)))
		AND ($category = NONE OR category = $category)`
	filterVars := map[string]interface{}{
		"name":     emptyToNone(filter.Name),
		"category": emptyToNone(filter.Category),
	}

	vars := map[string]interface{}{
		"name":     filterVars["name"],
		"category": filterVars["category"],
		"limit":    filter.Limit,
		"start":    filter.Start(),
	}

	query := `SELECT * FROM item ` + where + ` ORDER BY name LIMIT $limit START $start`
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	items, err := parseItemsResult(result)
	if err != nil {
		return nil, 0, err
	}

	countResult, err := r.db.Query(ctx, `SELECT count() FROM item `+where+` GROUP ALL`, filterVars)
	if err != nil {
		return nil, 0, err
	}

	return items, extractCount(countResult), nil
}

// ListByTrainer retrieves all items owned by a trainer
func (r *ItemRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Item, error) {
	query := `SELECT * FROM item WHERE trainer_id = type::record($trainer_id) ORDER BY name`
	vars := map[string]interface{}{"trainer_id": trainerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseItemsResult(result)
}

// Update applies a partial update and returns the updated item.
// Returns (nil, nil) if the item does not exist.
func (r *ItemRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Item, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for _, field := range []string{"name", "description", "category", "quantity"} {
		value, ok := updates[field]
		if !ok {
			continue
		}
		if !first {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%s", field, field)
		vars[field] = value
		first = false
	}
	query += ", updated_on = time::now() RETURN AFTER"

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseItemResult(result)
}

// Consume applies an item to a pokémon and spends one unit of it in a
// single transaction: the pokémon heal (when heal > 0), the quantity
// decrement, and the last-unit delete cannot interleave with a
// concurrent use. The quantity is re-read inside the transaction so two
// concurrent uses of a single remaining unit cannot both succeed.
func (r *ItemRepository) Consume(ctx context.Context, itemID, pokemonID string, heal int) error {
	query := fmt.Sprintf(`
		BEGIN TRANSACTION;
		LET $stock = (SELECT VALUE quantity FROM type::record($item_id))[0];
		IF $stock IS NONE OR $stock < 1 { THROW "%s" };
		IF $heal > 0 { UPDATE type::record($pokemon_id) SET hp += $heal, updated_on = time::now() };
		IF $stock > 1 {
			UPDATE type::record($item_id) SET quantity -= 1, updated_on = time::now()
		} ELSE {
			DELETE type::record($item_id)
		};
		COMMIT TRANSACTION;
	`, throwItemGone)

	vars := map[string]interface{}{
		"item_id":    itemID,
		"pokemon_id": pokemonID,
		"heal":       heal,
	}

	if _, err := r.db.Query(ctx, query, vars); err != nil {
		if strings.Contains(err.Error(), throwItemGone) {
			return database.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes an item. Returns false if no record existed.
func (r *ItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return deletedAny(result), nil
}

func parseItemResult(result interface{}) (*model.Item, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var item model.Item
	if err := decodeRecord(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func parseItemsResult(result []interface{}) ([]*model.Item, error) {
	records, err := unwrapRecords(result)
	if err != nil {
		return nil, err
	}

	items := make([]*model.Item, 0, len(records))
	for _, data := range records {
		var item model.Item
		if err := decodeRecord(data, &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
