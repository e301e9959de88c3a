package handler

import (
	"net/http"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// ItemHandler handles inventory item HTTP requests
type ItemHandler struct {
	svc *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// UseItemRequest represents the item use request body
type UseItemRequest struct {
	PokemonID string `json:"pokemon_id,omitempty"`
}

// List handles GET /v1/items - list items with name/category filters
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	items, total, err := h.svc.ListItems(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list items"))
		return
	}

	WriteCollection(w, http.StatusOK, items, paginationFor(query, total), nil)
}

// ListByTrainer handles GET /v1/trainers/{id}/items - a trainer's inventory
func (h *ItemHandler) ListByTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID := r.PathValue("id")
	if trainerID == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	items, err := h.svc.ListByTrainer(r.Context(), trainerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, items, nil)
}

// Create handles POST /v1/items - add an item to a trainer's inventory
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.CreateItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	item, err := h.svc.CreateItem(r.Context(), claims, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, item, nil)
}

// Get handles GET /v1/items/{id} - get item details
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, item, nil)
}

// Update handles PATCH /v1/items/{id} - update an item
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	var req service.UpdateItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), claims, id, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, item, nil)
}

// Delete handles DELETE /v1/items/{id} - discard an item entirely
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	if err := h.svc.DeleteItem(r.Context(), claims, id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "item discarded")
}

// Use handles POST /v1/items/{id}/use - consume one unit of an item
func (h *ItemHandler) Use(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("item ID required"))
		return
	}

	var req UseItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.svc.UseItem(r.Context(), claims, id, req.PokemonID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}
