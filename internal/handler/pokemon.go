package handler

import (
	"net/http"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// PokemonHandler handles pokémon HTTP requests
type PokemonHandler struct {
	svc *service.PokemonService
}

// NewPokemonHandler creates a new pokémon handler
func NewPokemonHandler(svc *service.PokemonService) *PokemonHandler {
	return &PokemonHandler{svc: svc}
}

// List handles GET /v1/pokemon - list pokémon with name/type filters
func (h *PokemonHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	pokemon, total, err := h.svc.ListPokemon(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list pokemon"))
		return
	}

	WriteCollection(w, http.StatusOK, pokemon, paginationFor(query, total), nil)
}

// ListByTrainer handles GET /v1/trainers/{id}/pokemon - a trainer's pokémon
func (h *PokemonHandler) ListByTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID := r.PathValue("id")
	if trainerID == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	pokemon, err := h.svc.ListByTrainer(r.Context(), trainerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}

// Create handles POST /v1/pokemon - register a captured pokémon
func (h *PokemonHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.CreatePokemonRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	pokemon, err := h.svc.CreatePokemon(r.Context(), claims, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, pokemon, nil)
}

// Get handles GET /v1/pokemon/{id} - get pokémon details
func (h *PokemonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("pokemon ID required"))
		return
	}

	pokemon, err := h.svc.GetPokemon(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}

// Update handles PATCH /v1/pokemon/{id} - update editable attributes
func (h *PokemonHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("pokemon ID required"))
		return
	}

	var req service.UpdatePokemonRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	pokemon, err := h.svc.UpdatePokemon(r.Context(), claims, id, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}

// Delete handles DELETE /v1/pokemon/{id} - release a pokémon
func (h *PokemonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("pokemon ID required"))
		return
	}

	if err := h.svc.DeletePokemon(r.Context(), claims, id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "pokemon released")
}

// LevelUp handles PUT /v1/pokemon/{id}/level-up - raise a pokémon one level
func (h *PokemonHandler) LevelUp(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("pokemon ID required"))
		return
	}

	result, err := h.svc.LevelUp(r.Context(), claims, id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}

// Evolve handles POST /v1/pokemon/{id}/evolve - evolve a pokémon
func (h *PokemonHandler) Evolve(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("pokemon ID required"))
		return
	}

	pokemon, err := h.svc.Evolve(r.Context(), claims, id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}
