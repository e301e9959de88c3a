package handler

import (
	"net/http"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// TeamHandler handles team HTTP requests
type TeamHandler struct {
	svc *service.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(svc *service.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// AddPokemonRequest represents the add-to-team request body
type AddPokemonRequest struct {
	PokemonID string `json:"pokemon_id"`
}

// ReorderRequest represents the roster reorder request body
type ReorderRequest struct {
	PokemonIDs []string `json:"pokemon_ids"`
}

// List handles GET /v1/teams - list teams with name filter and pagination
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	teams, total, err := h.svc.ListTeams(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list teams"))
		return
	}

	WriteCollection(w, http.StatusOK, teams, paginationFor(query, total), nil)
}

// ListByTrainer handles GET /v1/trainers/{id}/teams - a trainer's teams
func (h *TeamHandler) ListByTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID := r.PathValue("id")
	if trainerID == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	teams, err := h.svc.ListByTrainer(r.Context(), trainerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, teams, nil)
}

// Create handles POST /v1/teams - assemble a new team
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.CreateTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	team, err := h.svc.CreateTeam(r.Context(), claims, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, team, nil)
}

// Get handles GET /v1/teams/{id} - get a team with its ordered roster
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	team, err := h.svc.GetTeamWithRoster(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, team, nil)
}

// Update handles PATCH /v1/teams/{id} - rename a team
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	var req service.UpdateTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	team, err := h.svc.UpdateTeam(r.Context(), claims, id, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, team, nil)
}

// Delete handles DELETE /v1/teams/{id} - disband a team
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	if err := h.svc.DeleteTeam(r.Context(), claims, id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "team disbanded")
}

// AddPokemon handles POST /v1/teams/{id}/pokemon - add a pokémon to the roster
func (h *TeamHandler) AddPokemon(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	teamID := r.PathValue("id")
	if teamID == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	var req AddPokemonRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.PokemonID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "pokemon_id", Message: "pokemon_id is required"},
		}))
		return
	}

	pokemon, err := h.svc.AddPokemon(r.Context(), claims, teamID, req.PokemonID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}

// RemovePokemon handles DELETE /v1/teams/{id}/pokemon/{pokemonId} - drop a
// pokémon from the roster
func (h *TeamHandler) RemovePokemon(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	teamID := r.PathValue("id")
	pokemonID := r.PathValue("pokemonId")
	if teamID == "" || pokemonID == "" {
		WriteError(w, model.NewBadRequestError("team ID and pokemon ID required"))
		return
	}

	if err := h.svc.RemovePokemon(r.Context(), claims, teamID, pokemonID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "pokemon removed from team")
}

// Reorder handles PUT /v1/teams/{id}/reorder - rearrange the full roster
func (h *TeamHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	teamID := r.PathValue("id")
	if teamID == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	var req ReorderRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	roster, err := h.svc.Reorder(r.Context(), claims, teamID, req.PokemonIDs)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, roster, nil)
}
