package handler

import (
	"net/http"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// TrainerHandler handles trainer HTTP requests
type TrainerHandler struct {
	svc *service.TrainerService
}

// NewTrainerHandler creates a new trainer handler
func NewTrainerHandler(svc *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{svc: svc}
}

// List handles GET /v1/trainers - list trainers with name filter and pagination
func (h *TrainerHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	trainers, total, err := h.svc.ListTrainers(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list trainers"))
		return
	}

	WriteCollection(w, http.StatusOK, trainers, paginationFor(query, total), nil)
}

// Get handles GET /v1/trainers/{id} - get trainer details
func (h *TrainerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	trainer, err := h.svc.GetTrainer(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, trainer, nil)
}

// Update handles PATCH /v1/trainers/{id} - update a trainer's profile
func (h *TrainerHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	var req service.UpdateTrainerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	trainer, err := h.svc.UpdateTrainer(r.Context(), claims, id, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, trainer, nil)
}

// Delete handles DELETE /v1/trainers/{id} - delete a trainer account
func (h *TrainerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	if err := h.svc.DeleteTrainer(r.Context(), claims, id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "trainer deleted")
}

// SetRoleRequest represents a role change request body
type SetRoleRequest struct {
	Role model.TrainerRole `json:"role"`
}

// AdminList handles GET /v1/admin/trainers - list all trainers (admin only)
func (h *TrainerHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	trainers, total, err := h.svc.ListTrainers(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list trainers"))
		return
	}

	WriteCollection(w, http.StatusOK, trainers, paginationFor(query, total), nil)
}

// SetRole handles PATCH /v1/admin/trainers/{id}/role - change a trainer's role
func (h *TrainerHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	var req SetRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	trainer, err := h.svc.SetRole(r.Context(), claims, id, req.Role)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, trainer, nil)
}
