package handler

import (
	"net/http"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// BoxHandler handles storage box HTTP requests
type BoxHandler struct {
	svc *service.BoxService
}

// NewBoxHandler creates a new box handler
func NewBoxHandler(svc *service.BoxService) *BoxHandler {
	return &BoxHandler{svc: svc}
}

// BoxContentsResponse pairs a box with the pokémon stored in it
type BoxContentsResponse struct {
	Box      *model.Box       `json:"box"`
	Contents []*model.Pokemon `json:"contents"`
}

// List handles GET /v1/boxes - list boxes with name filter and pagination
func (h *BoxHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	boxes, total, err := h.svc.ListBoxes(r.Context(), query)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list boxes"))
		return
	}

	WriteCollection(w, http.StatusOK, boxes, paginationFor(query, total), nil)
}

// ListByTrainer handles GET /v1/trainers/{id}/boxes - a trainer's boxes
func (h *BoxHandler) ListByTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID := r.PathValue("id")
	if trainerID == "" {
		WriteError(w, model.NewBadRequestError("trainer ID required"))
		return
	}

	boxes, err := h.svc.ListByTrainer(r.Context(), trainerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, boxes, nil)
}

// Create handles POST /v1/boxes - create a storage box
func (h *BoxHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.CreateBoxRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	box, err := h.svc.CreateBox(r.Context(), claims, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, box, nil)
}

// Get handles GET /v1/boxes/{id} - get a box and its contents
func (h *BoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("box ID required"))
		return
	}

	box, err := h.svc.GetBox(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	contents, err := h.svc.GetBoxContents(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, BoxContentsResponse{Box: box, Contents: contents}, nil)
}

// Update handles PATCH /v1/boxes/{id} - rename a box
func (h *BoxHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("box ID required"))
		return
	}

	var req service.UpdateBoxRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	box, err := h.svc.UpdateBox(r.Context(), claims, id, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, box, nil)
}

// Delete handles DELETE /v1/boxes/{id} - remove a box, releasing its
// occupants into the open
func (h *BoxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("box ID required"))
		return
	}

	if err := h.svc.DeleteBox(r.Context(), claims, id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, "box deleted")
}

// Transfer handles POST /v1/boxes/transfer - move a pokémon between
// placements
func (h *BoxHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req service.TransferRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.PokemonID == "" || req.TargetID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "transfer", Message: "pokemon_id and target_id are required"},
		}))
		return
	}

	pokemon, err := h.svc.Transfer(r.Context(), claims, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pokemon, nil)
}
