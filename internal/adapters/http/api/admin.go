package api

import (
	"net/http"

	"github.com/okian/ballot/internal/domain/roster"
)

// AdminHandler handles roster edits and election reset.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type renameRequest struct {
	Name string `json:"name"`
}

type resetResponse struct {
	Status string `json:"status"`
}

// HandleAdd handles POST /admin/candidates requests.
func (h *AdminHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_candidate"
	var req roster.NewCandidate
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.AddCandidate(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleRename handles PATCH /admin/candidates/{id} requests.
func (h *AdminHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename_candidate"
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.RenameCandidate(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleRemove handles DELETE /admin/candidates/{id}?confirm=true requests.
func (h *AdminHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_candidate"
	if !confirmed(r) {
		writeFailure(w, NewKind(op, ErrConfirmationRequired))
		return
	}
	c, err := h.deps.RemoveCandidate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleReset handles POST /admin/reset?confirm=true requests.
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_election"
	if !confirmed(r) {
		writeFailure(w, NewKind(op, ErrConfirmationRequired))
		return
	}
	if err := h.deps.ResetElection(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Status: "reset"})
}
