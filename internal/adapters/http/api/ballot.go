package api

import (
	"net/http"
	"strings"

	"github.com/okian/ballot/internal/domain/model"
)

// BallotHandler handles the voter's session.
type BallotHandler struct {
	deps BallotDependencies
}

// NewBallotHandler creates a new ballot handler.
func NewBallotHandler(deps BallotDependencies) *BallotHandler {
	return &BallotHandler{deps: deps}
}

type selectRequest struct {
	Choice string `json:"choice"`
}

// HandleGet handles GET /ballot requests.
func (h *BallotHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Ballot(r.Context()))
}

// HandleSelect handles PUT /ballot/selections/{office} requests.
func (h *BallotHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	const op = "api.select"
	office, err := model.ParseOffice(r.PathValue("office"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Choice) == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	snap, err := h.deps.Select(r.Context(), office, req.Choice)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleClear handles DELETE /ballot/selections requests.
func (h *BallotHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.ClearSelections(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSubmit handles POST /ballot/submit requests.
func (h *BallotHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.RequestSubmit(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleConfirm handles POST /ballot/confirm requests.
func (h *BallotHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.deps.ConfirmSubmit(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// HandleCancel handles POST /ballot/cancel requests.
func (h *BallotHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.CancelConfirm(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
