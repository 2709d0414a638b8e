package api

import (
	"context"
	"net/http"

	"github.com/okian/ballot/internal/domain/model"
)

// CandidatesReader lists the roster.
type CandidatesReader interface {
	Candidates(ctx context.Context, office model.Office) []model.Candidate
}

// CandidatesHandler handles roster reads.
type CandidatesHandler struct {
	deps CandidatesReader
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidatesReader) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// HandleList handles GET /candidates[?office=] requests.
func (h *CandidatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_candidates"
	var office model.Office
	if raw := r.URL.Query().Get("office"); raw != "" {
		o, err := model.ParseOffice(raw)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		office = o
	}
	writeJSON(w, http.StatusOK, h.deps.Candidates(r.Context(), office))
}
