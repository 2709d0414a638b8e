package api

import (
	"net/http"

	"github.com/okian/ballot/internal/domain/model"
)

// ResultsHandler serves the live tallies.
type ResultsHandler struct {
	deps ResultsDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleSummary handles GET /results requests.
func (h *ResultsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Results(r.Context()))
}

// HandleOffice handles GET /results/{office} requests.
func (h *ResultsHandler) HandleOffice(w http.ResponseWriter, r *http.Request) {
	const op = "api.office_results"
	office, err := model.ParseOffice(r.PathValue("office"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	standing, err := h.deps.OfficeResults(r.Context(), office)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
