package api

import "net/http"

// SimulationHandler toggles the vote simulator.
type SimulationHandler struct {
	deps SimulationDependencies
}

// NewSimulationHandler creates a new simulation handler.
func NewSimulationHandler(deps SimulationDependencies) *SimulationHandler {
	return &SimulationHandler{deps: deps}
}

type simulationRequest struct {
	Enabled *bool `json:"enabled"`
}

// HandleStatus handles GET /simulation requests.
func (h *SimulationHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.SimulationStatus(r.Context()))
}

// HandleSet handles PUT /simulation requests.
func (h *SimulationHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_simulation"
	var req simulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Enabled == nil {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SetSimulation(r.Context(), *req.Enabled))
}
