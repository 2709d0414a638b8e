package api

import "net/http"

// InsightsHandler starts and reports AI analyses.
type InsightsHandler struct {
	deps InsightDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandleLatest handles GET /insights requests.
func (h *InsightsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.LatestInsight(r.Context()))
}

// HandleStart handles POST /insights requests. The analysis runs in the
// background; poll GET /insights for the result.
func (h *InsightsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.StartInsight(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, h.deps.LatestInsight(r.Context()))
}
