// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/ballot/internal/adapters/insight"
	"github.com/okian/ballot/internal/domain/ballot"
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/roster"
	"github.com/okian/ballot/internal/domain/tally"
	"github.com/okian/ballot/internal/simulate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	BallotDependencies
	ResultsDependencies
	AdminDependencies
	InsightDependencies
	SimulationDependencies
	StatsProvider

	Candidates(ctx context.Context, office model.Office) []model.Candidate
}

// BallotDependencies drive the voter's session.
type BallotDependencies interface {
	Ballot(ctx context.Context) ballot.Snapshot
	Select(ctx context.Context, office model.Office, choice string) (ballot.Snapshot, error)
	ClearSelections(ctx context.Context) (ballot.Snapshot, error)
	RequestSubmit(ctx context.Context) (ballot.Snapshot, error)
	ConfirmSubmit(ctx context.Context) (ballot.Receipt, error)
	CancelConfirm(ctx context.Context) (ballot.Snapshot, error)
}

// ResultsDependencies expose the tally views.
type ResultsDependencies interface {
	Results(ctx context.Context) tally.Summary
	OfficeResults(ctx context.Context, office model.Office) (tally.Standing, error)
}

// AdminDependencies edit the roster and reset the election.
type AdminDependencies interface {
	AddCandidate(ctx context.Context, nc roster.NewCandidate) (model.Candidate, error)
	RenameCandidate(ctx context.Context, id, name string) (model.Candidate, error)
	RemoveCandidate(ctx context.Context, id string) (model.Candidate, error)
	ResetElection(ctx context.Context) error
}

// InsightDependencies start and read analyses.
type InsightDependencies interface {
	StartInsight(ctx context.Context) error
	LatestInsight(ctx context.Context) insight.Report
}

// SimulationDependencies toggle the demo vote simulator.
type SimulationDependencies interface {
	SetSimulation(ctx context.Context, enabled bool) simulate.Status
	SimulationStatus(ctx context.Context) simulate.Status
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	candidatesHandler *CandidatesHandler
	ballotHandler     *BallotHandler
	resultsHandler    *ResultsHandler
	adminHandler      *AdminHandler
	insightsHandler   *InsightsHandler
	simulationHandler *SimulationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps),
		ballotHandler:     NewBallotHandler(deps),
		resultsHandler:    NewResultsHandler(deps),
		adminHandler:      NewAdminHandler(deps),
		insightsHandler:   NewInsightsHandler(deps),
		simulationHandler: NewSimulationHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	route("GET /candidates", "candidates", s.candidatesHandler.HandleList)

	route("GET /ballot", "ballot", s.ballotHandler.HandleGet)
	route("PUT /ballot/selections/{office}", "ballot_select", s.ballotHandler.HandleSelect)
	route("DELETE /ballot/selections", "ballot_clear", s.ballotHandler.HandleClear)
	route("POST /ballot/submit", "ballot_submit", s.ballotHandler.HandleSubmit)
	route("POST /ballot/confirm", "ballot_confirm", s.ballotHandler.HandleConfirm)
	route("POST /ballot/cancel", "ballot_cancel", s.ballotHandler.HandleCancel)

	route("GET /results", "results", s.resultsHandler.HandleSummary)
	route("GET /results/{office}", "results_office", s.resultsHandler.HandleOffice)

	route("POST /admin/candidates", "admin_add", s.adminHandler.HandleAdd)
	route("PATCH /admin/candidates/{id}", "admin_rename", s.adminHandler.HandleRename)
	route("DELETE /admin/candidates/{id}", "admin_remove", s.adminHandler.HandleRemove)
	route("POST /admin/reset", "admin_reset", s.adminHandler.HandleReset)

	route("GET /insights", "insights", s.insightsHandler.HandleLatest)
	route("POST /insights", "insights_start", s.insightsHandler.HandleStart)

	route("GET /simulation", "simulation", s.simulationHandler.HandleStatus)
	route("PUT /simulation", "simulation_set", s.simulationHandler.HandleSet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes it.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads one JSON object from the body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// confirmed reports whether the request carries ?confirm=true.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}
