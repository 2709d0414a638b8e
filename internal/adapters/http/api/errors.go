package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/ballot/internal/adapters/insight"
	"github.com/okian/ballot/internal/adapters/repository"
	"github.com/okian/ballot/internal/domain/ballot"
	"github.com/okian/ballot/internal/domain/model"
	"github.com/okian/ballot/internal/domain/roster"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest           = errors.New("bad request")
	ErrConfirmationRequired = errors.New("confirmation required: repeat with ?confirm=true")
)

// NewKind tags kind with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind so both stay visible to errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// statusRule maps one sentinel to its HTTP status and error code.
type statusRule struct {
	kind   error
	status int
	code   string
}

// Checked in order; the first match wins.
var statusRules = []statusRule{
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{model.ErrUnknownOffice, http.StatusBadRequest, "unknown_office"},
	{ballot.ErrInvalidChoice, http.StatusBadRequest, "invalid_choice"},
	{ballot.ErrIncompleteBallot, http.StatusBadRequest, "incomplete_ballot"},
	{roster.ErrMissingField, http.StatusBadRequest, "missing_field"},
	{roster.ErrEmptyName, http.StatusBadRequest, "empty_name"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{ballot.ErrLocked, http.StatusConflict, "ballot_locked"},
	{ballot.ErrNotPending, http.StatusConflict, "not_pending"},
	{ballot.ErrAwaitingConfirmation, http.StatusConflict, "awaiting_confirmation"},
	{repository.ErrDuplicateID, http.StatusConflict, "duplicate_id"},
	{insight.ErrBusy, http.StatusConflict, "insight_busy"},
	{ErrConfirmationRequired, http.StatusConflict, "confirmation_required"},
	{insight.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{repository.ErrPersist, http.StatusInternalServerError, "storage_error"},
}

// classify returns the status and code for err. Unknown errors are 500.
func classify(err error) (int, string) {
	for _, r := range statusRules {
		if errors.Is(err, r.kind) {
			return r.status, r.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
