package usecase

import (
	"errors"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPersistence           = errors.New("persistence failed")
	ErrRegistration          = errors.New("deferred job registration failed")
	ErrMirror                = errors.New("spreadsheet mirror failed")
)

// Domain error kinds re-exported so outer layers map one taxonomy.
var (
	ErrParse          = match.ErrInvalidDateTime
	ErrMissingField   = match.ErrMissingField
	ErrExtraction     = matchstats.ErrExtraction
	ErrInvalidPayload = jobscheduler.ErrInvalidPayload
)

// ErrorKind names the taxonomy bucket of err, for structured logs and results.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtraction):
		return "extraction_error"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	case errors.Is(err, ErrMirror):
		return "mirror_error"
	case errors.Is(err, ErrRegistration):
		return "registration_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDependencyUnavailable), errors.Is(err, resilience.ErrCircuitOpen):
		return "dependency_unavailable"
	default:
		return "internal_error"
	}
}
