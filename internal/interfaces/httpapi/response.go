package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-stats-scheduler/internal/platform/resilience"
	"github.com/riskibarqy/match-stats-scheduler/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "match-stats-scheduler"
)

// envelope follows the Google JSON style guide: data on success, error on
// failure, apiVersion on both.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Status     string
	Reason     string
}

type errorRule struct {
	targets []error
	mapped  mappedError
}

// errorRules are checked in order; the first rule with a matching target wins.
var errorRules = []errorRule{
	{
		targets: []error{usecase.ErrInvalidInput, usecase.ErrInvalidPayload, usecase.ErrMissingField, usecase.ErrParse},
		mapped:  mappedError{http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
	},
	{
		targets: []error{usecase.ErrExtraction},
		mapped:  mappedError{http.StatusUnprocessableEntity, "FAILED_PRECONDITION", "extractionFailed"},
	},
	{
		targets: []error{usecase.ErrNotFound},
		mapped:  mappedError{http.StatusNotFound, "NOT_FOUND", "notFound"},
	},
	{
		targets: []error{usecase.ErrUnauthorized},
		mapped:  mappedError{http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
	},
	{
		targets: []error{usecase.ErrPersistence},
		mapped:  mappedError{http.StatusServiceUnavailable, "UNAVAILABLE", "persistenceFailed"},
	},
	{
		targets: []error{usecase.ErrMirror},
		mapped:  mappedError{http.StatusBadGateway, "UNAVAILABLE", "mirrorFailed"},
	},
	{
		targets: []error{usecase.ErrDependencyUnavailable, resilience.ErrCircuitOpen},
		mapped:  mappedError{http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
	},
}

var internalError = mappedError{http.StatusInternalServerError, "INTERNAL", "internalError"}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				return rule.mapped
			}
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: googleAPIVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeErrorWithData(ctx, w, err, nil)
}

// writeErrorWithData keeps a partial result next to the error, so callers
// still see the counts of a run that failed part way.
func writeErrorWithData(ctx context.Context, w http.ResponseWriter, err error, data any) {
	mapped := mapError(err)
	markSpanFailed(ctx, err, usecase.ErrorKind(err))
	writeFailure(w, mapped, err.Error(), data)
}

// writeInternalError hides the cause, which is logged by the caller.
func writeInternalError(w http.ResponseWriter) {
	writeFailure(w, internalError, "internal server error", nil)
}

func writeFailure(w http.ResponseWriter, mapped mappedError, message string, data any) {
	writeJSON(w, mapped.HTTPStatus, envelope{
		APIVersion: googleAPIVersion,
		Data:       data,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}
