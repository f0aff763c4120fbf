package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

// FailureResult is the uniform error outcome returned by entry points.
type FailureResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorKind string `json:"error_kind"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	// Result holds the partial outcome of a run that failed part way.
	Result any `json:"result,omitempty"`
}

// ReportFailure logs an unhandled entry-point error with its stack and
// returns the uniform failure outcome.
func ReportFailure(ctx context.Context, logger *logging.Logger, function string, err error, requestID string) FailureResult {
	if logger == nil {
		logger = logging.Default()
	}
	kind := ErrorKind(err)
	message := ""
	if err != nil {
		message = err.Error()
	}

	logger.ErrorContext(ctx, "entry point failed",
		"function", function,
		"error_kind", kind,
		"message", message,
		"stack", fmt.Sprintf("%+v", err),
		"request_id", requestID,
	)

	return FailureResult{
		Status:    StatusError,
		Message:   message,
		ErrorKind: kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}
