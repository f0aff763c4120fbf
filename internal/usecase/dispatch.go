package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

// dispatchRecorder writes lifecycle events to the dispatch ledger. A nil
// repository or an empty dispatch id disables recording.
type dispatchRecorder struct {
	repo   jobscheduler.Repository
	logger *logging.Logger
	now    func() time.Time
}

func (r dispatchRecorder) record(ctx context.Context, event jobscheduler.DispatchEvent) {
	if r.repo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	if event.OccurredAt.IsZero() {
		now := time.Now
		if r.now != nil {
			now = r.now
		}
		event.OccurredAt = now().UTC()
	}
	if event.TraceID == "" || event.SpanID == "" {
		traceID, spanID := traceMetaFromContext(ctx)
		if event.TraceID == "" {
			event.TraceID = traceID
		}
		if event.SpanID == "" {
			event.SpanID = spanID
		}
	}

	if err := r.repo.UpsertEvent(ctx, event); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "record dispatch event failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}
