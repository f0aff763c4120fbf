package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/match-stats-scheduler/internal/platform/querybuilder"
)

const jobDispatchesTable = "job_dispatches"

// jobDispatchConflict merges a new lifecycle event into an existing ledger
// row. Timestamps of earlier phases survive, a completion clears the last
// failure, and attempts count collection runs that follow a registration.
const jobDispatchConflict = `ON CONFLICT (dispatch_id) DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    match_id = EXCLUDED.match_id,
    team = COALESCE(EXCLUDED.team, job_dispatches.team),
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    attempts = job_dispatches.attempts + CASE
        WHEN EXCLUDED.status <> 'sent' AND job_dispatches.sent_at IS NOT NULL THEN 1
        ELSE 0
    END,
    sent_at = COALESCE(EXCLUDED.sent_at, job_dispatches.sent_at),
    completed_at = COALESCE(EXCLUDED.completed_at, job_dispatches.completed_at),
    failed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE COALESCE(EXCLUDED.failed_at, job_dispatches.failed_at)
    END,
    last_error = EXCLUDED.last_error,
    trace_id = COALESCE(EXCLUDED.trace_id, job_dispatches.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, job_dispatches.span_id),
    updated_at = EXCLUDED.updated_at`

// JobDispatchRepository persists the ledger of deferred collection jobs.
type JobDispatchRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db, now: time.Now}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	if strings.TrimSpace(event.DispatchID) == "" {
		return fmt.Errorf("dispatch id is required")
	}

	payload, err := encodeDispatchPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("encode payload of dispatch %s: %w", event.DispatchID, err)
	}

	row := jobDispatchRowFrom(event, payload, r.now())
	query, args, err := qb.InsertModel(jobDispatchesTable, row, jobDispatchConflict)
	if err != nil {
		return fmt.Errorf("build dispatch upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record dispatch %s as %s: %w", row.DispatchID, row.Status, err)
	}
	return nil
}

func encodeDispatchPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
