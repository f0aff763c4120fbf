package postgres

import (
	"strings"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
)

// jobDispatchRow is one collection job in the dispatch ledger. Only the
// timestamp matching the event status is set on insert; the conflict clause
// keeps earlier timestamps.
type jobDispatchRow struct {
	DispatchID  string     `db:"dispatch_id"`
	JobName     string     `db:"job_name"`
	JobPath     string     `db:"job_path"`
	MatchID     string     `db:"match_id"`
	Team        *string    `db:"team"`
	Payload     string     `db:"payload"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	SentAt      *time.Time `db:"sent_at"`
	CompletedAt *time.Time `db:"completed_at"`
	FailedAt    *time.Time `db:"failed_at"`
	LastError   *string    `db:"last_error"`
	TraceID     *string    `db:"trace_id"`
	SpanID      *string    `db:"span_id"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func jobDispatchRowFrom(event jobscheduler.DispatchEvent, payload string, now time.Time) jobDispatchRow {
	at := now.UTC()
	if !event.OccurredAt.IsZero() {
		at = event.OccurredAt.UTC()
	}

	row := jobDispatchRow{
		DispatchID: strings.TrimSpace(event.DispatchID),
		JobName:    orUnknown(event.JobName, "unknown"),
		JobPath:    orUnknown(event.JobPath, "/unknown"),
		MatchID:    orUnknown(event.MatchID, "unknown"),
		Team:       optionalString(payloadTeam(event.Payload)),
		Payload:    payload,
		Status:     string(event.Status),
		TraceID:    optionalString(event.TraceID),
		SpanID:     optionalString(event.SpanID),
		UpdatedAt:  at,
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		row.SentAt = &at
	case jobscheduler.StatusCompleted:
		row.CompletedAt = &at
		row.Attempts = 1
	case jobscheduler.StatusFailed:
		row.FailedAt = &at
		row.LastError = optionalString(event.ErrorMessage)
	}
	return row
}

func orUnknown(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func payloadTeam(payload map[string]any) string {
	team, _ := payload["team"].(string)
	return team
}
