package jobqueue

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

// Publisher is the delayed-delivery transport behind a Registrar.
type Publisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// Registrar registers deferred collection jobs as delayed publishes to the
// collection endpoint. Registering the same job for the same instant twice
// yields one delivery.
type Registrar struct {
	publisher Publisher
	path      string
	now       func() time.Time
}

func NewRegistrar(publisher Publisher, collectJobPath string) *Registrar {
	return &Registrar{
		publisher: publisher,
		path:      strings.TrimSpace(collectJobPath),
		now:       time.Now,
	}
}

func (r *Registrar) Register(ctx context.Context, job jobscheduler.DeferredJob) error {
	delay := job.FireAt.Sub(r.now())
	if delay < 0 {
		delay = 0
	}
	return r.publisher.Enqueue(ctx, r.path, job.Payload, delay, job.DeduplicationID())
}

// LogRegistrar only logs jobs. It serves deployments without a deferred-job
// transport, where collection is triggered from the worker CLI.
type LogRegistrar struct {
	logger *logging.Logger
}

func NewLogRegistrar(logger *logging.Logger) *LogRegistrar {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogRegistrar{logger: logger}
}

func (r *LogRegistrar) Register(ctx context.Context, job jobscheduler.DeferredJob) error {
	r.logger.InfoContext(ctx, "deferred job transport disabled, job not registered",
		"job_name", job.Name,
		"fire_at", job.FireAt,
		"match_id", job.Payload.MatchID,
	)
	return nil
}
