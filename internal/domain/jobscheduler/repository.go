package jobscheduler

import "context"

// Repository records the lifecycle of deferred collection jobs.
type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}
