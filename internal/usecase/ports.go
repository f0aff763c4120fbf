package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

// StorageGateway is the persistence contract of the scheduling and
// collection pipelines. Every write is an upsert keyed by match id.
type StorageGateway interface {
	SaveScheduledMatches(ctx context.Context, items []match.Match) error
	SaveMatchStatistics(ctx context.Context, item matchstats.Statistics) error
	GetAllMatchStatistics(ctx context.Context) ([]matchstats.Statistics, error)
	// GetUpcomingMatches returns matches whose collection time is after now,
	// ordered by match datetime then match id.
	GetUpcomingMatches(ctx context.Context, now time.Time) ([]match.Match, error)
}

// MatchSource scrapes a tracked team's page for upcoming fixtures.
type MatchSource interface {
	UpcomingMatches(ctx context.Context, team match.TrackedTeam) ([]match.ScrapedRow, error)
}

// StatisticsSource scrapes a match detail page into raw fields.
type StatisticsSource interface {
	MatchStatistics(ctx context.Context, statsURL string) (matchstats.Fields, error)
}

// JobRegistrar registers one deferred collection job.
type JobRegistrar interface {
	Register(ctx context.Context, job jobscheduler.DeferredJob) error
}

// StatisticsMirror replaces the spreadsheet view with rows.
type StatisticsMirror interface {
	Replace(ctx context.Context, rows []matchstats.SheetRow) error
}

type noopJobRegistrar struct{}

func (noopJobRegistrar) Register(context.Context, jobscheduler.DeferredJob) error {
	return nil
}

func NewNoopJobRegistrar() JobRegistrar {
	return noopJobRegistrar{}
}

type noopStatisticsMirror struct{}

func (noopStatisticsMirror) Replace(context.Context, []matchstats.SheetRow) error {
	return nil
}

func NewNoopStatisticsMirror() StatisticsMirror {
	return noopStatisticsMirror{}
}
