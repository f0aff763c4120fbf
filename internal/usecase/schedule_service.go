package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/id"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	defaultCollectJobPath = "/v1/internal/jobs/collect-stats"
)

type ScheduleConfig struct {
	Delays match.DelayTable
	// Now is the clock in the source site's timezone. Partial "MM/DD HH:MM"
	// kickoffs are read in its location. Defaults to time.Now.
	Now func() time.Time
	// CollectJobPath is recorded on dispatch ledger entries.
	CollectJobPath string
}

// TeamBatch is the raw scrape output for one tracked team.
type TeamBatch struct {
	Team string
	Rows []match.ScrapedRow
}

type ScheduleResult struct {
	Status                   string   `json:"status"`
	Message                  string   `json:"message"`
	TeamCount                int      `json:"team_count"`
	ScrapeFailureCount       int      `json:"scrape_failure_count"`
	ScrapedCount             int      `json:"scraped_count"`
	ParseFailureCount        int      `json:"parse_failure_count"`
	SkippedPastCount         int      `json:"skipped_past_count"`
	DuplicateCount           int      `json:"duplicate_count"`
	ScheduledCount           int      `json:"scheduled_count"`
	RegisteredCount          int      `json:"registered_count"`
	RegistrationFailureCount int      `json:"registration_failure_count"`
	MatchIDs                 []string `json:"match_ids"`
}

// ScheduleService turns scraped fixtures into stored, stamped match records
// and one deferred collection job per record.
type ScheduleService struct {
	source    MatchSource
	storage   StorageGateway
	registrar JobRegistrar
	dispatch  dispatchRecorder
	ids       id.Generator
	cfg       ScheduleConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewScheduleService(
	source MatchSource,
	storage StorageGateway,
	registrar JobRegistrar,
	dispatchRepo jobscheduler.Repository,
	ids id.Generator,
	cfg ScheduleConfig,
	logger *logging.Logger,
) *ScheduleService {
	if registrar == nil {
		registrar = NewNoopJobRegistrar()
	}
	if ids == nil {
		ids = id.NewRandomGenerator("dsp_")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Delays) == 0 {
		cfg.Delays = match.DefaultDelayTable()
	}
	if strings.TrimSpace(cfg.CollectJobPath) == "" {
		cfg.CollectJobPath = defaultCollectJobPath
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	svc := &ScheduleService{
		source:    source,
		storage:   storage,
		registrar: registrar,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
		now:       cfg.Now,
	}
	svc.dispatch = dispatchRecorder{repo: dispatchRepo, logger: logger, now: func() time.Time { return svc.now() }}
	return svc
}

// Run scrapes every tracked team and schedules the combined output. A team
// whose page cannot be scraped is logged and skipped.
func (s *ScheduleService) Run(ctx context.Context, teams []match.TrackedTeam) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Run")
	defer span.End()

	if s.source == nil {
		return ScheduleResult{Status: StatusError, Message: "match source is not configured"},
			fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	batches := make([]TeamBatch, 0, len(teams))
	scrapeFailures := 0
	for _, team := range teams {
		rows, err := s.source.UpcomingMatches(ctx, team)
		if err != nil {
			scrapeFailures++
			s.logger.WarnContext(ctx, "scrape team fixtures failed",
				"team", team.Name,
				"external_id", team.ExternalID,
				"error", err,
			)
			continue
		}
		batches = append(batches, TeamBatch{Team: team.Name, Rows: rows})
	}

	result, err := s.Schedule(ctx, batches)
	result.TeamCount = len(teams)
	result.ScrapeFailureCount = scrapeFailures
	return result, err
}

// Schedule runs the pipeline over already scraped rows:
// parse, drop past, dedupe, order, stamp, save, then register.
// Storage failure aborts before any registration.
func (s *ScheduleService) Schedule(ctx context.Context, batches []TeamBatch) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Schedule")
	defer span.End()

	now := s.now()
	result := ScheduleResult{TeamCount: len(batches)}

	parsed := make([]match.Match, 0)
	for _, batch := range batches {
		for _, row := range batch.Rows {
			result.ScrapedCount++
			item, err := match.FromRow(batch.Team, row, now)
			if err != nil {
				result.ParseFailureCount++
				s.logger.WarnContext(ctx, "parse scraped fixture failed",
					"team", batch.Team,
					"raw_datetime", row.DateTime,
					"details_link", row.DetailsLink,
					"error_kind", ErrorKind(err),
					"error", err,
				)
				continue
			}
			if !item.MatchDateTime.After(now) {
				result.SkippedPastCount++
				s.logger.InfoContext(ctx, "past fixture dropped",
					"team", batch.Team,
					"match_id", item.ID,
					"match_datetime", item.MatchDateTime,
				)
				continue
			}
			parsed = append(parsed, item)
		}
	}

	unique := match.Deduplicate(parsed, func(dropped match.Match) {
		result.DuplicateCount++
		s.logger.InfoContext(ctx, "duplicate fixture dropped",
			"match_id", dropped.ID,
			"team", dropped.Team,
			"opponent", dropped.Opponent,
		)
	})

	sort.SliceStable(unique, func(i, j int) bool {
		if !unique[i].MatchDateTime.Equal(unique[j].MatchDateTime) {
			return unique[i].MatchDateTime.Before(unique[j].MatchDateTime)
		}
		return unique[i].ID < unique[j].ID
	})

	scheduled := make([]match.Match, 0, len(unique))
	for _, item := range unique {
		scheduled = append(scheduled, item.WithCollectionTime(s.cfg.Delays))
	}
	result.ScheduledCount = len(scheduled)
	result.MatchIDs = make([]string, 0, len(scheduled))
	for _, item := range scheduled {
		result.MatchIDs = append(result.MatchIDs, item.ID)
	}

	if len(scheduled) == 0 {
		result.Status = StatusSuccess
		result.Message = "no upcoming matches to schedule"
		return result, nil
	}

	if err := s.storage.SaveScheduledMatches(ctx, scheduled); err != nil {
		wrapped := crerr.Wrap(fmt.Errorf("%w: %w", ErrPersistence, err), "save scheduled matches")
		span.RecordError(wrapped)
		result.Status = StatusError
		result.Message = wrapped.Error()
		s.logger.ErrorContext(ctx, "save scheduled matches failed",
			"match_count", len(scheduled),
			"error_kind", ErrorKind(wrapped),
			"error", wrapped,
		)
		return result, wrapped
	}

	for _, item := range scheduled {
		if err := s.register(ctx, item); err != nil {
			result.RegistrationFailureCount++
			continue
		}
		result.RegisteredCount++
	}

	result.Status = StatusSuccess
	result.Message = fmt.Sprintf("scheduled %d matches, registered %d collection jobs", result.ScheduledCount, result.RegisteredCount)
	s.logger.InfoContext(ctx, "schedule run completed",
		"scraped", result.ScrapedCount,
		"parse_failures", result.ParseFailureCount,
		"skipped_past", result.SkippedPastCount,
		"duplicates", result.DuplicateCount,
		"scheduled", result.ScheduledCount,
		"registered", result.RegisteredCount,
		"registration_failures", result.RegistrationFailureCount,
	)
	return result, nil
}

func (s *ScheduleService) register(ctx context.Context, item match.Match) error {
	job := jobscheduler.JobFromMatch(item)

	dispatchID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate dispatch id failed", "match_id", item.ID, "error", err)
	}
	job.Payload.DispatchID = dispatchID

	event := jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		JobName:    job.Name,
		JobPath:    s.cfg.CollectJobPath,
		MatchID:    item.ID,
		Status:     jobscheduler.StatusSent,
		Payload:    job.Payload.Map(),
	}

	if err := s.registrar.Register(ctx, job); err != nil {
		wrapped := fmt.Errorf("%w: job=%s: %w", ErrRegistration, job.Name, err)
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = wrapped.Error()
		s.dispatch.record(ctx, event)
		s.logger.WarnContext(ctx, "register collection job failed",
			"match_id", item.ID,
			"job_name", job.Name,
			"fire_at", job.FireAt,
			"error_kind", ErrorKind(wrapped),
			"error", wrapped,
		)
		return wrapped
	}

	s.dispatch.record(ctx, event)
	s.logger.InfoContext(ctx, "collection job registered",
		"match_id", item.ID,
		"job_name", job.Name,
		"fire_at", job.FireAt,
	)
	return nil
}

// Upcoming returns stored matches still awaiting collection.
func (s *ScheduleService) Upcoming(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Upcoming")
	defer span.End()

	items, err := s.storage.GetUpcomingMatches(ctx, s.now())
	if err != nil {
		return nil, crerr.Wrap(fmt.Errorf("%w: %w", ErrPersistence, err), "get upcoming matches")
	}
	return items, nil
}
