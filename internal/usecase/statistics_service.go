package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

type StatisticsConfig struct {
	Source string
	// CollectJobPath is recorded on dispatch ledger entries.
	CollectJobPath string
	// Now stamps collection_datetime. Defaults to time.Now.
	Now func() time.Time
}

type CollectResult struct {
	Status     string               `json:"status"`
	Message    string               `json:"message"`
	MatchID    string               `json:"match_id"`
	Statistics *matchstats.Document `json:"statistics,omitempty"`
	Mirrored   bool                 `json:"mirrored"`
}

type MirrorResult struct {
	Status   string `json:"status"`
	RowCount int    `json:"row_count"`
}

// StatisticsService runs the deferred collection job: scrape, extract,
// persist, then refresh the spreadsheet mirror.
type StatisticsService struct {
	source   StatisticsSource
	storage  StorageGateway
	mirror   StatisticsMirror
	dispatch dispatchRecorder
	cfg      StatisticsConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewStatisticsService(
	source StatisticsSource,
	storage StorageGateway,
	mirror StatisticsMirror,
	dispatchRepo jobscheduler.Repository,
	cfg StatisticsConfig,
	logger *logging.Logger,
) *StatisticsService {
	if mirror == nil {
		mirror = NewNoopStatisticsMirror()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.Source) == "" {
		cfg.Source = matchstats.DefaultSource
	}
	if strings.TrimSpace(cfg.CollectJobPath) == "" {
		cfg.CollectJobPath = defaultCollectJobPath
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	svc := &StatisticsService{
		source:  source,
		storage: storage,
		mirror:  mirror,
		cfg:     cfg,
		logger:  logger,
		now:     cfg.Now,
	}
	svc.dispatch = dispatchRecorder{repo: dispatchRepo, logger: logger, now: func() time.Time { return svc.now() }}
	return svc
}

// Collect gathers and stores the statistics of the match frozen in payload.
// A mirror failure is logged and does not fail the collection.
func (s *StatisticsService) Collect(ctx context.Context, payload jobscheduler.CollectionPayload) (CollectResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.Collect")
	defer span.End()

	result, err := s.collect(ctx, payload)
	event := jobscheduler.DispatchEvent{
		DispatchID: payload.DispatchID,
		JobName:    jobNameForPayload(payload),
		JobPath:    s.cfg.CollectJobPath,
		MatchID:    payload.MatchID,
		Status:     jobscheduler.StatusCompleted,
		Payload:    payload.Map(),
	}
	if err != nil {
		span.RecordError(err)
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		result.Status = StatusError
		result.Message = err.Error()
		result.MatchID = payload.MatchID
	}
	s.dispatch.record(ctx, event)
	return result, err
}

func (s *StatisticsService) collect(ctx context.Context, payload jobscheduler.CollectionPayload) (CollectResult, error) {
	if err := payload.Validate(); err != nil {
		return CollectResult{}, err
	}
	if s.source == nil {
		return CollectResult{}, fmt.Errorf("%w: statistics source is not configured", ErrDependencyUnavailable)
	}
	matchTime, err := payload.MatchTime()
	if err != nil {
		return CollectResult{}, fmt.Errorf("%w: match_datetime: %w", ErrInvalidPayload, err)
	}

	fields, err := s.source.MatchStatistics(ctx, payload.StatsURL)
	if err != nil {
		return CollectResult{}, crerr.Wrapf(err, "scrape statistics match_id=%s", payload.MatchID)
	}

	stats, err := matchstats.Extract(fields, *payload.IsHome)
	if err != nil {
		return CollectResult{}, crerr.Wrapf(err, "extract statistics match_id=%s", payload.MatchID)
	}
	stats.MatchID = payload.MatchID
	stats.Team = payload.Team
	stats.Opponent = payload.Opponent
	stats.MatchDateTime = matchTime
	stats.CollectionDateTime = s.now().In(matchTime.Location())
	stats.Source = s.cfg.Source

	if err := s.storage.SaveMatchStatistics(ctx, stats); err != nil {
		return CollectResult{}, crerr.Wrapf(fmt.Errorf("%w: %w", ErrPersistence, err), "save statistics match_id=%s", payload.MatchID)
	}

	doc := stats.ToDocument()
	result := CollectResult{
		Status:     StatusSuccess,
		Message:    fmt.Sprintf("statistics collected for %s vs %s", stats.Team, stats.Opponent),
		MatchID:    stats.MatchID,
		Statistics: &doc,
	}

	if _, err := s.Mirror(ctx); err != nil {
		s.logger.WarnContext(ctx, "refresh statistics mirror failed",
			"match_id", stats.MatchID,
			"error_kind", ErrorKind(err),
			"error", err,
		)
		return result, nil
	}
	result.Mirrored = true

	s.logger.InfoContext(ctx, "match statistics collected",
		"match_id", stats.MatchID,
		"team", stats.Team,
		"opponent", stats.Opponent,
	)
	return result, nil
}

// Mirror rewrites the spreadsheet view from the full statistics history.
func (s *StatisticsService) Mirror(ctx context.Context) (MirrorResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.Mirror")
	defer span.End()

	items, err := s.storage.GetAllMatchStatistics(ctx)
	if err != nil {
		return MirrorResult{Status: StatusError}, crerr.Wrap(fmt.Errorf("%w: %w", ErrPersistence, err), "load statistics for mirror")
	}

	rows := matchstats.SheetRows(items)
	if err := s.mirror.Replace(ctx, rows); err != nil {
		return MirrorResult{Status: StatusError}, crerr.Wrap(fmt.Errorf("%w: %w", ErrMirror, err), "replace mirror rows")
	}
	return MirrorResult{Status: StatusSuccess, RowCount: len(rows)}, nil
}

// List returns every stored statistics record.
func (s *StatisticsService) List(ctx context.Context) ([]matchstats.Statistics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.List")
	defer span.End()

	items, err := s.storage.GetAllMatchStatistics(ctx)
	if err != nil {
		return nil, crerr.Wrap(fmt.Errorf("%w: %w", ErrPersistence, err), "get all statistics")
	}
	return items, nil
}

func jobNameForPayload(payload jobscheduler.CollectionPayload) string {
	if payload.Team == "" || payload.MatchID == "" {
		return ""
	}
	return jobscheduler.JobNameFor(payload)
}
