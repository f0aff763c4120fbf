package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
	"github.com/riskibarqy/match-stats-scheduler/internal/usecase"
)

// Scheduler is the schedule side of the engine.
type Scheduler interface {
	Run(ctx context.Context, teams []match.TrackedTeam) (usecase.ScheduleResult, error)
	Upcoming(ctx context.Context) ([]match.Match, error)
}

// StatisticsCollector is the statistics side of the engine.
type StatisticsCollector interface {
	Collect(ctx context.Context, payload jobscheduler.CollectionPayload) (usecase.CollectResult, error)
	Mirror(ctx context.Context) (usecase.MirrorResult, error)
	List(ctx context.Context) ([]matchstats.Statistics, error)
}

type Handler struct {
	scheduler  Scheduler
	statistics StatisticsCollector
	teams      []match.TrackedTeam
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(scheduler Scheduler, statistics StatisticsCollector, teams []match.TrackedTeam, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduler:  scheduler,
		statistics: statistics,
		teams:      append([]match.TrackedTeam(nil), teams...),
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type updateScheduleRequest struct {
	Teams []string `json:"teams" validate:"omitempty,dive,required"`
}

// RunUpdateSchedule scrapes the tracked teams and registers collection jobs.
// An optional body narrows the run to a subset of the configured teams.
func (h *Handler) RunUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "RunUpdateSchedule")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: schedule service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req updateScheduleRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.selectTeams(req.Teams)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduler.Run(ctx, teams)
	if err != nil {
		usecase.ReportFailure(ctx, h.logger, "update_schedule", err, requestIDFromRequest(r))
		writeErrorWithData(ctx, w, err, result)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunCollectStats is the target the deferred-job transport fires at a
// match's collection time.
func (h *Handler) RunCollectStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "RunCollectStats")
	defer span.End()

	if h.statistics == nil {
		writeError(ctx, w, fmt.Errorf("%w: statistics service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var payload jobscheduler.CollectionPayload
	if err := decodeOptionalJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.statistics.Collect(ctx, payload)
	if err != nil {
		usecase.ReportFailure(ctx, h.logger, "collect_stats", err, requestIDFromRequest(r))
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunMirror rewrites the spreadsheet mirror from storage.
func (h *Handler) RunMirror(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "RunMirror")
	defer span.End()

	if h.statistics == nil {
		writeError(ctx, w, fmt.Errorf("%w: statistics service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.statistics.Mirror(ctx)
	if err != nil {
		usecase.ReportFailure(ctx, h.logger, "mirror", err, requestIDFromRequest(r))
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListUpcomingMatches")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: schedule service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	items, err := h.scheduler.Upcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]match.Document, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToDocument())
	}
	writeSuccess(ctx, w, http.StatusOK, listResponse[match.Document]{Items: out, Count: len(out)})
}

func (h *Handler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListStatistics")
	defer span.End()

	if h.statistics == nil {
		writeError(ctx, w, fmt.Errorf("%w: statistics service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	items, err := h.statistics.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list statistics failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchstats.Document, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToDocument())
	}
	writeSuccess(ctx, w, http.StatusOK, listResponse[matchstats.Document]{Items: out, Count: len(out)})
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func (h *Handler) selectTeams(names []string) ([]match.TrackedTeam, error) {
	if len(names) == 0 {
		return h.teams, nil
	}

	byName := make(map[string]match.TrackedTeam, len(h.teams))
	for _, team := range h.teams {
		byName[strings.ToLower(team.Name)] = team
	}

	out := make([]match.TrackedTeam, 0, len(names))
	for _, name := range names {
		team, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: team %q is not tracked", usecase.ErrInvalidInput, name)
		}
		out = append(out, team)
	}
	return out, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeOptionalJSON treats an empty body as the zero value.
func decodeOptionalJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}

	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func requestIDFromRequest(r *http.Request) string {
	for _, header := range []string{"Upstash-Message-Id", "X-Request-Id"} {
		if value := strings.TrimSpace(r.Header.Get(header)); value != "" {
			return value
		}
	}
	return ""
}
