package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	jobschedulermock "github.com/riskibarqy/match-stats-scheduler/internal/mocks/domain/jobscheduler"
	usecasemock "github.com/riskibarqy/match-stats-scheduler/internal/mocks/usecase"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

var collectNow = time.Date(2024, time.April, 5, 22, 30, 0, 0, time.UTC)

func newTestStatisticsService(
	source StatisticsSource,
	storage StorageGateway,
	mirror StatisticsMirror,
	dispatchRepo jobscheduler.Repository,
) *StatisticsService {
	svc := NewStatisticsService(source, storage, mirror, dispatchRepo, StatisticsConfig{}, logging.NewNop())
	svc.now = func() time.Time { return collectNow }
	return svc
}

func awayPayload() jobscheduler.CollectionPayload {
	isHome := false
	return jobscheduler.CollectionPayload{
		MatchID:       "4455",
		Team:          "Chelsea",
		Opponent:      "Arsenal",
		IsHome:        &isHome,
		MatchDateTime: "2024-04-05T20:00:00Z",
		StatsURL:      "https://www.totalcorner.com/match/detail/4455",
		DispatchID:    "dsp_1",
	}
}

func awayFields() matchstats.Fields {
	return matchstats.Fields{
		matchstats.FieldScore:              "2 - 1",
		matchstats.FieldHomeShotsOnTarget:  "5",
		matchstats.FieldAwayShotsOnTarget:  "3",
		matchstats.FieldHomeShotsOffTarget: "7",
		matchstats.FieldAwayShotsOffTarget: "4",
	}
}

func TestStatisticsService_Collect_SavesAndMirrorsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewStatisticsSource(t)
	storage := usecasemock.NewStorageGateway(t)
	mirror := usecasemock.NewStatisticsMirror(t)
	dispatchRepo := jobschedulermock.NewRepository(t)
	svc := newTestStatisticsService(source, storage, mirror, dispatchRepo)

	payload := awayPayload()
	source.On("MatchStatistics", sameContext(ctx), payload.StatsURL).Return(awayFields(), nil).Once()

	var saved matchstats.Statistics
	storage.
		On("SaveMatchStatistics", sameContext(ctx), mock.MatchedBy(func(item matchstats.Statistics) bool {
			saved = item
			return true
		})).
		Return(nil).
		Once()
	storage.
		On("GetAllMatchStatistics", sameContext(ctx)).
		Return(func(context.Context) ([]matchstats.Statistics, error) { return []matchstats.Statistics{saved}, nil }).
		Once()
	mirror.
		On("Replace", sameContext(ctx), mock.MatchedBy(func(rows []matchstats.SheetRow) bool {
			return len(rows) == 1 && rows[0].HomeOrAway == "Away" && rows[0].ShotsAtGoal == "7"
		})).
		Return(nil).
		Once()
	dispatchRepo.
		On("UpsertEvent", sameContext(ctx), mock.MatchedBy(func(event jobscheduler.DispatchEvent) bool {
			return event.DispatchID == "dsp_1" && event.Status == jobscheduler.StatusCompleted &&
				event.JobName == "collect-stats-Chelsea-4455"
		})).
		Return(nil).
		Once()

	got, err := svc.Collect(ctx, payload)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Status != StatusSuccess || !got.Mirrored || got.MatchID != "4455" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if saved.Goals == nil || *saved.Goals != 1 {
		t.Fatalf("unexpected goals: %v", saved.Goals)
	}
	if saved.ShotsOnTarget == nil || *saved.ShotsOnTarget != 3 {
		t.Fatalf("unexpected shots on target: %v", saved.ShotsOnTarget)
	}
	if !saved.CollectionDateTime.Equal(collectNow) {
		t.Fatalf("unexpected collection time: %s", saved.CollectionDateTime)
	}
	if saved.Source != matchstats.DefaultSource {
		t.Fatalf("unexpected source: %q", saved.Source)
	}
}

func TestStatisticsService_Collect_MirrorFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewStatisticsSource(t)
	storage := usecasemock.NewStorageGateway(t)
	mirror := usecasemock.NewStatisticsMirror(t)
	svc := newTestStatisticsService(source, storage, mirror, nil)

	source.On("MatchStatistics", sameContext(ctx), mock.Anything).Return(awayFields(), nil).Once()
	storage.On("SaveMatchStatistics", sameContext(ctx), mock.Anything).Return(nil).Once()
	storage.On("GetAllMatchStatistics", sameContext(ctx)).Return([]matchstats.Statistics{}, nil).Once()
	mirror.On("Replace", sameContext(ctx), mock.Anything).Return(errors.New("quota exceeded")).Once()

	got, err := svc.Collect(ctx, awayPayload())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got.Status != StatusSuccess || got.Mirrored {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestStatisticsService_Collect_StorageFailureSkipsMirror(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewStatisticsSource(t)
	storage := usecasemock.NewStorageGateway(t)
	mirror := usecasemock.NewStatisticsMirror(t)
	dispatchRepo := jobschedulermock.NewRepository(t)
	svc := newTestStatisticsService(source, storage, mirror, dispatchRepo)

	source.On("MatchStatistics", sameContext(ctx), mock.Anything).Return(awayFields(), nil).Once()
	storage.On("SaveMatchStatistics", sameContext(ctx), mock.Anything).Return(errors.New("db down")).Once()
	dispatchRepo.
		On("UpsertEvent", sameContext(ctx), mock.MatchedBy(func(event jobscheduler.DispatchEvent) bool {
			return event.Status == jobscheduler.StatusFailed
		})).
		Return(nil).
		Once()

	got, err := svc.Collect(ctx, awayPayload())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got.Status != StatusError {
		t.Fatalf("unexpected result: %+v", got)
	}
	mirror.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestStatisticsService_Collect_ExtractionError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewStatisticsSource(t)
	storage := usecasemock.NewStorageGateway(t)
	svc := newTestStatisticsService(source, storage, nil, nil)

	source.
		On("MatchStatistics", sameContext(ctx), mock.Anything).
		Return(matchstats.Fields{matchstats.FieldScore: "postponed"}, nil).
		Once()

	_, err := svc.Collect(ctx, awayPayload())
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if kind := ErrorKind(err); kind != "extraction_error" {
		t.Fatalf("unexpected error kind: %q", kind)
	}
	storage.AssertNotCalled(t, "SaveMatchStatistics", mock.Anything, mock.Anything)
}

func TestStatisticsService_Collect_InvalidPayload(t *testing.T) {
	t.Parallel()

	svc := newTestStatisticsService(usecasemock.NewStatisticsSource(t), usecasemock.NewStorageGateway(t), nil, nil)

	payload := awayPayload()
	payload.IsHome = nil
	if _, err := svc.Collect(context.Background(), payload); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestReportFailure(t *testing.T) {
	t.Parallel()

	err := errors.Join(ErrPersistence, errors.New("db down"))
	got := ReportFailure(context.Background(), logging.NewNop(), "collect_stats", err, "req-1")
	if got.Status != StatusError || got.ErrorKind != "persistence_error" || got.RequestID != "req-1" {
		t.Fatalf("unexpected failure result: %+v", got)
	}
}
