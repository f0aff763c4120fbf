package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/repository/memory"
	jobschedulermock "github.com/riskibarqy/match-stats-scheduler/internal/mocks/domain/jobscheduler"
	usecasemock "github.com/riskibarqy/match-stats-scheduler/internal/mocks/usecase"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return "dsp_" + string(rune('0'+g.next)), nil
}

var scheduleNow = time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)

func newTestScheduleService(
	source MatchSource,
	storage StorageGateway,
	registrar JobRegistrar,
	dispatchRepo jobscheduler.Repository,
) *ScheduleService {
	svc := NewScheduleService(source, storage, registrar, dispatchRepo, &sequenceIDs{}, ScheduleConfig{}, logging.NewNop())
	svc.now = func() time.Time { return scheduleNow }
	return svc
}

func sameContext(ctx context.Context) any {
	return mock.MatchedBy(func(v context.Context) bool { return v == ctx })
}

func TestScheduleService_Schedule_PipelineUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := usecasemock.NewStorageGateway(t)
	registrar := usecasemock.NewJobRegistrar(t)
	svc := newTestScheduleService(nil, storage, registrar, nil)

	batches := []TeamBatch{
		{
			Team: "Arsenal",
			Rows: []match.ScrapedRow{
				{DateTime: "04/09 19:00", HomeTeam: "Arsenal", AwayTeam: "Bayern Munich", DetailsLink: "/match/detail/200", CompetitionType: "champions_league"},
				{DateTime: "04/06 16:30", HomeTeam: "Arsenal", AwayTeam: "Brighton", DetailsLink: "/match/detail/100"},
				{DateTime: "04/01 10:00", HomeTeam: "Luton", AwayTeam: "Arsenal", DetailsLink: "/match/detail/050"},
				{DateTime: "bad", HomeTeam: "Arsenal", AwayTeam: "Fulham", DetailsLink: "/match/detail/300"},
			},
		},
		{
			Team: "Brighton",
			Rows: []match.ScrapedRow{
				{DateTime: "04/06 16:30", HomeTeam: "Arsenal", AwayTeam: "Brighton", DetailsLink: "/match/detail/100"},
			},
		},
	}

	kickoffLeague := time.Date(2024, time.April, 6, 16, 30, 0, 0, time.UTC)
	kickoffUCL := time.Date(2024, time.April, 9, 19, 0, 0, 0, time.UTC)
	collectLeague := kickoffLeague.Add(150 * time.Minute)
	collectUCL := kickoffUCL.Add(3 * time.Hour)
	wantSaved := []match.Match{
		{
			ID: "100", Team: "Arsenal", Opponent: "Brighton", IsHome: true,
			MatchDateTime: kickoffLeague, CompetitionType: match.CompetitionDefault,
			CollectionTime: &collectLeague, StatsURL: "/match/detail/100",
		},
		{
			ID: "200", Team: "Arsenal", Opponent: "Bayern Munich", IsHome: true,
			MatchDateTime: kickoffUCL, CompetitionType: match.CompetitionChampionsLeague,
			CollectionTime: &collectUCL, StatsURL: "/match/detail/200",
		},
	}

	storage.
		On("SaveScheduledMatches", sameContext(ctx), mock.MatchedBy(func(items []match.Match) bool {
			return cmp.Diff(wantSaved, items) == ""
		})).
		Return(nil).
		Once()
	registrar.
		On("Register", sameContext(ctx), mock.MatchedBy(func(job jobscheduler.DeferredJob) bool {
			return job.Name == "collect-stats-Arsenal-100" && job.FireAt.Equal(collectLeague)
		})).
		Return(nil).
		Once()
	registrar.
		On("Register", sameContext(ctx), mock.MatchedBy(func(job jobscheduler.DeferredJob) bool {
			return job.Name == "collect-stats-Arsenal-200" && job.FireAt.Equal(collectUCL)
		})).
		Return(nil).
		Once()

	got, err := svc.Schedule(ctx, batches)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	want := ScheduleResult{
		Status:            StatusSuccess,
		Message:           "scheduled 2 matches, registered 2 collection jobs",
		TeamCount:         2,
		ScrapedCount:      5,
		ParseFailureCount: 1,
		SkippedPastCount:  1,
		DuplicateCount:    1,
		ScheduledCount:    2,
		RegisteredCount:   2,
		MatchIDs:          []string{"100", "200"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestScheduleService_Schedule_StorageFailureRegistersNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := usecasemock.NewStorageGateway(t)
	registrar := usecasemock.NewJobRegistrar(t)
	svc := newTestScheduleService(nil, storage, registrar, nil)

	storage.
		On("SaveScheduledMatches", sameContext(ctx), mock.Anything).
		Return(errors.New("connection refused")).
		Once()

	got, err := svc.Schedule(ctx, []TeamBatch{{
		Team: "Chelsea",
		Rows: []match.ScrapedRow{{DateTime: "04/06 16:30", HomeTeam: "Chelsea", AwayTeam: "Everton", DetailsLink: "/match/detail/9"}},
	}})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got.Status != StatusError || got.RegisteredCount != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
	registrar.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestScheduleService_Schedule_EmptySkipsStorage(t *testing.T) {
	t.Parallel()

	storage := usecasemock.NewStorageGateway(t)
	registrar := usecasemock.NewJobRegistrar(t)
	svc := newTestScheduleService(nil, storage, registrar, nil)

	got, err := svc.Schedule(context.Background(), []TeamBatch{{
		Team: "Chelsea",
		Rows: []match.ScrapedRow{{DateTime: "04/01 09:00", HomeTeam: "Chelsea", AwayTeam: "Everton", DetailsLink: "/match/detail/9"}},
	}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.ScheduledCount != 0 || got.SkippedPastCount != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	storage.AssertNotCalled(t, "SaveScheduledMatches", mock.Anything, mock.Anything)
}

func TestScheduleService_Schedule_RegistrationFailureContinues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := usecasemock.NewStorageGateway(t)
	registrar := usecasemock.NewJobRegistrar(t)
	dispatchRepo := jobschedulermock.NewRepository(t)
	svc := newTestScheduleService(nil, storage, registrar, dispatchRepo)

	storage.On("SaveScheduledMatches", sameContext(ctx), mock.Anything).Return(nil).Once()
	registrar.
		On("Register", sameContext(ctx), mock.MatchedBy(func(job jobscheduler.DeferredJob) bool { return job.Payload.MatchID == "1" })).
		Return(errors.New("qstash 503")).
		Once()
	registrar.
		On("Register", sameContext(ctx), mock.MatchedBy(func(job jobscheduler.DeferredJob) bool { return job.Payload.MatchID == "2" })).
		Return(nil).
		Once()
	dispatchRepo.
		On("UpsertEvent", sameContext(ctx), mock.MatchedBy(func(event jobscheduler.DispatchEvent) bool {
			return event.MatchID == "1" && event.Status == jobscheduler.StatusFailed && event.ErrorMessage != ""
		})).
		Return(nil).
		Once()
	dispatchRepo.
		On("UpsertEvent", sameContext(ctx), mock.MatchedBy(func(event jobscheduler.DispatchEvent) bool {
			return event.MatchID == "2" && event.Status == jobscheduler.StatusSent &&
				event.JobPath == defaultCollectJobPath && event.DispatchID != ""
		})).
		Return(nil).
		Once()

	got, err := svc.Schedule(ctx, []TeamBatch{{
		Team: "Chelsea",
		Rows: []match.ScrapedRow{
			{DateTime: "04/06 16:30", HomeTeam: "Chelsea", AwayTeam: "Everton", DetailsLink: "/match/detail/1"},
			{DateTime: "04/13 16:30", HomeTeam: "Arsenal", AwayTeam: "Chelsea", DetailsLink: "/match/detail/2"},
		},
	}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.RegisteredCount != 1 || got.RegistrationFailureCount != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestScheduleService_Run_ScrapeFailureSkipsTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := usecasemock.NewMatchSource(t)
	storage := usecasemock.NewStorageGateway(t)
	registrar := usecasemock.NewJobRegistrar(t)
	svc := newTestScheduleService(source, storage, registrar, nil)

	teams := []match.TrackedTeam{
		{Name: "Arsenal", ExternalID: "1"},
		{Name: "Chelsea", ExternalID: "2"},
	}
	source.On("UpcomingMatches", sameContext(ctx), teams[0]).Return(nil, errors.New("timeout")).Once()
	source.
		On("UpcomingMatches", sameContext(ctx), teams[1]).
		Return([]match.ScrapedRow{{DateTime: "04/06 16:30", HomeTeam: "Chelsea", AwayTeam: "Everton", DetailsLink: "/match/detail/9"}}, nil).
		Once()
	storage.On("SaveScheduledMatches", sameContext(ctx), mock.Anything).Return(nil).Once()
	registrar.On("Register", sameContext(ctx), mock.Anything).Return(nil).Once()

	got, err := svc.Run(ctx, teams)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.TeamCount != 2 || got.ScrapeFailureCount != 1 || got.ScheduledCount != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestScheduleService_Upcoming_WrapsStorageError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := usecasemock.NewStorageGateway(t)
	svc := newTestScheduleService(nil, storage, nil, nil)

	storage.On("GetUpcomingMatches", sameContext(ctx), scheduleNow).Return(nil, errors.New("db down")).Once()

	if _, err := svc.Upcoming(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestScheduleService_ResolvesKickoffInSourceTimezone(t *testing.T) {
	t.Parallel()

	est := time.FixedZone("EST", -5*3600)
	// 21:00 on New Year's Eve in the source zone is already January 1st in UTC.
	clock := func() time.Time { return time.Date(2024, time.December, 31, 21, 0, 0, 0, est) }
	storage := memory.NewStorageGateway(est)
	svc := NewScheduleService(nil, storage, nil, nil, &sequenceIDs{}, ScheduleConfig{Now: clock}, logging.NewNop())

	ctx := context.Background()
	got, err := svc.Schedule(ctx, []TeamBatch{{
		Team: "Arsenal",
		Rows: []match.ScrapedRow{{DateTime: "12/31 23:00", HomeTeam: "Arsenal", AwayTeam: "Brentford", DetailsLink: "/match/detail/700"}},
	}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.ScheduledCount != 1 || got.SkippedPastCount != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}

	upcoming, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming match, got %d", len(upcoming))
	}
	want := time.Date(2024, time.December, 31, 23, 0, 0, 0, est)
	if kickoff := upcoming[0].MatchDateTime; !kickoff.Equal(want) {
		t.Fatalf("kickoff = %s, want %s", kickoff, want)
	}
}

func TestScheduleService_Schedule_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := memory.NewStorageGateway(time.UTC)
	svc := newTestScheduleService(nil, storage, nil, nil)

	batches := []TeamBatch{
		{
			Team: "Arsenal",
			Rows: []match.ScrapedRow{
				{DateTime: "04/06 16:30", HomeTeam: "Arsenal", AwayTeam: "Brighton", DetailsLink: "/match/detail/100"},
				{DateTime: "04/09 19:00", HomeTeam: "Arsenal", AwayTeam: "Bayern Munich", DetailsLink: "/match/detail/200", CompetitionType: "champions_league"},
			},
		},
		{
			Team: "Brighton",
			Rows: []match.ScrapedRow{
				{DateTime: "04/06 16:30", HomeTeam: "Arsenal", AwayTeam: "Brighton", DetailsLink: "/match/detail/100"},
			},
		},
	}

	first, err := svc.Schedule(ctx, batches)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	afterFirst, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming after first run: %v", err)
	}

	second, err := svc.Schedule(ctx, batches)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	afterSecond, err := svc.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming after second run: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rerun changed the result (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(afterFirst, afterSecond); diff != "" {
		t.Fatalf("rerun changed stored matches (-first +second):\n%s", diff)
	}
	if len(afterSecond) != 2 {
		t.Fatalf("expected 2 stored matches, got %d", len(afterSecond))
	}
}

func TestScheduleService_Schedule_SameKickoffOrderedByMatchID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := usecasemock.NewStorageGateway(t)
	svc := newTestScheduleService(nil, storage, nil, nil)

	var saved []string
	storage.
		On("SaveScheduledMatches", sameContext(ctx), mock.Anything).
		Run(func(args mock.Arguments) {
			for _, item := range args.Get(1).([]match.Match) {
				saved = append(saved, item.ID)
			}
		}).
		Return(nil).
		Once()

	got, err := svc.Schedule(ctx, []TeamBatch{
		{
			Team: "Chelsea",
			Rows: []match.ScrapedRow{
				{DateTime: "04/06 15:00", HomeTeam: "Chelsea", AwayTeam: "Everton", DetailsLink: "/match/detail/300"},
				{DateTime: "04/07 15:00", HomeTeam: "Chelsea", AwayTeam: "Wolves", DetailsLink: "/match/detail/050"},
			},
		},
		{
			Team: "Arsenal",
			Rows: []match.ScrapedRow{
				{DateTime: "04/06 15:00", HomeTeam: "Arsenal", AwayTeam: "Luton", DetailsLink: "/match/detail/120"},
			},
		},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	want := []string{"120", "300", "050"}
	if diff := cmp.Diff(want, got.MatchIDs); diff != "" {
		t.Fatalf("unexpected result order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("unexpected saved order (-want +got):\n%s", diff)
	}
}
