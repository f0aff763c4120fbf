package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
	"github.com/riskibarqy/match-stats-scheduler/internal/usecase"
)

// errReported marks a failure already written to stdout as a FailureResult.
var errReported = errors.New("failure reported")

type scheduler interface {
	Run(ctx context.Context, teams []match.TrackedTeam) (usecase.ScheduleResult, error)
	Upcoming(ctx context.Context) ([]match.Match, error)
}

type statisticsService interface {
	Collect(ctx context.Context, payload jobscheduler.CollectionPayload) (usecase.CollectResult, error)
	Mirror(ctx context.Context) (usecase.MirrorResult, error)
	List(ctx context.Context) ([]matchstats.Statistics, error)
}

type runtime struct {
	scheduler  scheduler
	statistics statisticsService
	teams      []match.TrackedTeam
	logger     *logging.Logger
}

type builder func(ctx context.Context) (*runtime, func(), error)

func newRootCommand(build builder, out io.Writer, in io.Reader) *cobra.Command {
	var requestID string

	root := &cobra.Command{
		Use:           "worker",
		Short:         "Short-lived match schedule and statistics jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&requestID, "request-id", "", "Correlation id attached to failure reports")

	// invoke builds the services, runs fn and prints its result. A failure is
	// reported as a FailureResult and turned into a non-zero exit.
	invoke := func(cmd *cobra.Command, function string, fn func(context.Context, *runtime) (any, error)) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		rt, cleanup, err := build(ctx)
		if err != nil {
			_ = writeJSON(out, usecase.ReportFailure(ctx, logging.Default(), function, err, requestID))
			return errReported
		}
		defer cleanup()

		result, err := fn(ctx, rt)
		if err != nil {
			failure := usecase.ReportFailure(ctx, rt.logger, function, err, requestID)
			failure.Result = result
			_ = writeJSON(out, failure)
			return errReported
		}
		return writeJSON(out, result)
	}

	var teamNames []string
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Scrape tracked teams, store upcoming matches and register collection jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd, "update_schedule", func(ctx context.Context, rt *runtime) (any, error) {
				teams, err := selectTeams(rt.teams, teamNames)
				if err != nil {
					return nil, err
				}
				return rt.scheduler.Run(ctx, teams)
			})
		},
	}
	scheduleCmd.Flags().StringSliceVar(&teamNames, "team", nil, "Limit the run to these tracked teams (repeatable)")

	var payloadJSON, payloadFile string
	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect the statistics of one finished match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd, "collect_stats", func(ctx context.Context, rt *runtime) (any, error) {
				payload, err := readPayload(payloadJSON, payloadFile, in)
				if err != nil {
					return nil, err
				}
				return rt.statistics.Collect(ctx, payload)
			})
		},
	}
	collectCmd.Flags().StringVar(&payloadJSON, "payload", "", "Collection payload as JSON")
	collectCmd.Flags().StringVar(&payloadFile, "payload-file", "", "Path to a JSON collection payload, - for stdin")
	collectCmd.MarkFlagsMutuallyExclusive("payload", "payload-file")

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Print stored matches whose collection time is still ahead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd, "upcoming", func(ctx context.Context, rt *runtime) (any, error) {
				items, err := rt.scheduler.Upcoming(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]match.Document, 0, len(items))
				for _, item := range items {
					out = append(out, item.ToDocument())
				}
				return out, nil
			})
		},
	}

	statisticsCmd := &cobra.Command{
		Use:   "statistics",
		Short: "Print every stored statistics record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd, "statistics", func(ctx context.Context, rt *runtime) (any, error) {
				items, err := rt.statistics.List(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]matchstats.Document, 0, len(items))
				for _, item := range items {
					out = append(out, item.ToDocument())
				}
				return out, nil
			})
		},
	}

	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Rewrite the spreadsheet mirror from stored statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invoke(cmd, "mirror", func(ctx context.Context, rt *runtime) (any, error) {
				return rt.statistics.Mirror(ctx)
			})
		},
	}

	root.AddCommand(scheduleCmd, collectCmd, upcomingCmd, statisticsCmd, mirrorCmd)
	return root
}

func selectTeams(tracked []match.TrackedTeam, names []string) ([]match.TrackedTeam, error) {
	if len(names) == 0 {
		return tracked, nil
	}

	out := make([]match.TrackedTeam, 0, len(names))
	for _, name := range names {
		found := false
		for _, team := range tracked {
			if strings.EqualFold(team.Name, strings.TrimSpace(name)) {
				out = append(out, team)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: team %q is not tracked", usecase.ErrInvalidInput, name)
		}
	}
	return out, nil
}

func readPayload(raw, path string, stdin io.Reader) (jobscheduler.CollectionPayload, error) {
	var data []byte
	switch {
	case strings.TrimSpace(raw) != "":
		data = []byte(raw)
	case path == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return jobscheduler.CollectionPayload{}, fmt.Errorf("%w: read stdin: %v", usecase.ErrInvalidInput, err)
		}
		data = b
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return jobscheduler.CollectionPayload{}, fmt.Errorf("%w: read payload file: %v", usecase.ErrInvalidInput, err)
		}
		data = b
	default:
		return jobscheduler.CollectionPayload{}, fmt.Errorf("%w: one of --payload or --payload-file is required", usecase.ErrInvalidInput)
	}

	var payload jobscheduler.CollectionPayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return jobscheduler.CollectionPayload{}, fmt.Errorf("%w: decode payload: %v", usecase.ErrInvalidPayload, err)
	}
	return payload, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// reportBootFailure reports errors raised before logging is configured.
func reportBootFailure(err error) usecase.FailureResult {
	return usecase.ReportFailure(context.Background(), logging.NewJSON(logging.LevelError), "worker_boot", err, "")
}
