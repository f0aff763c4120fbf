package matchstats

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestExtract_Polarity(t *testing.T) {
	t.Parallel()

	fields := Fields{
		FieldScore:              "Score: 2 - 1",
		FieldHomeShotsOnTarget:  "5",
		FieldAwayShotsOnTarget:  "3",
		FieldHomeShotsOffTarget: "7",
		FieldAwayShotsOffTarget: "4",
	}

	tests := []struct {
		name   string
		isHome bool
		want   Statistics
	}{
		{
			name:   "home side",
			isHome: true,
			want:   Statistics{IsHome: true, Goals: intPtr(2), ShotsOnTarget: intPtr(5), Shots: intPtr(12)},
		},
		{
			name:   "away side",
			isHome: false,
			want:   Statistics{IsHome: false, Goals: intPtr(1), ShotsOnTarget: intPtr(3), Shots: intPtr(7)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Extract(fields, tc.isHome)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected statistics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_MissingOffTargetLeavesShotsUnknown(t *testing.T) {
	t.Parallel()

	got, err := Extract(Fields{
		FieldScore:             "0-0",
		FieldHomeShotsOnTarget: "4",
	}, true)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Shots != nil {
		t.Fatalf("shots must be unknown, got=%d", *got.Shots)
	}
	if got.ShotsOnTarget == nil || *got.ShotsOnTarget != 4 {
		t.Fatalf("unexpected shots on target: %v", got.ShotsOnTarget)
	}
	if got.Goals == nil || *got.Goals != 0 {
		t.Fatalf("unexpected goals: %v", got.Goals)
	}
}

func TestExtract_UnparseableShotValueIsUnknown(t *testing.T) {
	t.Parallel()

	got, err := Extract(Fields{
		FieldScore:              "Score: 3 - 2",
		FieldAwayShotsOnTarget:  "n/a",
		FieldAwayShotsOffTarget: "6",
	}, false)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.ShotsOnTarget != nil || got.Shots != nil {
		t.Fatalf("expected unknown shot counters, got on=%v total=%v", got.ShotsOnTarget, got.Shots)
	}
}

func TestExtract_ScoreErrors(t *testing.T) {
	t.Parallel()

	for _, score := range []string{"", "Score: TBD", "2 : 1", "Score: -"} {
		if _, err := Extract(Fields{FieldScore: score}, true); !errors.Is(err, ErrExtraction) {
			t.Fatalf("expected ErrExtraction for %q, got %v", score, err)
		}
	}
	if _, err := Extract(Fields{}, false); !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction for missing score, got %v", err)
	}
}

func TestSheetRows(t *testing.T) {
	t.Parallel()

	early := time.Date(2024, time.April, 5, 21, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	rows := SheetRows([]Statistics{
		{MatchID: "2", Team: "Arsenal", Opponent: "Chelsea", IsHome: false, MatchDateTime: late, Goals: intPtr(1), Source: "totalcorner"},
		{MatchID: "1", Team: "Liverpool", Opponent: "Everton", IsHome: true, MatchDateTime: early, Shots: intPtr(12), ShotsOnTarget: intPtr(5), Goals: intPtr(2), Source: "totalcorner"},
	})

	want := []SheetRow{
		{Team: "Liverpool", HomeOrAway: "Home", Opponent: "Everton", ShotsAtGoal: "12", ShotsOnTarget: "5", GoalsScored: "2", MatchDate: "2024-04-05 21:00", Source: "totalcorner"},
		{Team: "Arsenal", HomeOrAway: "Away", Opponent: "Chelsea", GoalsScored: "1", MatchDate: "2024-04-07 21:00", Source: "totalcorner"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected sheet rows (-want +got):\n%s", diff)
	}
	if len(rows[0].Values()) != len(SheetHeader) {
		t.Fatalf("row width %d does not match header width %d", len(rows[0].Values()), len(SheetHeader))
	}
}

func TestDocumentRoundTripKeepsUnknownCounters(t *testing.T) {
	t.Parallel()

	item := Statistics{
		MatchID:            "1",
		Team:               "Celtic",
		Opponent:           "Rangers",
		MatchDateTime:      time.Date(2024, time.April, 5, 21, 0, 0, 0, time.UTC),
		CollectionDateTime: time.Date(2024, time.April, 6, 0, 30, 0, 0, time.UTC),
		Goals:              intPtr(0),
	}

	doc := item.ToDocument()
	if doc.Source != DefaultSource {
		t.Fatalf("expected default source, got=%q", doc.Source)
	}
	got, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	if got.Shots != nil || got.ShotsOnTarget != nil {
		t.Fatalf("unknown counters must survive persistence")
	}
	if !got.MatchDateTime.Equal(item.MatchDateTime) {
		t.Fatalf("unexpected match datetime: %s", got.MatchDateTime)
	}
}
