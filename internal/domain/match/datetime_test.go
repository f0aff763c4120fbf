package match

import (
	"errors"
	"testing"
	"time"
)

func TestResolveDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		now  time.Time
		want time.Time
	}{
		{
			name: "later month stays in current year",
			raw:  "04/05 21:00",
			now:  time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.April, 5, 21, 0, 0, 0, time.UTC),
		},
		{
			name: "earlier month rolls into next year",
			raw:  "01/05 21:00",
			now:  time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.January, 5, 21, 0, 0, 0, time.UTC),
		},
		{
			name: "december seen in january never rolls back",
			raw:  "12/28 20:00",
			now:  time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.December, 28, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "same month stays in current year",
			raw:  "06/01 08:30",
			now:  time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.June, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace and wide gap",
			raw:  "  12/31   23:59 ",
			now:  time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC),
		},
		{
			name: "leap day in leap year",
			raw:  "02/29 15:00",
			now:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.February, 29, 15, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDateTime(tc.raw, tc.now)
			if err != nil {
				t.Fatalf("resolve %q: %v", tc.raw, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("unexpected datetime: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResolveDateTime_UsesReferenceLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+8", 8*60*60)
	got, err := ResolveDateTime("03/02 19:45", time.Date(2024, time.March, 1, 0, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Location() != loc {
		t.Fatalf("unexpected location: got=%s want=%s", got.Location(), loc)
	}
	if got.Hour() != 19 || got.Minute() != 45 {
		t.Fatalf("unexpected wall clock: got=%s", got)
	}
}

func TestResolveDateTime_Invalid(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"Invalid date",
		"",
		"4/5 21:00",
		"04/05",
		"04/05 2100",
		"04-05 21:00",
		"02/30 10:00",
		"02/29 10:00",
		"13/01 10:00",
		"00/10 10:00",
		"04/00 10:00",
		"04/05 24:00",
		"04/05 21:60",
		"04/05 21:00 extra",
	}

	for _, raw := range inputs {
		if _, err := ResolveDateTime(raw, now); !errors.Is(err, ErrInvalidDateTime) {
			t.Fatalf("expected ErrInvalidDateTime for %q, got %v", raw, err)
		}
	}
}
