package matchstats

import (
	"sort"
	"strconv"
)

const sheetDateLayout = "2006-01-02 15:04"

// SheetHeader is the first row of the spreadsheet mirror.
var SheetHeader = []string{
	"Team",
	"Home Or Away",
	"Opponent",
	"Shots at Goal",
	"Shots On Target",
	"Goals Scored",
	"Match Date",
	"Source",
}

// SheetRow is one mirrored statistics record. Unknown counters render as empty cells.
type SheetRow struct {
	Team          string
	HomeOrAway    string
	Opponent      string
	ShotsAtGoal   string
	ShotsOnTarget string
	GoalsScored   string
	MatchDate     string
	Source        string
}

func (r SheetRow) Values() []string {
	return []string{
		r.Team,
		r.HomeOrAway,
		r.Opponent,
		r.ShotsAtGoal,
		r.ShotsOnTarget,
		r.GoalsScored,
		r.MatchDate,
		r.Source,
	}
}

func (s Statistics) SheetRow() SheetRow {
	homeOrAway := "Away"
	if s.IsHome {
		homeOrAway = "Home"
	}
	return SheetRow{
		Team:          s.Team,
		HomeOrAway:    homeOrAway,
		Opponent:      s.Opponent,
		ShotsAtGoal:   formatCount(s.Shots),
		ShotsOnTarget: formatCount(s.ShotsOnTarget),
		GoalsScored:   formatCount(s.Goals),
		MatchDate:     s.MatchDateTime.Format(sheetDateLayout),
		Source:        s.Source,
	}
}

// SheetRows renders records ordered by match date, then match id.
func SheetRows(items []Statistics) []SheetRow {
	sorted := append([]Statistics(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].MatchDateTime.Equal(sorted[j].MatchDateTime) {
			return sorted[i].MatchDateTime.Before(sorted[j].MatchDateTime)
		}
		return sorted[i].MatchID < sorted[j].MatchID
	})

	out := make([]SheetRow, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, item.SheetRow())
	}
	return out
}

func formatCount(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
