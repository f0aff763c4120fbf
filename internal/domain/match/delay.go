package match

import (
	"fmt"
	"math"
	"time"
)

// DelayTable maps a competition type to the hours to wait after kickoff
// before statistics are collected. It must carry a default entry.
type DelayTable map[CompetitionType]float64

func DefaultDelayTable() DelayTable {
	return DelayTable{
		CompetitionDefault:         2.5,
		CompetitionChampionsLeague: 3.0,
		CompetitionCup:             3.5,
	}
}

func (t DelayTable) Validate() error {
	if _, ok := t[CompetitionDefault]; !ok {
		return fmt.Errorf("delay table must contain a %q entry", CompetitionDefault)
	}
	for tag, hours := range t {
		if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
			return fmt.Errorf("delay for %q must be a non-negative number of hours, got %v", tag, hours)
		}
	}
	return nil
}

// Delay resolves the wait for a competition type, falling back to the default entry.
func (t DelayTable) Delay(competition CompetitionType) time.Duration {
	hours, ok := t[NormalizeCompetitionType(string(competition))]
	if !ok {
		hours = t[CompetitionDefault]
	}
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

// CollectionTime is the instant post-match statistics should be scraped.
func CollectionTime(matchTime time.Time, competition CompetitionType, table DelayTable) time.Time {
	return matchTime.Add(table.Delay(competition))
}
