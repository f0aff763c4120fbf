package matchstats

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrExtraction = errors.New("statistics extraction failed")

// Field keys of a scraped stats page.
const (
	FieldScore              = "score"
	FieldHomeShotsOnTarget  = "home_shots_on_target"
	FieldAwayShotsOnTarget  = "away_shots_on_target"
	FieldHomeShotsOffTarget = "home_shots_off_target"
	FieldAwayShotsOffTarget = "away_shots_off_target"
)

// Fields is the raw field map scraped from a match detail page.
type Fields map[string]string

var scoreRegex = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// Extract derives the tracked team's goals and shots. A missing or
// malformed score is fatal; shot counters degrade to unknown.
func Extract(fields Fields, isHome bool) (Statistics, error) {
	groups := scoreRegex.FindStringSubmatch(fields[FieldScore])
	if groups == nil {
		return Statistics{}, fmt.Errorf("%w: score %q is not of the form <int> - <int>", ErrExtraction, fields[FieldScore])
	}
	homeGoals, err := strconv.Atoi(groups[1])
	if err != nil {
		return Statistics{}, fmt.Errorf("%w: home score: %v", ErrExtraction, err)
	}
	awayGoals, err := strconv.Atoi(groups[2])
	if err != nil {
		return Statistics{}, fmt.Errorf("%w: away score: %v", ErrExtraction, err)
	}

	onKey, offKey := FieldAwayShotsOnTarget, FieldAwayShotsOffTarget
	goals := awayGoals
	if isHome {
		onKey, offKey = FieldHomeShotsOnTarget, FieldHomeShotsOffTarget
		goals = homeGoals
	}

	onTarget := optionalCount(fields, onKey)
	offTarget := optionalCount(fields, offKey)

	out := Statistics{
		IsHome:        isHome,
		Goals:         &goals,
		ShotsOnTarget: onTarget,
	}
	if onTarget != nil && offTarget != nil {
		total := *onTarget + *offTarget
		out.Shots = &total
	}
	return out, nil
}

func optionalCount(fields Fields, key string) *int {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return nil
	}
	return &value
}
