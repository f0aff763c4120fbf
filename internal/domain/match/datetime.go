package match

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("invalid match datetime")

var partialDateTimeRegex = regexp.MustCompile(`^(\d{2})/(\d{2})\s+(\d{2}):(\d{2})$`)

// ResolveDateTime turns a "MM/DD HH:MM" string into an absolute timestamp in
// now's location. The year is now's year, or the next one when the month has
// already passed.
func ResolveDateTime(raw string, now time.Time) (time.Time, error) {
	groups := partialDateTimeRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if groups == nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match MM/DD HH:MM", ErrInvalidDateTime, raw)
	}

	parts := make([]int, 0, 4)
	for _, group := range groups[1:] {
		value, err := strconv.Atoi(group)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateTime, raw, err)
		}
		parts = append(parts, value)
	}
	month, day, hour, minute := parts[0], parts[1], parts[2], parts[3]

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %q is out of range", ErrInvalidDateTime, raw)
	}

	year := now.Year()
	if month < int(now.Month()) {
		year++
	}

	resolved := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
	// time.Date normalizes overflow (02/30 becomes 03/01); reject instead.
	if int(resolved.Month()) != month || resolved.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date in %d", ErrInvalidDateTime, raw, year)
	}

	return resolved, nil
}
