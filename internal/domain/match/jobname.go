package match

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// MaxJobNameLength is the longest name the job backend accepts.
const MaxJobNameLength = 64

var jobNameUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// JobName derives the deferred job name for one collection. Names longer than
// MaxJobNameLength keep a readable prefix and end with a hash of the raw team
// and match id, so neither truncation nor sanitizing merges two jobs.
func JobName(team, matchID string) string {
	name := "collect-stats-" + sanitizeJobSegment(team) + "-" + sanitizeJobSegment(matchID)
	if len(name) <= MaxJobNameLength {
		return name
	}

	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(team + "\x00" + matchID))
	suffix := fmt.Sprintf("%016x", hasher.Sum64())

	prefix := strings.TrimRight(name[:MaxJobNameLength-len(suffix)-1], "-")
	return prefix + "-" + suffix
}

func sanitizeJobSegment(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, " ", "-")
	return jobNameUnsafeCharRegex.ReplaceAllString(value, "_")
}
