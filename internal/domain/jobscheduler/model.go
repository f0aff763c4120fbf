package jobscheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
)

var ErrInvalidPayload = errors.New("invalid collection payload")

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	MatchID      string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}

// CollectionPayload is the frozen copy of a scheduled match handed to the
// statistics collection job when it fires.
type CollectionPayload struct {
	MatchID       string `json:"match_id" validate:"required"`
	Team          string `json:"team" validate:"required"`
	Opponent      string `json:"opponent" validate:"required"`
	IsHome        *bool  `json:"is_home" validate:"required"`
	MatchDateTime string `json:"match_datetime" validate:"required"`
	StatsURL      string `json:"stats_url" validate:"required"`
	DispatchID    string `json:"dispatch_id,omitempty"`
}

// DeferredJob is one collection to be fired at FireAt.
type DeferredJob struct {
	Name    string
	FireAt  time.Time
	Payload CollectionPayload
}

// DeduplicationID keys the transport's duplicate suppression. It includes
// the fire instant so a rescheduled kickoff registers a fresh delivery while
// an identical re-run is still dropped.
func (j DeferredJob) DeduplicationID() string {
	return j.Name + "-" + strconv.FormatInt(j.FireAt.Unix(), 10)
}

var (
	payloadValidatorOnce sync.Once
	payloadValidator     *validator.Validate
)

func (p CollectionPayload) Validate() error {
	payloadValidatorOnce.Do(func() {
		payloadValidator = validator.New()
	})

	if err := payloadValidator.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				missing = append(missing, fieldErr.Field())
			}
			return fmt.Errorf("%w: missing %s", ErrInvalidPayload, strings.Join(missing, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := time.Parse(time.RFC3339, p.MatchDateTime); err != nil {
		return fmt.Errorf("%w: match_datetime: %v", ErrInvalidPayload, err)
	}
	return nil
}

// MatchTime parses the payload's ISO-8601 kickoff.
func (p CollectionPayload) MatchTime() (time.Time, error) {
	return time.Parse(time.RFC3339, p.MatchDateTime)
}

// PayloadFromMatch freezes the fields of m needed to collect its statistics.
func PayloadFromMatch(m match.Match) CollectionPayload {
	isHome := m.IsHome
	return CollectionPayload{
		MatchID:       m.ID,
		Team:          m.Team,
		Opponent:      m.Opponent,
		IsHome:        &isHome,
		MatchDateTime: m.MatchDateTime.Format(time.RFC3339),
		StatsURL:      m.StatsURL,
	}
}

// JobFromMatch builds the deferred collection job for a stamped match.
func JobFromMatch(m match.Match) DeferredJob {
	fireAt := m.MatchDateTime
	if m.CollectionTime != nil {
		fireAt = *m.CollectionTime
	}
	return DeferredJob{
		Name:    match.JobName(m.Team, m.ID),
		FireAt:  fireAt,
		Payload: PayloadFromMatch(m),
	}
}

// Map flattens the payload for the dispatch ledger.
func (p CollectionPayload) Map() map[string]any {
	out := map[string]any{
		"match_id":       p.MatchID,
		"team":           p.Team,
		"opponent":       p.Opponent,
		"match_datetime": p.MatchDateTime,
		"stats_url":      p.StatsURL,
	}
	if p.IsHome != nil {
		out["is_home"] = *p.IsHome
	}
	return out
}

// JobNameFor returns the deferred job name the payload was registered under.
func JobNameFor(p CollectionPayload) string {
	return match.JobName(p.Team, p.MatchID)
}
