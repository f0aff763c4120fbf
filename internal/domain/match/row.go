package match

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrTeamNotInFixture   = errors.New("tracked team is neither home nor away")
	ErrInvalidDetailsLink = errors.New("invalid details link")
)

// Field keys of a scraped fixture row.
const (
	FieldDateTime        = "datetime"
	FieldHomeTeam        = "home_team"
	FieldAwayTeam        = "away_team"
	FieldDetailsLink     = "details_link"
	FieldCompetitionType = "competition_type"
)

// ScrapedRow is one row of a team page's upcoming fixture table.
type ScrapedRow struct {
	DateTime        string `validate:"required"`
	HomeTeam        string `validate:"required"`
	AwayTeam        string `validate:"required"`
	DetailsLink     string `validate:"required"`
	CompetitionType string
}

var (
	rowValidatorOnce sync.Once
	rowValidator     *validator.Validate
)

func structValidator() *validator.Validate {
	rowValidatorOnce.Do(func() {
		rowValidator = validator.New()
	})
	return rowValidator
}

func (r ScrapedRow) Validate() error {
	trimmed := ScrapedRow{
		DateTime:    strings.TrimSpace(r.DateTime),
		HomeTeam:    strings.TrimSpace(r.HomeTeam),
		AwayTeam:    strings.TrimSpace(r.AwayTeam),
		DetailsLink: strings.TrimSpace(r.DetailsLink),
	}
	if err := structValidator().Struct(trimmed); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingField, fieldErrs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrMissingField, err)
	}
	return nil
}

// RowFromFields builds a row out of a loose field map keyed by the Field* constants.
func RowFromFields(fields map[string]string) ScrapedRow {
	return ScrapedRow{
		DateTime:        fields[FieldDateTime],
		HomeTeam:        fields[FieldHomeTeam],
		AwayTeam:        fields[FieldAwayTeam],
		DetailsLink:     fields[FieldDetailsLink],
		CompetitionType: fields[FieldCompetitionType],
	}
}

// FromRow normalizes a scraped row into a Match seen from team's side.
// The match id is the last path segment of the details link, which is also
// kept verbatim as the statistics URL.
func FromRow(team string, row ScrapedRow, now time.Time) (Match, error) {
	if err := row.Validate(); err != nil {
		return Match{}, err
	}

	matchTime, err := ResolveDateTime(row.DateTime, now)
	if err != nil {
		return Match{}, err
	}

	home := strings.TrimSpace(row.HomeTeam)
	away := strings.TrimSpace(row.AwayTeam)
	needle := strings.ToLower(strings.TrimSpace(team))

	var isHome bool
	var opponent string
	switch {
	case needle != "" && strings.Contains(strings.ToLower(home), needle):
		isHome, opponent = true, away
	case needle != "" && strings.Contains(strings.ToLower(away), needle):
		isHome, opponent = false, home
	default:
		return Match{}, fmt.Errorf("%w: team=%q home=%q away=%q", ErrTeamNotInFixture, team, home, away)
	}

	link := strings.TrimSpace(row.DetailsLink)
	matchID := matchIDFromLink(link)
	if matchID == "" {
		return Match{}, fmt.Errorf("%w: %q", ErrInvalidDetailsLink, link)
	}

	return Match{
		ID:              matchID,
		Team:            strings.TrimSpace(team),
		Opponent:        opponent,
		IsHome:          isHome,
		MatchDateTime:   matchTime,
		CompetitionType: NormalizeCompetitionType(row.CompetitionType),
		StatsURL:        link,
	}, nil
}

func matchIDFromLink(link string) string {
	if idx := strings.IndexAny(link, "?#"); idx >= 0 {
		link = link[:idx]
	}
	link = strings.TrimRight(link, "/")
	if link == "" {
		return ""
	}
	segment := path.Base(link)
	if segment == "." || segment == "/" || strings.Contains(segment, ":") {
		return ""
	}
	return segment
}
