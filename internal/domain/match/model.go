package match

import (
	"strings"
	"time"
)

// CompetitionType selects the collection delay policy for a fixture.
type CompetitionType string

const (
	CompetitionDefault         CompetitionType = "default"
	CompetitionChampionsLeague CompetitionType = "champions_league"
	CompetitionCup             CompetitionType = "cup"
)

func NormalizeCompetitionType(value string) CompetitionType {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return CompetitionDefault
	}
	return CompetitionType(normalized)
}

// TrackedTeam is one team whose page is scraped for upcoming fixtures.
type TrackedTeam struct {
	Name       string
	ExternalID string
}

// Match is one upcoming fixture seen from the perspective of a tracked team.
type Match struct {
	ID              string
	Team            string
	Opponent        string
	IsHome          bool
	MatchDateTime   time.Time
	CompetitionType CompetitionType
	CollectionTime  *time.Time
	StatsURL        string
}

// WithCollectionTime returns a copy stamped with its collection instant.
func (m Match) WithCollectionTime(table DelayTable) Match {
	at := CollectionTime(m.MatchDateTime, m.CompetitionType, table)
	m.CollectionTime = &at
	return m
}

// Document is the persisted form of a Match.
type Document struct {
	MatchID         string  `json:"match_id"`
	Team            string  `json:"team"`
	Opponent        string  `json:"opponent"`
	IsHome          bool    `json:"is_home"`
	MatchDateTime   string  `json:"match_datetime"`
	CompetitionType string  `json:"competition_type"`
	CollectionTime  *string `json:"collection_time"`
	StatsURL        *string `json:"stats_url"`
}

func (m Match) ToDocument() Document {
	doc := Document{
		MatchID:         m.ID,
		Team:            m.Team,
		Opponent:        m.Opponent,
		IsHome:          m.IsHome,
		MatchDateTime:   m.MatchDateTime.Format(time.RFC3339),
		CompetitionType: string(NormalizeCompetitionType(string(m.CompetitionType))),
	}
	if m.CollectionTime != nil {
		value := m.CollectionTime.Format(time.RFC3339)
		doc.CollectionTime = &value
	}
	if url := strings.TrimSpace(m.StatsURL); url != "" {
		doc.StatsURL = &url
	}
	return doc
}

func FromDocument(doc Document) (Match, error) {
	matchTime, err := time.Parse(time.RFC3339, doc.MatchDateTime)
	if err != nil {
		return Match{}, err
	}

	out := Match{
		ID:              doc.MatchID,
		Team:            doc.Team,
		Opponent:        doc.Opponent,
		IsHome:          doc.IsHome,
		MatchDateTime:   matchTime,
		CompetitionType: NormalizeCompetitionType(doc.CompetitionType),
	}
	if doc.CollectionTime != nil && *doc.CollectionTime != "" {
		collectAt, err := time.Parse(time.RFC3339, *doc.CollectionTime)
		if err != nil {
			return Match{}, err
		}
		out.CollectionTime = &collectAt
	}
	if doc.StatsURL != nil {
		out.StatsURL = *doc.StatsURL
	}
	return out, nil
}
