package matchstats

import (
	"time"
)

// DefaultSource is the provenance tag used when none is configured.
const DefaultSource = "totalcorner"

// Statistics is the tracked team's post-match numbers for one fixture.
// Nil counters mean the value was not observed on the stats page.
type Statistics struct {
	MatchID            string
	Team               string
	Opponent           string
	IsHome             bool
	MatchDateTime      time.Time
	CollectionDateTime time.Time
	Shots              *int
	ShotsOnTarget      *int
	Goals              *int
	Source             string
}

// Document is the persisted form of Statistics.
type Document struct {
	MatchID            string `json:"match_id"`
	Team               string `json:"team"`
	Opponent           string `json:"opponent"`
	IsHome             bool   `json:"is_home"`
	MatchDateTime      string `json:"match_datetime"`
	CollectionDateTime string `json:"collection_datetime"`
	Shots              *int   `json:"shots"`
	ShotsOnTarget      *int   `json:"shots_on_target"`
	Goals              *int   `json:"goals"`
	Source             string `json:"source"`
}

func (s Statistics) ToDocument() Document {
	source := s.Source
	if source == "" {
		source = DefaultSource
	}
	return Document{
		MatchID:            s.MatchID,
		Team:               s.Team,
		Opponent:           s.Opponent,
		IsHome:             s.IsHome,
		MatchDateTime:      s.MatchDateTime.Format(time.RFC3339),
		CollectionDateTime: s.CollectionDateTime.Format(time.RFC3339),
		Shots:              s.Shots,
		ShotsOnTarget:      s.ShotsOnTarget,
		Goals:              s.Goals,
		Source:             source,
	}
}

func FromDocument(doc Document) (Statistics, error) {
	matchTime, err := time.Parse(time.RFC3339, doc.MatchDateTime)
	if err != nil {
		return Statistics{}, err
	}
	collectedAt, err := time.Parse(time.RFC3339, doc.CollectionDateTime)
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{
		MatchID:            doc.MatchID,
		Team:               doc.Team,
		Opponent:           doc.Opponent,
		IsHome:             doc.IsHome,
		MatchDateTime:      matchTime,
		CollectionDateTime: collectedAt,
		Shots:              doc.Shots,
		ShotsOnTarget:      doc.ShotsOnTarget,
		Goals:              doc.Goals,
		Source:             doc.Source,
	}, nil
}
