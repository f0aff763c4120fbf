package postgres

import (
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
)

type scheduledMatchTableModel struct {
	MatchID         string     `db:"match_id"`
	Team            string     `db:"team"`
	Opponent        string     `db:"opponent"`
	IsHome          bool       `db:"is_home"`
	MatchDateTime   time.Time  `db:"match_datetime"`
	CompetitionType string     `db:"competition_type"`
	CollectionTime  *time.Time `db:"collection_time"`
	StatsURL        string     `db:"stats_url"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func scheduledMatchModelFrom(item match.Match, updatedAt time.Time) scheduledMatchTableModel {
	var collectionTime *time.Time
	if item.CollectionTime != nil {
		at := item.CollectionTime.UTC()
		collectionTime = &at
	}
	return scheduledMatchTableModel{
		MatchID:         item.ID,
		Team:            item.Team,
		Opponent:        item.Opponent,
		IsHome:          item.IsHome,
		MatchDateTime:   item.MatchDateTime.UTC(),
		CompetitionType: string(match.NormalizeCompetitionType(string(item.CompetitionType))),
		CollectionTime:  collectionTime,
		StatsURL:        item.StatsURL,
		UpdatedAt:       updatedAt.UTC(),
	}
}

func (m scheduledMatchTableModel) toDomain(loc *time.Location) match.Match {
	var collectionTime *time.Time
	if m.CollectionTime != nil {
		at := m.CollectionTime.In(loc)
		collectionTime = &at
	}
	return match.Match{
		ID:              m.MatchID,
		Team:            m.Team,
		Opponent:        m.Opponent,
		IsHome:          m.IsHome,
		MatchDateTime:   m.MatchDateTime.In(loc),
		CompetitionType: match.NormalizeCompetitionType(m.CompetitionType),
		CollectionTime:  collectionTime,
		StatsURL:        m.StatsURL,
	}
}
