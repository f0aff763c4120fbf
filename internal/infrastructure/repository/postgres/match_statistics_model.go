package postgres

import (
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

type matchStatisticsTableModel struct {
	MatchID            string    `db:"match_id"`
	Team               string    `db:"team"`
	Opponent           string    `db:"opponent"`
	IsHome             bool      `db:"is_home"`
	MatchDateTime      time.Time `db:"match_datetime"`
	CollectionDateTime time.Time `db:"collection_datetime"`
	Shots              *int      `db:"shots"`
	ShotsOnTarget      *int      `db:"shots_on_target"`
	Goals              *int      `db:"goals"`
	Source             string    `db:"source"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func matchStatisticsModelFrom(item matchstats.Statistics, updatedAt time.Time) matchStatisticsTableModel {
	source := item.Source
	if source == "" {
		source = matchstats.DefaultSource
	}
	return matchStatisticsTableModel{
		MatchID:            item.MatchID,
		Team:               item.Team,
		Opponent:           item.Opponent,
		IsHome:             item.IsHome,
		MatchDateTime:      item.MatchDateTime.UTC(),
		CollectionDateTime: item.CollectionDateTime.UTC(),
		Shots:              item.Shots,
		ShotsOnTarget:      item.ShotsOnTarget,
		Goals:              item.Goals,
		Source:             source,
		UpdatedAt:          updatedAt.UTC(),
	}
}

func (m matchStatisticsTableModel) toDomain(loc *time.Location) matchstats.Statistics {
	return matchstats.Statistics{
		MatchID:            m.MatchID,
		Team:               m.Team,
		Opponent:           m.Opponent,
		IsHome:             m.IsHome,
		MatchDateTime:      m.MatchDateTime.In(loc),
		CollectionDateTime: m.CollectionDateTime.In(loc),
		Shots:              m.Shots,
		ShotsOnTarget:      m.ShotsOnTarget,
		Goals:              m.Goals,
		Source:             m.Source,
	}
}
