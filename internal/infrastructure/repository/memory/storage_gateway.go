package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
)

// StorageGateway keeps serialized match and statistics documents keyed by
// match id. Reads decode fresh copies so callers never share state.
type StorageGateway struct {
	mu         sync.RWMutex
	matches    map[string][]byte
	statistics map[string][]byte
	loc        *time.Location
}

func NewStorageGateway(loc *time.Location) *StorageGateway {
	if loc == nil {
		loc = time.UTC
	}
	return &StorageGateway{
		matches:    make(map[string][]byte),
		statistics: make(map[string][]byte),
		loc:        loc,
	}
}

func (g *StorageGateway) SaveScheduledMatches(_ context.Context, items []match.Match) error {
	encoded := make(map[string][]byte, len(items))
	for _, item := range items {
		raw, err := sonic.Marshal(item.ToDocument())
		if err != nil {
			return fmt.Errorf("encode match match_id=%s: %w", item.ID, err)
		}
		encoded[item.ID] = raw
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for id, raw := range encoded {
		g.matches[id] = raw
	}
	return nil
}

func (g *StorageGateway) SaveMatchStatistics(_ context.Context, item matchstats.Statistics) error {
	raw, err := sonic.Marshal(item.ToDocument())
	if err != nil {
		return fmt.Errorf("encode statistics match_id=%s: %w", item.MatchID, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.statistics[item.MatchID] = raw
	return nil
}

func (g *StorageGateway) GetAllMatchStatistics(_ context.Context) ([]matchstats.Statistics, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]matchstats.Statistics, 0, len(g.statistics))
	for id, raw := range g.statistics {
		var doc matchstats.Document
		if err := sonic.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode statistics match_id=%s: %w", id, err)
		}
		item, err := matchstats.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("decode statistics match_id=%s: %w", id, err)
		}
		item.MatchDateTime = item.MatchDateTime.In(g.loc)
		item.CollectionDateTime = item.CollectionDateTime.In(g.loc)
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchDateTime.Equal(out[j].MatchDateTime) {
			return out[i].MatchDateTime.Before(out[j].MatchDateTime)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}

func (g *StorageGateway) GetUpcomingMatches(_ context.Context, now time.Time) ([]match.Match, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]match.Match, 0)
	for id, raw := range g.matches {
		var doc match.Document
		if err := sonic.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode match match_id=%s: %w", id, err)
		}
		item, err := match.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("decode match match_id=%s: %w", id, err)
		}
		if item.CollectionTime == nil || !item.CollectionTime.After(now) {
			continue
		}
		item.MatchDateTime = item.MatchDateTime.In(g.loc)
		at := item.CollectionTime.In(g.loc)
		item.CollectionTime = &at
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchDateTime.Equal(out[j].MatchDateTime) {
			return out[i].MatchDateTime.Before(out[j].MatchDateTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
