package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	basecache "github.com/riskibarqy/match-stats-scheduler/internal/platform/cache"
	"github.com/riskibarqy/match-stats-scheduler/internal/usecase"
)

const keyPrefix = "storage:"

// StorageGateway is a read-through decorator. Any write drops every cached read.
type StorageGateway struct {
	next  usecase.StorageGateway
	cache basecache.Cache
}

func NewStorageGateway(next usecase.StorageGateway, cache basecache.Cache) *StorageGateway {
	return &StorageGateway{next: next, cache: cache}
}

func (g *StorageGateway) SaveScheduledMatches(ctx context.Context, items []match.Match) error {
	if err := g.next.SaveScheduledMatches(ctx, items); err != nil {
		return err
	}
	// a failed invalidation leaves entries in place until their TTL
	_ = g.cache.Invalidate(ctx)
	return nil
}

func (g *StorageGateway) SaveMatchStatistics(ctx context.Context, item matchstats.Statistics) error {
	if err := g.next.SaveMatchStatistics(ctx, item); err != nil {
		return err
	}
	// a failed invalidation leaves entries in place until their TTL
	_ = g.cache.Invalidate(ctx)
	return nil
}

func (g *StorageGateway) GetAllMatchStatistics(ctx context.Context) ([]matchstats.Statistics, error) {
	items, err := basecache.Load(ctx, g.cache, keyPrefix+"statistics", func(ctx context.Context) ([]matchstats.Statistics, error) {
		items, err := g.next.GetAllMatchStatistics(ctx)
		if err != nil {
			return nil, err
		}
		return append([]matchstats.Statistics(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]matchstats.Statistics(nil), items...), nil
}

// GetUpcomingMatches caches per minute and filters the cached list by the
// exact now, so a collection time passing mid-minute is still excluded.
func (g *StorageGateway) GetUpcomingMatches(ctx context.Context, now time.Time) ([]match.Match, error) {
	bucket := now.Truncate(time.Minute)
	key := keyPrefix + "upcoming:" + strconv.FormatInt(bucket.Unix(), 10)
	items, err := basecache.Load(ctx, g.cache, key, func(ctx context.Context) ([]match.Match, error) {
		items, err := g.next.GetUpcomingMatches(ctx, bucket)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.CollectionTime != nil && item.CollectionTime.After(now) {
			out = append(out, item)
		}
	}
	return out, nil
}
