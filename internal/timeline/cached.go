package timeline

import (
	"context"

	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/pkg/cache"
)

// CachedSource wraps a Source with bounded per-client memoization so
// repeated dashboard renders do not regenerate identical histories.
// Safe because sources are idempotent by contract.
type CachedSource struct {
	inner     Source
	timelines *cache.LRU[string, []models.TimelineItem]
	notes     *cache.LRU[string, []models.ClientNote]
}

// NewCachedSource wraps inner with an LRU holding up to capacity clients.
func NewCachedSource(inner Source, capacity int) *CachedSource {
	return &CachedSource{
		inner:     inner,
		timelines: cache.New[string, []models.TimelineItem](capacity),
		notes:     cache.New[string, []models.ClientNote](capacity),
	}
}

// Timeline returns the cached history for a client, consulting the inner
// source on a miss.
func (c *CachedSource) Timeline(ctx context.Context, clientID string) ([]models.TimelineItem, error) {
	if items, ok := c.timelines.Get(clientID); ok {
		return items, nil
	}
	items, err := c.inner.Timeline(ctx, clientID)
	if err != nil {
		return nil, err
	}
	c.timelines.Put(clientID, items)
	return items, nil
}

// Notes returns the cached note list for a client, consulting the inner
// source on a miss.
func (c *CachedSource) Notes(ctx context.Context, clientID string) ([]models.ClientNote, error) {
	if notes, ok := c.notes.Get(clientID); ok {
		return notes, nil
	}
	notes, err := c.inner.Notes(ctx, clientID)
	if err != nil {
		return nil, err
	}
	c.notes.Put(clientID, notes)
	return notes, nil
}
