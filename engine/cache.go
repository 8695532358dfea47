package engine

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/listforge/listforge/catalog"
)

// Cache memoizes expensive lookups for exactly one evaluation run. Each
// table is read-through: the compute function for a key executes at most
// once per run, and concurrent callers for the same key wait for the first
// caller's result instead of recomputing. Independent keys proceed
// concurrently. The whole cache is dropped when the run completes; nothing
// survives across runs.
type Cache struct {
	lookups catalog.Lookups

	people        memoTable[[]catalog.Person]
	collections   memoTable[[]string]
	playlists     memoTable[[]string]
	streams       memoTable[catalog.StreamFacts]
	series        memoTable[catalog.SeriesFacts]
	nextUnwatched memoTable[string]
	lists         memoTable[catalog.ExternalList]
	positions     memoTable[int]
	libraries     memoTable[string]
}

// NewCache creates a cache over the injected lookup sources.
func NewCache(lookups catalog.Lookups) *Cache {
	return &Cache{lookups: lookups}
}

// memoTable is a compute-once map with singleflight semantics per key.
type memoTable[V any] struct {
	mu     sync.RWMutex
	vals   map[string]V
	flight singleflight.Group
}

func (t *memoTable[V]) get(key string, compute func() (V, error)) (V, error) {
	t.mu.RLock()
	v, ok := t.vals[key]
	t.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err, _ := t.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a prior caller may have stored the
		// value between our read miss and the flight acquiring the key.
		t.mu.RLock()
		v, ok := t.vals[key]
		t.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := compute()
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		if t.vals == nil {
			t.vals = make(map[string]V)
		}
		t.vals[key] = v
		t.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return out.(V), nil
}

// PeopleFor returns all cast/crew credits for an item. Role filtering
// happens at the predicate level so one lookup serves every person field.
func (c *Cache) PeopleFor(ctx context.Context, itemID string) ([]catalog.Person, error) {
	if c.lookups.People == nil {
		return nil, ErrLookupUnavailable
	}
	return c.people.get(itemID, func() ([]catalog.Person, error) {
		return c.lookups.People.PeopleFor(ctx, itemID)
	})
}

// CollectionsFor returns the collections an item belongs to at the given
// search depth. Depth is part of the key since deeper searches see more.
func (c *Cache) CollectionsFor(ctx context.Context, itemID string, depth int) ([]string, error) {
	if c.lookups.Collections == nil {
		return nil, ErrLookupUnavailable
	}
	if depth <= 0 {
		depth = 1
	}
	key := itemID + "\x00" + strconv.Itoa(depth)
	return c.collections.get(key, func() ([]string, error) {
		return c.lookups.Collections.CollectionsFor(ctx, itemID, depth)
	})
}

// PlaylistsFor returns the playlists an item appears in.
func (c *Cache) PlaylistsFor(ctx context.Context, itemID string) ([]string, error) {
	if c.lookups.Playlists == nil {
		return nil, ErrLookupUnavailable
	}
	return c.playlists.get(itemID, func() ([]string, error) {
		return c.lookups.Playlists.PlaylistsFor(ctx, itemID)
	})
}

// StreamsFor returns media-stream facts for an item's file.
func (c *Cache) StreamsFor(ctx context.Context, itemID string) (catalog.StreamFacts, error) {
	if c.lookups.Streams == nil {
		return catalog.StreamFacts{}, ErrLookupUnavailable
	}
	return c.streams.get(itemID, func() (catalog.StreamFacts, error) {
		return c.lookups.Streams.StreamsFor(ctx, itemID)
	})
}

// SeriesFor returns per-series aggregates, computed once per series
// regardless of how many episodes reference it.
func (c *Cache) SeriesFor(ctx context.Context, seriesID string) (catalog.SeriesFacts, error) {
	if c.lookups.Series == nil {
		return catalog.SeriesFacts{}, ErrLookupUnavailable
	}
	return c.series.get(seriesID, func() (catalog.SeriesFacts, error) {
		return c.lookups.Series.SeriesFor(ctx, seriesID)
	})
}

// NextUnwatchedFor returns the item ID of the next unwatched episode for a
// (series, user) pair.
func (c *Cache) NextUnwatchedFor(ctx context.Context, seriesID, userID string) (string, error) {
	if c.lookups.NextUnwatched == nil {
		return "", ErrLookupUnavailable
	}
	key := seriesID + "\x00" + userID
	return c.nextUnwatched.get(key, func() (string, error) {
		return c.lookups.NextUnwatched.NextUnwatched(ctx, seriesID, userID)
	})
}

// ListFor fetches an external list by name, once per run.
func (c *Cache) ListFor(ctx context.Context, name string) (catalog.ExternalList, error) {
	if c.lookups.ExternalLists == nil {
		return catalog.ExternalList{}, ErrLookupUnavailable
	}
	return c.lists.get(name, func() (catalog.ExternalList, error) {
		return c.lookups.ExternalLists.FetchList(ctx, name)
	})
}

// PositionIn resolves an item's position in an external list: the item's
// own provider IDs are tried first, then the parent series' (for
// episodes). Returns -1 when absent.
func (c *Cache) PositionIn(ctx context.Context, listName string, item catalog.Item) (int, error) {
	key := listName + "\x00" + item.ID
	return c.positions.get(key, func() (int, error) {
		list, err := c.ListFor(ctx, listName)
		if err != nil {
			return 0, err
		}

		if pos := positionOf(list, item.ProviderIDs); pos >= 0 {
			return pos, nil
		}

		if item.SeriesID != "" && c.lookups.Series != nil {
			facts, err := c.SeriesFor(ctx, item.SeriesID)
			if err != nil {
				return 0, err
			}
			if pos := positionOf(list, facts.ProviderIDs); pos >= 0 {
				return pos, nil
			}
		}

		return -1, nil
	})
}

// LibraryFor returns the name of the library an item lives in.
func (c *Cache) LibraryFor(ctx context.Context, itemID string) (string, error) {
	if c.lookups.Libraries == nil {
		return "", ErrLookupUnavailable
	}
	return c.libraries.get(itemID, func() (string, error) {
		return c.lookups.Libraries.LibraryFor(ctx, itemID)
	})
}

// positionOf finds the first list entry sharing any provider ID with ids.
func positionOf(list catalog.ExternalList, ids map[string]string) int {
	if len(ids) == 0 {
		return -1
	}
	for pos, entry := range list.Entries {
		for provider, id := range entry.ProviderIDs {
			if id == "" {
				continue
			}
			if want, ok := ids[provider]; ok && strings.EqualFold(want, id) {
				return pos
			}
		}
	}
	return -1
}
