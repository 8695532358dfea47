package catalog

import "context"

// Lookup interfaces for every expensive extraction group. The host injects
// implementations; the engine owns none of them. Each call may be expensive,
// so the engine memoizes results per run.

// PeopleSource resolves cast and crew credits for an item.
type PeopleSource interface {
	PeopleFor(ctx context.Context, itemID string) ([]Person, error)
}

// CollectionSource resolves the collections an item belongs to. Depth > 1
// follows collection-of-collection nesting.
type CollectionSource interface {
	CollectionsFor(ctx context.Context, itemID string, depth int) ([]string, error)
}

// PlaylistSource resolves the playlists an item appears in.
type PlaylistSource interface {
	PlaylistsFor(ctx context.Context, itemID string) ([]string, error)
}

// StreamSource decodes media-stream facts for an item's file.
type StreamSource interface {
	StreamsFor(ctx context.Context, itemID string) (StreamFacts, error)
}

// SeriesSource resolves per-series aggregates by series identifier.
type SeriesSource interface {
	SeriesFor(ctx context.Context, seriesID string) (SeriesFacts, error)
}

// NextUnwatchedSource returns the item ID of the next unwatched episode of a
// series for a user, or empty when the series is fully watched.
type NextUnwatchedSource interface {
	NextUnwatched(ctx context.Context, seriesID, userID string) (string, error)
}

// ExternalListSource fetches an external list by name.
type ExternalListSource interface {
	FetchList(ctx context.Context, name string) (ExternalList, error)
}

// LibrarySource resolves the name of the library an item lives in.
type LibrarySource interface {
	LibraryFor(ctx context.Context, itemID string) (string, error)
}

// Lookups bundles every injected attribute source. A nil source is allowed
// as long as no rule references the corresponding extraction group; the
// engine rejects the definition otherwise.
type Lookups struct {
	People        PeopleSource
	Collections   CollectionSource
	Playlists     PlaylistSource
	Streams       StreamSource
	Series        SeriesSource
	NextUnwatched NextUnwatchedSource
	ExternalLists ExternalListSource
	Libraries     LibrarySource
}
