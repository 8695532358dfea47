package engine

import (
	"context"

	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/rules"
	"github.com/listforge/listforge/schema"
)

// extractor resolves field values for compiled expressions. Cheap fields
// read straight off the item; everything else goes through the run cache.
type extractor struct {
	cache  *Cache
	runCtx catalog.Context
}

func newExtractor(cache *Cache, runCtx catalog.Context) *extractor {
	return &extractor{cache: cache, runCtx: runCtx}
}

// userFor resolves the effective user for a user-specific expression.
func (x *extractor) userFor(ce *rules.CompiledExpression) string {
	if ce.Options.UserOverride != "" {
		return ce.Options.UserOverride
	}
	return x.runCtx.UserID
}

// value resolves the raw comparison value for one expression against one
// item. A nil value with nil error means the attribute is absent; the
// predicate treats that as a non-match rather than an error.
func (x *extractor) value(ctx context.Context, item catalog.Item, ce *rules.CompiledExpression) (any, error) {
	switch ce.Field.Name {
	case schema.FieldName:
		return item.Name, nil
	case schema.FieldSortName:
		return item.SortName, nil
	case schema.FieldOverview:
		return item.Overview, nil
	case schema.FieldMediaType:
		return item.MediaType, nil
	case schema.FieldItemType:
		return item.ItemType, nil
	case schema.FieldOfficialRating:
		return item.OfficialRating, nil
	case schema.FieldFolderPath:
		return item.FolderPath, nil
	case schema.FieldFileName:
		return item.FileName, nil
	case schema.FieldContainer:
		return item.Container, nil

	case schema.FieldProductionYear:
		if item.ProductionYear == 0 {
			return nil, nil
		}
		return float64(item.ProductionYear), nil
	case schema.FieldCommunityRating:
		return item.CommunityRating, nil
	case schema.FieldCriticRating:
		return item.CriticRating, nil
	case schema.FieldRuntimeMinutes:
		return item.RuntimeMinutes, nil

	case schema.FieldPremiereDate:
		return item.PremiereDate, nil
	case schema.FieldDateAdded:
		return item.DateAdded, nil
	case schema.FieldDateLastSaved:
		return item.DateLastSaved, nil

	case schema.FieldGenres:
		return x.listWithSeries(ctx, item, ce, item.Genres, func(f catalog.SeriesFacts) []string { return f.Genres })
	case schema.FieldTags:
		return x.listWithSeries(ctx, item, ce, item.Tags, func(f catalog.SeriesFacts) []string { return f.Tags })
	case schema.FieldStudios:
		return x.listWithSeries(ctx, item, ce, item.Studios, func(f catalog.SeriesFacts) []string {
			if f.Studio == "" {
				return nil
			}
			return []string{f.Studio}
		})
	case schema.FieldProductionPlaces:
		return item.ProductionLocations, nil

	case schema.FieldIsPlayed:
		return item.DataFor(x.userFor(ce)).Played, nil
	case schema.FieldPlayCount:
		return float64(item.DataFor(x.userFor(ce)).PlayCount), nil
	case schema.FieldIsFavorite:
		return item.DataFor(x.userFor(ce)).IsFavorite, nil
	case schema.FieldLastPlayedDate:
		return item.DataFor(x.userFor(ce)).LastPlayed, nil
	case schema.FieldPlaybackPosition:
		return item.DataFor(x.userFor(ce)).PositionMinutes, nil

	case schema.FieldHasSubtitles, schema.FieldAudioLanguages, schema.FieldSubtitleLanguages,
		schema.FieldVideoCodec, schema.FieldAudioCodec, schema.FieldAudioChannels,
		schema.FieldAudioBitrate, schema.FieldResolution, schema.FieldFramerate:
		return x.streamValue(ctx, item, ce)

	case schema.FieldActors, schema.FieldDirectors, schema.FieldWriters,
		schema.FieldProducers, schema.FieldComposers, schema.FieldGuestStars:
		return x.peopleNames(ctx, item.ID, ce.Field.Role)

	case schema.FieldCollections:
		depth := ce.Options.CollectionDepth
		if depth <= 0 {
			depth = 1
		}
		return x.cache.CollectionsFor(ctx, item.ID, depth)
	case schema.FieldPlaylists:
		return x.cache.PlaylistsFor(ctx, item.ID)

	case schema.FieldSeriesName, schema.FieldSeriesStudio, schema.FieldSeriesGenres, schema.FieldSeriesTags:
		return x.seriesValue(ctx, item, ce.Field.Name)

	case schema.FieldNextUnwatched:
		if item.SeriesID == "" {
			return nil, nil
		}
		next, err := x.cache.NextUnwatchedFor(ctx, item.SeriesID, x.userFor(ce))
		if err != nil {
			return nil, err
		}
		return next != "" && next == item.ID, nil

	case schema.FieldExternalList:
		pos, err := x.cache.PositionIn(ctx, ce.Value, item)
		if err != nil {
			return nil, err
		}
		return pos >= 0, nil

	case schema.FieldLibraryName:
		return x.cache.LibraryFor(ctx, item.ID)

	case schema.FieldSimilarity:
		return x.similaritySurface(ctx, item, ce.Options.SimilarityFields)

	case schema.FieldCustomExpression:
		return rules.ExprInput{Item: item, UserID: x.userFor(ce)}, nil
	}

	return nil, nil
}

// listWithSeries folds the parent series' values into an item-level list
// when the rule opted in.
func (x *extractor) listWithSeries(ctx context.Context, item catalog.Item, ce *rules.CompiledExpression, own []string, pick func(catalog.SeriesFacts) []string) (any, error) {
	if !ce.Options.IncludeParentSeriesValues || item.SeriesID == "" {
		return own, nil
	}
	facts, err := x.cache.SeriesFor(ctx, item.SeriesID)
	if err != nil {
		return nil, err
	}
	extra := pick(facts)
	if len(extra) == 0 {
		return own, nil
	}
	merged := make([]string, 0, len(own)+len(extra))
	merged = append(merged, own...)
	merged = append(merged, extra...)
	return merged, nil
}

func (x *extractor) streamValue(ctx context.Context, item catalog.Item, ce *rules.CompiledExpression) (any, error) {
	facts, err := x.cache.StreamsFor(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	switch ce.Field.Name {
	case schema.FieldHasSubtitles:
		return facts.HasSubtitles, nil
	case schema.FieldAudioLanguages:
		if ce.Options.DefaultLanguageOnly {
			return singleton(facts.DefaultAudioLanguage), nil
		}
		return facts.AudioLanguages, nil
	case schema.FieldSubtitleLanguages:
		if ce.Options.DefaultLanguageOnly {
			return singleton(facts.DefaultSubtitleLanguage), nil
		}
		return facts.SubtitleLanguages, nil
	case schema.FieldVideoCodec:
		return facts.VideoCodec, nil
	case schema.FieldAudioCodec:
		return facts.AudioCodec, nil
	case schema.FieldAudioChannels:
		return float64(facts.AudioChannels), nil
	case schema.FieldAudioBitrate:
		return float64(facts.AudioBitrate), nil
	case schema.FieldResolution:
		if facts.Height == 0 {
			return nil, nil
		}
		return float64(facts.Height), nil
	case schema.FieldFramerate:
		if facts.Framerate == 0 {
			return nil, nil
		}
		return facts.Framerate, nil
	}
	return nil, nil
}

func (x *extractor) peopleNames(ctx context.Context, itemID, role string) (any, error) {
	people, err := x.cache.PeopleFor(ctx, itemID)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range people {
		if p.Role == role {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

func (x *extractor) seriesValue(ctx context.Context, item catalog.Item, field string) (any, error) {
	if item.SeriesID == "" {
		return nil, nil
	}
	facts, err := x.cache.SeriesFor(ctx, item.SeriesID)
	if err != nil {
		return nil, err
	}
	switch field {
	case schema.FieldSeriesName:
		return facts.Name, nil
	case schema.FieldSeriesStudio:
		return facts.Studio, nil
	case schema.FieldSeriesGenres:
		return facts.Genres, nil
	case schema.FieldSeriesTags:
		return facts.Tags, nil
	}
	return nil, nil
}

func singleton(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
