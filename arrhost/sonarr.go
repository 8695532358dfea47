package arrhost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/sonarr"

	"github.com/listforge/listforge/catalog"
)

// SonarrAPI is the subset of the Sonarr client the adapter needs.
type SonarrAPI interface {
	GetSeriesByIDContext(ctx context.Context, seriesID int64) (*sonarr.Series, error)
}

// SonarrSeries resolves per-series facts from a Sonarr instance. Series IDs
// are the adapter-prefixed form produced by this package ("sonarr-42").
type SonarrSeries struct {
	api    SonarrAPI
	logger zerolog.Logger
}

// NewSonarrSeries connects to a Sonarr instance.
func NewSonarrSeries(url, apiKey string, logger zerolog.Logger) (*SonarrSeries, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	client := sonarr.New(config)

	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Sonarr: %w", err)
	}

	return NewSonarrSeriesWithAPI(client, logger), nil
}

// NewSonarrSeriesWithAPI wraps an existing API client. Used by tests.
func NewSonarrSeriesWithAPI(api SonarrAPI, logger zerolog.Logger) *SonarrSeries {
	return &SonarrSeries{api: api, logger: logger}
}

// SeriesFor implements catalog.SeriesSource.
func (s *SonarrSeries) SeriesFor(ctx context.Context, seriesID string) (catalog.SeriesFacts, error) {
	id, err := parseSeriesID(seriesID)
	if err != nil {
		return catalog.SeriesFacts{}, err
	}

	series, err := s.api.GetSeriesByIDContext(ctx, id)
	if err != nil {
		return catalog.SeriesFacts{}, fmt.Errorf("failed to get series %s: %w", seriesID, err)
	}

	return FactsFromSeries(series), nil
}

// FactsFromSeries maps one Sonarr series to series facts.
func FactsFromSeries(series *sonarr.Series) catalog.SeriesFacts {
	facts := catalog.SeriesFacts{
		Name:        series.Title,
		Studio:      series.Network,
		Genres:      series.Genres,
		ProviderIDs: map[string]string{},
	}
	if series.ImdbID != "" {
		facts.ProviderIDs["imdb"] = series.ImdbID
	}
	if series.TvdbID != 0 {
		facts.ProviderIDs["tvdb"] = strconv.FormatInt(series.TvdbID, 10)
	}
	return facts
}

func parseSeriesID(seriesID string) (int64, error) {
	raw := strings.TrimPrefix(seriesID, "sonarr-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a Sonarr series ID: %s", seriesID)
	}
	return id, nil
}
