// Package arrhost builds catalog items and stream-fact lookups from Radarr
// and Sonarr libraries.
package arrhost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/listforge/listforge/catalog"
)

const enrichConcurrency = 10

// RadarrAPI is the subset of the Radarr client the adapter needs.
type RadarrAPI interface {
	GetMovieContext(ctx context.Context, mov *radarr.GetMovie) ([]*radarr.Movie, error)
}

// RadarrSource serves a Radarr movie library as engine candidates and
// stream facts. It loads the library on first use and then serves batches
// from memory.
type RadarrSource struct {
	api    RadarrAPI
	logger zerolog.Logger
	batch  int

	mu      sync.Mutex
	items   []catalog.Item
	streams map[string]catalog.StreamFacts
	loaded  bool
	pos     int
}

// NewRadarrSource connects to a Radarr instance.
func NewRadarrSource(url, apiKey string, batchSize int, logger zerolog.Logger) (*RadarrSource, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	client := radarr.New(config)

	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewRadarrSourceWithAPI(client, batchSize, logger), nil
}

// NewRadarrSourceWithAPI wraps an existing API client. Used by tests.
func NewRadarrSourceWithAPI(api RadarrAPI, batchSize int, logger zerolog.Logger) *RadarrSource {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &RadarrSource{api: api, logger: logger, batch: batchSize}
}

func (s *RadarrSource) load(ctx context.Context) error {
	movies, err := s.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return fmt.Errorf("failed to get movies: %w", err)
	}
	s.logger.Debug().Int("movies", len(movies)).Msg("retrieved Radarr library")

	items := make([]catalog.Item, len(movies))
	streams := make(map[string]catalog.StreamFacts, len(movies))
	var streamsMu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i, movie := range movies {
		g.Go(func() error {
			item := ItemFromMovie(movie)
			items[i] = item
			if facts, ok := StreamFactsFromMovie(movie); ok {
				streamsMu.Lock()
				streams[item.ID] = facts
				streamsMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.items = items
	s.streams = streams
	s.loaded = true
	return nil
}

// NextBatch implements catalog.Source.
func (s *RadarrSource) NextBatch(ctx context.Context) ([]catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return nil, err
		}
	}
	if s.pos >= len(s.items) {
		return nil, nil
	}
	end := min(s.pos+s.batch, len(s.items))
	batch := s.items[s.pos:end]
	s.pos = end
	return batch, nil
}

// Total implements catalog.Source. Unknown until the library is loaded.
func (s *RadarrSource) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return -1
	}
	return len(s.items)
}

// StreamsFor implements catalog.StreamSource from the movie files' decoded
// media info.
func (s *RadarrSource) StreamsFor(ctx context.Context, itemID string) (catalog.StreamFacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return catalog.StreamFacts{}, err
		}
	}
	return s.streams[itemID], nil
}

// ItemFromMovie maps one Radarr movie to a candidate item.
func ItemFromMovie(movie *radarr.Movie) catalog.Item {
	item := catalog.Item{
		ID:             "radarr-" + strconv.FormatInt(movie.ID, 10),
		Name:           movie.Title,
		SortName:       movie.SortTitle,
		Overview:       movie.Overview,
		MediaType:      "Video",
		ItemType:       "Movie",
		ProductionYear: movie.Year,
		DateAdded:      movie.Added,
		RuntimeMinutes: float64(movie.Runtime),
		Genres:         movie.Genres,
		FolderPath:     movie.Path,
		ProviderIDs:    map[string]string{},
	}

	if movie.Studio != "" {
		item.Studios = []string{movie.Studio}
	}
	if movie.ImdbID != "" {
		item.ProviderIDs["imdb"] = movie.ImdbID
	}
	if movie.TmdbID != 0 {
		item.ProviderIDs["tmdb"] = strconv.FormatInt(movie.TmdbID, 10)
	}
	if !movie.InCinemas.IsZero() {
		item.PremiereDate = movie.InCinemas
	}

	if rating, ok := movie.Ratings["tmdb"]; ok {
		item.CommunityRating = rating.Value
	} else if rating, ok := movie.Ratings["imdb"]; ok {
		item.CommunityRating = rating.Value
	}

	if movie.MovieFile != nil {
		item.FileName = baseName(movie.MovieFile.Path)
		if !movie.MovieFile.DateAdded.IsZero() {
			item.DateLastSaved = movie.MovieFile.DateAdded
		}
	}

	return item
}

// StreamFactsFromMovie extracts stream facts from a movie file's media
// info. Reports false when the movie has no decoded file.
func StreamFactsFromMovie(movie *radarr.Movie) (catalog.StreamFacts, bool) {
	if movie.MovieFile == nil || movie.MovieFile.MediaInfo == nil {
		return catalog.StreamFacts{}, false
	}
	info := movie.MovieFile.MediaInfo

	facts := catalog.StreamFacts{
		VideoCodec:        info.VideoCodec,
		AudioCodec:        info.AudioCodec,
		AudioChannels:     int(info.AudioChannels),
		AudioBitrate:      int64(info.AudioBitrate),
		Framerate:         info.VideoFps,
		AudioLanguages:    splitLanguages(info.AudioLanguages),
		SubtitleLanguages: splitLanguages(info.Subtitles),
	}
	facts.HasSubtitles = len(facts.SubtitleLanguages) > 0
	if len(facts.AudioLanguages) > 0 {
		facts.DefaultAudioLanguage = facts.AudioLanguages[0]
	}
	if len(facts.SubtitleLanguages) > 0 {
		facts.DefaultSubtitleLanguage = facts.SubtitleLanguages[0]
	}
	facts.Height = resolutionHeight(info.Resolution)

	return facts, true
}

// splitLanguages parses Radarr's slash-separated language lists.
func splitLanguages(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// resolutionHeight parses a "WxH" resolution string.
func resolutionHeight(resolution string) int {
	_, h, ok := strings.Cut(resolution, "x")
	if !ok {
		return 0
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0
	}
	return height
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		path = path[idx+1:]
	}
	if idx := strings.LastIndex(path, "."); idx > 0 {
		path = path[:idx]
	}
	return path
}
