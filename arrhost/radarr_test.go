package arrhost

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

type mockRadarrAPI struct {
	movies []*radarr.Movie
	calls  int
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, _ *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.calls++
	return m.movies, nil
}

func testMovie() *radarr.Movie {
	return &radarr.Movie{
		ID:       42,
		Title:    "The Matrix",
		Year:     1999,
		Overview: "A hacker discovers reality is a simulation.",
		Genres:   []string{"Action", "Sci-Fi"},
		Studio:   "Warner Bros.",
		Runtime:  136,
		Path:     "/movies/The Matrix (1999)",
		ImdbID:   "tt0133093",
		TmdbID:   603,
		Added:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Ratings: starr.OpenRatings{
			"tmdb": starr.Ratings{Value: 8.2},
		},
		MovieFile: &radarr.MovieFile{
			ID:   7,
			Path: "/movies/The Matrix (1999)/The Matrix.mkv",
			MediaInfo: &radarr.MediaInfo{
				VideoCodec:     "h265",
				AudioCodec:     "dts",
				AudioChannels:  5.1,
				AudioLanguages: "eng/jpn",
				Subtitles:      "eng",
				Resolution:     "3840x2160",
				VideoFps:       23.976,
			},
		},
	}
}

func TestItemFromMovie(t *testing.T) {
	item := ItemFromMovie(testMovie())

	assert.Equal(t, "radarr-42", item.ID)
	assert.Equal(t, "The Matrix", item.Name)
	assert.Equal(t, "Movie", item.ItemType)
	assert.Equal(t, 1999, item.ProductionYear)
	assert.Equal(t, 136.0, item.RuntimeMinutes)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, item.Genres)
	assert.Equal(t, []string{"Warner Bros."}, item.Studios)
	assert.Equal(t, "tt0133093", item.ProviderIDs["imdb"])
	assert.Equal(t, "603", item.ProviderIDs["tmdb"])
	assert.Equal(t, 8.2, item.CommunityRating)
	assert.Equal(t, "The Matrix", item.FileName)
}

func TestStreamFactsFromMovie(t *testing.T) {
	facts, ok := StreamFactsFromMovie(testMovie())
	require.True(t, ok)

	assert.Equal(t, 2160, facts.Height)
	assert.Equal(t, "h265", facts.VideoCodec)
	assert.Equal(t, []string{"eng", "jpn"}, facts.AudioLanguages)
	assert.Equal(t, "eng", facts.DefaultAudioLanguage)
	assert.Equal(t, []string{"eng"}, facts.SubtitleLanguages)
	assert.True(t, facts.HasSubtitles)
	assert.InDelta(t, 23.976, facts.Framerate, 0.001)
}

func TestStreamFactsWithoutFile(t *testing.T) {
	movie := testMovie()
	movie.MovieFile = nil

	_, ok := StreamFactsFromMovie(movie)
	assert.False(t, ok)
}

func TestRadarrSourceBatching(t *testing.T) {
	movies := make([]*radarr.Movie, 5)
	for i := range movies {
		movies[i] = &radarr.Movie{ID: int64(i + 1), Title: "Movie"}
	}
	mock := &mockRadarrAPI{movies: movies}
	source := NewRadarrSourceWithAPI(mock, 2, zerolog.Nop())

	ctx := context.Background()
	require.Equal(t, -1, source.Total(), "total is unknown before loading")

	var served int
	for {
		batch, err := source.NextBatch(ctx)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		assert.LessOrEqual(t, len(batch), 2)
		served += len(batch)
	}

	assert.Equal(t, 5, served)
	assert.Equal(t, 5, source.Total())
	assert.Equal(t, 1, mock.calls, "library loads once")
}

func TestResolutionHeight(t *testing.T) {
	assert.Equal(t, 1080, resolutionHeight("1920x1080"))
	assert.Equal(t, 2160, resolutionHeight("3840x2160"))
	assert.Equal(t, 0, resolutionHeight(""))
	assert.Equal(t, 0, resolutionHeight("1080p"))
}
