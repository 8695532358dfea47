// Package catalog defines the candidate item model and the injected
// collaborator interfaces the engine pulls attributes from. The engine never
// mutates items; it only filters, orders, and slices their identifiers.
package catalog

import "time"

// Item is one candidate media item as supplied by the host catalog. All
// fields here are cheap: direct attributes that need no side-channel lookup.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortName  string `json:"sort_name,omitempty"`
	Overview  string `json:"overview,omitempty"`
	MediaType string `json:"media_type,omitempty"` // e.g. Video, Audio
	ItemType  string `json:"item_type,omitempty"`  // e.g. Movie, Episode, Series

	ProductionYear int       `json:"production_year,omitempty"`
	PremiereDate   time.Time `json:"premiere_date,omitempty"`
	DateAdded      time.Time `json:"date_added,omitempty"`
	DateLastSaved  time.Time `json:"date_last_saved,omitempty"`

	CommunityRating float64 `json:"community_rating,omitempty"`
	CriticRating    float64 `json:"critic_rating,omitempty"`
	RuntimeMinutes  float64 `json:"runtime_minutes,omitempty"`
	OfficialRating  string  `json:"official_rating,omitempty"`

	Genres              []string `json:"genres,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	Studios             []string `json:"studios,omitempty"`
	ProductionLocations []string `json:"production_locations,omitempty"`

	FolderPath string `json:"folder_path,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	Container  string `json:"container,omitempty"`
	IsExtra    bool   `json:"is_extra,omitempty"`

	// ProviderIDs maps provider name (imdb, tmdb, tvdb, ...) to the item's
	// identifier at that provider. Used by external-list matching.
	ProviderIDs map[string]string `json:"provider_ids,omitempty"`

	// SeriesID links an episode to its parent series; empty otherwise.
	SeriesID string `json:"series_id,omitempty"`

	// IsCollection marks a nested collection (box set); ChildIDs lists the
	// contained items for child-value sort aggregation.
	IsCollection bool     `json:"is_collection,omitempty"`
	ChildIDs     []string `json:"child_ids,omitempty"`

	// UserData carries per-user playback state keyed by user identifier.
	UserData map[string]UserData `json:"user_data,omitempty"`
}

// UserData is one user's playback state for an item.
type UserData struct {
	Played          bool      `json:"played"`
	PlayCount       int       `json:"play_count"`
	IsFavorite      bool      `json:"is_favorite"`
	LastPlayed      time.Time `json:"last_played,omitempty"`
	PositionMinutes float64   `json:"position_minutes,omitempty"`
}

// DataFor returns the playback state for a user, zero-valued when absent.
func (i Item) DataFor(userID string) UserData {
	return i.UserData[userID]
}

// Person is one cast or crew credit on an item.
type Person struct {
	Name string `json:"name"`
	Role string `json:"role"` // Actor, Director, Writer, ...
}

// StreamFacts are the media-stream attributes decoded from an item's file.
type StreamFacts struct {
	AudioLanguages          []string `json:"audio_languages,omitempty"`
	SubtitleLanguages       []string `json:"subtitle_languages,omitempty"`
	DefaultAudioLanguage    string   `json:"default_audio_language,omitempty"`
	DefaultSubtitleLanguage string   `json:"default_subtitle_language,omitempty"`
	VideoCodec              string   `json:"video_codec,omitempty"`
	AudioCodec              string   `json:"audio_codec,omitempty"`
	AudioChannels           int      `json:"audio_channels,omitempty"`
	AudioBitrate            int64    `json:"audio_bitrate,omitempty"`
	Height                  int      `json:"height,omitempty"`
	Framerate               float64  `json:"framerate,omitempty"`
	HasSubtitles            bool     `json:"has_subtitles,omitempty"`
}

// SeriesFacts are aggregates resolved once per series and shared by every
// episode of that series.
type SeriesFacts struct {
	Name        string            `json:"name"`
	Studio      string            `json:"studio,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	ProviderIDs map[string]string `json:"provider_ids,omitempty"`
}

// ExternalList is a fetched external list: ordered entries identified by
// provider IDs. Position in Entries is the list position.
type ExternalList struct {
	Name    string          `json:"name"`
	Entries []ExternalEntry `json:"entries"`
}

// ExternalEntry identifies one external-list member by its provider IDs.
type ExternalEntry struct {
	ProviderIDs map[string]string `json:"provider_ids"`
}
