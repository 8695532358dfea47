package schema

// Stable field names. These are the identifiers rule definitions reference;
// they never change even if display labels do.
const (
	FieldName             = "Name"
	FieldSortName         = "SortName"
	FieldOverview         = "Overview"
	FieldMediaType        = "MediaType"
	FieldItemType         = "ItemType"
	FieldProductionYear   = "ProductionYear"
	FieldPremiereDate     = "PremiereDate"
	FieldDateAdded        = "DateAdded"
	FieldDateLastSaved    = "DateLastSaved"
	FieldCommunityRating  = "CommunityRating"
	FieldCriticRating     = "CriticRating"
	FieldRuntimeMinutes   = "RuntimeMinutes"
	FieldOfficialRating   = "OfficialRating"
	FieldGenres           = "Genres"
	FieldTags             = "Tags"
	FieldStudios          = "Studios"
	FieldProductionPlaces = "ProductionLocations"
	FieldFolderPath       = "FolderPath"
	FieldFileName         = "FileNameWithoutExtension"
	FieldContainer        = "Container"

	FieldHasSubtitles      = "HasSubtitles"
	FieldAudioLanguages    = "AudioLanguages"
	FieldSubtitleLanguages = "SubtitleLanguages"
	FieldVideoCodec        = "VideoCodec"
	FieldAudioCodec        = "AudioCodec"
	FieldAudioChannels     = "AudioChannels"
	FieldAudioBitrate      = "AudioBitrate"
	FieldResolution        = "Resolution"
	FieldFramerate         = "Framerate"

	FieldActors     = "Actors"
	FieldDirectors  = "Directors"
	FieldWriters    = "Writers"
	FieldProducers  = "Producers"
	FieldComposers  = "Composers"
	FieldGuestStars = "GuestStars"

	FieldCollections = "Collections"
	FieldPlaylists   = "Playlists"

	FieldSeriesName   = "SeriesName"
	FieldSeriesStudio = "SeriesStudio"
	FieldSeriesGenres = "SeriesGenres"
	FieldSeriesTags   = "SeriesTags"

	FieldNextUnwatched     = "NextUnwatched"
	FieldExternalList      = "ExternalList"
	FieldExternalListOrder = "ExternalListOrder"
	FieldLibraryName       = "LibraryName"

	FieldIsPlayed         = "IsPlayed"
	FieldPlayCount        = "PlayCount"
	FieldIsFavorite       = "IsFavorite"
	FieldLastPlayedDate   = "LastPlayedDate"
	FieldPlaybackPosition = "PlaybackPosition"

	FieldSimilarity       = "Similarity"
	FieldCustomExpression = "CustomExpression"

	FieldRandom         = "Random"
	FieldRuleBlockOrder = "RuleBlockOrder"
)

// Person roles as they appear in host metadata.
const (
	RoleActor     = "Actor"
	RoleDirector  = "Director"
	RoleWriter    = "Writer"
	RoleProducer  = "Producer"
	RoleComposer  = "Composer"
	RoleGuestStar = "GuestStar"
)

// fieldTable is the single source of truth for every filterable and
// sortable attribute. Validation, the CLI field listing, and the pipeline's
// expensive-field detection all read from the registry built out of it.
var fieldTable = []FieldMetadata{
	// Basic attributes, directly available on the candidate item.
	{Name: FieldName, Label: "Name", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators, Sortable: true, ChildAggregable: false},
	{Name: FieldSortName, Label: "Sort Name", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators, Sortable: true},
	{Name: FieldOverview, Label: "Overview", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators},
	{Name: FieldMediaType, Label: "Media Type", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators},
	{Name: FieldItemType, Label: "Item Type", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators},
	{Name: FieldProductionYear, Label: "Production Year", Type: TypeNumeric, Category: "Basic", Groups: GroupBasic, Operators: numericOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldPremiereDate, Label: "Release Date", Type: TypeDate, Category: "Basic", Groups: GroupBasic, Operators: dateOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldDateAdded, Label: "Date Added", Type: TypeDate, Category: "Basic", Groups: GroupBasic, Operators: dateOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldDateLastSaved, Label: "Date Modified", Type: TypeDate, Category: "Basic", Groups: GroupBasic, Operators: dateOperators, Sortable: true},
	{Name: FieldCommunityRating, Label: "Community Rating", Type: TypeNumeric, Category: "Basic", Groups: GroupBasic, Operators: numericOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldCriticRating, Label: "Critic Rating", Type: TypeNumeric, Category: "Basic", Groups: GroupBasic, Operators: numericOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldRuntimeMinutes, Label: "Runtime (minutes)", Type: TypeNumeric, Category: "Basic", Groups: GroupBasic, Operators: numericOperators, Sortable: true, ChildAggregable: true},
	{Name: FieldOfficialRating, Label: "Parental Rating", Type: TypeText, Category: "Basic", Groups: GroupBasic, Operators: textOperators, Sortable: true},
	{Name: FieldGenres, Label: "Genres", Type: TypeList, Category: "Basic", Groups: GroupBasic, Operators: listOperators},
	{Name: FieldTags, Label: "Tags", Type: TypeList, Category: "Basic", Groups: GroupBasic, Operators: listOperators},
	{Name: FieldStudios, Label: "Studios", Type: TypeList, Category: "Basic", Groups: GroupBasic, Operators: listOperators},
	{Name: FieldProductionPlaces, Label: "Production Locations", Type: TypeList, Category: "Basic", Groups: GroupBasic, Operators: listOperators},
	{Name: FieldFolderPath, Label: "Folder Path", Type: TypeText, Category: "File", Groups: GroupBasic, Operators: textOperators},
	{Name: FieldFileName, Label: "File Name", Type: TypeText, Category: "File", Groups: GroupBasic, Operators: textOperators},
	{Name: FieldContainer, Label: "Container", Type: TypeText, Category: "File", Groups: GroupBasic, Operators: textOperators},

	// Media stream facts, decoded from the file on demand.
	{Name: FieldHasSubtitles, Label: "Has Subtitles", Type: TypeBoolean, Category: "Streams", Groups: GroupStreams, Operators: booleanOperators},
	{Name: FieldAudioLanguages, Label: "Audio Languages", Type: TypeList, Category: "Streams", Groups: GroupStreams, Operators: listOperators},
	{Name: FieldSubtitleLanguages, Label: "Subtitle Languages", Type: TypeList, Category: "Streams", Groups: GroupStreams, Operators: listOperators},
	{Name: FieldVideoCodec, Label: "Video Codec", Type: TypeText, Category: "Streams", Groups: GroupStreams, Operators: textOperators},
	{Name: FieldAudioCodec, Label: "Audio Codec", Type: TypeText, Category: "Streams", Groups: GroupStreams, Operators: textOperators},
	{Name: FieldAudioChannels, Label: "Audio Channels", Type: TypeNumeric, Category: "Streams", Groups: GroupStreams, Operators: numericOperators},
	{Name: FieldAudioBitrate, Label: "Audio Bitrate", Type: TypeNumeric, Category: "Streams", Groups: GroupStreams, Operators: numericOperators},
	{Name: FieldResolution, Label: "Resolution", Type: TypeResolution, Category: "Streams", Groups: GroupStreams, Operators: numericOperators, Sortable: true},
	{Name: FieldFramerate, Label: "Framerate", Type: TypeFramerate, Category: "Streams", Groups: GroupStreams, Operators: numericOperators, Sortable: true},

	// Role-based person lookups.
	{Name: FieldActors, Label: "Actors", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleActor},
	{Name: FieldDirectors, Label: "Directors", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleDirector},
	{Name: FieldWriters, Label: "Writers", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleWriter},
	{Name: FieldProducers, Label: "Producers", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleProducer},
	{Name: FieldComposers, Label: "Composers", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleComposer},
	{Name: FieldGuestStars, Label: "Guest Stars", Type: TypeList, Category: "People", Groups: GroupPeople, Operators: listOperators, PersonField: true, Role: RoleGuestStar},

	// Membership lookups.
	{Name: FieldCollections, Label: "Collections", Type: TypeList, Category: "Membership", Groups: GroupCollections, Operators: listOperators},
	{Name: FieldPlaylists, Label: "Playlists", Type: TypeList, Category: "Membership", Groups: GroupPlaylists, Operators: listOperators},

	// Per-series aggregates, resolved once per series.
	{Name: FieldSeriesName, Label: "Series Name", Type: TypeText, Category: "Series", Groups: GroupSeries, Operators: textOperators, Sortable: true},
	{Name: FieldSeriesStudio, Label: "Series Studio", Type: TypeText, Category: "Series", Groups: GroupSeries, Operators: textOperators},
	{Name: FieldSeriesGenres, Label: "Series Genres", Type: TypeList, Category: "Series", Groups: GroupSeries, Operators: listOperators},
	{Name: FieldSeriesTags, Label: "Series Tags", Type: TypeList, Category: "Series", Groups: GroupSeries, Operators: listOperators},
	{Name: FieldNextUnwatched, Label: "Next Unwatched Episode", Type: TypeUserData, Category: "Series", Groups: GroupNextUnwatched, Operators: booleanOperators, UserSpecific: true},

	// External list membership and position.
	{Name: FieldExternalList, Label: "External List", Type: TypeBoolean, Category: "External", Groups: GroupExternalList, Operators: membershipOperators},
	{Name: FieldExternalListOrder, Label: "External List Order", Type: TypeNumeric, Category: "External", Groups: GroupExternalList, Sortable: true, SortOnly: true},
	{Name: FieldLibraryName, Label: "Library", Type: TypeText, Category: "External", Groups: GroupLibrary, Operators: textOperators},

	// Per-user playback state.
	{Name: FieldIsPlayed, Label: "Played", Type: TypeUserData, Category: "Playback", Groups: GroupUserData, Operators: booleanOperators, UserSpecific: true},
	{Name: FieldPlayCount, Label: "Play Count", Type: TypeNumeric, Category: "Playback", Groups: GroupUserData, Operators: numericOperators, UserSpecific: true, Sortable: true},
	{Name: FieldIsFavorite, Label: "Favorite", Type: TypeUserData, Category: "Playback", Groups: GroupUserData, Operators: booleanOperators, UserSpecific: true},
	{Name: FieldLastPlayedDate, Label: "Last Played", Type: TypeDate, Category: "Playback", Groups: GroupUserData, Operators: dateOperators, UserSpecific: true, Sortable: true},
	{Name: FieldPlaybackPosition, Label: "Playback Position (minutes)", Type: TypeNumeric, Category: "Playback", Groups: GroupUserData, Operators: numericOperators, UserSpecific: true},

	// Derived comparisons.
	{Name: FieldSimilarity, Label: "Similarity", Type: TypeSimilarity, Category: "Derived", Groups: GroupBasic, Operators: similarityOperators, Sortable: true},
	{Name: FieldCustomExpression, Label: "Custom Expression", Type: TypeSimple, Category: "Derived", Groups: GroupBasic, Operators: simpleOperators},

	// Sort-only pseudo fields.
	{Name: FieldRandom, Label: "Random", Type: TypeSimple, Category: "Sort", Groups: GroupBasic, Sortable: true, SortOnly: true},
	{Name: FieldRuleBlockOrder, Label: "Rule Block Order", Type: TypeSimple, Category: "Sort", Groups: GroupBasic, Sortable: true, SortOnly: true},
}
