package schema

// ExtractionGroup is a bitset identifying which side-channel lookups a
// field's value needs. A field may belong to more than one group.
type ExtractionGroup uint32

const (
	// GroupBasic covers direct item attributes (no lookup needed).
	GroupBasic ExtractionGroup = 1 << iota
	// GroupUserData covers per-user playback state carried on the item.
	GroupUserData
	GroupPeople
	GroupCollections
	GroupPlaylists
	GroupStreams
	GroupSeries
	GroupNextUnwatched
	GroupExternalList
	GroupLibrary
)

// CheapGroups are the groups resolvable without a host lookup. Anything
// outside this mask triggers two-phase filtering.
const CheapGroups = GroupBasic | GroupUserData

// Has reports whether g contains every bit of other.
func (g ExtractionGroup) Has(other ExtractionGroup) bool {
	return g&other == other
}

// Intersects reports whether g shares any bit with other.
func (g ExtractionGroup) Intersects(other ExtractionGroup) bool {
	return g&other != 0
}

// Expensive reports whether g requires any lookup outside the cheap subset.
func (g ExtractionGroup) Expensive() bool {
	return g&^CheapGroups != 0
}
