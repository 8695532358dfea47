package schema

// ValueType identifies how a field's extracted value is compared.
type ValueType int

const (
	TypeText ValueType = iota
	TypeNumeric
	TypeDate
	TypeBoolean
	TypeList
	TypeResolution
	TypeFramerate
	TypeUserData
	TypeSimilarity
	TypeSimple
)

// String returns the human-readable name of the value type.
func (t ValueType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNumeric:
		return "numeric"
	case TypeDate:
		return "date"
	case TypeBoolean:
		return "boolean"
	case TypeList:
		return "list"
	case TypeResolution:
		return "resolution"
	case TypeFramerate:
		return "framerate"
	case TypeUserData:
		return "userdata"
	case TypeSimilarity:
		return "similarity"
	case TypeSimple:
		return "simple"
	default:
		return "unknown"
	}
}
