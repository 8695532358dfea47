// Package schema holds the static catalog of filterable attributes: value
// types, allowed operators, and extraction cost tiers. The registry is built
// once at process start and is read-only afterwards, so concurrent readers
// need no synchronization.
package schema

import (
	"fmt"
	"strings"
)

// FieldMetadata describes one filterable or sortable attribute.
type FieldMetadata struct {
	Name            string
	Label           string
	Type            ValueType
	Category        string
	Groups          ExtractionGroup
	Operators       []Operator
	UserSpecific    bool
	PersonField     bool
	Role            string // person role, set only when PersonField
	Sortable        bool
	SortOnly        bool // usable as a sort key but not in rules
	ChildAggregable bool
}

// Expensive reports whether evaluating this field requires a host lookup.
func (f FieldMetadata) Expensive() bool {
	return f.Groups.Expensive()
}

// AllowsOperator reports whether op is valid for this field.
func (f FieldMetadata) AllowsOperator(op Operator) bool {
	for _, o := range f.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Registry is the process-wide field catalog.
type Registry struct {
	byName  map[string]FieldMetadata // keyed by lower-cased name
	ordered []string
}

// NewRegistry builds a registry from a field table. Names must be unique
// case-insensitively, and every non-sort-only field must declare at least
// one operator.
func NewRegistry(fields []FieldMetadata) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]FieldMetadata, len(fields)),
		ordered: make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("duplicate field name %q", f.Name)
		}
		if !f.SortOnly && len(f.Operators) == 0 {
			return nil, fmt.Errorf("field %q declares no operators", f.Name)
		}
		if f.PersonField && f.Role == "" {
			return nil, fmt.Errorf("person field %q declares no role", f.Name)
		}
		r.byName[key] = f
		r.ordered = append(r.ordered, key)
	}
	return r, nil
}

// Lookup finds a field by name, case-insensitively.
func (r *Registry) Lookup(name string) (FieldMetadata, bool) {
	f, ok := r.byName[strings.ToLower(name)]
	return f, ok
}

// OperatorsFor returns the ordered operator set for a field, or nil when the
// field is unknown.
func (r *Registry) OperatorsFor(name string) []Operator {
	f, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return f.Operators
}

// GroupsOf returns the extraction-group bitset for a field.
func (r *Registry) GroupsOf(name string) ExtractionGroup {
	f, _ := r.Lookup(name)
	return f.Groups
}

// IsExpensive reports whether the named field needs a side-channel lookup.
func (r *Registry) IsExpensive(name string) bool {
	f, ok := r.Lookup(name)
	return ok && f.Expensive()
}

// Fields returns all fields in declaration order.
func (r *Registry) Fields() []FieldMetadata {
	out := make([]FieldMetadata, 0, len(r.ordered))
	for _, key := range r.ordered {
		out = append(out, r.byName[key])
	}
	return out
}

// Default is the registry built from the fixed field table.
var Default = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry(fieldTable)
	if err != nil {
		panic(err)
	}
	return r
}
