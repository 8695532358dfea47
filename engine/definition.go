package engine

import (
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/listforge/listforge/rules"
)

// Definition is the on-disk form of a smart-list: rule groups plus ordering
// and trimming directives.
type Definition struct {
	// Name labels the list in logs and output.
	Name string `json:"name,omitempty"`

	// RuleGroups are OR-combined groups of AND-combined rules.
	RuleGroups rules.RuleGroups `json:"rule_groups"`

	Sort               []SortKey `json:"sort,omitempty"`
	MaxItems           int       `json:"max_items,omitempty"`
	PlaytimeCapMinutes float64   `json:"playtime_cap_minutes,omitempty"`

	// UserID is the reference user for user-specific rules.
	UserID string `json:"user_id,omitempty"`

	MediaTypes    []string `json:"media_types,omitempty"`
	IncludeExtras bool     `json:"include_extras,omitempty"`
}

// DecodeDefinition reads a JSON definition.
func DecodeDefinition(r io.Reader) (*Definition, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, &DefinitionError{Reason: "malformed definition", Err: err}
	}
	return &def, nil
}

// LoadDefinition reads a JSON definition from a file.
func LoadDefinition(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeDefinition(f)
}
