// Package rules holds the expression model for smart-list definitions and
// compiles rule groups into validated, ready-to-evaluate predicates. All
// definition errors are caught here, before a run starts; evaluation never
// sees an invalid rule.
package rules

// Expression is a single rule: field, operator, target value, and
// field-specific options.
type Expression struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Value    string  `json:"value"`
	Options  Options `json:"options,omitempty"`
}

// Options are the field-specific knobs an expression may set. Zero values
// mean "not set".
type Options struct {
	// IncludeParentSeriesValues folds the parent series' tags/genres into an
	// episode's own when evaluating list fields.
	IncludeParentSeriesValues bool `json:"include_parent_series_values,omitempty"`
	// DefaultLanguageOnly restricts stream-language fields to the default
	// audio/subtitle stream.
	DefaultLanguageOnly bool `json:"default_language_only,omitempty"`
	// CollectionDepth controls how many levels of nested collections
	// membership lookups follow. 0 means 1.
	CollectionDepth int `json:"collection_depth,omitempty"`
	// SimilarityFields overrides the context's similarity sub-field set for
	// this expression.
	SimilarityFields []string `json:"similarity_fields,omitempty"`
	// UserOverride evaluates a user-specific field against this user instead
	// of the run's reference user.
	UserOverride string `json:"user_override,omitempty"`
}

// ExpressionSet is an ordered list of expressions combined with AND, plus an
// optional per-group result limit. An empty set matches every item.
type ExpressionSet struct {
	Expressions []Expression `json:"expressions"`
	MaxItems    int          `json:"max_items,omitempty"`
}

// RuleGroups is the top level: an ordered list of expression sets combined
// with OR. An item matches iff at least one set matches. Group order is
// preserved for rule-block-order sorting and group-relative limits.
type RuleGroups []ExpressionSet
