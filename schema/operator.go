package schema

// Operator identifies a comparison applied between an extracted field value
// and a rule's target value.
type Operator string

const (
	OpEqual              Operator = "equal"
	OpNotEqual           Operator = "not_equal"
	OpContains           Operator = "contains"
	OpNotContains        Operator = "not_contains"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "not_in"
	OpMatchRegex         Operator = "match_regex"
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpAfter              Operator = "after"
	OpBefore             Operator = "before"
	OpNewerThan          Operator = "newer_than"
	OpOlderThan          Operator = "older_than"
	OpOnWeekday          Operator = "on_weekday"
)

// Operator sets shared by fields of the same value type. Order is
// preserved so UIs list operators consistently.
var (
	textOperators = []Operator{
		OpEqual, OpNotEqual, OpContains, OpNotContains, OpIn, OpNotIn, OpMatchRegex,
	}
	numericOperators = []Operator{
		OpEqual, OpNotEqual, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
	}
	dateOperators = []Operator{
		OpEqual, OpNotEqual, OpAfter, OpBefore, OpNewerThan, OpOlderThan, OpOnWeekday,
	}
	booleanOperators = []Operator{OpEqual, OpNotEqual}
	listOperators    = []Operator{
		OpContains, OpNotContains, OpIn, OpNotIn, OpMatchRegex,
	}
	similarityOperators = []Operator{OpEqual, OpContains, OpIn, OpMatchRegex}
	membershipOperators = []Operator{OpEqual, OpNotEqual}
	simpleOperators     = []Operator{OpEqual, OpNotEqual}
)

// MultiValued reports whether the operator parses its target value as a
// semicolon-delimited set.
func (o Operator) MultiValued() bool {
	switch o {
	case OpIn, OpNotIn, OpOnWeekday:
		return true
	}
	return false
}
