package rules

import (
	"strings"
	"time"

	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/schema"
)

// ExprInput is the extracted value for custom-expression rules: the item
// itself plus the user the expression's playback helpers resolve against.
type ExprInput struct {
	Item   catalog.Item
	UserID string
}

// Match evaluates the compiled expression against an extracted field value.
// The value's dynamic type follows the field's value type: string for text,
// float64 for numeric/resolution/framerate, time.Time for dates, bool for
// booleans, []string for lists and similarity surfaces, and ExprInput for
// custom expressions. A nil value never matches. The returned error is
// reserved for evaluation failures (regex timeout, expression runtime
// error), never for mismatched types.
func (ce *CompiledExpression) Match(value any, now time.Time) (bool, error) {
	if value == nil {
		return false, nil
	}

	switch ce.Field.Type {
	case schema.TypeText:
		s, ok := value.(string)
		if !ok {
			return false, nil
		}
		return ce.matchText(s)

	case schema.TypeNumeric, schema.TypeResolution, schema.TypeFramerate:
		f, ok := toFloat64(value)
		if !ok {
			return false, nil
		}
		return ce.matchNumeric(f), nil

	case schema.TypeDate:
		t, ok := value.(time.Time)
		if !ok {
			return false, nil
		}
		return ce.matchDate(t, now), nil

	case schema.TypeBoolean, schema.TypeUserData:
		b, ok := value.(bool)
		if !ok {
			return false, nil
		}
		return ce.matchBool(b), nil

	case schema.TypeList, schema.TypeSimilarity:
		vs, ok := value.([]string)
		if !ok {
			return false, nil
		}
		return ce.matchList(vs)

	case schema.TypeSimple:
		in, ok := value.(ExprInput)
		if !ok || ce.program == nil {
			return false, nil
		}
		result, err := runProgram(ce.program, in.Item, in.UserID, now)
		if err != nil {
			return false, err
		}
		if ce.Operator == schema.OpNotEqual {
			return !result, nil
		}
		return result, nil
	}

	return false, nil
}

// matchText applies a single-value text comparison, case-insensitively.
func (ce *CompiledExpression) matchText(value string) (bool, error) {
	lowered := strings.ToLower(value)

	switch ce.Operator {
	case schema.OpEqual:
		return lowered == ce.targetText, nil
	case schema.OpNotEqual:
		return lowered != ce.targetText, nil
	case schema.OpContains:
		return strings.Contains(lowered, ce.targetText), nil
	case schema.OpNotContains:
		return !strings.Contains(lowered, ce.targetText), nil
	case schema.OpIn:
		return inSet(lowered, ce.targetSet), nil
	case schema.OpNotIn:
		return !inSet(lowered, ce.targetSet), nil
	case schema.OpMatchRegex:
		return matchRegexBounded(ce.regex, value, ce.regexTimeout)
	}
	return false, nil
}

// matchList applies the operator with any-element semantics: the list
// matches when at least one element satisfies the positive single-value
// test. Negative operators negate the whole-list result, so "Genres
// not-contains Action" means no genre contains "Action".
func (ce *CompiledExpression) matchList(values []string) (bool, error) {
	switch ce.Operator {
	case schema.OpEqual, schema.OpContains, schema.OpIn, schema.OpMatchRegex:
		return ce.anyElement(values)
	case schema.OpNotEqual:
		matched, err := ce.anyElementOp(schema.OpEqual, values)
		return !matched, err
	case schema.OpNotContains:
		matched, err := ce.anyElementOp(schema.OpContains, values)
		return !matched, err
	case schema.OpNotIn:
		matched, err := ce.anyElementOp(schema.OpIn, values)
		return !matched, err
	}
	return false, nil
}

func (ce *CompiledExpression) anyElement(values []string) (bool, error) {
	return ce.anyElementOp(ce.Operator, values)
}

func (ce *CompiledExpression) anyElementOp(op schema.Operator, values []string) (bool, error) {
	for _, v := range values {
		lowered := strings.ToLower(v)
		switch op {
		case schema.OpEqual:
			if lowered == ce.targetText {
				return true, nil
			}
		case schema.OpContains:
			if strings.Contains(lowered, ce.targetText) {
				return true, nil
			}
		case schema.OpIn:
			if inSet(lowered, ce.targetSet) {
				return true, nil
			}
		case schema.OpMatchRegex:
			matched, err := matchRegexBounded(ce.regex, v, ce.regexTimeout)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

func (ce *CompiledExpression) matchNumeric(value float64) bool {
	target := ce.targetNumber
	switch ce.Operator {
	case schema.OpEqual:
		return value == target
	case schema.OpNotEqual:
		return value != target
	case schema.OpGreaterThan:
		return value > target
	case schema.OpLessThan:
		return value < target
	case schema.OpGreaterThanOrEqual:
		return value >= target
	case schema.OpLessThanOrEqual:
		return value <= target
	}
	return false
}

func (ce *CompiledExpression) matchDate(value time.Time, now time.Time) bool {
	switch ce.Operator {
	case schema.OpEqual:
		return sameDay(value, ce.targetDate)
	case schema.OpNotEqual:
		return !sameDay(value, ce.targetDate)
	case schema.OpAfter:
		return !value.IsZero() && value.After(ce.targetDate)
	case schema.OpBefore:
		return !value.IsZero() && value.Before(ce.targetDate)
	case schema.OpNewerThan:
		return !value.IsZero() && now.Sub(value) <= ce.targetDuration
	case schema.OpOlderThan:
		return !value.IsZero() && now.Sub(value) > ce.targetDuration
	case schema.OpOnWeekday:
		if value.IsZero() {
			return false
		}
		day := value.UTC().Weekday()
		for _, want := range ce.targetWeekdays {
			if day == want {
				return true
			}
		}
		return false
	}
	return false
}

func (ce *CompiledExpression) matchBool(value bool) bool {
	// External-list membership: the extracted value is "item is on the
	// list"; equal means present, not-equal means absent.
	if ce.Field.Name == schema.FieldExternalList {
		if ce.Operator == schema.OpNotEqual {
			return !value
		}
		return value
	}

	switch ce.Operator {
	case schema.OpEqual:
		return value == ce.targetBool
	case schema.OpNotEqual:
		return value != ce.targetBool
	}
	return false
}

func inSet(value string, set []string) bool {
	for _, s := range set {
		if value == s {
			return true
		}
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
