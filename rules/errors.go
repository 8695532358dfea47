package rules

import (
	"errors"
	"fmt"
)

// ValidationError identifies the offending rule when a definition fails to
// compile. Group and Rule are zero-based indexes; Rule is -1 for group-level
// problems.
type ValidationError struct {
	Group  int
	Rule   int
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Rule >= 0 {
		return fmt.Sprintf("invalid rule %d in group %d (field %q): %s", e.Rule, e.Group, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid rule group %d: %s", e.Group, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	errCollectionDepth = errors.New("collection depth out of range")
	errUserOverride    = errors.New("user override set on a field that is not user-specific")
)

func errSimilarityField(name string) error {
	return fmt.Errorf("unknown similarity field %q", name)
}
