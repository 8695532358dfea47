package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr/vm"

	"github.com/listforge/listforge/schema"
)

// MaxCollectionDepth bounds how far membership lookups follow nested
// collections.
const MaxCollectionDepth = 3

// similarity sub-fields a rule or context may select.
var similarityFieldNames = map[string]bool{
	"genres":  true,
	"tags":    true,
	"studios": true,
	"people":  true,
}

// CompiledExpression is a validated, pre-parsed rule ready for evaluation.
type CompiledExpression struct {
	Field    schema.FieldMetadata
	Operator schema.Operator
	Value    string
	Options  Options

	targetText     string // lower-cased
	targetSet      []string
	targetNumber   float64
	targetDate     time.Time
	targetDuration time.Duration
	targetBool     bool
	targetWeekdays []time.Weekday
	regex          *regexp.Regexp
	program        *vm.Program
	regexTimeout   time.Duration
}

// EffectiveGroups returns the extraction groups this expression touches.
// Folding parent-series values into a list field pulls in the series group
// on top of the field's own; a similarity rule comparing the people surface
// pulls in the people group.
func (ce *CompiledExpression) EffectiveGroups() schema.ExtractionGroup {
	groups := ce.Field.Groups
	if ce.Options.IncludeParentSeriesValues && ce.Field.Type == schema.TypeList {
		groups |= schema.GroupSeries
	}
	if ce.Field.Type == schema.TypeSimilarity {
		for _, surface := range ce.Options.SimilarityFields {
			if strings.EqualFold(surface, "people") {
				groups |= schema.GroupPeople
			}
		}
	}
	return groups
}

// Expensive reports whether this expression needs a side-channel lookup.
func (ce *CompiledExpression) Expensive() bool {
	return ce.EffectiveGroups().Expensive()
}

// CompiledSet is an AND group split into cheap and expensive sub-predicates
// for two-phase filtering.
type CompiledSet struct {
	All       []*CompiledExpression
	Cheap     []*CompiledExpression
	Expensive []*CompiledExpression
	MaxItems  int
}

// HasExpensive reports whether the set references any expensive field.
func (s *CompiledSet) HasExpensive() bool {
	return len(s.Expensive) > 0
}

// CompiledRules is the validated form of a RuleGroups definition.
type CompiledRules struct {
	Sets   []CompiledSet
	groups schema.ExtractionGroup
}

// ReferencedGroups returns the union of extraction groups referenced by any
// rule.
func (r *CompiledRules) ReferencedGroups() schema.ExtractionGroup {
	return r.groups
}

// HasExpensive reports whether any rule references an expensive field.
func (r *CompiledRules) HasExpensive() bool {
	return r.groups.Expensive()
}

// ExternalListName returns the target of the first external-list rule, or
// empty when none reference one. The external-list-order sort key consumes
// it.
func (r *CompiledRules) ExternalListName() string {
	for _, set := range r.Sets {
		for _, ce := range set.All {
			if ce.Field.Name == schema.FieldExternalList {
				return ce.Value
			}
		}
	}
	return ""
}

// Compiler validates rule groups against a field registry and pre-parses
// target values.
type Compiler struct {
	registry     *schema.Registry
	regexTimeout time.Duration
	programs     *programCache
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithRegistry replaces the default field registry.
func WithRegistry(r *schema.Registry) CompilerOption {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithRegexTimeout bounds a single regex match during evaluation.
func WithRegexTimeout(d time.Duration) CompilerOption {
	return func(c *Compiler) {
		c.regexTimeout = d
	}
}

// WithProgramCache sizes the cache of compiled custom-expression programs.
func WithProgramCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.programs = newProgramCache(size)
		}
	}
}

// NewCompiler creates a rule compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		registry:     schema.Default,
		regexTimeout: DefaultRegexTimeout,
		programs:     newProgramCache(64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates a rule-group definition and returns its evaluable form.
// Any malformed rule fails the whole definition; nothing is silently coerced
// at evaluation time.
func (c *Compiler) Compile(groups RuleGroups) (*CompiledRules, error) {
	compiled := &CompiledRules{
		Sets: make([]CompiledSet, 0, len(groups)),
	}

	for gi, group := range groups {
		if group.MaxItems < 0 {
			return nil, &ValidationError{Group: gi, Rule: -1, Reason: "max_items must not be negative"}
		}

		set := CompiledSet{
			All:      make([]*CompiledExpression, 0, len(group.Expressions)),
			MaxItems: group.MaxItems,
		}

		for ri, e := range group.Expressions {
			ce, verr := c.compileExpression(e)
			if verr != nil {
				verr.Group = gi
				verr.Rule = ri
				return nil, verr
			}
			set.All = append(set.All, ce)
			if ce.Expensive() {
				set.Expensive = append(set.Expensive, ce)
			} else {
				set.Cheap = append(set.Cheap, ce)
			}
			compiled.groups |= ce.EffectiveGroups()
		}

		compiled.Sets = append(compiled.Sets, set)
	}

	return compiled, nil
}

// compileExpression validates one rule and pre-parses its target value. The
// returned ValidationError has Group/Rule unset; the caller fills them in.
func (c *Compiler) compileExpression(e Expression) (*CompiledExpression, *ValidationError) {
	field, ok := c.registry.Lookup(e.Field)
	if !ok || field.SortOnly {
		return nil, &ValidationError{Field: e.Field, Reason: "unknown field"}
	}

	op := schema.Operator(e.Operator)
	if !field.AllowsOperator(op) {
		return nil, &ValidationError{Field: e.Field, Reason: "operator " + e.Operator + " not allowed for field"}
	}

	if err := validateOptions(field, e.Options); err != nil {
		return nil, &ValidationError{Field: e.Field, Reason: err.Error()}
	}

	ce := &CompiledExpression{
		Field:        field,
		Operator:     op,
		Value:        e.Value,
		Options:      e.Options,
		regexTimeout: c.regexTimeout,
	}

	switch field.Type {
	case schema.TypeNumeric, schema.TypeFramerate:
		n, err := strconv.ParseFloat(strings.TrimSpace(e.Value), 64)
		if err != nil {
			return nil, &ValidationError{Field: e.Field, Reason: "target is not numeric", Err: err}
		}
		ce.targetNumber = n

	case schema.TypeResolution:
		n, err := ParseResolution(e.Value)
		if err != nil {
			return nil, &ValidationError{Field: e.Field, Reason: "target is not a resolution", Err: err}
		}
		ce.targetNumber = n

	case schema.TypeDate:
		switch op {
		case schema.OpNewerThan, schema.OpOlderThan:
			d, err := ParseRelativeDuration(e.Value)
			if err != nil {
				return nil, &ValidationError{Field: e.Field, Reason: "target is not a duration", Err: err}
			}
			ce.targetDuration = d
		case schema.OpOnWeekday:
			days, err := ParseWeekdays(e.Value)
			if err != nil {
				return nil, &ValidationError{Field: e.Field, Reason: "target is not a weekday set", Err: err}
			}
			ce.targetWeekdays = days
		default:
			t, err := ParseDate(e.Value)
			if err != nil {
				return nil, &ValidationError{Field: e.Field, Reason: "target is not a date", Err: err}
			}
			ce.targetDate = t
		}

	case schema.TypeBoolean, schema.TypeUserData:
		b, err := strconv.ParseBool(strings.TrimSpace(e.Value))
		if err != nil {
			// The external-list membership field takes a list name, not a
			// boolean.
			if field.Name == schema.FieldExternalList {
				if strings.TrimSpace(e.Value) == "" {
					return nil, &ValidationError{Field: e.Field, Reason: "external list name is empty"}
				}
				break
			}
			return nil, &ValidationError{Field: e.Field, Reason: "target is not a boolean", Err: err}
		}
		ce.targetBool = b

	case schema.TypeText, schema.TypeList, schema.TypeSimilarity:
		if err := c.compileTextTarget(ce, e); err != nil {
			return nil, err
		}

	case schema.TypeSimple:
		if field.Name == schema.FieldCustomExpression {
			source := strings.TrimSpace(e.Value)
			if source == "" {
				return nil, &ValidationError{Field: e.Field, Reason: "empty expression"}
			}
			program, found := c.programs.Get(source)
			if !found {
				var err error
				program, err = compileProgram(source)
				if err != nil {
					return nil, &ValidationError{Field: e.Field, Reason: "expression failed to compile", Err: err}
				}
				c.programs.Put(source, program)
			}
			ce.program = program
		}
	}

	return ce, nil
}

func (c *Compiler) compileTextTarget(ce *CompiledExpression, e Expression) *ValidationError {
	switch ce.Operator {
	case schema.OpMatchRegex:
		re, err := regexp.Compile(e.Value)
		if err != nil {
			return &ValidationError{Field: e.Field, Reason: "invalid regex pattern", Err: err}
		}
		ce.regex = re
	case schema.OpIn, schema.OpNotIn:
		parts := splitTargetSet(e.Value)
		if len(parts) == 0 {
			return &ValidationError{Field: e.Field, Reason: "empty target set"}
		}
		ce.targetSet = make([]string, len(parts))
		for i, p := range parts {
			ce.targetSet[i] = strings.ToLower(p)
		}
	default:
		ce.targetText = strings.ToLower(e.Value)
	}
	return nil
}

func validateOptions(field schema.FieldMetadata, opts Options) error {
	if opts.CollectionDepth < 0 || opts.CollectionDepth > MaxCollectionDepth {
		return errCollectionDepth
	}
	for _, sf := range opts.SimilarityFields {
		if !similarityFieldNames[strings.ToLower(sf)] {
			return errSimilarityField(sf)
		}
	}
	if opts.UserOverride != "" && !field.UserSpecific {
		return errUserOverride
	}
	return nil
}

// Compile validates a definition with the default compiler.
func Compile(groups RuleGroups) (*CompiledRules, error) {
	return NewCompiler().Compile(groups)
}
