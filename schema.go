package distill

import (
	"fmt"
	"strings"
)

// OptionSet is the declarative schema of recognised configuration options:
// their kinds, defaults, and constraints. Parsing runs every assignment
// through a fresh AssignmentRegistry, so each option is set at most once per
// pass.
type OptionSet struct {
	options map[string]*Option
	order   []string

	evaluator ConstraintEvaluator
	cache     ProgramCache
	programs  map[string]ConstraintProgram
}

// SetOption configures an OptionSet.
type SetOption func(*OptionSet)

// WithConstraintEvaluator overrides the engine used to run option
// constraints.
func WithConstraintEvaluator(evaluator ConstraintEvaluator) SetOption {
	return func(s *OptionSet) {
		s.evaluator = evaluator
	}
}

// WithProgramCache shares a compiled constraint-program cache across
// OptionSets.
func WithProgramCache(cache ProgramCache) SetOption {
	return func(s *OptionSet) {
		s.cache = cache
	}
}

// NewOptionSet constructs an empty schema. Without options it uses the expr
// engine with a private in-memory program cache.
func NewOptionSet(opts ...SetOption) *OptionSet {
	s := &OptionSet{
		options:  make(map[string]*Option),
		programs: make(map[string]ConstraintProgram),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cache == nil {
		s.cache = NewMemoryProgramCache()
	}
	if s.evaluator == nil {
		s.evaluator = NewExprEvaluator(ExprWithProgramCache(s.cache))
	}
	return s
}

// Register adds an option to the schema, preserving declaration order.
// Declaring the same name twice is a programming error and panics.
func (s *OptionSet) Register(opt Option) *OptionSet {
	if opt.Name == "" {
		panic("distill: option name must not be empty")
	}
	if _, exists := s.options[opt.Name]; exists {
		panic(fmt.Sprintf("distill: option %q declared twice", opt.Name))
	}
	s.options[opt.Name] = &opt
	s.order = append(s.order, opt.Name)
	return s
}

// Lookup returns the declared option for name.
func (s *OptionSet) Lookup(name string) (*Option, bool) {
	opt, ok := s.options[name]
	return opt, ok
}

// Names returns the option names in declaration order.
func (s *OptionSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Parse resolves flag-style arguments ("--name value", "--name=value",
// boolean presence, and whitespace or comma separated lists) into a State.
// Every recognised assignment is converted to the option's kind, checked
// against its constraint, and recorded through a fresh AssignmentRegistry,
// so repeating an option is a hard parse error. Unrecognised names are
// collected and reported together in one UnknownOptionsError.
func (s *OptionSet) Parse(args []string) (*State, error) {
	declared := s.defaults()
	registry := NewAssignmentRegistry(true)

	var unknown []string
	i := 0
	for i < len(args) {
		arg := args[i]
		i++
		if !strings.HasPrefix(arg, "--") {
			unknown = append(unknown, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		inline := ""
		hasInline := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, inline, hasInline = name[:eq], name[eq+1:], true
		}

		opt, ok := s.options[name]
		if !ok {
			unknown = append(unknown, name)
			// Consume the unknown option's values so one typo does not
			// cascade into spurious unknowns.
			for !hasInline && i < len(args) && !strings.HasPrefix(args[i], "--") {
				i++
			}
			continue
		}

		var value any
		var raw string
		var err error
		switch {
		case opt.Kind == KindBool && !hasInline:
			// Boolean options toggle on by presence; an explicit trailing
			// true/false token is honoured when present.
			value, raw = true, "true"
			if i < len(args) && !strings.HasPrefix(args[i], "--") {
				if parsed, convErr := opt.convertScalar(args[i]); convErr == nil {
					value, raw = parsed, args[i]
					i++
				}
			}
		case opt.isList():
			var tokens []string
			if hasInline {
				tokens = splitListTokens(inline)
			} else {
				for i < len(args) && !strings.HasPrefix(args[i], "--") {
					tokens = append(tokens, args[i])
					i++
				}
			}
			raw = strings.Join(tokens, ",")
			value, err = opt.convertList(tokens)
		default:
			if hasInline {
				raw = inline
			} else {
				if i >= len(args) || strings.HasPrefix(args[i], "--") {
					return nil, &InvalidValueError{Option: name, Value: "", Err: fmt.Errorf("missing value")}
				}
				raw = args[i]
				i++
			}
			value, err = opt.convertScalar(raw)
		}
		if err != nil {
			return nil, err
		}
		if err := s.check(opt, value, raw); err != nil {
			return nil, err
		}
		if err := registry.MarkSet(name, value); err != nil {
			return nil, err
		}
		declared[name] = value
	}

	if len(unknown) > 0 {
		return nil, &UnknownOptionsError{Names: unknown}
	}
	return newState(declared), nil
}

// Reconstruct rebuilds a State from a trusted snapshot, e.g. on a worker
// process receiving the coordinator's resolved configuration. Assignments
// still flow through a registry, but uniqueness checking is disabled because
// the snapshot may legitimately repeat declared defaults. Snapshot names
// outside the schema are kept verbatim.
func (s *OptionSet) Reconstruct(snapshot map[string]any) *State {
	declared := s.defaults()
	registry := NewAssignmentRegistry(false)
	for name, value := range snapshot {
		_ = registry.MarkSet(name, value)
		declared[name] = value
	}
	return newState(declared)
}

func (s *OptionSet) defaults() map[string]any {
	declared := make(map[string]any, len(s.order))
	for _, name := range s.order {
		if opt := s.options[name]; opt.Default != nil {
			declared[name] = opt.Default
		}
	}
	return declared
}

func (s *OptionSet) check(opt *Option, value any, raw string) error {
	if opt.Check == nil {
		return nil
	}
	program, err := s.constraintProgram(opt.Check)
	if err != nil {
		return err
	}

	values := []any{value}
	if opt.isList() {
		values = values[:0]
		switch typed := value.(type) {
		case []int:
			for _, v := range typed {
				values = append(values, v)
			}
		case []string:
			for _, v := range typed {
				values = append(values, v)
			}
		}
	}
	for _, v := range values {
		ok, err := program.Eval(map[string]any{"value": v, "ref": opt.Check.Ref})
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidValueError{Option: opt.Name, Constraint: opt.Check.Description, Value: raw}
		}
	}
	return nil
}

func (s *OptionSet) constraintProgram(check *Constraint) (ConstraintProgram, error) {
	if program, ok := s.programs[check.Expression]; ok {
		return program, nil
	}
	program, err := s.evaluator.Compile(check.Expression)
	if err != nil {
		return nil, err
	}
	s.programs[check.Expression] = program
	return program, nil
}

func splitListTokens(inline string) []string {
	parts := strings.Split(inline, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
