package distill

import (
	"fmt"
	"strconv"
)

// Kind identifies the parsed representation of an option value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindIntList
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindIntList:
		return "int list"
	case KindStringList:
		return "string list"
	default:
		return "unknown"
	}
}

// Constraint is a predicate an option value must satisfy, expressed as an
// expression over two bindings: "value", the candidate, and "ref", the
// reference operand. The OptionSet's ConstraintEvaluator compiles it.
type Constraint struct {
	Expression  string
	Ref         any
	Description string
}

// Comparison builds the generic "value OP ref" constraint.
func Comparison(op string, ref any) *Constraint {
	return &Constraint{
		Expression:  fmt.Sprintf("value %s ref", op),
		Ref:         ref,
		Description: fmt.Sprintf("%s %v", op, ref),
	}
}

// GreaterThan constrains a value to be strictly greater than ref.
func GreaterThan(ref any) *Constraint { return Comparison(">", ref) }

// AtLeast constrains a value to be greater than or equal to ref.
func AtLeast(ref any) *Constraint { return Comparison(">=", ref) }

// Option is a named, typed configuration value with a default and an
// optional constraint. A nil Default means the option is absent until
// assigned. Options are immutable after registration.
type Option struct {
	Name    string
	Kind    Kind
	Default any
	Check   *Constraint
	Help    string
}

func (o *Option) isList() bool {
	return o.Kind == KindIntList || o.Kind == KindStringList
}

func (o *Option) convertScalar(raw string) (any, error) {
	switch o.Kind {
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &InvalidValueError{Option: o.Name, Value: raw, Err: fmt.Errorf("not an integer")}
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &InvalidValueError{Option: o.Name, Value: raw, Err: fmt.Errorf("not a number")}
		}
		return v, nil
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &InvalidValueError{Option: o.Name, Value: raw, Err: fmt.Errorf("not a boolean")}
		}
		return v, nil
	case KindString:
		return raw, nil
	default:
		return nil, &InvalidValueError{Option: o.Name, Value: raw, Err: fmt.Errorf("expected a %s", o.Kind)}
	}
}

func (o *Option) convertList(tokens []string) (any, error) {
	switch o.Kind {
	case KindIntList:
		values := make([]int, 0, len(tokens))
		for _, token := range tokens {
			v, err := strconv.Atoi(token)
			if err != nil {
				return nil, &InvalidValueError{Option: o.Name, Value: token, Err: fmt.Errorf("not an integer")}
			}
			values = append(values, v)
		}
		return values, nil
	case KindStringList:
		return append([]string(nil), tokens...), nil
	default:
		return nil, &InvalidValueError{Option: o.Name, Value: fmt.Sprint(tokens), Err: fmt.Errorf("expected a %s", o.Kind)}
	}
}
