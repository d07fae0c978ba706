package distill

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// celEvaluator compiles constraint expressions using cel-go.
type celEvaluator struct {
	cache ProgramCache
}

// NewCELEvaluator constructs a ConstraintEvaluator backed by cel-go, as an
// alternative to the default expr engine.
func NewCELEvaluator(opts ...CELEvaluatorOption) ConstraintEvaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Compile returns a program that evaluates expression per invocation.
func (e *celEvaluator) Compile(expression string) (ConstraintProgram, error) {
	if expression == "" {
		return nil, wrapEvaluationError("cel", expression, fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celProgram{program: program, expression: expression}, nil
}

func (e *celEvaluator) loadOrCompile(expression string) (celgo.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := celgo.NewEnv(
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("ref", celgo.DynType),
	)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}

	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type celProgram struct {
	program    celgo.Program
	expression string
}

func (p *celProgram) Eval(bindings map[string]any) (bool, error) {
	out, _, err := p.program.Eval(bindings)
	if err != nil {
		return false, wrapEvaluationError("cel", p.expression, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, wrapEvaluationError("cel", p.expression, fmt.Errorf("expected boolean result, got %T", out.Value()))
	}
	return ok, nil
}
