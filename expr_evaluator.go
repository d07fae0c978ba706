package distill

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// exprEvaluator compiles constraint expressions using expr-lang/expr.
type exprEvaluator struct {
	cache ProgramCache
}

// NewExprEvaluator constructs a ConstraintEvaluator backed by
// expr-lang/expr. It is the default engine for option constraints.
func NewExprEvaluator(opts ...ExprEvaluatorOption) ConstraintEvaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Compile returns a program that evaluates expression per invocation.
func (e *exprEvaluator) Compile(expression string) (ConstraintProgram, error) {
	if expression == "" {
		return nil, wrapEvaluationError("expr", expression, fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &exprProgram{program: program, expression: expression}, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type exprProgram struct {
	program    *exprvm.Program
	expression string
}

func (p *exprProgram) Eval(bindings map[string]any) (bool, error) {
	result, err := exprlang.Run(p.program, bindings)
	if err != nil {
		return false, wrapEvaluationError("expr", p.expression, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, wrapEvaluationError("expr", p.expression, fmt.Errorf("expected boolean result, got %T", result))
	}
	return ok, nil
}
