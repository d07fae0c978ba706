package distill

import "sync"

// ConstraintEvaluator compiles constraint expressions into reusable
// programs. Programs are evaluated against two bindings: "value", the
// candidate option value, and "ref", the constraint's reference operand.
type ConstraintEvaluator interface {
	Compile(expression string) (ConstraintProgram, error)
}

// ConstraintProgram is a compiled constraint expression.
type ConstraintProgram interface {
	Eval(bindings map[string]any) (bool, error)
}

// ProgramCache stores compiled constraint programs keyed by expression text.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is a mutex-guarded in-memory ProgramCache.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache constructs an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: make(map[string]any)}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = make(map[string]any)
	}
	c.programs[key] = value
}
