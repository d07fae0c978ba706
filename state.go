package distill

import (
	"fmt"
	"strings"
)

// PrivatePrefix marks names excluded from public snapshots.
const PrivatePrefix = "_"

// State is the resolved configuration for one run: an immutable declared
// layer established at parse time plus a mutable extras layer populated as
// collaborators contribute computed values. Lookups consult extras first, so
// computed values transparently shadow declared ones without losing the raw
// configuration.
//
// A State is built once per process and threaded explicitly through every
// collaborator call; it is not safe for concurrent mutation.
type State struct {
	declared map[string]any
	extras   map[string]any
	output   bool
}

func newState(declared map[string]any) *State {
	return &State{
		declared: declared,
		extras:   make(map[string]any),
		output:   true,
	}
}

// NewState wraps an already-resolved declared mapping. The map is copied.
func NewState(declared map[string]any) *State {
	copied := make(map[string]any, len(declared))
	for name, value := range declared {
		copied[name] = value
	}
	return newState(copied)
}

// Lookup returns the value bound to name, preferring extras over declared.
// A name absent from both layers fails with a MissingKeyError.
func (s *State) Lookup(name string) (any, error) {
	if value, ok := s.extras[name]; ok {
		return value, nil
	}
	if value, ok := s.declared[name]; ok {
		return value, nil
	}
	return nil, &MissingKeyError{Key: name}
}

// Has reports whether name resolves in either layer.
func (s *State) Has(name string) bool {
	if _, ok := s.extras[name]; ok {
		return true
	}
	_, ok := s.declared[name]
	return ok
}

// Declared returns the raw parsed value for name, ignoring extras.
func (s *State) Declared(name string) (any, error) {
	if value, ok := s.declared[name]; ok {
		return value, nil
	}
	return nil, &MissingKeyError{Key: name}
}

// Set stores a computed value into the extras layer.
func (s *State) Set(name string, value any) {
	s.extras[name] = value
}

// Pop removes name from extras, returning its value when it was present.
func (s *State) Pop(name string) (any, bool) {
	value, ok := s.extras[name]
	if ok {
		delete(s.extras, name)
	}
	return value, ok
}

// ClearExtras drops every computed value, leaving the declared layer intact.
func (s *State) ClearExtras() {
	s.extras = make(map[string]any)
}

// OutputFlag reports whether this process instance writes to storage. It is
// toggled explicitly rather than inferred from rank, so callers can force
// dry behaviour.
func (s *State) OutputFlag() bool { return s.output }

// SetOutputFlag marks this instance as writing or non-writing.
func (s *State) SetOutputFlag(output bool) { s.output = output }

// Scoped applies temporary extras overrides, runs fn, and restores each
// overridden name to its exact prior binding, including absence, on every
// exit path. Restoration also holds when a name differs between declared and
// extras: only the extras binding is touched.
func (s *State) Scoped(overrides map[string]any, fn func() error) error {
	type binding struct {
		value   any
		present bool
	}
	prior := make(map[string]binding, len(overrides))
	for name := range overrides {
		value, ok := s.extras[name]
		prior[name] = binding{value: value, present: ok}
	}
	defer func() {
		for name, old := range prior {
			if old.present {
				s.extras[name] = old.value
			} else {
				delete(s.extras, name)
			}
		}
	}()
	for name, value := range overrides {
		s.extras[name] = value
	}
	return fn()
}

// Merge flattens declared and extras into a single snapshot, extras winning
// on conflict. With publicOnly, names carrying the reserved private prefix
// are dropped, which is the form persisted for a run.
func (s *State) Merge(publicOnly bool) map[string]any {
	merged := make(map[string]any, len(s.declared)+len(s.extras))
	for name, value := range s.declared {
		merged[name] = value
	}
	for name, value := range s.extras {
		merged[name] = value
	}
	if publicOnly {
		for name := range merged {
			if strings.HasPrefix(name, PrivatePrefix) {
				delete(merged, name)
			}
		}
	}
	return merged
}

// Int returns the named value as an int.
func (s *State) Int(name string) (int, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		if int64(int(v)) == v {
			return int(v), nil
		}
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("distill: %s: expected an integer, got %T", name, value)
}

// Float returns the named value as a float64, accepting integral values.
func (s *State) Float(name string) (float64, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("distill: %s: expected a number, got %T", name, value)
}

// String returns the named value as a string.
func (s *State) String(name string) (string, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return "", err
	}
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("distill: %s: expected a string, got %T", name, value)
	}
	return v, nil
}

// Bool returns the named value as a bool.
func (s *State) Bool(name string) (bool, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return false, err
	}
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("distill: %s: expected a boolean, got %T", name, value)
	}
	return v, nil
}

// Strings returns the named value as a string slice, converting reloaded
// []any snapshots element-wise.
func (s *State) Strings(name string) ([]string, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("distill: %s: expected strings, got %T", name, item)
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("distill: %s: expected a string list, got %T", name, value)
}

// Ints returns the named value as an int slice, converting reloaded []any
// snapshots element-wise.
func (s *State) Ints(name string) ([]int, error) {
	value, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case []int:
		return v, nil
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := item.(int)
			if !ok {
				return nil, fmt.Errorf("distill: %s: expected integers, got %T", name, item)
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("distill: %s: expected an int list, got %T", name, value)
}
