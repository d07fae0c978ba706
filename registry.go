package distill

// AssignmentRegistry tracks which option names have been assigned during a
// single parse pass. It lives only for the duration of the pass and is not
// retained by the resulting State.
type AssignmentRegistry struct {
	requiresUnique bool
	assigned       map[string]any
}

// NewAssignmentRegistry constructs a registry. With requiresUnique false,
// duplicate assignments are recorded silently, which supports rebuilding
// state programmatically from a trusted snapshot where repeats are expected
// and harmless.
func NewAssignmentRegistry(requiresUnique bool) *AssignmentRegistry {
	return &AssignmentRegistry{
		requiresUnique: requiresUnique,
		assigned:       make(map[string]any),
	}
}

// RequiresUnique reports whether duplicate assignments are rejected.
func (r *AssignmentRegistry) RequiresUnique() bool { return r.requiresUnique }

// MarkSet records an assignment of value to name. A second assignment to the
// same name fails with a DuplicateAssignmentError citing both values when
// uniqueness is required.
func (r *AssignmentRegistry) MarkSet(name string, value any) error {
	if r.requiresUnique {
		if previous, ok := r.assigned[name]; ok {
			return &DuplicateAssignmentError{Name: name, Previous: previous, Value: value}
		}
	}
	r.assigned[name] = value
	return nil
}
