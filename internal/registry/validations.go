package registry

// ValidationFunc is a predicate constraining a reachable node-state or
// whole-graph-state. It returns normally when the subject is valid. A
// failing predicate should return a *rerrors.ValidationFailure (see
// pkg/errors), which neighbor filtering treats as non-fatal and uses to
// prune the candidate; any other error indicates a programming error and
// propagates to the caller instead of being swallowed.
type ValidationFunc func(subject interface{}) error

// ValidationRegistry holds, per kind (node-kind or graph-kind — the two
// namespaces never collide because node-kinds and graph-kinds are declared
// by separate callers), an ordered list of validation predicates.
type ValidationRegistry struct {
	rules map[Kind][]ValidationFunc
}

// NewValidationRegistry constructs an empty Validation Registry.
func NewValidationRegistry() *ValidationRegistry {
	return &ValidationRegistry{rules: make(map[Kind][]ValidationFunc)}
}

// Register appends a predicate to the ordered list for kind. Registration
// order is preserved and is the order in which Run evaluates predicates.
func (r *ValidationRegistry) Register(kind Kind, fn ValidationFunc) {
	if fn == nil {
		return
	}
	r.rules[kind] = append(r.rules[kind], fn)
}

// Run evaluates every predicate registered for kind against subject, in
// registration order, stopping at (and returning) the first failure. A nil
// return means every predicate passed, including the case where no
// predicates are registered for kind.
func (r *ValidationRegistry) Run(kind Kind, subject interface{}) error {
	for _, fn := range r.rules[kind] {
		if err := fn(subject); err != nil {
			return err
		}
	}
	return nil
}
