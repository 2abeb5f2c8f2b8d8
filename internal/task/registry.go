package task

import (
	"context"
	"sort"
)

// HandlerFunc performs a task's single provider call and returns the
// success envelope to publish and store. Returned errors are classified by
// the executor; handlers never report results themselves.
type HandlerFunc func(ctx context.Context, taskID string, params Params) (any, error)

// ValidateFunc checks a task's pre-dispatch preconditions. A nil func means
// the type has none and every check happens inside the worker.
type ValidateFunc func(params Params) error

// Definition binds one task type to its precondition validator and handler.
type Definition struct {
	Validate ValidateFunc
	Handle   HandlerFunc
}

// Registry maps the closed task type set to definitions. It isolates
// per-type validation from dispatch plumbing: the dispatcher and executor
// look types up here instead of branching on type strings.
type Registry struct {
	defs map[Type]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Type]Definition)}
}

// Register adds or replaces the definition for t.
func (r *Registry) Register(t Type, def Definition) {
	r.defs[t] = def
}

// Definition returns the definition for t and whether t is registered.
func (r *Registry) Definition(t Type) (Definition, bool) {
	def, ok := r.defs[t]
	return def, ok
}

// Validate runs t's precondition validator against params. Types without a
// validator pass trivially.
func (r *Registry) Validate(t Type, params Params) error {
	def, ok := r.defs[t]
	if !ok || def.Validate == nil {
		return nil
	}
	return def.Validate(params)
}

// Types returns the registered task types in stable order.
func (r *Registry) Types() []Type {
	out := make([]Type, 0, len(r.defs))
	for t := range r.defs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
