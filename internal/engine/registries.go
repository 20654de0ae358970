package engine

import "github.com/danrasband/reconcile/internal/registry"

// Registries bundles the transition and validation registries the engine
// needs to enumerate neighbors and replay transitions. It is constructed
// explicitly by the caller and threaded through Node, Graph, Planner and
// Executor as a plain argument — there is no package-level registry lookup
// anywhere in this package.
type Registries struct {
	Transitions      *registry.TransitionRegistry
	NodeValidations  *registry.ValidationRegistry
	GraphValidations *registry.ValidationRegistry
}
