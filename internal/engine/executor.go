package engine

import (
	"context"
	"errors"

	"github.com/danrasband/reconcile/internal/ports"
	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

var (
	errNoSuchTransition = errors.New("no transition registered for this (kind, from, to) triple")
	errStaleFromState   = errors.New("node's current state no longer satisfies this step's from fragment")
)

// DryRunResult is the sentinel execution_result used for a dry-run step:
// the callback is never invoked.
type DryRunResult struct{ DryRun bool }

// StepResult records the outcome of replaying one planned transition step.
// Exception is set when the step failed; otherwise ExecutionResult holds
// the callback's return value (which may itself be nil) or DryRunResult.
type StepResult struct {
	Path            state.Path
	From            state.Fragment
	To              state.Fragment
	ExecutionResult interface{}
	Exception       error
}

// Executor replays a Plan, either as a dry run or live against the caller's
// own graph, invoking the bound transition callback for each step.
type Executor struct {
	Transitions *registry.TransitionRegistry

	// Publisher, when set, receives a step.completed or step.failed
	// DomainEvent after every step, in addition to any onStep hooks passed
	// to Execute. A caller subscribes to these instead of threading its own
	// ad hoc callback through the dashboard or logger.
	Publisher ports.EventPublisher
}

// NewExecutor constructs an Executor bound to a Transition Registry.
func NewExecutor(transitions *registry.TransitionRegistry) *Executor {
	return &Executor{Transitions: transitions}
}

// StepEvent reports the outcome of one replayed transition step. Its
// Payload is a string-keyed map suitable for structured logging; a
// subscriber that needs the original StepResult (a dashboard updating a
// specific row) should use Result instead of re-parsing the payload.
type StepEvent struct {
	eventType string
	result    StepResult
	dryRun    bool
}

// EventType satisfies ports.DomainEvent.
func (e StepEvent) EventType() string { return e.eventType }

// Payload satisfies ports.DomainEvent.
func (e StepEvent) Payload() interface{} {
	payload := map[string]interface{}{
		"path":    e.result.Path.String(),
		"dry_run": e.dryRun,
	}
	if e.result.Exception != nil {
		payload["error"] = e.result.Exception.Error()
	} else {
		payload["result"] = e.result.ExecutionResult
	}
	return payload
}

// Result returns the StepResult this event reports on.
func (e StepEvent) Result() StepResult { return e.result }

var _ ports.DomainEvent = StepEvent{}

// Execute replays plan against g. In dry-run mode no callback is invoked
// and every step's ExecutionResult is DryRunResult{DryRun: true}. In live
// mode, g is mutated in place, one step at a time, and a failing step's
// error is recorded on that step's result without aborting, rolling back,
// or re-planning the remaining steps.
//
// onStep, when given, is invoked once per step immediately after that
// step's result is known, in plan order — a caller (a progress dashboard,
// a logger) observes execution without driving it.
func (e *Executor) Execute(ctx context.Context, plan Plan, g *Graph, dryRun bool, onStep ...func(StepResult)) []StepResult {
	results := make([]StepResult, 0, len(plan))

	for _, step := range plan {
		var result StepResult
		if dryRun {
			result = StepResult{
				Path:            step.Path,
				From:            step.From,
				To:              step.To,
				ExecutionResult: DryRunResult{DryRun: true},
			}
		} else {
			result = e.executeStep(ctx, g, step)
		}
		results = append(results, result)

		if e.Publisher != nil {
			eventType := ports.EventStepCompleted
			if result.Exception != nil {
				eventType = ports.EventStepFailed
			}
			_ = e.Publisher.Publish(ctx, StepEvent{eventType: eventType, result: result, dryRun: dryRun})
		}

		for _, hook := range onStep {
			hook(result)
		}
	}

	return results
}

// executeStep performs the wrapped-callback semantics against the live
// node at step.Path in g: resolve the registered callback,
// confirm the node's current state still satisfies step.From, invoke the
// callback, then merge step.To into the node's state on success.
func (e *Executor) executeStep(ctx context.Context, g *Graph, step TransitionStep) StepResult {
	result := StepResult{Path: step.Path, From: step.From, To: step.To}

	node, ok := g.NodeAt(step.Path)
	if !ok {
		result.Exception = rerrors.NewPreconditionViolation("Execute", "no node at path "+step.Path.String())
		return result
	}

	callback, ok := e.Transitions.Lookup(node.NodeKind(), step.From, step.To)
	if !ok {
		if kinds := e.Transitions.KindsFor(step.From, step.To); len(kinds) > 0 {
			result.Exception = rerrors.NewNodeKindMismatch(step.Path.String(), kinds[0].String(), node.NodeKind().String())
		} else {
			result.Exception = rerrors.NewCallbackError(step.Path.String(), errNoSuchTransition)
		}
		return result
	}

	if !node.CurrentState().HasSuperset(step.From) {
		result.Exception = rerrors.NewCallbackError(step.Path.String(), errStaleFromState)
		return result
	}

	value, err := callback(ctx, node)
	if err != nil {
		result.Exception = rerrors.NewCallbackError(step.Path.String(), err)
		return result
	}

	node.SetState(node.CurrentState().Merge(step.To))
	result.ExecutionResult = value
	return result
}
