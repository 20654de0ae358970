package ports

import "context"

// The plan.* and step.started types name planner and pre-step events; the
// Planner and Executor in this module do not publish them. The Executor
// publishes step.completed and step.failed.
const (
	// EventPlanStarted names the event for the planner beginning a search.
	EventPlanStarted = "plan.started"
	// EventPlanCompleted names the event for a plan being found (possibly empty).
	EventPlanCompleted = "plan.completed"
	// EventPlanExhausted names the event for the planner hitting its iteration bound.
	EventPlanExhausted = "plan.exhausted"
	// EventStepStarted names the event for a step about to begin execution.
	EventStepStarted = "step.started"
	// EventStepCompleted is emitted when a step finishes successfully.
	EventStepCompleted = "step.completed"
	// EventStepFailed is emitted when a step's callback returns an error or
	// the wrapped-callback checks reject it.
	EventStepFailed = "step.failed"
)

// DomainEvent represents a significant occurrence during planning or
// execution. Events carry structured payloads that downstream subscribers
// (the dashboard, a log sink) can use for UI updates or diagnostics.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous—Publish blocks until all handlers run—ensuring observability
// signals appear before the process exits. Handlers may spawn goroutines for
// async processing if work should continue in the background. Implementations
// must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
