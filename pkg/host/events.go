package host

import "context"

// EventFormValidationError is dispatched after a validation failure with the
// host identifier under "hostId".
const EventFormValidationError = "form-validation-error"

// Event is an outbound notification for the enclosing component's client.
type Event struct {
	Name   string
	Params map[string]any
}

// Dispatcher delivers outbound events.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// DispatcherFunc adapts a function into a Dispatcher.
type DispatcherFunc func(ctx context.Context, event Event)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, event Event) {
	f(ctx, event)
}

// EventQueue collects events for the response of the current interaction.
type EventQueue struct {
	events []Event
}

var _ Dispatcher = (*EventQueue)(nil)

// NewEventQueue constructs an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Dispatch implements Dispatcher.
func (q *EventQueue) Dispatch(_ context.Context, event Event) {
	q.events = append(q.events, event)
}

// Events returns the queued events in dispatch order.
func (q *EventQueue) Events() []Event {
	return append([]Event(nil), q.events...)
}

// Drain returns the queued events and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Dispatch sends an event through the configured dispatcher.
func (h *Host) Dispatch(ctx context.Context, name string, params map[string]any) {
	h.dispatcher.Dispatch(ctx, Event{Name: name, Params: params})
}

// DispatchedEvents returns the events held by the built-in queue. Events sent
// to a custom dispatcher are not recorded here.
func (h *Host) DispatchedEvents() []Event {
	return h.events.Events()
}
