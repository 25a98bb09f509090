// Package events publishes domain events for the notification layer.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/metrics"
)

// Type is the routing key of an event.
type Type string

// Event types.
const (
	AssignmentCreated       Type = "assignment.created"
	AssignmentUpdated       Type = "assignment.updated"
	AssignmentStatusChanged Type = "assignment.status_changed"
	AssignmentDeleted       Type = "assignment.deleted"
	ScheduleStatusChanged   Type = "schedule.status_changed"
	TeamAssignmentAdded     Type = "team.assignment_added"
	TeamAssignmentUpdated   Type = "team.assignment_updated"
	TeamAssignmentRemoved   Type = "team.assignment_removed"
	TeamLeadWarning         Type = "team.lead_warning"
	DocumentReviewed        Type = "document.reviewed"
)

// Event is the envelope sent to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// New builds an event with a fresh id.
func New(t Type, entityID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

// Emitter publishes events on behalf of services. Delivery failures are
// logged and counted but never reach the caller.
type Emitter struct {
	publisher Publisher
	logger    *zap.SugaredLogger
}

// NewEmitter creates an Emitter. A nil publisher discards events.
func NewEmitter(publisher Publisher, logger *zap.SugaredLogger) *Emitter {
	if publisher == nil {
		publisher = Nop{}
	}
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit publishes an event of type t about entityID.
func (e *Emitter) Emit(ctx context.Context, t Type, entityID string, payload any) {
	if e == nil {
		return
	}
	event := New(t, entityID, payload)
	// request cancellation must not drop an event for a committed change
	err := e.publisher.Publish(context.WithoutCancel(ctx), event)
	metrics.RecordEvent(string(t), err)
	if err != nil {
		e.logger.Errorw("failed to publish event",
			"event_id", event.ID,
			"event_type", t,
			"entity_id", entityID,
			"error", err,
		)
		return
	}
	e.logger.Debugw("event published", "event_id", event.ID, "event_type", t, "entity_id", entityID)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	recorded := r.Events()
	out := make([]Type, 0, len(recorded))
	for _, e := range recorded {
		out = append(out, e.Type)
	}
	return out
}
