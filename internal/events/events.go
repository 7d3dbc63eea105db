// Package events is the in-process notification bus for saved changes.
package events

import (
	"context"

	"CompanyAPI/internal/logger"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

const (
	CompanyChanged  = "company.changed"
	EmployeeChanged = "employee.changed"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Event struct {
	Action     string
	CompanyID  uuid.UUID
	EmployeeID uuid.UUID
}

type HandleFunc = func(ctx context.Context, e Event) error

type Bus struct {
	impl EventBus.Bus
}

func New() *Bus {
	return &Bus{impl: EventBus.New()}
}

// Subscribe registers a synchronous handler: Publish returns after it ran.
// Handler errors are logged, never returned to the publisher.
func (b *Bus) Subscribe(topic string, handle HandleFunc) error {
	return b.impl.Subscribe(topic, wrap(topic, handle))
}

func (b *Bus) SubscribeAsync(topic string, handle HandleFunc) error {
	return b.impl.SubscribeAsync(topic, wrap(topic, handle), false)
}

func (b *Bus) Publish(ctx context.Context, topic string, e Event) {
	if b == nil {
		return
	}
	b.impl.Publish(topic, ctx, e)
}

// WaitAsync blocks until async handlers finished.
func (b *Bus) WaitAsync() {
	if b == nil {
		return
	}
	b.impl.WaitAsync()
}

func wrap(topic string, handle HandleFunc) func(ctx context.Context, e Event) {
	return func(ctx context.Context, e Event) {
		if err := handle(ctx, e); err != nil {
			logger.Error("event_handler_failed", map[string]any{
				"topic":  topic,
				"action": e.Action,
				"error":  err.Error(),
			})
		}
	}
}

// AuditLog logs every change at info level.
func AuditLog(b *Bus) error {
	for _, topic := range []string{CompanyChanged, EmployeeChanged} {
		topic := topic
		err := b.Subscribe(topic, func(_ context.Context, e Event) error {
			fields := map[string]any{"topic": topic, "action": e.Action, "company_id": e.CompanyID.String()}
			if e.EmployeeID != uuid.Nil {
				fields["employee_id"] = e.EmployeeID.String()
			}
			logger.Info("change_saved", fields)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
