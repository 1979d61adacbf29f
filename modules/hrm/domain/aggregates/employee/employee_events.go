package employee

import (
	"context"

	"github.com/cams7/cadferias/pkg/composables"
)

// Events carry the acting session so subscribers can attribute the change.

type CreatedEvent struct {
	SessionID string
	Result    Employee
}

type UpdatedEvent struct {
	SessionID string
	Result    Employee
}

type DeletedEvent struct {
	SessionID string
	ID        int64
	Name      string
}

func actor(ctx context.Context) string {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return ""
	}
	return sess.ID
}

func NewCreatedEvent(ctx context.Context, result Employee) *CreatedEvent {
	return &CreatedEvent{SessionID: actor(ctx), Result: result}
}

func NewUpdatedEvent(ctx context.Context, result Employee) *UpdatedEvent {
	return &UpdatedEvent{SessionID: actor(ctx), Result: result}
}

func NewDeletedEvent(ctx context.Context, id int64, name string) *DeletedEvent {
	return &DeletedEvent{SessionID: actor(ctx), ID: id, Name: name}
}
