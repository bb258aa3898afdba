package contracts

import (
	"context"
	"time"
)

// ScheduleEvent is published after every successful write so downstream
// consumers (slot generators, caches) can refresh.
type ScheduleEvent struct {
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Action       string    `json:"action"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type ScheduleEventPublisher interface {
	PublishScheduleEvent(ctx context.Context, event ScheduleEvent) error
}
