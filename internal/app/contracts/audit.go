package contracts

import (
	"context"
	"telemed-schedule-service/internal/app/models"
)

type ScheduleAuditRepository interface {
	Insert(ctx context.Context, audit *models.ScheduleAudit) error
	FindByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]models.ScheduleAudit, error)
}
