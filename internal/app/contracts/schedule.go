package contracts

import (
	"context"
	"telemed-schedule-service/internal/pkg/dto/requests"
	"telemed-schedule-service/internal/pkg/dto/responses"
)

type ScheduleUsecase interface {
	GetSchedule(ctx context.Context, scheduleType, resourceID string) (*responses.ScheduleExtensionResponse, error)
	CreateDefaultSchedule(ctx context.Context, scheduleType, resourceID string) (*responses.ScheduleExtensionResponse, error)
	SaveSchedule(ctx context.Context, scheduleType, resourceID string, request *requests.SaveScheduleRequest) error
	AddOverride(ctx context.Context, scheduleType, resourceID string, request *requests.AddOverrideRequest) error
	AddClosure(ctx context.Context, scheduleType, resourceID string, request *requests.AddClosureRequest) error
	GetDayAvailability(ctx context.Context, scheduleType, resourceID, date string) (*responses.DayAvailability, error)
	ListScheduleRows(ctx context.Context, scheduleType string) ([]responses.ScheduleRow, error)
	GetAuditTrail(ctx context.Context, scheduleType, resourceID string) ([]responses.ScheduleAuditEntry, error)
}
