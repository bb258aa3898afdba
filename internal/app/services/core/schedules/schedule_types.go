package schedules

import (
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/exceptions"
)

// ResourceTypeForScheduleType maps the public schedule type segment to the
// FHIR resource type that owns the schedule.
func ResourceTypeForScheduleType(scheduleType string) (string, error) {
	switch scheduleType {
	case constvars.ScheduleTypeOffice:
		return constvars.ResourceLocation, nil
	case constvars.ScheduleTypeProvider:
		return constvars.ResourcePractitioner, nil
	case constvars.ScheduleTypeGroup:
		return constvars.ResourceHealthcareService, nil
	default:
		return "", exceptions.ErrUnknownScheduleType(scheduleType)
	}
}
