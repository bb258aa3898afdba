package requests

import "telemed-schedule-service/internal/app/models"

// SaveSchedule replaces the whole schedule extension of a resource. The blob
// is always saved wholesale; there is no field-level patching.
type SaveScheduleRequest struct {
	Schedule          map[models.Weekday]models.DaySchedule `json:"schedule" validate:"required"`
	ScheduleOverrides map[string]models.Override            `json:"scheduleOverrides"`
	Closures          []models.Closure                      `json:"closures"`
}

func (r *SaveScheduleRequest) ToExtension() *models.ScheduleExtension {
	return &models.ScheduleExtension{
		Schedule:          r.Schedule,
		ScheduleOverrides: r.ScheduleOverrides,
		Closures:          r.Closures,
	}
}

type AddOverrideRequest struct {
	Date          string `json:"date" validate:"required,override_date"`
	Open          int    `json:"open" validate:"gte=0,lte=24"`
	Close         int    `json:"close" validate:"gte=0,lte=24"`
	OpeningBuffer int    `json:"openingBuffer" validate:"oneof=0 15 30 60 90"`
	ClosingBuffer int    `json:"closingBuffer" validate:"oneof=0 15 30 60 90"`
}

type AddClosureRequest struct {
	Start string `json:"start" validate:"required,override_date"`
	End   string `json:"end" validate:"omitempty,override_date"`
	Type  string `json:"type" validate:"required,oneof=one-day period"`
}
