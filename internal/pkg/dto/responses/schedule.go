package responses

import "telemed-schedule-service/internal/app/models"

// ScheduleExtensionResponse is the stored blob plus the owning resource's
// identity and timezone.
type ScheduleExtensionResponse struct {
	ResourceType string                                `json:"resourceType"`
	ResourceID   string                                `json:"resourceId"`
	Timezone     string                                `json:"timezone,omitempty"`
	Schedule     map[models.Weekday]models.DaySchedule `json:"schedule"`
	Overrides    map[string]models.Override            `json:"scheduleOverrides"`
	Closures     []models.Closure                      `json:"closures"`
}

// DayAvailability is the resolved view of a single date after closures and
// overrides are layered over the weekly base.
type DayAvailability struct {
	Date          string                  `json:"date"`
	Weekday       models.Weekday          `json:"weekday"`
	Closed        bool                    `json:"closed"`
	Source        string                  `json:"source"`
	Open          int                     `json:"open"`
	Close         int                     `json:"close"`
	OpenDisplay   string                  `json:"openDisplay,omitempty"`
	CloseDisplay  string                  `json:"closeDisplay,omitempty"`
	OpeningBuffer int                     `json:"openingBuffer"`
	ClosingBuffer int                     `json:"closingBuffer"`
	Hours         []models.HourlyCapacity `json:"hours"`
}

// ScheduleAuditEntry is one change-trail record for a resource's schedule.
type ScheduleAuditEntry struct {
	Action     string `json:"action"`
	RequestID  string `json:"requestId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// ScheduleRow backs one row of the admin schedule table.
type ScheduleRow struct {
	ResourceID      string `json:"resourceId"`
	Name            string `json:"name"`
	Address         string `json:"address,omitempty"`
	TodaysHours     string `json:"todaysHours"`
	UpcomingChanges string `json:"upcomingChanges"`
	Active          bool   `json:"active"`
}
