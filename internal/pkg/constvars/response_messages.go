package constvars

const (
	ResponseUnknown = "unknown"

	ResponseScheduleRetrieved    = "Schedule retrieved successfully"
	ResponseScheduleCreated      = "Schedule created successfully"
	ResponseScheduleSaved        = "Schedule: Changes saved"
	ResponseOverrideAdded        = "Schedule override added successfully"
	ResponseClosureAdded         = "Closed date added successfully"
	ResponseAvailabilityResolved = "Availability retrieved successfully"
	ResponseSchedulesListed      = "Schedules retrieved successfully"
	ResponseAuditTrailRetrieved  = "Schedule change history retrieved successfully"

	// Placeholders rendered by the schedule table when nothing is configured.
	ResponseNoScheduledHours = "No scheduled hours"
	ResponseNoneScheduled    = "None Scheduled"
)
