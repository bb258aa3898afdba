package constvars

// Client messages are safe to show to end users; dev messages go to logs.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later!"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check again your request!"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again later!"
	ErrClientFailedToSaveSchedule          = "Failed to save schedule changes"
	ErrClientScheduleNotConfigured         = "This resource does not have a schedule yet"
	ErrClientScheduleAlreadyExists         = "This resource already has a schedule"

	// Validation messages shown as toast warnings, verbatim from the admin UI.
	ErrClientClosureDuplicateStart = "Closed times cannot start on the same day"
	ErrClientClosureEndBeforeStart = "Closed time end date must be after start date"
	ErrClientClosureMissingEnd     = "Closed time period requires an end date"
	ErrClientOverrideDuplicate     = "Cannot have two overrides for the same day"
)

const (
	ErrDevCreateHTTPRequest     = "Failed to create HTTP request"
	ErrDevSendHTTPRequest       = "Failed to send HTTP request"
	ErrDevDecodeResponse        = "Failed to decode %s response"
	ErrDevCannotMarshalJSON     = "Failed to marshal JSON"
	ErrDevCannotParseJSON       = "Failed to parse JSON"
	ErrDevCannotParseDate       = "Failed to parse date"
	ErrDevValidationFailed      = "Request validation failed"
	ErrDevGetFHIRResource       = "Failed to get FHIR resource %s"
	ErrDevSearchFHIRResource    = "Failed to search FHIR resource %s"
	ErrDevPatchFHIRResource     = "Failed to patch FHIR resource %s"
	ErrDevScheduleExtensionRead = "Failed to read schedule extension"
	ErrDevScheduleValidation    = "Schedule validation failed"
	ErrDevUnknownScheduleType   = "Unknown schedule type %s"
	ErrDevRedisSet              = "Failed to set redis key"
	ErrDevRedisGet              = "Failed to get redis key"
	ErrDevRedisDelete           = "Failed to delete redis key"
	ErrDevMongoDBInsertDocument = "Failed to insert document to mongoDB"
	ErrDevMongoDBFindDocument   = "Failed to find document in mongoDB"
	ErrDevPublishMessage        = "Failed to publish message to queue"
	ErrDevDeadlineExceeded      = "Request deadline exceeded"
)
