package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
)

const (
	ScheduleTypeOffice   = "office"
	ScheduleTypeProvider = "provider"
	ScheduleTypeGroup    = "group"
)

const (
	URLParamScheduleType = "scheduleType"
	URLParamResourceID   = "resourceID"
	URLQueryDate         = "date"
)

const (
	RedisKeyScheduleExtensionFormat = "schedule_extension:%s:%s"

	MongoCollectionScheduleAudit = "schedule_audit"
)

const (
	ScheduleAuditActionSeed        = "seed"
	ScheduleAuditActionSave        = "save"
	ScheduleAuditActionAddOverride = "add_override"
	ScheduleAuditActionAddClosure  = "add_closure"
)
