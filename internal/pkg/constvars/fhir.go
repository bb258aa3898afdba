package constvars

const (
	ResourceLocation          = "Location"
	ResourcePractitioner      = "Practitioner"
	ResourceHealthcareService = "HealthcareService"
)

// ExtensionURLSchedule is the well-known extension URL the schedule blob is
// stored under on each schedulable resource.
const ExtensionURLSchedule = "https://fhir.zapehr.com/r4/StructureDefinitions/schedule"

// ExtensionURLTimezone holds the IANA timezone of the schedulable resource.
const ExtensionURLTimezone = "https://fhir.zapehr.com/r4/StructureDefinitions/timezone"

const DefaultTimezone = "America/New_York"

const (
	FhirPathExtension        = "/extension"
	FhirPathHoursOfOperation = "/hoursOfOperation"
	FhirPathStatus           = "/status"
	FhirPathActive           = "/active"
)

const (
	LocationStatusActive   = "active"
	LocationStatusInactive = "inactive"
)
