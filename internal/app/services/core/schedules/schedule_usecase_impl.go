package schedules

import (
	"context"
	"fmt"
	"sort"
	"telemed-schedule-service/internal/app/config"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/app/models"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/dto/requests"
	"telemed-schedule-service/internal/pkg/dto/responses"
	"telemed-schedule-service/internal/pkg/exceptions"
	"telemed-schedule-service/internal/pkg/fhir_dto"
	"telemed-schedule-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Defaults for a freshly added override rule; admins adjust from there.
const (
	defaultOverrideOpen  = 8
	defaultOverrideClose = 17
)

// auditTrailLimit caps how many change records the history endpoint returns.
const auditTrailLimit = 20

type scheduleUsecase struct {
	FhirClient      contracts.ResourceFhirClient
	RedisRepository contracts.RedisRepository
	AuditRepository contracts.ScheduleAuditRepository
	EventPublisher  contracts.ScheduleEventPublisher
	Log             *zap.Logger
	InternalConfig  *config.InternalConfig
}

func NewScheduleUsecase(
	fhirClient contracts.ResourceFhirClient,
	redisRepository contracts.RedisRepository,
	auditRepository contracts.ScheduleAuditRepository,
	eventPublisher contracts.ScheduleEventPublisher,
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
) contracts.ScheduleUsecase {
	return &scheduleUsecase{
		FhirClient:      fhirClient,
		RedisRepository: redisRepository,
		AuditRepository: auditRepository,
		EventPublisher:  eventPublisher,
		Log:             logger,
		InternalConfig:  internalConfig,
	}
}

func (uc *scheduleUsecase) GetSchedule(ctx context.Context, scheduleType, resourceID string) (*responses.ScheduleExtensionResponse, error) {
	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(constvars.RedisKeyScheduleExtensionFormat, resourceType, resourceID)
	cached, err := uc.RedisRepository.Get(ctx, cacheKey)
	if err != nil {
		uc.Log.Warn("schedule cache read failed", zap.Error(err))
	}
	if cached != "" {
		response := new(responses.ScheduleExtensionResponse)
		if err := json.Unmarshal([]byte(cached), response); err == nil {
			return response, nil
		}
		uc.Log.Warn("schedule cache entry malformed, refetching", zap.String("key", cacheKey))
	}

	resource, ext, err := uc.fetchExtension(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}

	response := uc.buildExtensionResponse(resource, ext)
	uc.cacheExtensionResponse(ctx, cacheKey, response)
	return response, nil
}

func (uc *scheduleUsecase) CreateDefaultSchedule(ctx context.Context, scheduleType, resourceID string) (*responses.ScheduleExtensionResponse, error) {
	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return nil, err
	}

	resource, err := uc.FhirClient.GetResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.FindExtension(constvars.ExtensionURLSchedule) != nil {
		return nil, exceptions.ErrScheduleAlreadyExists(resourceType, resourceID)
	}

	ext := models.DefaultScheduleExtension()
	saved, err := uc.seedResource(ctx, resource, ext)
	if err != nil {
		return nil, err
	}

	uc.recordChange(ctx, resourceType, resourceID, constvars.ScheduleAuditActionSeed, ext)
	uc.invalidateCache(ctx, resourceType, resourceID)
	return uc.buildExtensionResponse(saved, ext), nil
}

func (uc *scheduleUsecase) SaveSchedule(ctx context.Context, scheduleType, resourceID string, request *requests.SaveScheduleRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return exceptions.ErrInputValidation(err)
	}

	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return err
	}

	ext := request.ToExtension()
	if violations := ValidateScheduleExtension(ext); len(violations) > 0 {
		return exceptions.ErrScheduleValidation(violations)
	}

	resource, err := uc.FhirClient.GetResource(ctx, resourceType, resourceID)
	if err != nil {
		return err
	}

	if _, err := uc.saveExtension(ctx, resource, ext); err != nil {
		return err
	}

	uc.recordChange(ctx, resourceType, resourceID, constvars.ScheduleAuditActionSave, ext)
	uc.invalidateCache(ctx, resourceType, resourceID)
	return nil
}

func (uc *scheduleUsecase) AddOverride(ctx context.Context, scheduleType, resourceID string, request *requests.AddOverrideRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return exceptions.ErrInputValidation(err)
	}

	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return err
	}

	resource, ext, err := uc.fetchExtension(ctx, resourceType, resourceID)
	if err != nil {
		return err
	}

	if _, exists := ext.ScheduleOverrides[request.Date]; exists {
		return exceptions.ErrOverrideAlreadyExists(request.Date)
	}

	override := models.DefaultOverride(defaultOverrideOpen, defaultOverrideClose)
	if request.Open != 0 || request.Close != 0 {
		override = models.Override{
			Open:  request.Open,
			Close: request.Close,
			Hours: models.HoursInRange(request.Open, request.Close, models.DefaultHourCapacity),
		}
	}
	override.OpeningBuffer = request.OpeningBuffer
	override.ClosingBuffer = request.ClosingBuffer

	if ext.ScheduleOverrides == nil {
		ext.ScheduleOverrides = map[string]models.Override{}
	}
	ext.ScheduleOverrides[request.Date] = override

	if _, err := uc.saveExtension(ctx, resource, ext); err != nil {
		return err
	}

	uc.recordChange(ctx, resourceType, resourceID, constvars.ScheduleAuditActionAddOverride, ext)
	uc.invalidateCache(ctx, resourceType, resourceID)
	return nil
}

func (uc *scheduleUsecase) AddClosure(ctx context.Context, scheduleType, resourceID string, request *requests.AddClosureRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return exceptions.ErrInputValidation(err)
	}

	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return err
	}

	resource, ext, err := uc.fetchExtension(ctx, resourceType, resourceID)
	if err != nil {
		return err
	}

	closure := models.Closure{
		Start: request.Start,
		End:   request.End,
		Type:  models.ClosureType(request.Type),
	}
	if closure.Type == models.ClosureOneDay {
		closure.End = ""
	}

	if violations := ValidateNewClosure(ext.Closures, closure); len(violations) > 0 {
		return exceptions.ErrScheduleValidation(violations)
	}

	ext.Closures = append(ext.Closures, closure)

	if _, err := uc.saveExtension(ctx, resource, ext); err != nil {
		return err
	}

	uc.recordChange(ctx, resourceType, resourceID, constvars.ScheduleAuditActionAddClosure, ext)
	uc.invalidateCache(ctx, resourceType, resourceID)
	return nil
}

func (uc *scheduleUsecase) GetDayAvailability(ctx context.Context, scheduleType, resourceID, date string) (*responses.DayAvailability, error) {
	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return nil, err
	}

	resource, ext, err := uc.fetchExtension(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}

	var day time.Time
	if date == "" {
		day = uc.nowFor(resource)
	} else {
		day, err = time.Parse(models.OverrideDateLayout, date)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
	}

	resolved := ResolveDay(ext, day)
	response := &responses.DayAvailability{
		Date:          day.Format(models.OverrideDateLayout),
		Weekday:       resolved.Weekday,
		Closed:        resolved.Closed,
		Source:        resolved.Source,
		Open:          resolved.Open,
		Close:         resolved.Close,
		OpeningBuffer: resolved.OpeningBuffer,
		ClosingBuffer: resolved.ClosingBuffer,
		Hours:         resolved.Hours,
	}
	if !resolved.Closed {
		response.OpenDisplay = models.FormatHourOfDay(resolved.Open)
		response.CloseDisplay = models.FormatHourOfDay(resolved.Close)
	}
	return response, nil
}

func (uc *scheduleUsecase) ListScheduleRows(ctx context.Context, scheduleType string) ([]responses.ScheduleRow, error) {
	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return nil, err
	}

	resources, err := uc.FhirClient.SearchResources(ctx, resourceType)
	if err != nil {
		return nil, err
	}

	rows := make([]responses.ScheduleRow, 0, len(resources))
	for i := range resources {
		resource := &resources[i]
		row := responses.ScheduleRow{
			ResourceID:      resource.ID,
			Name:            resource.DisplayName(),
			Address:         resource.DisplayAddress(),
			TodaysHours:     constvars.ResponseNoScheduledHours,
			UpcomingChanges: constvars.ResponseNoneScheduled,
			Active:          resource.IsActive(),
		}

		if scheduleExt := resource.FindExtension(constvars.ExtensionURLSchedule); scheduleExt != nil {
			ext, err := models.ParseScheduleExtension(scheduleExt.ValueString)
			if err != nil {
				uc.Log.Warn("skipping malformed schedule extension",
					zap.String("resourceType", resourceType),
					zap.String("resourceId", resource.ID),
					zap.Error(err),
				)
			} else {
				today := uc.nowFor(resource)
				row.TodaysHours = TodaysHours(ext, today)
				row.UpcomingChanges = UpcomingChanges(ext, today)
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (uc *scheduleUsecase) GetAuditTrail(ctx context.Context, scheduleType, resourceID string) ([]responses.ScheduleAuditEntry, error) {
	resourceType, err := ResourceTypeForScheduleType(scheduleType)
	if err != nil {
		return nil, err
	}

	audits, err := uc.AuditRepository.FindByResource(ctx, resourceType, resourceID, auditTrailLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]responses.ScheduleAuditEntry, 0, len(audits))
	for _, audit := range audits {
		entries = append(entries, responses.ScheduleAuditEntry{
			Action:     audit.Action,
			RequestID:  audit.RequestID,
			OccurredAt: audit.CreatedAt.Format(time.RFC3339),
		})
	}
	return entries, nil
}

// fetchExtension loads the resource and decodes its schedule blob.
func (uc *scheduleUsecase) fetchExtension(ctx context.Context, resourceType, resourceID string) (*fhir_dto.SchedulableResource, *models.ScheduleExtension, error) {
	resource, err := uc.FhirClient.GetResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, nil, err
	}

	scheduleExt := resource.FindExtension(constvars.ExtensionURLSchedule)
	if scheduleExt == nil {
		return nil, nil, exceptions.ErrScheduleNotConfigured(resourceType, resourceID)
	}

	ext, err := models.ParseScheduleExtension(scheduleExt.ValueString)
	if err != nil {
		return nil, nil, exceptions.ErrScheduleExtensionMalformed(err)
	}
	return resource, ext, nil
}

// seedResource writes the seed schedule blob together with the rest of the
// first-time setup: a default timezone extension when the resource has none,
// activation of the resource, and for Location the hoursOfOperation mirror.
func (uc *scheduleUsecase) seedResource(ctx context.Context, resource *fhir_dto.SchedulableResource, ext *models.ScheduleExtension) (*fhir_dto.SchedulableResource, error) {
	encoded, err := ext.Encode()
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	extensions := append([]fhir_dto.Extension(nil), resource.Extension...)
	extensions = append(extensions, fhir_dto.Extension{
		Url:         constvars.ExtensionURLSchedule,
		ValueString: encoded,
	})
	if resource.FindExtension(constvars.ExtensionURLTimezone) == nil {
		extensions = append(extensions, fhir_dto.Extension{
			Url:         constvars.ExtensionURLTimezone,
			ValueString: constvars.DefaultTimezone,
		})
	}

	operations := []fhir_dto.PatchOperation{
		{Op: patchOpFor(len(resource.Extension) > 0), Path: constvars.FhirPathExtension, Value: extensions},
		activateOperation(resource),
	}
	if resource.ResourceType == constvars.ResourceLocation {
		operations = append(operations, fhir_dto.PatchOperation{
			Op:    patchOpFor(len(resource.HoursOfOperation) > 0),
			Path:  constvars.FhirPathHoursOfOperation,
			Value: buildHoursOfOperation(ext),
		})
	}

	return uc.FhirClient.PatchResource(ctx, resource.ResourceType, resource.ID, operations)
}

// activateOperation turns the resource on: Location carries a status code,
// Practitioner and HealthcareService an active flag.
func activateOperation(resource *fhir_dto.SchedulableResource) fhir_dto.PatchOperation {
	if resource.ResourceType == constvars.ResourceLocation {
		return fhir_dto.PatchOperation{
			Op:    patchOpFor(resource.Status != ""),
			Path:  constvars.FhirPathStatus,
			Value: constvars.LocationStatusActive,
		}
	}
	return fhir_dto.PatchOperation{
		Op:    patchOpFor(resource.Active != nil),
		Path:  constvars.FhirPathActive,
		Value: true,
	}
}

// saveExtension replaces the whole extension list on the resource, and for
// Location also mirrors the weekly schedule into hoursOfOperation.
func (uc *scheduleUsecase) saveExtension(ctx context.Context, resource *fhir_dto.SchedulableResource, ext *models.ScheduleExtension) (*fhir_dto.SchedulableResource, error) {
	encoded, err := ext.Encode()
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	extensions := make([]fhir_dto.Extension, 0, len(resource.Extension)+1)
	replaced := false
	for _, existing := range resource.Extension {
		if existing.Url == constvars.ExtensionURLSchedule {
			extensions = append(extensions, fhir_dto.Extension{
				Url:         constvars.ExtensionURLSchedule,
				ValueString: encoded,
			})
			replaced = true
			continue
		}
		extensions = append(extensions, existing)
	}
	if !replaced {
		extensions = append(extensions, fhir_dto.Extension{
			Url:         constvars.ExtensionURLSchedule,
			ValueString: encoded,
		})
	}

	operations := []fhir_dto.PatchOperation{
		{Op: patchOpFor(len(resource.Extension) > 0), Path: constvars.FhirPathExtension, Value: extensions},
	}
	if resource.ResourceType == constvars.ResourceLocation {
		operations = append(operations, fhir_dto.PatchOperation{
			Op:    patchOpFor(len(resource.HoursOfOperation) > 0),
			Path:  constvars.FhirPathHoursOfOperation,
			Value: buildHoursOfOperation(ext),
		})
	}

	return uc.FhirClient.PatchResource(ctx, resource.ResourceType, resource.ID, operations)
}

func patchOpFor(pathExists bool) string {
	if pathExists {
		return "replace"
	}
	return "add"
}

// buildHoursOfOperation mirrors working weekdays into FHIR hoursOfOperation.
// A day closing at 24 stays open through end of day, so closingTime is
// omitted.
func buildHoursOfOperation(ext *models.ScheduleExtension) []fhir_dto.HoursOfOperation {
	entries := make([]fhir_dto.HoursOfOperation, 0, len(models.AllWeekdays))
	for _, weekday := range models.AllWeekdays {
		day, ok := ext.Schedule[weekday]
		if !ok || !day.WorkingDay {
			continue
		}
		entry := fhir_dto.HoursOfOperation{
			DaysOfWeek:  []string{weekday.DayCode()},
			OpeningTime: fmt.Sprintf("%02d:00:00", day.Open),
		}
		if day.Close != 24 {
			entry.ClosingTime = fmt.Sprintf("%02d:00:00", day.Close)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (uc *scheduleUsecase) buildExtensionResponse(resource *fhir_dto.SchedulableResource, ext *models.ScheduleExtension) *responses.ScheduleExtensionResponse {
	return &responses.ScheduleExtensionResponse{
		ResourceType: resource.ResourceType,
		ResourceID:   resource.ID,
		Timezone:     uc.timezoneOf(resource),
		Schedule:     ext.Schedule,
		Overrides:    ext.ScheduleOverrides,
		Closures:     ext.Closures,
	}
}

func (uc *scheduleUsecase) timezoneOf(resource *fhir_dto.SchedulableResource) string {
	if tz := resource.FindExtension(constvars.ExtensionURLTimezone); tz != nil && tz.ValueString != "" {
		return tz.ValueString
	}
	return constvars.DefaultTimezone
}

// nowFor returns the current wall clock in the resource's timezone so
// "today" flips at the resource's midnight, not the server's.
func (uc *scheduleUsecase) nowFor(resource *fhir_dto.SchedulableResource) time.Time {
	location, err := time.LoadLocation(uc.timezoneOf(resource))
	if err != nil {
		return time.Now()
	}
	return time.Now().In(location)
}

func (uc *scheduleUsecase) cacheExtensionResponse(ctx context.Context, cacheKey string, response *responses.ScheduleExtensionResponse) {
	ttl := time.Duration(uc.InternalConfig.App.ScheduleCacheTTLInMinutes) * time.Minute
	if err := uc.RedisRepository.Set(ctx, cacheKey, response, ttl); err != nil {
		uc.Log.Warn("schedule cache write failed", zap.Error(err))
	}
}

func (uc *scheduleUsecase) invalidateCache(ctx context.Context, resourceType, resourceID string) {
	cacheKey := fmt.Sprintf(constvars.RedisKeyScheduleExtensionFormat, resourceType, resourceID)
	if err := uc.RedisRepository.Delete(ctx, cacheKey); err != nil {
		uc.Log.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

// recordChange writes the audit trail entry and publishes the change event.
// Neither failure rolls back the save; the FHIR store is the source of
// truth.
func (uc *scheduleUsecase) recordChange(ctx context.Context, resourceType, resourceID, action string, ext *models.ScheduleExtension) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	encoded, err := ext.Encode()
	if err != nil {
		uc.Log.Warn("failed to encode extension for audit", zap.Error(err))
		encoded = ""
	}

	audit := &models.ScheduleAudit{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Extension:    encoded,
		RequestID:    requestID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.AuditRepository.Insert(ctx, audit); err != nil {
		uc.Log.Warn("failed to write schedule audit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	event := contracts.ScheduleEvent{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		OccurredAt:   time.Now().UTC(),
	}
	if err := uc.EventPublisher.PublishScheduleEvent(ctx, event); err != nil {
		uc.Log.Warn("failed to publish schedule event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
