package schedules

import (
	"context"
	"errors"
	"fmt"
	"telemed-schedule-service/internal/app/config"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/app/models"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/dto/requests"
	"telemed-schedule-service/internal/pkg/exceptions"
	"telemed-schedule-service/internal/pkg/fhir_dto"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeFhirClient struct {
	resources map[string]*fhir_dto.SchedulableResource
	getCalls  int
	patches   [][]fhir_dto.PatchOperation
}

func resourceKey(resourceType, resourceID string) string {
	return resourceType + "/" + resourceID
}

func (f *fakeFhirClient) GetResource(ctx context.Context, resourceType, resourceID string) (*fhir_dto.SchedulableResource, error) {
	f.getCalls++
	resource, ok := f.resources[resourceKey(resourceType, resourceID)]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(resourceType, resourceID)
	}
	return resource, nil
}

func (f *fakeFhirClient) SearchResources(ctx context.Context, resourceType string) ([]fhir_dto.SchedulableResource, error) {
	results := make([]fhir_dto.SchedulableResource, 0)
	for key, resource := range f.resources {
		if key == resourceKey(resourceType, resource.ID) {
			results = append(results, *resource)
		}
	}
	return results, nil
}

func (f *fakeFhirClient) PatchResource(ctx context.Context, resourceType, resourceID string, operations []fhir_dto.PatchOperation) (*fhir_dto.SchedulableResource, error) {
	resource, ok := f.resources[resourceKey(resourceType, resourceID)]
	if !ok {
		return nil, exceptions.ErrFHIRResourceNotFound(resourceType, resourceID)
	}
	f.patches = append(f.patches, operations)
	for _, op := range operations {
		switch op.Path {
		case constvars.FhirPathExtension:
			resource.Extension = op.Value.([]fhir_dto.Extension)
		case constvars.FhirPathHoursOfOperation:
			resource.HoursOfOperation = op.Value.([]fhir_dto.HoursOfOperation)
		case constvars.FhirPathStatus:
			resource.Status = op.Value.(string)
		case constvars.FhirPathActive:
			active := op.Value.(bool)
			resource.Active = &active
		}
	}
	return resource, nil
}

type fakeRedis struct {
	store map[string]string
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = string(encoded)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return f.store[key], nil
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}

type fakeAuditRepository struct {
	inserted []*models.ScheduleAudit
}

func (f *fakeAuditRepository) Insert(ctx context.Context, audit *models.ScheduleAudit) error {
	f.inserted = append(f.inserted, audit)
	return nil
}

func (f *fakeAuditRepository) FindByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]models.ScheduleAudit, error) {
	// newest first, like the mongo repository
	matches := make([]models.ScheduleAudit, 0)
	for i := len(f.inserted) - 1; i >= 0; i-- {
		audit := f.inserted[i]
		if audit.ResourceType == resourceType && audit.ResourceID == resourceID {
			matches = append(matches, *audit)
		}
	}
	if int64(len(matches)) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

type fakePublisher struct {
	published []contracts.ScheduleEvent
}

func (f *fakePublisher) PublishScheduleEvent(ctx context.Context, event contracts.ScheduleEvent) error {
	f.published = append(f.published, event)
	return nil
}

type usecaseFixture struct {
	usecase   contracts.ScheduleUsecase
	fhir      *fakeFhirClient
	redis     *fakeRedis
	audits    *fakeAuditRepository
	publisher *fakePublisher
}

func newFixture() *usecaseFixture {
	fhir := &fakeFhirClient{resources: map[string]*fhir_dto.SchedulableResource{}}
	redisRepo := &fakeRedis{store: map[string]string{}}
	audits := &fakeAuditRepository{}
	publisher := &fakePublisher{}
	internalConfig := &config.InternalConfig{
		App: config.App{ScheduleCacheTTLInMinutes: 15},
	}
	usecase := NewScheduleUsecase(fhir, redisRepo, audits, publisher, zap.NewNop(), internalConfig)
	return &usecaseFixture{usecase: usecase, fhir: fhir, redis: redisRepo, audits: audits, publisher: publisher}
}

func locationWithSchedule(id string, ext *models.ScheduleExtension) *fhir_dto.SchedulableResource {
	resource := &fhir_dto.SchedulableResource{
		ResourceType: constvars.ResourceLocation,
		ID:           id,
		Status:       constvars.LocationStatusActive,
		Name:         json.RawMessage(`"Downtown Office"`),
	}
	if ext != nil {
		encoded, err := ext.Encode()
		if err != nil {
			panic(err)
		}
		resource.Extension = []fhir_dto.Extension{
			{Url: constvars.ExtensionURLSchedule, ValueString: encoded},
		}
	}
	return resource
}

func asCustomError(t *testing.T, err error) *exceptions.CustomError {
	t.Helper()
	var customErr *exceptions.CustomError
	assert.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	return customErr
}

func TestGetScheduleCachesSecondRead(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

	first, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, f.fhir.getCalls)
	assert.Equal(t, constvars.DefaultTimezone, first.Timezone)
	assert.Len(t, first.Schedule, 7)

	second, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, f.fhir.getCalls, "second read should come from cache")
	assert.Equal(t, first, second)
}

func TestGetScheduleUnknownType(t *testing.T) {
	f := newFixture()
	_, err := f.usecase.GetSchedule(context.Background(), "warehouse", "loc-1")
	customErr := asCustomError(t, err)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
}

func TestGetScheduleNotConfigured(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", nil)

	_, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	customErr := asCustomError(t, err)
	assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	assert.Equal(t, constvars.ErrClientScheduleNotConfigured, customErr.ClientMessage)
}

func TestCreateDefaultScheduleSeeds(t *testing.T) {
	f := newFixture()
	location := locationWithSchedule("loc-1", nil)
	location.Status = constvars.LocationStatusInactive
	f.fhir.resources["Location/loc-1"] = location

	response, err := f.usecase.CreateDefaultSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	assert.Len(t, response.Schedule, 7)
	assert.Equal(t, 8, response.Schedule[models.Monday].Open)
	assert.Equal(t, 15, response.Schedule[models.Monday].Close)

	assert.Len(t, f.fhir.patches, 1)
	paths := make([]string, 0, len(f.fhir.patches[0]))
	for _, op := range f.fhir.patches[0] {
		paths = append(paths, op.Path)
	}
	assert.Contains(t, paths, constvars.FhirPathExtension)
	assert.Contains(t, paths, constvars.FhirPathStatus)
	assert.Contains(t, paths, constvars.FhirPathHoursOfOperation)

	assert.Equal(t, constvars.LocationStatusActive, location.Status)

	timezone := location.FindExtension(constvars.ExtensionURLTimezone)
	assert.NotNil(t, timezone, "seed should write the default timezone extension")
	assert.Equal(t, constvars.DefaultTimezone, timezone.ValueString)

	hoursOps := location.HoursOfOperation
	assert.Len(t, hoursOps, 7)
	assert.Equal(t, "08:00:00", hoursOps[0].OpeningTime)
	assert.Equal(t, "15:00:00", hoursOps[0].ClosingTime)

	assert.Len(t, f.audits.inserted, 1)
	assert.Equal(t, constvars.ScheduleAuditActionSeed, f.audits.inserted[0].Action)
	assert.Len(t, f.publisher.published, 1)
	assert.Equal(t, constvars.ScheduleAuditActionSeed, f.publisher.published[0].Action)
}

func TestCreateDefaultScheduleActivatesPractitioner(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Practitioner/pr-1"] = &fhir_dto.SchedulableResource{
		ResourceType: constvars.ResourcePractitioner,
		ID:           "pr-1",
		Name:         json.RawMessage(`[{"family":"Nguyen","given":["An"]}]`),
	}

	_, err := f.usecase.CreateDefaultSchedule(context.Background(), constvars.ScheduleTypeProvider, "pr-1")
	assert.NoError(t, err)

	practitioner := f.fhir.resources["Practitioner/pr-1"]
	assert.True(t, practitioner.IsActive())
	assert.NotNil(t, practitioner.FindExtension(constvars.ExtensionURLTimezone))
	assert.Empty(t, practitioner.HoursOfOperation, "hoursOfOperation is Location-only")
}

func TestCreateDefaultScheduleKeepsExistingTimezone(t *testing.T) {
	f := newFixture()
	location := locationWithSchedule("loc-1", nil)
	location.Extension = []fhir_dto.Extension{
		{Url: constvars.ExtensionURLTimezone, ValueString: "America/Chicago"},
	}
	f.fhir.resources["Location/loc-1"] = location

	_, err := f.usecase.CreateDefaultSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)

	timezones := 0
	for _, ext := range location.Extension {
		if ext.Url == constvars.ExtensionURLTimezone {
			timezones++
			assert.Equal(t, "America/Chicago", ext.ValueString)
		}
	}
	assert.Equal(t, 1, timezones)
}

func TestCreateDefaultScheduleConflict(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

	_, err := f.usecase.CreateDefaultSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	customErr := asCustomError(t, err)
	assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	assert.Empty(t, f.fhir.patches)
}

func TestSaveScheduleReplacesBlobAndInvalidatesCache(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

	// populate the cache
	_, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	cacheKey := fmt.Sprintf(constvars.RedisKeyScheduleExtensionFormat, constvars.ResourceLocation, "loc-1")
	assert.NotEmpty(t, f.redis.store[cacheKey])

	request := &requests.SaveScheduleRequest{
		Schedule: map[models.Weekday]models.DaySchedule{
			models.Monday: {Open: 9, Close: 18, WorkingDay: true, Hours: models.HoursInRange(9, 18, 4)},
		},
	}
	err = f.usecase.SaveSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
	assert.NoError(t, err)

	assert.Empty(t, f.redis.store[cacheKey], "save should drop the cached blob")
	assert.Len(t, f.audits.inserted, 1)
	assert.Equal(t, constvars.ScheduleAuditActionSave, f.audits.inserted[0].Action)

	refreshed, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	assert.Len(t, refreshed.Schedule, 1)
	assert.Equal(t, 9, refreshed.Schedule[models.Monday].Open)
}

func TestSaveScheduleRejectsMissingSchedule(t *testing.T) {
	f := newFixture()
	err := f.usecase.SaveSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1", &requests.SaveScheduleRequest{})
	customErr := asCustomError(t, err)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
}

func TestSaveScheduleRejectsBadClosures(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

	request := &requests.SaveScheduleRequest{
		Schedule: models.DefaultScheduleExtension().Schedule,
		Closures: []models.Closure{
			{Start: "1/15/2025", Type: models.ClosureOneDay},
			{Start: "1/15/2025", Type: models.ClosureOneDay},
		},
	}
	err := f.usecase.SaveSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
	customErr := asCustomError(t, err)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Equal(t, constvars.ErrClientClosureDuplicateStart, customErr.ClientMessage)
	assert.Equal(t, []string{constvars.ErrClientClosureDuplicateStart}, customErr.Violations)
	assert.Empty(t, f.fhir.patches)
}

func TestAddOverride(t *testing.T) {
	t.Run("explicit window", func(t *testing.T) {
		f := newFixture()
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

		request := &requests.AddOverrideRequest{Date: "1/15/2025", Open: 10, Close: 12}
		err := f.usecase.AddOverride(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		assert.NoError(t, err)

		response, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
		assert.NoError(t, err)
		override, ok := response.Overrides["1/15/2025"]
		assert.True(t, ok)
		assert.Equal(t, 10, override.Open)
		assert.Equal(t, 12, override.Close)
		assert.Len(t, override.Hours, 2)
		assert.Equal(t, models.DefaultHourCapacity, override.Hours[0].Capacity)

		assert.Len(t, f.audits.inserted, 1)
		assert.Equal(t, constvars.ScheduleAuditActionAddOverride, f.audits.inserted[0].Action)
	})

	t.Run("stock window when none given", func(t *testing.T) {
		f := newFixture()
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

		request := &requests.AddOverrideRequest{Date: "1/15/2025"}
		err := f.usecase.AddOverride(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		assert.NoError(t, err)

		response, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
		assert.NoError(t, err)
		override := response.Overrides["1/15/2025"]
		assert.Equal(t, defaultOverrideOpen, override.Open)
		assert.Equal(t, defaultOverrideClose, override.Close)
		assert.Len(t, override.Hours, 9)
	})

	t.Run("duplicate date rejected", func(t *testing.T) {
		f := newFixture()
		ext := models.DefaultScheduleExtension()
		ext.ScheduleOverrides["1/15/2025"] = models.Override{Open: 9, Close: 13}
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", ext)

		request := &requests.AddOverrideRequest{Date: "1/15/2025", Open: 10, Close: 12}
		err := f.usecase.AddOverride(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		customErr := asCustomError(t, err)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Equal(t, constvars.ErrClientOverrideDuplicate, customErr.ClientMessage)
		assert.Empty(t, f.fhir.patches)
	})

	t.Run("bad date format rejected", func(t *testing.T) {
		f := newFixture()
		request := &requests.AddOverrideRequest{Date: "2025-01-15", Open: 10, Close: 12}
		err := f.usecase.AddOverride(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		customErr := asCustomError(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestAddClosure(t *testing.T) {
	t.Run("one-day closure stored without end", func(t *testing.T) {
		f := newFixture()
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

		request := &requests.AddClosureRequest{Start: "1/15/2025", End: "1/20/2025", Type: "one-day"}
		err := f.usecase.AddClosure(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		assert.NoError(t, err)

		response, err := f.usecase.GetSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
		assert.NoError(t, err)
		assert.Len(t, response.Closures, 1)
		assert.Equal(t, "1/15/2025", response.Closures[0].Start)
		assert.Empty(t, response.Closures[0].End)
		assert.Equal(t, models.ClosureOneDay, response.Closures[0].Type)
	})

	t.Run("duplicate start rejected with verbatim violation", func(t *testing.T) {
		f := newFixture()
		ext := models.DefaultScheduleExtension()
		ext.Closures = []models.Closure{{Start: "1/15/2025", Type: models.ClosureOneDay}}
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", ext)

		request := &requests.AddClosureRequest{Start: "1/15/2025", Type: "one-day"}
		err := f.usecase.AddClosure(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		customErr := asCustomError(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, constvars.ErrClientClosureDuplicateStart, customErr.ClientMessage)
	})

	t.Run("period without end rejected", func(t *testing.T) {
		f := newFixture()
		f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())

		request := &requests.AddClosureRequest{Start: "1/15/2025", Type: "period"}
		err := f.usecase.AddClosure(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request)
		customErr := asCustomError(t, err)
		assert.Equal(t, constvars.ErrClientClosureMissingEnd, customErr.ClientMessage)
	})
}

func TestGetDayAvailability(t *testing.T) {
	ext := models.DefaultScheduleExtension()
	ext.ScheduleOverrides["1/7/2025"] = models.Override{Open: 10, Close: 14, Hours: models.HoursInRange(10, 14, 5)}
	ext.Closures = []models.Closure{{Start: "1/8/2025", Type: models.ClosureOneDay}}

	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", ext)

	t.Run("weekly day", func(t *testing.T) {
		response, err := f.usecase.GetDayAvailability(context.Background(), constvars.ScheduleTypeOffice, "loc-1", "1/6/2025")
		assert.NoError(t, err)
		assert.False(t, response.Closed)
		assert.Equal(t, SourceWeekly, response.Source)
		assert.Equal(t, models.Monday, response.Weekday)
		assert.Equal(t, "8:00 AM", response.OpenDisplay)
		assert.Equal(t, "3:00 PM", response.CloseDisplay)
	})

	t.Run("override day", func(t *testing.T) {
		response, err := f.usecase.GetDayAvailability(context.Background(), constvars.ScheduleTypeOffice, "loc-1", "1/7/2025")
		assert.NoError(t, err)
		assert.Equal(t, SourceOverride, response.Source)
		assert.Equal(t, 10, response.Open)
		assert.Len(t, response.Hours, 4)
	})

	t.Run("closed day", func(t *testing.T) {
		response, err := f.usecase.GetDayAvailability(context.Background(), constvars.ScheduleTypeOffice, "loc-1", "1/8/2025")
		assert.NoError(t, err)
		assert.True(t, response.Closed)
		assert.Equal(t, SourceClosure, response.Source)
		assert.Empty(t, response.OpenDisplay)
	})

	t.Run("empty date defaults to today", func(t *testing.T) {
		response, err := f.usecase.GetDayAvailability(context.Background(), constvars.ScheduleTypeOffice, "loc-1", "")
		assert.NoError(t, err)
		assert.NotEmpty(t, response.Date)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := f.usecase.GetDayAvailability(context.Background(), constvars.ScheduleTypeOffice, "loc-1", "2025-01-06")
		customErr := asCustomError(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestGetAuditTrail(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", nil)

	_, err := f.usecase.CreateDefaultSchedule(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)

	request := &requests.AddOverrideRequest{Date: "1/15/2025", Open: 10, Close: 12}
	assert.NoError(t, f.usecase.AddOverride(context.Background(), constvars.ScheduleTypeOffice, "loc-1", request))

	entries, err := f.usecase.GetAuditTrail(context.Background(), constvars.ScheduleTypeOffice, "loc-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, constvars.ScheduleAuditActionAddOverride, entries[0].Action)
	assert.Equal(t, constvars.ScheduleAuditActionSeed, entries[1].Action)
	assert.NotEmpty(t, entries[0].OccurredAt)
}

func TestListScheduleRows(t *testing.T) {
	f := newFixture()
	f.fhir.resources["Location/loc-1"] = locationWithSchedule("loc-1", models.DefaultScheduleExtension())
	f.fhir.resources["Location/loc-2"] = locationWithSchedule("loc-2", nil)

	f.fhir.resources["Location/loc-2"].Name = json.RawMessage(`"Airport Clinic"`)

	rows, err := f.usecase.ListScheduleRows(context.Background(), constvars.ScheduleTypeOffice)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	// rows come back sorted by display name
	bare := rows[0]
	assert.Equal(t, "Airport Clinic", bare.Name)
	assert.Equal(t, "loc-2", bare.ResourceID)
	assert.Equal(t, constvars.ResponseNoScheduledHours, bare.TodaysHours)
	assert.Equal(t, constvars.ResponseNoneScheduled, bare.UpcomingChanges)

	configured := rows[1]
	assert.Equal(t, "Downtown Office", configured.Name)
	assert.Equal(t, "loc-1", configured.ResourceID)
	assert.True(t, configured.Active)
	assert.Equal(t, "8:00 AM - 3:00 PM", configured.TodaysHours)
	assert.Equal(t, constvars.ResponseNoneScheduled, configured.UpcomingChanges)
}
