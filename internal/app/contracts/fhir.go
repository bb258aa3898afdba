package contracts

import (
	"context"
	"telemed-schedule-service/internal/pkg/fhir_dto"
)

// ResourceFhirClient is the generic store adapter: read, search and patch
// any schedulable resource type.
type ResourceFhirClient interface {
	GetResource(ctx context.Context, resourceType, resourceID string) (*fhir_dto.SchedulableResource, error)
	SearchResources(ctx context.Context, resourceType string) ([]fhir_dto.SchedulableResource, error)
	PatchResource(ctx context.Context, resourceType, resourceID string, operations []fhir_dto.PatchOperation) (*fhir_dto.SchedulableResource, error)
}
