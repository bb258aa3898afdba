package resources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/exceptions"
	"telemed-schedule-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type resourceFhirClient struct {
	BaseUrl string
}

func NewResourceFhirClient(baseUrl string) contracts.ResourceFhirClient {
	return &resourceFhirClient{
		BaseUrl: baseUrl,
	}
}

func (c *resourceFhirClient) GetResource(ctx context.Context, resourceType, resourceID string) (*fhir_dto.SchedulableResource, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s/%s", c.BaseUrl, resourceType, resourceID), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(resourceType, resourceID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrGetFHIRResource(c.outcomeError(resp.Body), resourceType)
	}

	resource := new(fhir_dto.SchedulableResource)
	err = json.NewDecoder(resp.Body).Decode(&resource)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}

	return resource, nil
}

func (c *resourceFhirClient) SearchResources(ctx context.Context, resourceType string) ([]fhir_dto.SchedulableResource, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, resourceType), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrSearchFHIRResource(c.outcomeError(resp.Body), resourceType)
	}

	bundle := new(fhir_dto.FHIRBundle)
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}

	resources := make([]fhir_dto.SchedulableResource, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		if len(entry.Resource) == 0 {
			continue
		}
		var resource fhir_dto.SchedulableResource
		if err := json.Unmarshal(entry.Resource, &resource); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, resourceType)
		}
		if resource.ResourceType != resourceType {
			continue
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

func (c *resourceFhirClient) PatchResource(ctx context.Context, resourceType, resourceID string, operations []fhir_dto.PatchOperation) (*fhir_dto.SchedulableResource, error) {
	requestJSON, err := json.Marshal(operations)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPatch, fmt.Sprintf("%s/%s/%s", c.BaseUrl, resourceType, resourceID), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSONPatchJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrFHIRResourceNotFound(resourceType, resourceID)
	}
	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrPatchFHIRResource(c.outcomeError(resp.Body), resourceType)
	}

	resource := new(fhir_dto.SchedulableResource)
	err = json.NewDecoder(resp.Body).Decode(&resource)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}

	return resource, nil
}

// outcomeError extracts the first OperationOutcome diagnostic from an error
// body, falling back to the raw body.
func (c *resourceFhirClient) outcomeError(body io.Reader) error {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		return fmt.Errorf(outcome.Issue[0].Diagnostics)
	}
	return fmt.Errorf(string(bodyBytes))
}
