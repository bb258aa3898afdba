package fhir_dto

import (
	"encoding/json"
	"strings"
)

// SchedulableResource is the subset of Location, Practitioner and
// HealthcareService this service reads and patches. The name and address
// shapes differ per resource type, so both are kept raw and decoded on
// demand.
type SchedulableResource struct {
	ResourceType string          `json:"resourceType"`
	ID           string          `json:"id,omitempty"`
	Meta         *Meta           `json:"meta,omitempty"`
	Status       string          `json:"status,omitempty"`
	Active       *bool           `json:"active,omitempty"`
	Name         json.RawMessage `json:"name,omitempty"`
	Address      json.RawMessage `json:"address,omitempty"`
	Identifier   []Identifier    `json:"identifier,omitempty"`
	Extension    []Extension     `json:"extension,omitempty"`

	HoursOfOperation []HoursOfOperation `json:"hoursOfOperation,omitempty"`
}

// DisplayName resolves the human-readable name: Location and
// HealthcareService carry a plain string, Practitioner a HumanName list.
func (r *SchedulableResource) DisplayName() string {
	if len(r.Name) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(r.Name, &plain); err == nil {
		return plain
	}

	var names []HumanName
	if err := json.Unmarshal(r.Name, &names); err != nil || len(names) == 0 {
		return ""
	}
	return formatHumanName(names[0])
}

// DisplayAddress resolves the first address as a single comma-joined line.
// Location carries one Address, Practitioner a list.
func (r *SchedulableResource) DisplayAddress() string {
	if len(r.Address) == 0 {
		return ""
	}

	var single Address
	if err := json.Unmarshal(r.Address, &single); err == nil {
		return formatAddress(single)
	}

	var many []Address
	if err := json.Unmarshal(r.Address, &many); err != nil || len(many) == 0 {
		return ""
	}
	return formatAddress(many[0])
}

// FindExtension returns the first extension matching url, or nil.
func (r *SchedulableResource) FindExtension(url string) *Extension {
	for i := range r.Extension {
		if r.Extension[i].Url == url {
			return &r.Extension[i]
		}
	}
	return nil
}

// IsActive follows the per-type status convention: Location uses status,
// the others an active flag.
func (r *SchedulableResource) IsActive() bool {
	if r.ResourceType == "Location" {
		return r.Status == "active"
	}
	return r.Active != nil && *r.Active
}

func formatHumanName(name HumanName) string {
	if name.Text != "" {
		return name.Text
	}
	parts := make([]string, 0, len(name.Given)+1)
	parts = append(parts, name.Given...)
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	return strings.Join(parts, " ")
}

func formatAddress(address Address) string {
	parts := make([]string, 0, 4)
	parts = append(parts, address.Line...)
	if address.City != "" {
		parts = append(parts, address.City)
	}
	if address.State != "" {
		parts = append(parts, address.State)
	}
	if address.PostalCode != "" {
		parts = append(parts, address.PostalCode)
	}
	return strings.Join(parts, ", ")
}
