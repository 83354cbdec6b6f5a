package dto

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// CreateLeadRequest is the public intake payload.
type CreateLeadRequest struct {
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	PhoneNumber        string  `json:"phone_number"`
	EmailAddress       string  `json:"email_address"`
	PropertyAddress    string  `json:"property_address"`
	City               string  `json:"city"`
	State              string  `json:"state"`
	ZipCode            string  `json:"zip_code"`
	IsHomeOwner        bool    `json:"is_home_owner"`
	PropertyValue      float64 `json:"property_value"`
	HasRealtorContract bool    `json:"has_realtor_contract"`
}

// UpdateLeadRequest is the admin allow-list edit payload.
type UpdateLeadRequest struct {
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	PhoneNumber        string            `json:"phone_number"`
	EmailAddress       string            `json:"email_address"`
	PropertyAddress    string            `json:"property_address"`
	City               string            `json:"city"`
	State              string            `json:"state"`
	ZipCode            string            `json:"zip_code"`
	IsHomeOwner        bool              `json:"is_home_owner"`
	PropertyValue      float64           `json:"property_value"`
	HasRealtorContract bool              `json:"has_realtor_contract"`
	Status             domain.LeadStatus `json:"status"`
}

// UpdateLeadStatusRequest payload.
type UpdateLeadStatusRequest struct {
	Status domain.LeadStatus `json:"status"`
}

// UpdateLeadRecordingRequest payload. An empty recording clears the field.
type UpdateLeadRecordingRequest struct {
	Recording string `json:"recording"`
}

// ReviewLeadRequest is the combined QA edit payload.
type ReviewLeadRequest struct {
	Status    domain.LeadStatus `json:"status"`
	Recording string            `json:"recording"`
}

// LeadResponse is the full lead representation.
type LeadResponse struct {
	ID                 string            `json:"id"`
	LeadRef            string            `json:"lead_ref"`
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	PhoneNumber        string            `json:"phone_number"`
	EmailAddress       string            `json:"email_address"`
	PropertyAddress    string            `json:"property_address"`
	City               string            `json:"city"`
	State              string            `json:"state"`
	ZipCode            string            `json:"zip_code"`
	IsHomeOwner        bool              `json:"is_home_owner"`
	PropertyValue      float64           `json:"property_value"`
	HasRealtorContract bool              `json:"has_realtor_contract"`
	Status             domain.LeadStatus `json:"status"`
	Recording          *string           `json:"recording,omitempty"`
	SubmissionDate     time.Time         `json:"submission_date"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewLeadResponse maps a domain lead.
func NewLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:                 lead.ID,
		LeadRef:            lead.LeadRef,
		FirstName:          lead.FirstName,
		LastName:           lead.LastName,
		PhoneNumber:        lead.PhoneNumber,
		EmailAddress:       lead.EmailAddress,
		PropertyAddress:    lead.PropertyAddress,
		City:               lead.City,
		State:              lead.State,
		ZipCode:            lead.ZipCode,
		IsHomeOwner:        lead.IsHomeOwner,
		PropertyValue:      lead.PropertyValue,
		HasRealtorContract: lead.HasRealtorContract,
		Status:             lead.Status,
		Recording:          lead.Recording,
		SubmissionDate:     lead.SubmissionDate,
		CreatedAt:          lead.CreatedAt,
		UpdatedAt:          lead.UpdatedAt,
	}
}

// NewLeadResponses maps a slice of domain leads.
func NewLeadResponses(leads []domain.Lead) []LeadResponse {
	result := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		result = append(result, NewLeadResponse(lead))
	}
	return result
}
