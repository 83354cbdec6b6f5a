package dto

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/service"
)

// AssignLeadRequest payload.
type AssignLeadRequest struct {
	LeadID        string `json:"lead_id"`
	RealtorUserID string `json:"realtor_user_id"`
}

// UpdateAssignmentRequest is the realtor follow-up payload; both fields are
// written together.
type UpdateAssignmentRequest struct {
	Status   domain.AssignmentStatus `json:"status"`
	Comments string                  `json:"comments"`
}

// AssignmentResponse is the base assignment representation.
type AssignmentResponse struct {
	ID        string                  `json:"id"`
	LeadID    string                  `json:"lead_id"`
	UserID    string                  `json:"user_id"`
	SentDate  time.Time               `json:"sent_date"`
	Status    domain.AssignmentStatus `json:"status"`
	Comments  string                  `json:"comments"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// NewAssignmentResponse maps a domain assignment.
func NewAssignmentResponse(assignment domain.LeadAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        assignment.ID,
		LeadID:    assignment.LeadID,
		UserID:    assignment.UserID,
		SentDate:  assignment.SentDate,
		Status:    assignment.Status,
		Comments:  assignment.Comments,
		CreatedAt: assignment.CreatedAt,
		UpdatedAt: assignment.UpdatedAt,
	}
}

// AssignmentRecordResponse decorates an assignment with the realtor's name.
type AssignmentRecordResponse struct {
	ID               string                  `json:"id"`
	RealtorFirstName string                  `json:"realtor_first_name"`
	RealtorLastName  string                  `json:"realtor_last_name"`
	SentDate         time.Time               `json:"sent_date"`
	Status           domain.AssignmentStatus `json:"status"`
}

// AcceptedLeadResponse is a lead with its assignment history.
type AcceptedLeadResponse struct {
	Lead        LeadResponse               `json:"lead"`
	Assignments []AssignmentRecordResponse `json:"assignments"`
}

// NewAcceptedLeadResponses maps decorated accepted leads.
func NewAcceptedLeadResponses(items []service.AcceptedLead) []AcceptedLeadResponse {
	result := make([]AcceptedLeadResponse, 0, len(items))
	for _, item := range items {
		records := make([]AssignmentRecordResponse, 0, len(item.Assignments))
		for _, record := range item.Assignments {
			records = append(records, AssignmentRecordResponse{
				ID:               record.ID,
				RealtorFirstName: record.RealtorFirstName,
				RealtorLastName:  record.RealtorLastName,
				SentDate:         record.SentDate,
				Status:           record.Status,
			})
		}
		result = append(result, AcceptedLeadResponse{
			Lead:        NewLeadResponse(item.Lead),
			Assignments: records,
		})
	}
	return result
}

// AssignmentWithLeadResponse joins an assignment with its parent lead.
type AssignmentWithLeadResponse struct {
	AssignmentResponse
	Lead LeadResponse `json:"lead"`
}

// NewAssignmentWithLeadResponses maps a realtor's joined assignments.
func NewAssignmentWithLeadResponses(items []domain.AssignmentWithLead) []AssignmentWithLeadResponse {
	result := make([]AssignmentWithLeadResponse, 0, len(items))
	for _, item := range items {
		result = append(result, AssignmentWithLeadResponse{
			AssignmentResponse: NewAssignmentResponse(item.LeadAssignment),
			Lead:               NewLeadResponse(item.Lead),
		})
	}
	return result
}
