package dto

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// RegisterRealtorRequest is the sales onboarding payload.
type RegisterRealtorRequest struct {
	AgentCode       string `json:"agent_code"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	EmailAddress    string `json:"email_address"`
	Brokerage       string `json:"brokerage"`
	State           string `json:"state"`
	CentralZipCode  string `json:"central_zip_code"`
	Radius          int    `json:"radius"`
	SignUpCategory  string `json:"sign_up_category"`
	TeamMembers     *int   `json:"team_members"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RealtorListingResponse is a profile plus the linked login's activation.
type RealtorListingResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	AgentCode      string    `json:"agent_code"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	EmailAddress   string    `json:"email_address"`
	Brokerage      string    `json:"brokerage"`
	State          string    `json:"state"`
	CentralZipCode string    `json:"central_zip_code"`
	Radius         int       `json:"radius"`
	SignUpCategory string    `json:"sign_up_category"`
	TeamMembers    *int      `json:"team_members"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRealtorListingResponses maps decorated profiles.
func NewRealtorListingResponses(listings []domain.RealtorListing) []RealtorListingResponse {
	result := make([]RealtorListingResponse, 0, len(listings))
	for _, listing := range listings {
		result = append(result, RealtorListingResponse{
			ID:             listing.ID,
			UserID:         listing.UserID,
			AgentCode:      listing.AgentCode,
			FirstName:      listing.FirstName,
			LastName:       listing.LastName,
			PhoneNumber:    listing.PhoneNumber,
			EmailAddress:   listing.EmailAddress,
			Brokerage:      listing.Brokerage,
			State:          listing.State,
			CentralZipCode: listing.CentralZipCode,
			Radius:         listing.Radius,
			SignUpCategory: listing.SignUpCategory,
			TeamMembers:    listing.TeamMembers,
			IsActive:       listing.IsActive,
			CreatedAt:      listing.CreatedAt,
		})
	}
	return result
}

// SetRealtorActiveRequest payload.
type SetRealtorActiveRequest struct {
	IsActive bool `json:"is_active"`
}
