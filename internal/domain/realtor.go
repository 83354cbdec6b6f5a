package domain

import "time"

// RealtorProfile carries the professional details collected at onboarding.
// Login and activation state live on the linked User record.
type RealtorProfile struct {
	ID             string
	UserID         string
	AgentCode      string
	FirstName      string
	LastName       string
	PhoneNumber    string
	EmailAddress   string
	Brokerage      string
	State          string
	CentralZipCode string
	Radius         int
	SignUpCategory string
	TeamMembers    *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RealtorListing is a profile decorated with the linked user's activation flag.
type RealtorListing struct {
	RealtorProfile
	IsActive bool
}
